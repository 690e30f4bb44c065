package calendar

import (
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
}

func iv(h1, m1, h2, m2 int) Interval {
	return Interval{Start: at(h1, m1), End: at(h2, m2)}
}

func TestInterval_Overlaps_HalfOpen(t *testing.T) {
	if iv(9, 0, 10, 0).Overlaps(iv(10, 0, 11, 0)) {
		t.Fatal("touching intervals must not overlap")
	}
	if !iv(9, 0, 10, 0).Overlaps(iv(9, 59, 11, 0)) {
		t.Fatal("expected overlap")
	}
}

func TestInterval_Subtract(t *testing.T) {
	cases := []struct {
		name string
		base Interval
		cut  Interval
		want []Interval
	}{
		{"disjoint", iv(9, 0, 12, 0), iv(13, 0, 14, 0), []Interval{iv(9, 0, 12, 0)}},
		{"middle", iv(9, 0, 17, 0), iv(12, 0, 13, 0), []Interval{iv(9, 0, 12, 0), iv(13, 0, 17, 0)}},
		{"head", iv(9, 0, 17, 0), iv(8, 0, 10, 0), []Interval{iv(10, 0, 17, 0)}},
		{"tail", iv(9, 0, 17, 0), iv(16, 0, 18, 0), []Interval{iv(9, 0, 16, 0)}},
		{"all", iv(9, 0, 17, 0), iv(8, 0, 18, 0), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.base.Subtract(tc.cut)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d pieces, want %d", len(got), len(tc.want))
			}
			for i := range got {
				if !got[i].Start.Equal(tc.want[i].Start) || !got[i].End.Equal(tc.want[i].End) {
					t.Fatalf("piece %d: got %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestSubtractAll_Ordered(t *testing.T) {
	got := SubtractAll(
		[]Interval{iv(9, 0, 12, 0), iv(13, 0, 17, 0)},
		[]Interval{iv(15, 0, 15, 30), iv(10, 0, 10, 15)},
	)
	want := []Interval{iv(9, 0, 10, 0), iv(10, 15, 12, 0), iv(13, 0, 15, 0), iv(15, 30, 17, 0)}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if !got[i].Start.Equal(want[i].Start) || !got[i].End.Equal(want[i].End) {
			t.Fatalf("piece %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSlots_BackToBack(t *testing.T) {
	slots := Slots(iv(9, 0, 17, 0), 30*time.Minute)
	if len(slots) != 16 {
		t.Fatalf("expected 16 slots, got %d", len(slots))
	}
	if !slots[15].Start.Equal(at(16, 30)) {
		t.Fatalf("expected last slot 16:30, got %s", slots[15].Start.Format("15:04"))
	}

	hourly := Slots(iv(9, 0, 17, 0), time.Hour)
	last := hourly[len(hourly)-1]
	if !last.Start.Equal(at(16, 0)) || !last.End.Equal(at(17, 0)) {
		t.Fatalf("expected last hourly slot 16:00-17:00, got %v", last)
	}

	if got := Slots(iv(9, 0, 9, 20), 30*time.Minute); len(got) != 0 {
		t.Fatalf("expected no slots in a short interval, got %d", len(got))
	}
}

func TestDropShorterThan(t *testing.T) {
	in := []Interval{{Start: at(9, 0), End: at(9, 0).Add(30 * time.Second)}, iv(10, 0, 10, 1)}
	out := DropShorterThan(in, Granularity)
	if len(out) != 1 || !out[0].Start.Equal(at(10, 0)) {
		t.Fatalf("unexpected result %v", out)
	}
}

func TestClockTime(t *testing.T) {
	c, err := ParseClockTime("09:30")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.String() != "09:30" || c.Hour() != 9 || c.Minute() != 30 {
		t.Fatalf("unexpected clock %v", c)
	}
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Skip("tzdata not available")
	}
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	got := c.On(day)
	if got.Location() != loc || got.Hour() != 9 || got.Minute() != 30 {
		t.Fatalf("unexpected instant %v", got)
	}
	if _, err := ParseClockTime("9h"); err == nil {
		t.Fatal("expected parse error")
	}
	end, err := ParseClockTime("24:00")
	if err != nil || !end.On(day).Equal(day.AddDate(0, 0, 1)) {
		t.Fatalf("24:00 should be next midnight, got %v (%v)", end.On(day), err)
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)
	b := time.Date(2026, 3, 5, 1, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}
