package appointment

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/BruksfildServices01/staff-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/staff-scheduler/internal/httperr"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

func mondayOnly(staff ...uint) FindOpeningsInput {
	return FindOpeningsInput{
		BusinessID: businessID,
		StaffIDs:   staff,
		JobTypeID:  jobShort,
		DateFrom:   monday,
		DateTo:     monday,
		Limit:      100,
	}
}

func TestFindOpenings_FullMonday(t *testing.T) {
	store := newFixture(t)
	got, err := newFinder(store, sundayEvening).Execute(context.Background(), mondayOnly(staffAna))
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	if len(got) != 16 {
		t.Fatalf("expected 16 slots, got %d: %v", len(got), startTimes(got))
	}
	if got[0].Start.Format("15:04") != "09:00" || got[15].Start.Format("15:04") != "16:30" {
		t.Fatalf("unexpected bounds %v", startTimes(got))
	}
	for i, o := range got {
		if o.End.Sub(o.Start) != 30*time.Minute {
			t.Fatalf("slot %d has duration %s", i, o.End.Sub(o.Start))
		}
		if i > 0 && !o.Start.Equal(got[i-1].End) {
			t.Fatalf("slots are not back to back at %d", i)
		}
	}
}

func TestFindOpenings_UnavailableOverride(t *testing.T) {
	store := newFixture(t)
	err := store.PutOverride(context.Background(), &models.AvailabilityOverride{
		StaffID: staffAna, Date: monday, Unavailable: true, Reason: "training",
	})
	if err != nil {
		t.Fatalf("override: %v", err)
	}

	got, err := newFinder(store, sundayEvening).Execute(context.Background(), mondayOnly(staffAna))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no slots, got %v", startTimes(got))
	}
}

func TestFindOpenings_HolidayBeatsOverride(t *testing.T) {
	store := newFixture(t)
	ctx := context.Background()
	if err := store.PutOverride(ctx, &models.AvailabilityOverride{
		StaffID: staffAna, Date: monday, StartTime: "07:00", EndTime: "20:00",
	}); err != nil {
		t.Fatalf("override: %v", err)
	}
	if err := store.CreateHoliday(ctx, &models.Holiday{BusinessID: businessID, Date: monday, Name: "Carnival"}); err != nil {
		t.Fatalf("holiday: %v", err)
	}

	got, err := newFinder(store, sundayEvening).Execute(ctx, mondayOnly(staffAna))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("holiday must close the day, got %v", startTimes(got))
	}
}

func TestFindOpenings_BoundarySlot(t *testing.T) {
	store := newFixture(t)
	in := mondayOnly(staffAna)
	in.JobTypeID = jobLong

	got, err := newFinder(store, sundayEvening).Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	starts := startTimes(got)
	has := func(v string) bool {
		for _, s := range starts {
			if s == v {
				return true
			}
		}
		return false
	}
	if !has("16:00") {
		t.Fatalf("16:00 must be offered: %v", starts)
	}
	if has("16:30") {
		t.Fatalf("16:30 must not be offered: %v", starts)
	}
}

func TestFindOpenings_BufferAfterAppointment(t *testing.T) {
	store := newFixture(t, withBuffer(staffAna, 15))
	ctx := context.Background()

	if _, err := newBooker(store, sundayEvening).Execute(ctx, BookInput{
		BusinessID: businessID, StaffID: staffAna, JobTypeID: jobLong,
		CustomerID: customerID, StartAt: at(monday, 9, 0),
	}); err != nil {
		t.Fatalf("book: %v", err)
	}

	got, err := newFinder(store, sundayEvening).Execute(ctx, mondayOnly(staffAna))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected openings after the buffer")
	}
	if got[0].Start.Before(at(monday, 10, 15)) {
		t.Fatalf("opening at %s violates the buffer", got[0].Start.Format("15:04"))
	}
	if got[0].Start.Format("15:04") != "10:15" {
		t.Fatalf("first opening should be 10:15, got %s", got[0].Start.Format("15:04"))
	}
}

func TestFindOpenings_TrailingBufferBeforeAppointment(t *testing.T) {
	store := newFixture(t, withBuffer(staffAna, 15))
	ctx := context.Background()

	if _, err := newBooker(store, sundayEvening).Execute(ctx, BookInput{
		BusinessID: businessID, StaffID: staffAna, JobTypeID: jobShort,
		CustomerID: customerID, StartAt: at(monday, 10, 0),
	}); err != nil {
		t.Fatalf("book: %v", err)
	}

	got, err := newFinder(store, sundayEvening).Execute(ctx, mondayOnly(staffAna))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	for _, o := range got {
		if o.Start.Equal(at(monday, 9, 30)) {
			t.Fatal("09:30 ends at 10:00 and leaves no buffer before the 10:00 booking")
		}
	}

	// every offer must be bookable
	booker := newBooker(store, sundayEvening)
	for _, o := range got[:3] {
		if _, err := booker.Execute(ctx, BookInput{
			BusinessID: businessID, StaffID: o.StaffID, JobTypeID: jobShort,
			CustomerID: customerID, StartAt: o.Start,
		}); err != nil && !errors.Is(err, httperr.ErrSlotTaken) {
			t.Fatalf("offered slot %s rejected: %v", o.Start.Format("15:04"), err)
		}
	}
}

func TestFindOpenings_LunchBreak(t *testing.T) {
	store := newFixture(t, withLunch(staffAna, "12:00", "13:00"))
	got, err := newFinder(store, sundayEvening).Execute(context.Background(), mondayOnly(staffAna))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 14 {
		t.Fatalf("expected 14 slots around lunch, got %d", len(got))
	}
	for _, o := range got {
		if o.Start.Before(at(monday, 13, 0)) && o.End.After(at(monday, 12, 0)) {
			t.Fatalf("slot %s overlaps lunch", o.Start.Format("15:04"))
		}
	}
}

func TestFindOpenings_IdempotentRead(t *testing.T) {
	store := newFixture(t)
	finder := newFinder(store, sundayEvening)
	in := mondayOnly()
	in.DateTo = monday.AddDate(0, 0, 4)

	first, err := finder.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := finder.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("two reads without writes differ")
	}
}

func TestFindOpenings_OrderAndLimit(t *testing.T) {
	store := newFixture(t)
	in := mondayOnly()
	in.Limit = 5

	got, err := newFinder(store, sundayEvening).Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected limit of 5, got %d", len(got))
	}
	want := []struct {
		staff uint
		start string
	}{
		{staffAna, "09:00"}, {staffBruno, "09:00"},
		{staffAna, "09:30"}, {staffBruno, "09:30"},
		{staffAna, "10:00"},
	}
	for i, w := range want {
		if got[i].StaffID != w.staff || got[i].Start.Format("15:04") != w.start {
			t.Fatalf("position %d: got staff %d at %s, want staff %d at %s",
				i, got[i].StaffID, got[i].Start.Format("15:04"), w.staff, w.start)
		}
	}
}

func TestFindOpenings_SkipsPastAndNotice(t *testing.T) {
	store := newFixture(t, withMinAdvance(60))
	now := at(monday, 10, 5)

	got, err := newFinder(store, now).Execute(context.Background(), mondayOnly(staffAna))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) == 0 || got[0].Start.Format("15:04") != "11:30" {
		t.Fatalf("expected first opening at 11:30, got %v", startTimes(got))
	}
}

func TestFindOpenings_Horizon(t *testing.T) {
	store := newFixture(t)
	in := mondayOnly(staffAna)
	in.DateFrom = monday.AddDate(0, 0, 28)
	in.DateTo = monday.AddDate(0, 0, 45)

	got, err := newFinder(store, sundayEvening).Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	horizon := sundayEvening.AddDate(0, 0, 31)
	for _, o := range got {
		if o.Start.After(horizon) {
			t.Fatalf("opening %s beyond the 30 day horizon", o.Start)
		}
	}
	if len(got) == 0 {
		t.Fatal("expected openings up to the horizon")
	}

	in.DateFrom = monday.AddDate(0, 0, 40)
	got, err = newFinder(store, sundayEvening).Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("range past the horizon is not an error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty, got %d", len(got))
	}
}

func TestFindOpenings_NoQualifiedStaff(t *testing.T) {
	store := newFixture(t)
	in := mondayOnly(staffBruno)
	in.JobTypeID = jobLong

	_, err := newFinder(store, sundayEvening).Execute(context.Background(), in)
	if !errors.Is(err, httperr.ErrNoQualifiedStaff) {
		t.Fatalf("expected ErrNoQualifiedStaff, got %v", err)
	}
}

func TestFindOpenings_Validation(t *testing.T) {
	store := newFixture(t)
	finder := newFinder(store, sundayEvening)

	cases := map[string]func(*FindOpeningsInput){
		"inverted range":    func(in *FindOpeningsInput) { in.DateTo = monday.AddDate(0, 0, -1) },
		"range too long":    func(in *FindOpeningsInput) { in.DateTo = monday.AddDate(0, 0, 90) },
		"negative duration": func(in *FindOpeningsInput) { in.DurationMinutes = -30 },
		"unknown job type":  func(in *FindOpeningsInput) { in.JobTypeID = 999 },
		"missing date":      func(in *FindOpeningsInput) { in.DateFrom = time.Time{} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := mondayOnly(staffAna)
			mutate(&in)
			if _, err := finder.Execute(context.Background(), in); !errors.Is(err, httperr.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestFindOpenings_DurationOverride(t *testing.T) {
	store := newFixture(t)
	in := mondayOnly(staffAna)
	in.DurationMinutes = 120

	got, err := newFinder(store, sundayEvening).Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 two-hour slots, got %v", startTimes(got))
	}
}

func TestFindOpenings_BufferAcrossMidnight(t *testing.T) {
	store := newFixture(t,
		withHours(staffAna, "00:00", "24:00", calendar.AllWeek),
		withBuffer(staffAna, 15),
	)
	ctx := context.Background()
	tuesday := monday.AddDate(0, 0, 1)

	if _, err := newBooker(store, sundayEvening).Execute(ctx, bookAt(tuesday, staffAna, jobShort)); err != nil {
		t.Fatalf("book tuesday midnight: %v", err)
	}

	got, err := newFinder(store, sundayEvening).Execute(ctx, mondayOnly(staffAna))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected monday openings")
	}
	last := got[len(got)-1]
	if last.Start.Format("15:04") != "23:00" {
		t.Fatalf("last opening %s, want 23:00", last.Start.Format("15:04"))
	}

	// every offered slot near midnight must be bookable
	if _, err := newBooker(store, sundayEvening).Execute(ctx, bookAt(last.Start, staffAna, jobShort)); err != nil {
		t.Fatalf("book last offer: %v", err)
	}

	_, err = newBooker(store, sundayEvening).Execute(ctx, bookAt(at(monday, 23, 30), staffAna, jobShort))
	if !errors.Is(err, httperr.ErrSlotTaken) {
		t.Fatalf("expected slot taken at 23:30, got %v", err)
	}
}
