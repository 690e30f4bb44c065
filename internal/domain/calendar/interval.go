package calendar

import (
	"sort"
	"time"
)

// Granularity is the shortest interval the engine keeps after subtraction.
const Granularity = time.Minute

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i Interval) Valid() bool {
	return i.End.After(i.Start)
}

// Overlaps uses half-open semantics: touching intervals do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

func (i Interval) Contains(o Interval) bool {
	return !o.Start.Before(i.Start) && !o.End.After(i.End)
}

func (i Interval) Extend(before, after time.Duration) Interval {
	return Interval{Start: i.Start.Add(-before), End: i.End.Add(after)}
}

// Subtract removes cut from i, returning zero, one or two pieces.
func (i Interval) Subtract(cut Interval) []Interval {
	if !i.Overlaps(cut) {
		return []Interval{i}
	}
	var out []Interval
	if cut.Start.After(i.Start) {
		out = append(out, Interval{Start: i.Start, End: cut.Start})
	}
	if cut.End.Before(i.End) {
		out = append(out, Interval{Start: cut.End, End: i.End})
	}
	return out
}

// SubtractAll removes every cut from every interval in base. The result is
// ordered by start time.
func SubtractAll(base []Interval, cuts []Interval) []Interval {
	out := append([]Interval(nil), base...)
	for _, c := range cuts {
		next := make([]Interval, 0, len(out)+1)
		for _, iv := range out {
			next = append(next, iv.Subtract(c)...)
		}
		out = next
	}
	Sort(out)
	return out
}

// DropShorterThan removes intervals shorter than min.
func DropShorterThan(ivs []Interval, min time.Duration) []Interval {
	out := ivs[:0:0]
	for _, iv := range ivs {
		if iv.Duration() >= min {
			out = append(out, iv)
		}
	}
	return out
}

func Sort(ivs []Interval) {
	sort.Slice(ivs, func(a, b int) bool {
		return ivs[a].Start.Before(ivs[b].Start)
	})
}

// Slots slices iv into back-to-back pieces of length d, starting at iv.Start.
// A trailing remainder shorter than d is not returned.
func Slots(iv Interval, d time.Duration) []Interval {
	if d <= 0 {
		return nil
	}
	var out []Interval
	for t := iv.Start; !t.Add(d).After(iv.End); t = t.Add(d) {
		out = append(out, Interval{Start: t, End: t.Add(d)})
	}
	return out
}
