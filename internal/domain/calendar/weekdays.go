package calendar

import (
	"fmt"
	"strings"
	"time"
)

// WeekdaySet is a set of weekdays stored as a 7-bit mask.
// Bit 0 is Monday and bit 6 is Sunday.
type WeekdaySet uint8

const (
	MondayToFriday WeekdaySet = 0b0011111
	AllWeek        WeekdaySet = 0b1111111
)

var weekdayNames = [7]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// bit maps time.Weekday (Sunday = 0) onto the Monday-first bit order.
func bit(d time.Weekday) uint {
	return uint((int(d) + 6) % 7)
}

func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	return s.With(days...)
}

func (s WeekdaySet) With(days ...time.Weekday) WeekdaySet {
	for _, d := range days {
		s |= 1 << bit(d)
	}
	return s
}

func (s WeekdaySet) Has(d time.Weekday) bool {
	return s&(1<<bit(d)) != 0
}

func (s WeekdaySet) Valid() bool {
	return s&^AllWeek == 0
}

func (s WeekdaySet) Empty() bool {
	return s&AllWeek == 0
}

func (s WeekdaySet) String() string {
	var names []string
	for i, n := range weekdayNames {
		if s&(1<<uint(i)) != 0 {
			names = append(names, n)
		}
	}
	return strings.Join(names, ",")
}

// ParseWeekdaySet accepts a comma separated list of three-letter day
// names, e.g. "mon,tue,wed".
func ParseWeekdaySet(v string) (WeekdaySet, error) {
	var s WeekdaySet
	if strings.TrimSpace(v) == "" {
		return s, nil
	}
	for _, part := range strings.Split(v, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		found := false
		for i, n := range weekdayNames {
			if n == name {
				s |= 1 << uint(i)
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown weekday %q", part)
		}
	}
	return s, nil
}
