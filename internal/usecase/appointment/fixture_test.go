package appointment

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/staff-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/staff-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

const (
	businessID  uint = 1
	jobShort    uint = 10 // 30 minutes
	jobLong     uint = 11 // 60 minutes
	staffAna    uint = 1
	staffBruno  uint = 2
	customerID  uint = 500
	otherClient uint = 501
)

// 2026-03-02 is a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

// the evening before the test Monday
var sundayEvening = monday.Add(-4 * time.Hour)

func at(day time.Time, h, m int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type fixtureOption func(*memory.Seed)

func withBuffer(staffID uint, minutes int) fixtureOption {
	return func(s *memory.Seed) {
		for i := range s.CalendarConfigs {
			if s.CalendarConfigs[i].StaffID == staffID {
				s.CalendarConfigs[i].BufferMinutes = minutes
			}
		}
	}
}

func withLunch(staffID uint, start, end string) fixtureOption {
	return func(s *memory.Seed) {
		for i := range s.CalendarConfigs {
			if s.CalendarConfigs[i].StaffID == staffID {
				s.CalendarConfigs[i].LunchBreakStart = start
				s.CalendarConfigs[i].LunchBreakEnd = end
			}
		}
	}
}

func withHours(staffID uint, start, end string, days calendar.WeekdaySet) fixtureOption {
	return func(s *memory.Seed) {
		for i := range s.CalendarConfigs {
			if s.CalendarConfigs[i].StaffID == staffID {
				s.CalendarConfigs[i].DefaultStartTime = start
				s.CalendarConfigs[i].DefaultEndTime = end
				s.CalendarConfigs[i].WorkingDays = days
			}
		}
	}
}

func withMinAdvance(minutes int) fixtureOption {
	return func(s *memory.Seed) { s.Businesses[0].MinAdvanceMinutes = minutes }
}

// newFixture builds a business with two staff members working Mon-Fri
// 09:00-17:00 in UTC. Ana does both job types, Bruno only the short one.
func newFixture(t *testing.T, opts ...fixtureOption) *memory.Store {
	t.Helper()

	seed := memory.Seed{
		Businesses: []models.Business{
			{ID: businessID, Name: "Studio", Slug: "studio", Timezone: "UTC"},
		},
		JobTypes: []models.JobType{
			{ID: jobShort, BusinessID: businessID, Name: "Consultation", DurationMinutes: 30, Active: true},
			{ID: jobLong, BusinessID: businessID, Name: "Session", DurationMinutes: 60, Active: true},
		},
		Staff: []memory.SeedStaff{
			{StaffMember: models.StaffMember{ID: staffAna, BusinessID: businessID, Name: "Ana", Email: "ana@studio.test", Role: models.RoleStaff, Active: true}, JobTypeIDs: []uint{jobShort, jobLong}},
			{StaffMember: models.StaffMember{ID: staffBruno, BusinessID: businessID, Name: "Bruno", Email: "bruno@studio.test", Role: models.RoleStaff, Active: true}, JobTypeIDs: []uint{jobShort}},
		},
		Customers: []models.Customer{
			{ID: customerID, BusinessID: businessID, Name: "Carla"},
			{ID: otherClient, BusinessID: businessID, Name: "Davi"},
		},
		CalendarConfigs: []models.CalendarConfig{
			{ID: 100, StaffID: staffAna, DefaultStartTime: "09:00", DefaultEndTime: "17:00", WorkingDays: calendar.MondayToFriday, MaxAdvanceDays: 30},
			{ID: 101, StaffID: staffBruno, DefaultStartTime: "09:00", DefaultEndTime: "17:00", WorkingDays: calendar.MondayToFriday, MaxAdvanceDays: 30},
		},
	}
	for _, opt := range opts {
		opt(&seed)
	}

	store := memory.New()
	if err := store.Load(seed); err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return store
}

func newFinder(store *memory.Store, now time.Time) *FindOpenings {
	uc := NewFindOpenings(store, 0, 0)
	uc.now = fixedClock(now)
	return uc
}

func newBooker(store *memory.Store, now time.Time) *BookAppointment {
	uc := NewBookAppointment(store, nil, time.Second)
	uc.now = fixedClock(now)
	return uc
}

func startTimes(openings []Opening) []string {
	out := make([]string, len(openings))
	for i, o := range openings {
		out[i] = o.Start.Format("15:04")
	}
	return out
}
