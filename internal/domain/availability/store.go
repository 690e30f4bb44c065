package availability

import (
	"context"
	"time"

	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

// Store is the read side the resolver needs. Implementations must return
// current state on every call.
type Store interface {
	// GetCalendarConfig returns nil, nil when the staff member has none.
	GetCalendarConfig(
		ctx context.Context,
		staffID uint,
	) (*models.CalendarConfig, error)

	// GetOverride returns nil, nil when no override exists for the date.
	GetOverride(
		ctx context.Context,
		staffID uint,
		date time.Time,
	) (*models.AvailabilityOverride, error)

	// ListHolidays returns business-wide and staff-specific holidays that
	// may fall on date, recurring ones included.
	ListHolidays(
		ctx context.Context,
		businessID uint,
		staffID uint,
		date time.Time,
	) ([]models.Holiday, error)

	// ListBlockingAppointments returns appointments in a blocking status
	// overlapping [from, to), ordered by start.
	ListBlockingAppointments(
		ctx context.Context,
		staffID uint,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)
}
