package availability

import (
	"context"
	"time"

	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

// AdminStore persists the calendar inputs edited by staff and owners.
type AdminStore interface {
	// SaveCalendarConfig inserts or replaces the config of cfg.StaffID.
	SaveCalendarConfig(
		ctx context.Context,
		cfg *models.CalendarConfig,
	) error

	// PutOverride inserts or replaces the override for (StaffID, Date).
	PutOverride(
		ctx context.Context,
		o *models.AvailabilityOverride,
	) error

	DeleteOverride(
		ctx context.Context,
		staffID uint,
		date time.Time,
	) error

	ListOverrides(
		ctx context.Context,
		staffID uint,
		from time.Time,
		to time.Time,
	) ([]models.AvailabilityOverride, error)

	ListBusinessHolidays(
		ctx context.Context,
		businessID uint,
	) ([]models.Holiday, error)

	CreateHoliday(
		ctx context.Context,
		h *models.Holiday,
	) error

	DeleteHoliday(
		ctx context.Context,
		businessID uint,
		holidayID uint,
	) error
}
