package calendar

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/staff-scheduler/internal/audit"
	"github.com/BruksfildServices01/staff-scheduler/internal/domain/availability"
	domain "github.com/BruksfildServices01/staff-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/staff-scheduler/internal/httperr"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
	"github.com/BruksfildServices01/staff-scheduler/internal/timezone"
)

// maxOverrideListDays bounds ListOverrides.
const maxOverrideListDays = 366

type Store interface {
	availability.AdminStore

	GetCalendarConfig(
		ctx context.Context,
		staffID uint,
	) (*models.CalendarConfig, error)

	GetStaffMember(
		ctx context.Context,
		businessID uint,
		staffID uint,
	) (*models.StaffMember, error)
}

// Actor identifies who is editing a calendar. Every operation is scoped to
// the actor's business.
type Actor struct {
	BusinessID uint
	StaffID    uint
}

// Admin edits the calendar inputs read by the availability resolver:
// weekly configs, per-date overrides and holidays.
type Admin struct {
	store  Store
	audit  *audit.Dispatcher
	logger *zap.Logger
}

func NewAdmin(store Store, audit *audit.Dispatcher, logger *zap.Logger) *Admin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Admin{store: store, audit: audit, logger: logger}
}

func (a *Admin) GetConfig(
	ctx context.Context,
	actor Actor,
	staffID uint,
) (*models.CalendarConfig, error) {

	if _, err := a.store.GetStaffMember(ctx, actor.BusinessID, staffID); err != nil {
		return nil, err
	}
	cfg, err := a.store.GetCalendarConfig(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, httperr.NotFound("calendar_config_not_found")
	}
	return cfg, nil
}

// SaveConfig validates and replaces the weekly config of cfg.StaffID.
func (a *Admin) SaveConfig(
	ctx context.Context,
	actor Actor,
	cfg *models.CalendarConfig,
) error {

	if _, err := a.store.GetStaffMember(ctx, actor.BusinessID, cfg.StaffID); err != nil {
		return err
	}
	if _, err := availability.ParseConfig(cfg); err != nil {
		return err
	}
	if err := a.store.SaveCalendarConfig(ctx, cfg); err != nil {
		return err
	}

	a.record(actor, "calendar_config_updated", "calendar_config", cfg.StaffID, map[string]any{
		"working_days": cfg.WorkingDays.String(),
		"start":        cfg.DefaultStartTime,
		"end":          cfg.DefaultEndTime,
	})
	return nil
}

// PutOverride inserts or replaces the override of one staff member for
// one date.
func (a *Admin) PutOverride(
	ctx context.Context,
	actor Actor,
	o *models.AvailabilityOverride,
) error {

	if _, err := a.store.GetStaffMember(ctx, actor.BusinessID, o.StaffID); err != nil {
		return err
	}
	if o.Date.IsZero() {
		return httperr.Validation("invalid_date")
	}
	o.Date = domain.CivilDate(o.Date)

	if o.Unavailable {
		if o.StartTime != "" || o.EndTime != "" {
			return a.rejectOverride(o, httperr.InvalidOverride("override_ambiguous"))
		}
	} else if _, _, err := availability.ParseOverride(o); err != nil {
		return a.rejectOverride(o, err)
	}

	if err := a.store.PutOverride(ctx, o); err != nil {
		return err
	}

	a.record(actor, "override_saved", "availability_override", o.StaffID, map[string]any{
		"date":        o.Date.Format(timezone.DateLayout),
		"unavailable": o.Unavailable,
	})
	return nil
}

func (a *Admin) rejectOverride(o *models.AvailabilityOverride, err error) error {
	a.logger.Warn("override rejected",
		zap.Uint("staff_id", o.StaffID),
		zap.Time("date", o.Date),
		zap.String("start", o.StartTime),
		zap.String("end", o.EndTime),
		zap.Error(err),
	)
	return err
}

func (a *Admin) DeleteOverride(
	ctx context.Context,
	actor Actor,
	staffID uint,
	date time.Time,
) error {

	if _, err := a.store.GetStaffMember(ctx, actor.BusinessID, staffID); err != nil {
		return err
	}
	date = domain.CivilDate(date)
	if err := a.store.DeleteOverride(ctx, staffID, date); err != nil {
		return err
	}

	a.record(actor, "override_deleted", "availability_override", staffID, map[string]any{
		"date": date.Format(timezone.DateLayout),
	})
	return nil
}

// ListOverrides returns the overrides of staffID between two civil dates,
// both included.
func (a *Admin) ListOverrides(
	ctx context.Context,
	actor Actor,
	staffID uint,
	from time.Time,
	to time.Time,
) ([]models.AvailabilityOverride, error) {

	if _, err := a.store.GetStaffMember(ctx, actor.BusinessID, staffID); err != nil {
		return nil, err
	}
	from, to = domain.CivilDate(from), domain.CivilDate(to)
	if to.Before(from) {
		return nil, httperr.Validation("invalid_date_range")
	}
	if domain.DaysBetween(from, to) > maxOverrideListDays {
		return nil, httperr.Validation("date_range_too_long")
	}
	return a.store.ListOverrides(ctx, staffID, from, to)
}

func (a *Admin) ListHolidays(
	ctx context.Context,
	actor Actor,
) ([]models.Holiday, error) {
	return a.store.ListBusinessHolidays(ctx, actor.BusinessID)
}

// CreateHoliday adds a business-wide holiday, or a staff one when
// h.StaffID is set.
func (a *Admin) CreateHoliday(
	ctx context.Context,
	actor Actor,
	h *models.Holiday,
) error {

	if h.Date.IsZero() {
		return httperr.Validation("invalid_date")
	}
	if h.StaffID != nil {
		if _, err := a.store.GetStaffMember(ctx, actor.BusinessID, *h.StaffID); err != nil {
			return err
		}
	}
	h.ID = 0
	h.BusinessID = actor.BusinessID
	h.Date = domain.CivilDate(h.Date)

	if err := a.store.CreateHoliday(ctx, h); err != nil {
		return err
	}

	a.record(actor, "holiday_created", "holiday", h.ID, map[string]any{
		"date":      h.Date.Format(timezone.DateLayout),
		"recurring": h.RecurringYearly,
		"name":      h.Name,
	})
	return nil
}

func (a *Admin) DeleteHoliday(
	ctx context.Context,
	actor Actor,
	holidayID uint,
) error {
	if err := a.store.DeleteHoliday(ctx, actor.BusinessID, holidayID); err != nil {
		return err
	}
	a.record(actor, "holiday_deleted", "holiday", holidayID, nil)
	return nil
}

func (a *Admin) record(actor Actor, action, entity string, id uint, meta map[string]any) {
	var staffID *uint
	if actor.StaffID != 0 {
		s := actor.StaffID
		staffID = &s
	}
	a.audit.Dispatch(audit.Event{
		BusinessID: actor.BusinessID,
		StaffID:    staffID,
		Action:     action,
		Entity:     entity,
		EntityID:   strconv.FormatUint(uint64(id), 10),
		Metadata:   meta,
	})
}
