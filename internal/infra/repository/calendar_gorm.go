package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/staff-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/staff-scheduler/internal/httperr"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
	"github.com/BruksfildServices01/staff-scheduler/internal/timezone"
)

// date columns are compared as plain YYYY-MM-DD so the session timezone
// never shifts a civil date
func dateParam(t time.Time) string {
	return t.Format(timezone.DateLayout)
}

// --------------------------------------------------
// Availability inputs
// --------------------------------------------------

func (r *GormRepository) GetCalendarConfig(
	ctx context.Context,
	staffID uint,
) (*models.CalendarConfig, error) {

	var cfg models.CalendarConfig
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &cfg, nil
}

func (r *GormRepository) GetOverride(
	ctx context.Context,
	staffID uint,
	date time.Time,
) (*models.AvailabilityOverride, error) {

	var o models.AvailabilityOverride
	err := r.db.WithContext(ctx).
		Where("staff_id = ? AND date = ?", staffID, dateParam(date)).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *GormRepository) ListHolidays(
	ctx context.Context,
	businessID uint,
	staffID uint,
	date time.Time,
) ([]models.Holiday, error) {

	var out []models.Holiday
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND (staff_id IS NULL OR staff_id = ?)", businessID, staffID).
		Where(
			"date = ? OR (recurring_yearly AND EXTRACT(MONTH FROM date) = ? AND EXTRACT(DAY FROM date) = ?)",
			dateParam(date), int(date.Month()), date.Day(),
		).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// --------------------------------------------------
// Administration
// --------------------------------------------------

func (r *GormRepository) SaveCalendarConfig(
	ctx context.Context,
	cfg *models.CalendarConfig,
) error {
	return translate(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "staff_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"default_start_time", "default_end_time", "working_days",
				"lunch_break_start", "lunch_break_end",
				"buffer_minutes", "max_advance_days", "updated_at",
			}),
		}).
		Create(cfg).Error)
}

func (r *GormRepository) PutOverride(
	ctx context.Context,
	o *models.AvailabilityOverride,
) error {
	return translate(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "staff_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"is_unavailable", "start_time", "end_time", "reason", "updated_at",
			}),
		}).
		Create(o).Error)
}

func (r *GormRepository) DeleteOverride(
	ctx context.Context,
	staffID uint,
	date time.Time,
) error {
	res := r.db.WithContext(ctx).
		Where("staff_id = ? AND date = ?", staffID, dateParam(date)).
		Delete(&models.AvailabilityOverride{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.NotFound("override_not_found")
	}
	return nil
}

func (r *GormRepository) ListOverrides(
	ctx context.Context,
	staffID uint,
	from time.Time,
	to time.Time,
) ([]models.AvailabilityOverride, error) {

	var out []models.AvailabilityOverride
	if err := r.db.WithContext(ctx).
		Where("staff_id = ? AND date BETWEEN ? AND ?", staffID, dateParam(from), dateParam(to)).
		Order("date ASC").
		Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *GormRepository) ListBusinessHolidays(
	ctx context.Context,
	businessID uint,
) ([]models.Holiday, error) {

	var out []models.Holiday
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("date ASC").
		Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *GormRepository) CreateHoliday(
	ctx context.Context,
	h *models.Holiday,
) error {
	return translate(r.db.WithContext(ctx).Create(h).Error)
}

func (r *GormRepository) DeleteHoliday(
	ctx context.Context,
	businessID uint,
	holidayID uint,
) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", holidayID, businessID).
		Delete(&models.Holiday{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.NotFound("holiday_not_found")
	}
	return nil
}

var _ availability.AdminStore = (*GormRepository)(nil)
