package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/staff-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/staff-scheduler/internal/httperr"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

// staffLockSpace keeps staff advisory locks apart from any other
// advisory lock users of the database.
const staffLockSpace int64 = 0x5354 << 32

const defaultLockTimeout = 2 * time.Second

type GormRepository struct {
	db          *gorm.DB
	lockTimeout time.Duration
	inTx        bool
}

func NewGormRepository(db *gorm.DB, lockTimeout time.Duration) *GormRepository {
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}
	return &GormRepository{db: db, lockTimeout: lockTimeout}
}

func (r *GormRepository) within(tx *gorm.DB) *GormRepository {
	return &GormRepository{db: tx, lockTimeout: r.lockTimeout, inTx: true}
}

// --------------------------------------------------
// Consistency
// --------------------------------------------------

func (r *GormRepository) ReadSnapshot(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	if r.inTx {
		return fn(r)
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.within(tx))
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	return translate(err)
}

// WithStaffLock runs fn in a transaction holding the staff advisory lock.
// The lock is released on commit or rollback.
func (r *GormRepository) WithStaffLock(
	ctx context.Context,
	staffID uint,
	fn func(domain.Repository) error,
) error {
	if r.inTx {
		if err := r.lockStaff(r.db, staffID); err != nil {
			return translate(err)
		}
		return fn(r)
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())).Error; err != nil {
			return err
		}
		if err := r.lockStaff(tx, staffID); err != nil {
			return err
		}
		return fn(r.within(tx))
	})
	return translate(err)
}

func (r *GormRepository) lockStaff(tx *gorm.DB, staffID uint) error {
	key := staffLockSpace | int64(uint32(staffID))
	return tx.Exec("SELECT pg_advisory_xact_lock(?)", key).Error
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *GormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	if ap.Status == "" {
		ap.Status = string(domain.InitialStatus())
	}
	if ap.BlockedUntil.IsZero() {
		ap.BlockedUntil = ap.EndAt
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error)
}

func (r *GormRepository) GetAppointment(
	ctx context.Context,
	businessID uint,
	appointmentID string,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("JobType").
		Where("id = ? AND business_id = ?", appointmentID, businessID).
		First(&ap).Error
	if err != nil {
		return nil, notFound(err, "appointment_not_found")
	}
	return &ap, nil
}

func (r *GormRepository) UpdateAppointmentStatus(
	ctx context.Context,
	ap *models.Appointment,
	from domain.Status,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", ap.ID, string(from)).
		Updates(map[string]any{
			"status":            ap.Status,
			"confirmed_at":      ap.ConfirmedAt,
			"started_at":        ap.StartedAt,
			"completed_at":      ap.CompletedAt,
			"cancelled_at":      ap.CancelledAt,
			"rescheduled_to_id": ap.RescheduledToID,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", ap.ID).
		Count(&count).Error; err != nil {
		return translate(err)
	}
	if count == 0 {
		return httperr.NotFound("appointment_not_found")
	}
	return httperr.Validation("stale_status")
}

func (r *GormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	staffID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("JobType").
		Where(
			"staff_id = ? AND start_at >= ? AND start_at < ?",
			staffID,
			start,
			end,
		).
		Order("start_at ASC").
		Find(&apps).Error

	if err != nil {
		return nil, translate(err)
	}

	return apps, nil
}

func (r *GormRepository) ListBlockingAppointments(
	ctx context.Context,
	staffID uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"staff_id = ? AND status IN ? AND start_at < ? AND end_at > ?",
			staffID, domain.BlockingStatusValues(), to, from,
		).
		Order("start_at ASC").
		Find(&apps).Error; err != nil {
		return nil, translate(err)
	}

	return apps, nil
}

func (r *GormRepository) NextBlockingForCustomer(
	ctx context.Context,
	businessID uint,
	customerID uint,
	after time.Time,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Preload("JobType").
		Where(
			"business_id = ? AND customer_id = ? AND status IN ? AND start_at >= ?",
			businessID, customerID, domain.BlockingStatusValues(), after,
		).
		Order("start_at ASC").
		First(&ap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &ap, nil
}

// Compile-time check
var _ domain.Repository = (*GormRepository)(nil)
