package repository

import (
	"context"

	"github.com/BruksfildServices01/staff-scheduler/internal/audit"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

func (r *GormRepository) CreateAuditLog(ctx context.Context, l *models.AuditLog) error {
	return translate(r.db.WithContext(ctx).Create(l).Error)
}

func (r *GormRepository) ListAuditLogs(
	ctx context.Context,
	f audit.Filter,
) ([]models.AuditLog, int64, error) {

	// always scoped to the business
	q := r.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("business_id = ?", f.BusinessID)

	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&logs).Error; err != nil {
		return nil, 0, translate(err)
	}
	return logs, total, nil
}

var _ audit.Store = (*GormRepository)(nil)
