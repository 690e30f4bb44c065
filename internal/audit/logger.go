package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

type Filter struct {
	BusinessID uint
	Action     string
	Entity     string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

type Store interface {
	CreateAuditLog(ctx context.Context, l *models.AuditLog) error
	// ListAuditLogs returns one page, newest first, and the total count
	// matching f.
	ListAuditLogs(ctx context.Context, f Filter) ([]models.AuditLog, int64, error)
}

// StoreSink persists events as audit_logs rows.
type StoreSink struct {
	store Store
}

func NewStoreSink(store Store) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Write(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	log := models.AuditLog{
		BusinessID: ev.BusinessID,
		StaffID:    ev.StaffID,
		Action:     ev.Action,
		Entity:     ev.Entity,
		EntityID:   ev.EntityID,
		Metadata:   metaJSON,
		CreatedAt:  ev.At,
	}

	return s.store.CreateAuditLog(ctx, &log)
}
