package memory

import (
	"context"
	"sort"

	"github.com/BruksfildServices01/staff-scheduler/internal/audit"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

func (s *Store) CreateAuditLog(ctx context.Context, l *models.AuditLog) error {
	unlock, err := s.write()
	if err != nil {
		return err
	}
	defer unlock()

	l.ID = s.d.nextID()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.now()
	}
	s.d.auditLogs = append(s.d.auditLogs, *l)
	return nil
}

func (s *Store) ListAuditLogs(ctx context.Context, f audit.Filter) ([]models.AuditLog, int64, error) {
	defer s.read()()

	var matched []models.AuditLog
	for _, l := range s.d.auditLogs {
		if l.BusinessID != f.BusinessID {
			continue
		}
		if f.Action != "" && l.Action != f.Action {
			continue
		}
		if f.Entity != "" && l.Entity != f.Entity {
			continue
		}
		if !f.From.IsZero() && l.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !l.CreatedAt.Before(f.To) {
			continue
		}
		matched = append(matched, l)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	lo := min(f.Offset, len(matched))
	hi := len(matched)
	if f.Limit > 0 {
		hi = min(lo+f.Limit, len(matched))
	}
	return append([]models.AuditLog{}, matched[lo:hi]...), total, nil
}

var _ audit.Store = (*Store)(nil)
