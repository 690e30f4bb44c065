package memory

import (
	"context"
	"sort"
	"time"

	"github.com/BruksfildServices01/staff-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/staff-scheduler/internal/httperr"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

func (s *Store) GetCalendarConfig(ctx context.Context, staffID uint) (*models.CalendarConfig, error) {
	defer s.read()()

	cfg, ok := s.d.configs[staffID]
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

func (s *Store) GetOverride(
	ctx context.Context,
	staffID uint,
	date time.Time,
) (*models.AvailabilityOverride, error) {
	defer s.read()()

	o, ok := s.d.overrides[overrideKey{staffID, civilDate(date)}]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (s *Store) ListHolidays(
	ctx context.Context,
	businessID uint,
	staffID uint,
	date time.Time,
) ([]models.Holiday, error) {
	defer s.read()()

	var out []models.Holiday
	for _, h := range s.d.holidays {
		if h.BusinessID != businessID {
			continue
		}
		if h.StaffID != nil && *h.StaffID != staffID {
			continue
		}
		if h.Matches(date) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// -------- admin --------

func (s *Store) SaveCalendarConfig(ctx context.Context, cfg *models.CalendarConfig) error {
	unlock, err := s.write()
	if err != nil {
		return err
	}
	defer unlock()

	now := s.now()
	if cur, ok := s.d.configs[cfg.StaffID]; ok {
		cfg.ID, cfg.CreatedAt = cur.ID, cur.CreatedAt
	} else {
		cfg.ID, cfg.CreatedAt = s.d.nextID(), now
	}
	cfg.UpdatedAt = now
	s.d.configs[cfg.StaffID] = *cfg
	return nil
}

func (s *Store) PutOverride(ctx context.Context, o *models.AvailabilityOverride) error {
	unlock, err := s.write()
	if err != nil {
		return err
	}
	defer unlock()

	key := overrideKey{o.StaffID, civilDate(o.Date)}
	now := s.now()
	if cur, ok := s.d.overrides[key]; ok {
		o.ID, o.CreatedAt = cur.ID, cur.CreatedAt
	} else {
		o.ID, o.CreatedAt = s.d.nextID(), now
	}
	o.UpdatedAt = now
	s.d.overrides[key] = *o
	return nil
}

func (s *Store) DeleteOverride(ctx context.Context, staffID uint, date time.Time) error {
	unlock, err := s.write()
	if err != nil {
		return err
	}
	defer unlock()

	key := overrideKey{staffID, civilDate(date)}
	if _, ok := s.d.overrides[key]; !ok {
		return httperr.NotFound("override_not_found")
	}
	delete(s.d.overrides, key)
	return nil
}

func (s *Store) ListOverrides(
	ctx context.Context,
	staffID uint,
	from time.Time,
	to time.Time,
) ([]models.AvailabilityOverride, error) {
	defer s.read()()

	lo, hi := civilDate(from), civilDate(to)
	out := []models.AvailabilityOverride{}
	for key, o := range s.d.overrides {
		if key.staffID == staffID && key.date >= lo && key.date <= hi {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) ListBusinessHolidays(ctx context.Context, businessID uint) ([]models.Holiday, error) {
	defer s.read()()

	out := []models.Holiday{}
	for _, h := range s.d.holidays {
		if h.BusinessID == businessID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) CreateHoliday(ctx context.Context, h *models.Holiday) error {
	unlock, err := s.write()
	if err != nil {
		return err
	}
	defer unlock()

	h.ID = s.d.nextID()
	h.CreatedAt = s.now()
	s.d.holidays[h.ID] = *h
	return nil
}

func (s *Store) DeleteHoliday(ctx context.Context, businessID uint, holidayID uint) error {
	unlock, err := s.write()
	if err != nil {
		return err
	}
	defer unlock()

	h, ok := s.d.holidays[holidayID]
	if !ok || h.BusinessID != businessID {
		return httperr.NotFound("holiday_not_found")
	}
	delete(s.d.holidays, holidayID)
	return nil
}

var _ availability.AdminStore = (*Store)(nil)
