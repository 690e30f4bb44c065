// Package memory is a process-local implementation of the repositories.
// It keeps the same guarantees as the PostgreSQL one: per-staff
// serialisation of commits, snapshot reads and no overlapping blocking
// appointments.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/staff-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/staff-scheduler/internal/httperr"
	"github.com/BruksfildServices01/staff-scheduler/internal/lock"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
	"github.com/BruksfildServices01/staff-scheduler/internal/timezone"
)

var errReadOnly = errors.New("memory: write on read-only snapshot")

type overrideKey struct {
	staffID uint
	date    string
}

type dataset struct {
	businesses   map[uint]models.Business
	jobTypes     map[uint]models.JobType
	staff        map[uint]models.StaffMember
	customers    map[uint]models.Customer
	configs      map[uint]models.CalendarConfig
	overrides    map[overrideKey]models.AvailabilityOverride
	holidays     map[uint]models.Holiday
	appointments map[string]models.Appointment
	auditLogs    []models.AuditLog
	seq          uint
}

func newDataset() *dataset {
	return &dataset{
		businesses:   map[uint]models.Business{},
		jobTypes:     map[uint]models.JobType{},
		staff:        map[uint]models.StaffMember{},
		customers:    map[uint]models.Customer{},
		configs:      map[uint]models.CalendarConfig{},
		overrides:    map[overrideKey]models.AvailabilityOverride{},
		holidays:     map[uint]models.Holiday{},
		appointments: map[string]models.Appointment{},
	}
}

func (d *dataset) clone() *dataset {
	c := &dataset{
		businesses:   cloneMap(d.businesses),
		jobTypes:     cloneMap(d.jobTypes),
		staff:        cloneMap(d.staff),
		customers:    cloneMap(d.customers),
		configs:      cloneMap(d.configs),
		overrides:    cloneMap(d.overrides),
		holidays:     cloneMap(d.holidays),
		appointments: cloneMap(d.appointments),
		auditLogs:    append([]models.AuditLog(nil), d.auditLogs...),
		seq:          d.seq,
	}
	return c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d *dataset) nextID() uint {
	d.seq++
	return d.seq
}

// Store is safe for concurrent use. Views handed to ReadSnapshot and
// WithStaffLock callbacks are not, and must not outlive the callback.
type Store struct {
	mu    sync.RWMutex
	d     *dataset
	locks *lock.Keyed[uint]
	now   func() time.Time

	// set on views
	parent   *Store
	readOnly bool
	// appointment id -> status at the time the view was taken; "" for
	// appointments created inside the view
	touched map[string]string
}

func New() *Store {
	return &Store{
		d:     newDataset(),
		locks: lock.NewKeyed[uint](),
		now:   time.Now,
	}
}

func (s *Store) view(readOnly bool) *Store {
	s.mu.RLock()
	d := s.d.clone()
	s.mu.RUnlock()

	v := &Store{
		d:        d,
		locks:    s.locks,
		now:      s.now,
		parent:   s,
		readOnly: readOnly,
	}
	if !readOnly {
		v.touched = map[string]string{}
	}
	return v
}

// ReadSnapshot runs fn against a private copy of the current state.
func (s *Store) ReadSnapshot(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	if s.parent != nil {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return httperr.Transient(err)
	}
	return fn(s.view(true))
}

// WithStaffLock serialises fn with every other unit of work on staffID.
// Writes are buffered in a private view and applied only when fn
// succeeds.
func (s *Store) WithStaffLock(
	ctx context.Context,
	staffID uint,
	fn func(domain.Repository) error,
) error {
	if s.parent != nil {
		if s.readOnly {
			return errReadOnly
		}
		return fn(s)
	}

	unlock, err := s.locks.Lock(ctx, staffID)
	if err != nil {
		return httperr.Transient(err)
	}
	defer unlock()

	tx := s.view(false)
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return httperr.Transient(err)
	}
	return s.commit(tx)
}

func (s *Store) commit(tx *Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, base := range tx.touched {
		cur, exists := s.d.appointments[id]
		switch {
		case base == "" && exists:
			return httperr.SlotTaken("duplicate_appointment")
		case base != "" && (!exists || cur.Status != base):
			return httperr.Validation("stale_status")
		}
	}

	merged := cloneMap(s.d.appointments)
	for id := range tx.touched {
		merged[id] = tx.d.appointments[id]
	}
	for id := range tx.touched {
		ap := merged[id]
		if err := checkExclusion(merged, &ap); err != nil {
			return err
		}
	}

	s.d.appointments = merged
	if tx.d.seq > s.d.seq {
		s.d.seq = tx.d.seq
	}
	return nil
}

func (s *Store) read() func() {
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) write() (func(), error) {
	if s.readOnly {
		return nil, errReadOnly
	}
	s.mu.Lock()
	return s.mu.Unlock, nil
}

func civilDate(t time.Time) string {
	return t.Format(timezone.DateLayout)
}

func sortAppointments(apps []models.Appointment) {
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].StartAt.Equal(apps[j].StartAt) {
			return apps[i].ID < apps[j].ID
		}
		return apps[i].StartAt.Before(apps[j].StartAt)
	})
}

var _ domain.Repository = (*Store)(nil)
