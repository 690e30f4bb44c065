package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/staff-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/staff-scheduler/internal/httperr"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

// checkExclusion mirrors the exclusion constraint on appointments: two
// blocking appointments of one staff member never share time, buffer
// included.
func checkExclusion(apps map[string]models.Appointment, ap *models.Appointment) error {
	if !domain.Status(ap.Status).Blocking() {
		return nil
	}
	for id, other := range apps {
		if id == ap.ID || other.StaffID != ap.StaffID {
			continue
		}
		if !domain.Status(other.Status).Blocking() {
			continue
		}
		if ap.StartAt.Before(other.BlockedUntil) && other.StartAt.Before(ap.BlockedUntil) {
			return httperr.SlotTaken("slot_taken")
		}
	}
	return nil
}

func (d *dataset) hydrate(ap *models.Appointment) {
	if c, ok := d.customers[ap.CustomerID]; ok {
		ap.Customer = &c
	}
	if jt, ok := d.jobTypes[ap.JobTypeID]; ok {
		ap.JobType = &jt
	}
}

func (s *Store) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	unlock, err := s.write()
	if err != nil {
		return err
	}
	defer unlock()

	if ap.ID == "" {
		ap.ID = uuid.NewString()
	}
	if _, exists := s.d.appointments[ap.ID]; exists {
		return httperr.SlotTaken("duplicate_appointment")
	}
	if ap.Status == "" {
		ap.Status = string(domain.InitialStatus())
	}
	if ap.BlockedUntil.IsZero() {
		ap.BlockedUntil = ap.EndAt
	}
	if err := checkExclusion(s.d.appointments, ap); err != nil {
		return err
	}

	now := s.now()
	ap.CreatedAt, ap.UpdatedAt = now, now

	stored := *ap
	stored.Customer, stored.JobType = nil, nil
	s.d.appointments[ap.ID] = stored
	if s.touched != nil {
		s.touched[ap.ID] = ""
	}
	return nil
}

func (s *Store) GetAppointment(
	ctx context.Context,
	businessID uint,
	appointmentID string,
) (*models.Appointment, error) {
	defer s.read()()

	ap, ok := s.d.appointments[appointmentID]
	if !ok || ap.BusinessID != businessID {
		return nil, httperr.NotFound("appointment_not_found")
	}
	s.d.hydrate(&ap)
	return &ap, nil
}

func (s *Store) UpdateAppointmentStatus(
	ctx context.Context,
	ap *models.Appointment,
	from domain.Status,
) error {
	unlock, err := s.write()
	if err != nil {
		return err
	}
	defer unlock()

	cur, ok := s.d.appointments[ap.ID]
	if !ok {
		return httperr.NotFound("appointment_not_found")
	}
	if cur.Status != string(from) {
		return httperr.Validation("stale_status")
	}

	cur.Status = ap.Status
	cur.ConfirmedAt = ap.ConfirmedAt
	cur.StartedAt = ap.StartedAt
	cur.CompletedAt = ap.CompletedAt
	cur.CancelledAt = ap.CancelledAt
	cur.RescheduledToID = ap.RescheduledToID
	cur.UpdatedAt = s.now()

	if s.touched != nil {
		if _, seen := s.touched[ap.ID]; !seen {
			s.touched[ap.ID] = string(from)
		}
	}
	s.d.appointments[ap.ID] = cur
	ap.UpdatedAt = cur.UpdatedAt
	return nil
}

func (s *Store) ListAppointmentsForPeriod(
	ctx context.Context,
	staffID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {
	defer s.read()()

	var out []models.Appointment
	for _, ap := range s.d.appointments {
		if ap.StaffID != staffID || ap.StartAt.Before(start) || !ap.StartAt.Before(end) {
			continue
		}
		s.d.hydrate(&ap)
		out = append(out, ap)
	}
	sortAppointments(out)
	return out, nil
}

func (s *Store) ListBlockingAppointments(
	ctx context.Context,
	staffID uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {
	defer s.read()()

	var out []models.Appointment
	for _, ap := range s.d.appointments {
		if ap.StaffID != staffID || !domain.Status(ap.Status).Blocking() {
			continue
		}
		if ap.StartAt.Before(to) && ap.EndAt.After(from) {
			out = append(out, ap)
		}
	}
	sortAppointments(out)
	return out, nil
}

func (s *Store) NextBlockingForCustomer(
	ctx context.Context,
	businessID uint,
	customerID uint,
	after time.Time,
) (*models.Appointment, error) {
	defer s.read()()

	var next *models.Appointment
	for _, ap := range s.d.appointments {
		if ap.BusinessID != businessID || ap.CustomerID != customerID {
			continue
		}
		if !domain.Status(ap.Status).Blocking() || ap.StartAt.Before(after) {
			continue
		}
		if next == nil || ap.StartAt.Before(next.StartAt) {
			ap := ap
			next = &ap
		}
	}
	if next != nil {
		s.d.hydrate(next)
	}
	return next, nil
}
