package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/staff-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/staff-scheduler/internal/httperr"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func seeded(t *testing.T) *Store {
	t.Helper()
	s := New()
	if err := s.LoadFile("testdata/seed.json"); err != nil {
		t.Fatalf("load seed: %v", err)
	}
	return s
}

func booking(staffID uint, start time.Time, minutes int) *models.Appointment {
	end := start.Add(time.Duration(minutes) * time.Minute)
	return &models.Appointment{
		BusinessID:   1,
		StaffID:      staffID,
		JobTypeID:    10,
		CustomerID:   500,
		StartAt:      start,
		EndAt:        end,
		BlockedUntil: end,
	}
}

func TestLoadFile(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	b, err := s.GetBusinessBySlug(ctx, "studio-norte")
	if err != nil || b.ID != 1 {
		t.Fatalf("business: %v %v", b, err)
	}

	staff, err := s.ListQualifiedStaff(ctx, 1, 11)
	if err != nil {
		t.Fatalf("qualified: %v", err)
	}
	if len(staff) != 1 || staff[0].ID != 100 {
		t.Fatalf("expected only staff 100 for job type 11, got %+v", staff)
	}

	st, err := s.FindStaffByEmail(ctx, "ANA@studio.test")
	if err != nil || st.PasswordHash == "" {
		t.Fatalf("find by email: %v", err)
	}

	holidays, err := s.ListHolidays(ctx, 1, 100, time.Date(2027, 12, 25, 0, 0, 0, 0, time.UTC))
	if err != nil || len(holidays) != 1 {
		t.Fatalf("recurring holiday not matched: %v %v", holidays, err)
	}

	if _, err := s.GetCustomer(ctx, 2, 500); !errors.Is(err, httperr.ErrNotFound) {
		t.Fatalf("customer of another business should be not found, got %v", err)
	}
}

func TestCreateAppointment_Exclusion(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	first := booking(100, at(9, 0), 30)
	first.BlockedUntil = first.EndAt.Add(10 * time.Minute)
	if err := s.CreateAppointment(ctx, first); err != nil {
		t.Fatalf("first: %v", err)
	}
	if first.ID == "" || first.Status != string(domain.StatusScheduled) {
		t.Fatalf("unexpected defaults: %+v", first)
	}

	// starts inside the buffer of the first
	if err := s.CreateAppointment(ctx, booking(100, at(9, 35), 30)); !errors.Is(err, httperr.ErrSlotTaken) {
		t.Fatalf("expected slot taken, got %v", err)
	}
	// other staff never conflicts
	if err := s.CreateAppointment(ctx, booking(101, at(9, 0), 30)); err != nil {
		t.Fatalf("other staff: %v", err)
	}
	if err := s.CreateAppointment(ctx, booking(100, at(9, 40), 30)); err != nil {
		t.Fatalf("after buffer: %v", err)
	}
}

func TestWithStaffLock_DiscardsOnError(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithStaffLock(ctx, 100, func(repo domain.Repository) error {
		if err := repo.CreateAppointment(ctx, booking(100, at(9, 0), 30)); err != nil {
			return err
		}
		apps, err := repo.ListBlockingAppointments(ctx, 100, day, day.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		if len(apps) != 1 {
			t.Errorf("write not visible inside the unit: %d", len(apps))
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	apps, _ := s.ListBlockingAppointments(ctx, 100, day, day.AddDate(0, 0, 1))
	if len(apps) != 0 {
		t.Fatalf("write leaked out of failed unit: %d", len(apps))
	}
}

func TestWithStaffLock_Commits(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	var id string
	err := s.WithStaffLock(ctx, 100, func(repo domain.Repository) error {
		ap := booking(100, at(9, 0), 30)
		if err := repo.CreateAppointment(ctx, ap); err != nil {
			return err
		}
		id = ap.ID
		return nil
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	got, err := s.GetAppointment(ctx, 1, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Customer == nil || got.Customer.Name != "Carla" {
		t.Fatalf("customer not hydrated: %+v", got.Customer)
	}
}

func TestWithStaffLock_ContextDone(t *testing.T) {
	s := seeded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.WithStaffLock(ctx, 100, func(domain.Repository) error { return nil })
	if !errors.Is(err, httperr.ErrTransient) {
		t.Fatalf("expected transient, got %v", err)
	}
}

func TestUpdateAppointmentStatus_CompareAndSet(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	ap := booking(100, at(9, 0), 30)
	if err := s.CreateAppointment(ctx, ap); err != nil {
		t.Fatalf("create: %v", err)
	}

	ap.Status = string(domain.StatusConfirmed)
	if err := s.UpdateAppointmentStatus(ctx, ap, domain.StatusScheduled); err != nil {
		t.Fatalf("first update: %v", err)
	}

	ap.Status = string(domain.StatusCancelled)
	err := s.UpdateAppointmentStatus(ctx, ap, domain.StatusScheduled)
	if !httperr.IsBusiness(err, "stale_status") {
		t.Fatalf("expected stale_status, got %v", err)
	}
}

func TestWithStaffLock_StaleCommit(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	ap := booking(100, at(9, 0), 30)
	if err := s.CreateAppointment(ctx, ap); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := s.WithStaffLock(ctx, 100, func(repo domain.Repository) error {
		inner := *ap
		inner.Status = string(domain.StatusCancelled)
		if err := repo.UpdateAppointmentStatus(ctx, &inner, domain.StatusScheduled); err != nil {
			return err
		}

		// a concurrent writer outside the unit gets there first
		outer := *ap
		outer.Status = string(domain.StatusConfirmed)
		return s.UpdateAppointmentStatus(ctx, &outer, domain.StatusScheduled)
	})
	if !httperr.IsBusiness(err, "stale_status") {
		t.Fatalf("expected stale_status on commit, got %v", err)
	}

	got, _ := s.GetAppointment(ctx, 1, ap.ID)
	if got.Status != string(domain.StatusConfirmed) {
		t.Fatalf("outer write lost: %s", got.Status)
	}
}

func TestReadSnapshot_Isolated(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	err := s.ReadSnapshot(ctx, func(repo domain.Repository) error {
		if err := s.CreateAppointment(ctx, booking(100, at(9, 0), 30)); err != nil {
			return err
		}
		apps, err := repo.ListBlockingAppointments(ctx, 100, day, day.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		if len(apps) != 0 {
			t.Errorf("snapshot saw a later write")
		}
		if err := repo.CreateAppointment(ctx, booking(100, at(11, 0), 30)); err == nil {
			t.Errorf("snapshot accepted a write")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
}

func TestNextBlockingForCustomer(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	later := booking(100, at(15, 0), 30)
	sooner := booking(101, at(11, 0), 30)
	past := booking(100, at(8, 0), 30)
	for _, ap := range []*models.Appointment{later, sooner, past} {
		if err := s.CreateAppointment(ctx, ap); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	sooner.Status = string(domain.StatusCancelled)
	if err := s.UpdateAppointmentStatus(ctx, sooner, domain.StatusScheduled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	got, err := s.NextBlockingForCustomer(ctx, 1, 500, at(9, 0))
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if got == nil || got.ID != later.ID {
		t.Fatalf("expected the 15:00 appointment, got %+v", got)
	}

	none, err := s.NextBlockingForCustomer(ctx, 1, 999, at(9, 0))
	if err != nil || none != nil {
		t.Fatalf("expected nil for unknown customer, got %v %v", none, err)
	}
}
