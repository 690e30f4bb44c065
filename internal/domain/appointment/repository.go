package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/staff-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

type Repository interface {
	// -------- Availability inputs --------
	availability.Store

	// -------- Directory --------
	GetBusinessByID(
		ctx context.Context,
		id uint,
	) (*models.Business, error)

	GetBusinessBySlug(
		ctx context.Context,
		slug string,
	) (*models.Business, error)

	GetJobType(
		ctx context.Context,
		businessID uint,
		jobTypeID uint,
	) (*models.JobType, error)

	ListJobTypes(
		ctx context.Context,
		businessID uint,
	) ([]models.JobType, error)

	GetStaffMember(
		ctx context.Context,
		businessID uint,
		staffID uint,
	) (*models.StaffMember, error)

	// ListQualifiedStaff returns active staff of the business able to
	// perform the job type, ordered by ID.
	ListQualifiedStaff(
		ctx context.Context,
		businessID uint,
		jobTypeID uint,
	) ([]models.StaffMember, error)

	GetCustomer(
		ctx context.Context,
		businessID uint,
		customerID uint,
	) (*models.Customer, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		businessID uint,
		appointmentID string,
	) (*models.Appointment, error)

	// UpdateAppointmentStatus persists ap only if its stored status is
	// still from; otherwise it fails with a "stale_status" validation error.
	UpdateAppointmentStatus(
		ctx context.Context,
		ap *models.Appointment,
		from Status,
	) error

	// -------- Queries --------
	ListAppointmentsForPeriod(
		ctx context.Context,
		staffID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	NextBlockingForCustomer(
		ctx context.Context,
		businessID uint,
		customerID uint,
		after time.Time,
	) (*models.Appointment, error)

	// -------- Consistency --------

	// ReadSnapshot runs fn against a consistent read view.
	ReadSnapshot(
		ctx context.Context,
		fn func(Repository) error,
	) error

	// WithStaffLock runs fn as one atomic unit serialised per staff
	// member. Writes made through the passed Repository are discarded if
	// fn returns an error.
	WithStaffLock(
		ctx context.Context,
		staffID uint,
		fn func(Repository) error,
	) error
}
