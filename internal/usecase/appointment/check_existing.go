package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/staff-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

// CheckExisting returns the next upcoming blocking appointment of a
// customer, or nil.
type CheckExisting struct {
	repo domain.Repository
	now  func() time.Time
}

func NewCheckExisting(repo domain.Repository) *CheckExisting {
	return &CheckExisting{repo: repo, now: time.Now}
}

func (uc *CheckExisting) Execute(
	ctx context.Context,
	businessID uint,
	customerID uint,
) (*models.Appointment, error) {

	if _, err := uc.repo.GetCustomer(ctx, businessID, customerID); err != nil {
		return nil, err
	}
	return uc.repo.NextBlockingForCustomer(ctx, businessID, customerID, uc.now())
}
