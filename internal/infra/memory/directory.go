package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/BruksfildServices01/staff-scheduler/internal/httperr"
	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

func (s *Store) GetBusinessByID(ctx context.Context, id uint) (*models.Business, error) {
	defer s.read()()

	b, ok := s.d.businesses[id]
	if !ok {
		return nil, httperr.NotFound("business_not_found")
	}
	return &b, nil
}

func (s *Store) GetBusinessBySlug(ctx context.Context, slug string) (*models.Business, error) {
	defer s.read()()

	for _, b := range s.d.businesses {
		if b.Slug == slug {
			return &b, nil
		}
	}
	return nil, httperr.NotFound("business_not_found")
}

func (s *Store) GetJobType(
	ctx context.Context,
	businessID uint,
	jobTypeID uint,
) (*models.JobType, error) {
	defer s.read()()

	jt, ok := s.d.jobTypes[jobTypeID]
	if !ok || jt.BusinessID != businessID {
		return nil, httperr.NotFound("job_type_not_found")
	}
	return &jt, nil
}

func (s *Store) ListJobTypes(ctx context.Context, businessID uint) ([]models.JobType, error) {
	defer s.read()()

	out := []models.JobType{}
	for _, jt := range s.d.jobTypes {
		if jt.BusinessID == businessID && jt.Active {
			out = append(out, jt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetStaffMember(
	ctx context.Context,
	businessID uint,
	staffID uint,
) (*models.StaffMember, error) {
	defer s.read()()

	st, ok := s.d.staff[staffID]
	if !ok || st.BusinessID != businessID {
		return nil, httperr.NotFound("staff_not_found")
	}
	return &st, nil
}

func (s *Store) FindStaffByEmail(ctx context.Context, email string) (*models.StaffMember, error) {
	defer s.read()()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, st := range s.d.staff {
		if strings.EqualFold(st.Email, email) {
			st.Business = s.d.businesses[st.BusinessID]
			return &st, nil
		}
	}
	return nil, httperr.NotFound("staff_not_found")
}

func (s *Store) ListQualifiedStaff(
	ctx context.Context,
	businessID uint,
	jobTypeID uint,
) ([]models.StaffMember, error) {
	defer s.read()()

	var out []models.StaffMember
	for _, st := range s.d.staff {
		if st.BusinessID == businessID && st.Active && st.CanPerform(jobTypeID) {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetCustomer(
	ctx context.Context,
	businessID uint,
	customerID uint,
) (*models.Customer, error) {
	defer s.read()()

	c, ok := s.d.customers[customerID]
	if !ok || c.BusinessID != businessID {
		return nil, httperr.NotFound("customer_not_found")
	}
	return &c, nil
}
