package repository

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

// --------------------------------------------------
// Business
// --------------------------------------------------

func (r *GormRepository) GetBusinessByID(
	ctx context.Context,
	id uint,
) (*models.Business, error) {

	var b models.Business
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, notFound(err, "business_not_found")
	}
	return &b, nil
}

func (r *GormRepository) GetBusinessBySlug(
	ctx context.Context,
	slug string,
) (*models.Business, error) {

	var b models.Business
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&b).Error; err != nil {
		return nil, notFound(err, "business_not_found")
	}
	return &b, nil
}

// --------------------------------------------------
// Job types
// --------------------------------------------------

func (r *GormRepository) GetJobType(
	ctx context.Context,
	businessID uint,
	jobTypeID uint,
) (*models.JobType, error) {

	var jt models.JobType
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", jobTypeID, businessID).
		First(&jt).Error; err != nil {
		return nil, notFound(err, "job_type_not_found")
	}
	return &jt, nil
}

func (r *GormRepository) ListJobTypes(
	ctx context.Context,
	businessID uint,
) ([]models.JobType, error) {

	var out []models.JobType
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND active = ?", businessID, true).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// --------------------------------------------------
// Staff
// --------------------------------------------------

func (r *GormRepository) GetStaffMember(
	ctx context.Context,
	businessID uint,
	staffID uint,
) (*models.StaffMember, error) {

	var st models.StaffMember
	if err := r.db.WithContext(ctx).
		Preload("JobTypes").
		Where("id = ? AND business_id = ?", staffID, businessID).
		First(&st).Error; err != nil {
		return nil, notFound(err, "staff_not_found")
	}
	return &st, nil
}

func (r *GormRepository) FindStaffByEmail(
	ctx context.Context,
	email string,
) (*models.StaffMember, error) {

	var st models.StaffMember
	if err := r.db.WithContext(ctx).
		Preload("Business").
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&st).Error; err != nil {
		return nil, notFound(err, "staff_not_found")
	}
	return &st, nil
}

func (r *GormRepository) ListQualifiedStaff(
	ctx context.Context,
	businessID uint,
	jobTypeID uint,
) ([]models.StaffMember, error) {

	var out []models.StaffMember
	if err := r.db.WithContext(ctx).
		Preload("JobTypes").
		Joins("JOIN staff_job_types sjt ON sjt.staff_member_id = staff_members.id").
		Where(
			"staff_members.business_id = ? AND staff_members.active = ? AND sjt.job_type_id = ?",
			businessID, true, jobTypeID,
		).
		Order("staff_members.id ASC").
		Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *GormRepository) GetCustomer(
	ctx context.Context,
	businessID uint,
	customerID uint,
) (*models.Customer, error) {

	var c models.Customer
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", customerID, businessID).
		First(&c).Error; err != nil {
		return nil, notFound(err, "customer_not_found")
	}
	return &c, nil
}
