package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "lomba-pmr/internal/domain/competition"
)

// RegistrationRepository implements domain.RegistrationRepository using GORM.
type RegistrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository creates a new GORM registration repository.
func NewRegistrationRepository(db *gorm.DB) domain.RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Create inserts a new school registration.
func (r *RegistrationRepository) Create(ctx context.Context, reg *domain.SchoolRegistration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

// GetByID retrieves a registration by its ID.
func (r *RegistrationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SchoolRegistration, error) {
	var reg domain.SchoolRegistration
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &reg, nil
}

// List retrieves registrations matching the filter, ordered by school name.
func (r *RegistrationRepository) List(ctx context.Context, filter domain.RegistrationFilter) ([]*domain.SchoolRegistration, error) {
	query := r.db.WithContext(ctx).Model(&domain.SchoolRegistration{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.SchoolQuery != "" {
		query = query.Where("school_name ILIKE ?", "%"+filter.SchoolQuery+"%")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var regs []*domain.SchoolRegistration
	if err := query.Order("school_name ASC").Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}

// Update persists changes to an existing registration.
func (r *RegistrationRepository) Update(ctx context.Context, reg *domain.SchoolRegistration) error {
	return r.db.WithContext(ctx).Save(reg).Error
}
