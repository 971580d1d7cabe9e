package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "lomba-pmr/internal/domain/competition"
)

// PaymentRepository implements domain.PaymentRepository using GORM.
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new GORM payment repository.
func NewPaymentRepository(db *gorm.DB) domain.PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a new payment record.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.PaymentRecord) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByID retrieves a payment record by its ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentRecord, error) {
	var payment domain.PaymentRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// ListByRegistration retrieves all payment records for a registration.
func (r *PaymentRepository) ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]*domain.PaymentRecord, error) {
	var payments []*domain.PaymentRecord
	err := r.db.WithContext(ctx).
		Where("registration_id = ?", registrationID).
		Order("created_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// Update persists changes to an existing payment record.
func (r *PaymentRepository) Update(ctx context.Context, payment *domain.PaymentRecord) error {
	return r.db.WithContext(ctx).Save(payment).Error
}
