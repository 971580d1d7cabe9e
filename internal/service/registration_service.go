package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	domain "lomba-pmr/internal/domain/competition"
	"lomba-pmr/pkg/logger"
)

// RegistrationService handles school registrations and their payment
// records.
type RegistrationService struct {
	regRepo     domain.RegistrationRepository
	paymentRepo domain.PaymentRepository
}

// NewRegistrationService creates a new registration service.
func NewRegistrationService(
	regRepo domain.RegistrationRepository,
	paymentRepo domain.PaymentRepository,
) *RegistrationService {
	return &RegistrationService{
		regRepo:     regRepo,
		paymentRepo: paymentRepo,
	}
}

// validateEventCounts rejects unknown event keys and negative counts.
func validateEventCounts(counts map[string]int) error {
	for key, count := range counts {
		if _, ok := domain.EventByKey(key); !ok {
			return fmt.Errorf("unknown event key %q", key)
		}
		if count < 0 {
			return fmt.Errorf("event %q has negative team count %d", key, count)
		}
	}
	return nil
}

// CreateRegistration registers a school.
func (s *RegistrationService) CreateRegistration(ctx context.Context, req *domain.CreateRegistrationRequest) (*domain.SchoolRegistration, error) {
	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		return nil, err
	}
	if err := validateEventCounts(req.EventCounts); err != nil {
		return nil, err
	}

	reg := &domain.SchoolRegistration{
		ID:           uuid.New(),
		SchoolName:   req.SchoolName,
		Category:     category,
		EventCounts:  datatypes.NewJSONType(req.EventCounts),
		Status:       domain.RegistrationPending,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
	}

	if err := s.regRepo.Create(ctx, reg); err != nil {
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	logger.Info("Registered school %q in category %s", reg.SchoolName, reg.Category)
	return reg, nil
}

// GetRegistration retrieves one registration.
func (s *RegistrationService) GetRegistration(ctx context.Context, id uuid.UUID) (*domain.SchoolRegistration, error) {
	return s.regRepo.GetByID(ctx, id)
}

// ListRegistrations lists registrations matching the filter.
func (s *RegistrationService) ListRegistrations(ctx context.Context, filter domain.RegistrationFilter) ([]*domain.SchoolRegistration, error) {
	return s.regRepo.List(ctx, filter)
}

// UpdateStatus moves a registration through its verification lifecycle.
func (s *RegistrationService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RegistrationStatus) (*domain.SchoolRegistration, error) {
	switch status {
	case domain.RegistrationPending, domain.RegistrationVerified, domain.RegistrationRejected:
	default:
		return nil, fmt.Errorf("unknown registration status %q", status)
	}

	reg, err := s.regRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reg.Status = status
	if err := s.regRepo.Update(ctx, reg); err != nil {
		return nil, fmt.Errorf("failed to update registration: %w", err)
	}
	return reg, nil
}

// UpdateEventCounts replaces a registration's per-event team counts.
// Shrinking a count silently drops any team slots beyond it on the next
// roster expansion.
func (s *RegistrationService) UpdateEventCounts(ctx context.Context, id uuid.UUID, req *domain.UpdateEventCountsRequest) (*domain.SchoolRegistration, error) {
	if err := validateEventCounts(req.EventCounts); err != nil {
		return nil, err
	}

	reg, err := s.regRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reg.EventCounts = datatypes.NewJSONType(req.EventCounts)
	if err := s.regRepo.Update(ctx, reg); err != nil {
		return nil, fmt.Errorf("failed to update registration: %w", err)
	}
	return reg, nil
}

// AddPayment records a reported payment against a registration.
func (s *RegistrationService) AddPayment(ctx context.Context, req *domain.CreatePaymentRequest) (*domain.PaymentRecord, error) {
	if _, err := s.regRepo.GetByID(ctx, req.RegistrationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("registration %s: %w", req.RegistrationID, domain.ErrNotFound)
		}
		return nil, err
	}

	payment := &domain.PaymentRecord{
		ID:             uuid.New(),
		RegistrationID: req.RegistrationID,
		Amount:         req.Amount,
		Status:         domain.PaymentPending,
		ProofURL:       req.ProofURL,
		Note:           req.Note,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	return payment, nil
}

// ListPayments lists all payments for a registration.
func (s *RegistrationService) ListPayments(ctx context.Context, registrationID uuid.UUID) ([]*domain.PaymentRecord, error) {
	return s.paymentRepo.ListByRegistration(ctx, registrationID)
}

// ReviewPayment verifies or rejects a payment. Verifying a payment also
// marks the owning registration verified.
func (s *RegistrationService) ReviewPayment(ctx context.Context, paymentID uuid.UUID, approve bool, note string) (*domain.PaymentRecord, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if approve {
		payment.Status = domain.PaymentVerified
		payment.VerifiedAt = &now
	} else {
		payment.Status = domain.PaymentRejected
		payment.VerifiedAt = nil
	}
	if note != "" {
		payment.Note = note
	}

	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	if approve {
		if _, err := s.UpdateStatus(ctx, payment.RegistrationID, domain.RegistrationVerified); err != nil {
			logger.Warn("Payment %s verified but registration update failed: %v", paymentID, err)
		}
	}

	logger.Info("Payment %s reviewed: %s", paymentID, payment.Status)
	return payment, nil
}
