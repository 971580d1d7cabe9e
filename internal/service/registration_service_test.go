package service

import (
	"context"
	"testing"

	domain "lomba-pmr/internal/domain/competition"
	"lomba-pmr/internal/infrastructure/repository"
)

func newRegistrationFixture(t *testing.T) (*RegistrationService, *repository.MemoryRegistrationRepository) {
	t.Helper()
	regRepo := repository.NewMemoryRegistrationRepository()
	return NewRegistrationService(regRepo, repository.NewMemoryPaymentRepository()), regRepo
}

func TestRegistrationService_CreateRegistration(t *testing.T) {
	svc, _ := newRegistrationFixture(t)

	reg, err := svc.CreateRegistration(context.Background(), &domain.CreateRegistrationRequest{
		SchoolName:   "SMP Negeri 5",
		Category:     "madya",
		EventCounts:  map[string]int{"pp": 2, "tandu_putra": 1},
		ContactName:  "Ibu Sari",
		ContactPhone: "081234567890",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if reg.Status != domain.RegistrationPending {
		t.Errorf("Expected new registration to be pending, got %s", reg.Status)
	}
	if reg.Category != domain.CategoryMadya {
		t.Errorf("Expected category madya, got %s", reg.Category)
	}
	if reg.TeamCount("pp") != 2 {
		t.Errorf("Expected 2 pp teams, got %d", reg.TeamCount("pp"))
	}
	if reg.TeamCount("pk") != 0 {
		t.Errorf("Expected 0 pk teams, got %d", reg.TeamCount("pk"))
	}
}

func TestRegistrationService_CreateRejectsBadInput(t *testing.T) {
	svc, _ := newRegistrationFixture(t)

	tests := []struct {
		name string
		req  domain.CreateRegistrationRequest
	}{
		{
			"unknown category",
			domain.CreateRegistrationRequest{SchoolName: "SMA X", Category: "senior", EventCounts: map[string]int{"pp": 1}},
		},
		{
			"unknown event key",
			domain.CreateRegistrationRequest{SchoolName: "SMA X", Category: "wira", EventCounts: map[string]int{"karaoke": 1}},
		},
		{
			"negative team count",
			domain.CreateRegistrationRequest{SchoolName: "SMA X", Category: "wira", EventCounts: map[string]int{"pp": -1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateRegistration(context.Background(), &tt.req); err == nil {
				t.Error("Expected creation to be rejected")
			}
		})
	}
}

func TestRegistrationService_ReviewPayment(t *testing.T) {
	regRepo := repository.NewMemoryRegistrationRepository()
	paymentRepo := repository.NewMemoryPaymentRepository()
	svc := NewRegistrationService(regRepo, paymentRepo)

	reg, err := svc.CreateRegistration(context.Background(), &domain.CreateRegistrationRequest{
		SchoolName:   "SMA Harapan",
		Category:     "wira",
		EventCounts:  map[string]int{"pp": 1},
		ContactName:  "Pak Budi",
		ContactPhone: "081234567890",
	})
	if err != nil {
		t.Fatalf("CreateRegistration failed: %v", err)
	}

	payment, err := svc.AddPayment(context.Background(), &domain.CreatePaymentRequest{
		RegistrationID: reg.ID,
		Amount:         150000,
		ProofURL:       "https://bucket.example.com/bukti/123.jpg",
	})
	if err != nil {
		t.Fatalf("AddPayment failed: %v", err)
	}
	if payment.Status != domain.PaymentPending {
		t.Errorf("Expected pending payment, got %s", payment.Status)
	}

	reviewed, err := svc.ReviewPayment(context.Background(), payment.ID, true, "transfer confirmed")
	if err != nil {
		t.Fatalf("ReviewPayment failed: %v", err)
	}
	if reviewed.Status != domain.PaymentVerified {
		t.Errorf("Expected verified payment, got %s", reviewed.Status)
	}
	if reviewed.VerifiedAt == nil {
		t.Error("Expected VerifiedAt to be set")
	}

	// Verifying a payment marks the registration verified.
	updated, err := svc.GetRegistration(context.Background(), reg.ID)
	if err != nil {
		t.Fatalf("GetRegistration failed: %v", err)
	}
	if updated.Status != domain.RegistrationVerified {
		t.Errorf("Expected verified registration, got %s", updated.Status)
	}
}

func TestRegistrationService_AddPaymentUnknownRegistration(t *testing.T) {
	svc, _ := newRegistrationFixture(t)

	req := &domain.CreatePaymentRequest{Amount: 1000}
	if _, err := svc.AddPayment(context.Background(), req); err == nil {
		t.Error("Expected payment for unknown registration to fail")
	}
}
