package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories when a lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// RegistrationRepository defines data access for school registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *SchoolRegistration) error
	GetByID(ctx context.Context, id uuid.UUID) (*SchoolRegistration, error)
	List(ctx context.Context, filter RegistrationFilter) ([]*SchoolRegistration, error)
	Update(ctx context.Context, reg *SchoolRegistration) error
}

// NumberEntryRepository defines data access for running-number entries.
// UpsertBatch merges on the composite key (registration_id, event_key,
// team_index): existing rows are overwritten, missing rows inserted.
type NumberEntryRepository interface {
	List(ctx context.Context) ([]*NumberEntry, error)
	UpsertBatch(ctx context.Context, records []NumberEntryRecord) error
}

// PaymentRepository defines data access for payment records.
type PaymentRepository interface {
	Create(ctx context.Context, payment *PaymentRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*PaymentRecord, error)
	ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]*PaymentRecord, error)
	Update(ctx context.Context, payment *PaymentRecord) error
}

// ScoreRepository defines data access for judged scores.
type ScoreRepository interface {
	Upsert(ctx context.Context, score *ScoreEntry) error
	ListByEvent(ctx context.Context, eventKey string) ([]*ScoreEntry, error)
	ListAll(ctx context.Context) ([]*ScoreEntry, error)
}
