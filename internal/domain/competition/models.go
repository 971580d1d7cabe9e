package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RegistrationStatus represents the verification state of a school's
// registration.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationVerified RegistrationStatus = "verified"
	RegistrationRejected RegistrationStatus = "rejected"
)

// SchoolRegistration is one school's entry into the competition, carrying
// the number of teams it fields per event.
type SchoolRegistration struct {
	ID           uuid.UUID                          `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	SchoolName   string                             `json:"school_name" gorm:"not null"`
	Category     Category                           `json:"category" gorm:"type:text;not null"`
	EventCounts  datatypes.JSONType[map[string]int] `json:"event_counts"`
	Status       RegistrationStatus                 `json:"status" gorm:"type:text;default:pending"`
	ContactName  string                             `json:"contact_name"`
	ContactPhone string                             `json:"contact_phone"`
	CreatedAt    time.Time                          `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time                          `json:"updated_at" gorm:"autoUpdateTime"`
}

// TeamCount returns the number of teams this school fields for an event.
// Missing keys count as zero.
func (r *SchoolRegistration) TeamCount(eventKey string) int {
	counts := r.EventCounts.Data()
	if counts == nil {
		return 0
	}
	return counts[eventKey]
}

// NumberEntry is a persisted running-number assignment for one team slot.
// Entries are created implicitly on first save and never deleted; clearing
// a number writes a null running_number.
type NumberEntry struct {
	RegistrationID uuid.UUID `json:"registration_id" gorm:"type:uuid;primaryKey"`
	EventKey       string    `json:"event_key" gorm:"primaryKey"`
	TeamIndex      int       `json:"team_index" gorm:"primaryKey"`
	RunningNumber  *int      `json:"running_number"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NumberEntryRecord is the upsert payload for a single team slot, keyed by
// (registration_id, event_key, team_index).
type NumberEntryRecord struct {
	RegistrationID uuid.UUID `json:"registration_id"`
	EventKey       string    `json:"event_key"`
	TeamIndex      int       `json:"team_index"`
	RunningNumber  *int      `json:"running_number"`
}

// PaymentStatus represents the verification state of a payment proof.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentVerified PaymentStatus = "verified"
	PaymentRejected PaymentStatus = "rejected"
)

// PaymentRecord is a registration fee payment reported by a school. The
// proof itself lives in an external object store; only its URL is kept.
type PaymentRecord struct {
	ID             uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	RegistrationID uuid.UUID     `json:"registration_id" gorm:"type:uuid;not null"`
	Amount         int64         `json:"amount" gorm:"not null;check:amount >= 0"`
	Status         PaymentStatus `json:"status" gorm:"type:text;default:pending"`
	ProofURL       string        `json:"proof_url"`
	Note           string        `json:"note"`
	VerifiedAt     *time.Time    `json:"verified_at"`
	CreatedAt      time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// ScoreEntry is the judged score for one team slot in one event.
type ScoreEntry struct {
	RegistrationID uuid.UUID `json:"registration_id" gorm:"type:uuid;primaryKey"`
	EventKey       string    `json:"event_key" gorm:"primaryKey"`
	TeamIndex      int       `json:"team_index" gorm:"primaryKey"`
	Score          float64   `json:"score" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// RegistrationFilter narrows registration listings.
type RegistrationFilter struct {
	Category    Category
	Status      RegistrationStatus
	SchoolQuery string
	Limit       int
	Offset      int
}

// Request DTOs

// CreateRegistrationRequest is the payload for registering a school.
type CreateRegistrationRequest struct {
	SchoolName   string         `json:"school_name" validate:"required,min=3"`
	Category     string         `json:"category" validate:"required,oneof=wira madya"`
	EventCounts  map[string]int `json:"event_counts" validate:"required"`
	ContactName  string         `json:"contact_name" validate:"required"`
	ContactPhone string         `json:"contact_phone" validate:"required,min=8"`
}

// UpdateEventCountsRequest replaces a registration's per-event team counts.
type UpdateEventCountsRequest struct {
	EventCounts map[string]int `json:"event_counts" validate:"required"`
}

// CreatePaymentRequest reports a payment for a registration.
type CreatePaymentRequest struct {
	RegistrationID uuid.UUID `json:"registration_id" validate:"required"`
	Amount         int64     `json:"amount" validate:"required,gt=0"`
	ProofURL       string    `json:"proof_url" validate:"omitempty,url"`
	Note           string    `json:"note"`
}

// SubmitScoreRequest records a judged score for a team slot.
type SubmitScoreRequest struct {
	RegistrationID uuid.UUID `json:"registration_id" validate:"required"`
	EventKey       string    `json:"event_key" validate:"required"`
	TeamIndex      int       `json:"team_index" validate:"required,gte=1"`
	Score          float64   `json:"score" validate:"gte=0"`
}
