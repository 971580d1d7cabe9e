package numbering

import (
	"fmt"

	"github.com/google/uuid"

	domain "lomba-pmr/internal/domain/competition"
)

// TeamSlot is one (school, event, team-index) unit eligible for a running
// number. Slots are derived in memory from registrations and persisted
// number entries; they are never stored directly.
type TeamSlot struct {
	SlotID         string          `json:"slot_id"`
	RegistrationID uuid.UUID       `json:"registration_id"`
	SchoolName     string          `json:"school_name"`
	Category       domain.Category `json:"category"`
	EventKey       string          `json:"event_key"`
	EventName      string          `json:"event_name"`
	TeamIndex      int             `json:"team_index"`
	RunningNumber  *int            `json:"running_number"`
	Dirty          bool            `json:"dirty"`
}

// SlotID builds the synthetic collection key for a team slot.
func SlotID(registrationID uuid.UUID, eventKey string, teamIndex int) string {
	return fmt.Sprintf("%s:%s:%d", registrationID, eventKey, teamIndex)
}

// Record converts the slot into its upsert payload.
func (s *TeamSlot) Record() domain.NumberEntryRecord {
	return domain.NumberEntryRecord{
		RegistrationID: s.RegistrationID,
		EventKey:       s.EventKey,
		TeamIndex:      s.TeamIndex,
		RunningNumber:  s.RunningNumber,
	}
}

func sameNumber(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
