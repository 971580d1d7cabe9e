package numbering

import (
	"strconv"
	"strings"

	domain "lomba-pmr/internal/domain/competition"
)

// Board holds the in-memory roster for one admin numbering session. It is
// not safe for concurrent use; callers serialize access.
type Board struct {
	slots map[string]*TeamSlot
	order []string
}

// NewBoard builds a board from an expanded slot roster.
func NewBoard(slots []TeamSlot) *Board {
	b := &Board{slots: make(map[string]*TeamSlot, len(slots))}
	for i := range slots {
		slot := slots[i]
		b.slots[slot.SlotID] = &slot
		b.order = append(b.order, slot.SlotID)
	}
	return b
}

// Slots returns a copy of every slot in insertion order.
func (b *Board) Slots() []TeamSlot {
	out := make([]TeamSlot, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, *b.slots[id])
	}
	return out
}

// Get returns a copy of one slot.
func (b *Board) Get(slotID string) (TeamSlot, bool) {
	slot, ok := b.slots[slotID]
	if !ok {
		return TeamSlot{}, false
	}
	return *slot, true
}

// Assign parses raw input and applies it to the target slot. Empty or
// non-numeric input clears the number. A candidate number already held by
// another slot in the same (event, category) scope is rejected with a
// ConflictError and the slot is left unchanged. Dirty is monotonic for the
// lifetime of the board: editing a value back does not clear it.
func (b *Board) Assign(slotID, raw string) error {
	slot, ok := b.slots[slotID]
	if !ok {
		return ErrSlotNotFound
	}

	candidate := parseNumber(raw)
	if candidate != nil {
		if holder := b.findHolder(slot, *candidate); holder != nil {
			return &ConflictError{
				EventKey:     slot.EventKey,
				EventName:    slot.EventName,
				Category:     slot.Category,
				Number:       *candidate,
				HolderSlotID: holder.SlotID,
				HolderSchool: holder.SchoolName,
			}
		}
	}

	if !sameNumber(slot.RunningNumber, candidate) {
		slot.Dirty = true
	}
	slot.RunningNumber = candidate
	return nil
}

// findHolder locates a different slot in the same (event, category) scope
// holding the candidate number.
func (b *Board) findHolder(target *TeamSlot, number int) *TeamSlot {
	for _, id := range b.order {
		other := b.slots[id]
		if other.SlotID == target.SlotID {
			continue
		}
		if other.EventKey != target.EventKey || other.Category != target.Category {
			continue
		}
		if other.RunningNumber != nil && *other.RunningNumber == number {
			return other
		}
	}
	return nil
}

// DirtyRecords returns upsert payloads for every slot edited since the
// last successful save.
func (b *Board) DirtyRecords() []domain.NumberEntryRecord {
	var records []domain.NumberEntryRecord
	for _, id := range b.order {
		if slot := b.slots[id]; slot.Dirty {
			records = append(records, slot.Record())
		}
	}
	return records
}

// DirtyCount reports how many slots carry unsaved edits.
func (b *Board) DirtyCount() int {
	count := 0
	for _, slot := range b.slots {
		if slot.Dirty {
			count++
		}
	}
	return count
}

// Replace swaps the board content for a freshly expanded roster and reports
// any previously dirty slots that no longer exist, so callers can warn
// about discarded edits instead of losing them silently.
func (b *Board) Replace(slots []TeamSlot) (dropped []TeamSlot) {
	next := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		next[slot.SlotID] = struct{}{}
	}
	for _, id := range b.order {
		old := b.slots[id]
		if _, ok := next[id]; !ok && old.Dirty {
			dropped = append(dropped, *old)
		}
	}

	b.slots = make(map[string]*TeamSlot, len(slots))
	b.order = b.order[:0]
	for i := range slots {
		slot := slots[i]
		b.slots[slot.SlotID] = &slot
		b.order = append(b.order, slot.SlotID)
	}
	return dropped
}

// parseNumber coerces raw admin input into a nullable running number.
// Anything that does not parse as a positive integer means "clear".
func parseNumber(raw string) *int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}
