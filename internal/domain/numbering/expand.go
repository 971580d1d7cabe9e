package numbering

import (
	domain "lomba-pmr/internal/domain/competition"
)

// Expand derives the full team-slot roster from registrations and persisted
// number entries. For every event with a team count > 0 it emits one slot
// per team index (1-based), seeded with the persisted running number when a
// matching entry exists.
//
// In-flight edits survive a refresh: a slot whose previous counterpart was
// dirty keeps its edited value, and stays dirty only while that value still
// differs from the freshly seeded one. A slot with no previous counterpart
// starts clean. Expand is a pure function of its three inputs.
func Expand(regs []*domain.SchoolRegistration, entries []*domain.NumberEntry, prev []TeamSlot) []TeamSlot {
	seeded := make(map[string]*int, len(entries))
	for _, entry := range entries {
		seeded[SlotID(entry.RegistrationID, entry.EventKey, entry.TeamIndex)] = entry.RunningNumber
	}

	prevByID := make(map[string]TeamSlot, len(prev))
	for _, slot := range prev {
		prevByID[slot.SlotID] = slot
	}

	var slots []TeamSlot
	for _, reg := range regs {
		for _, ev := range domain.Events() {
			count := reg.TeamCount(ev.Key)
			for teamIndex := 1; teamIndex <= count; teamIndex++ {
				id := SlotID(reg.ID, ev.Key, teamIndex)
				slot := TeamSlot{
					SlotID:         id,
					RegistrationID: reg.ID,
					SchoolName:     reg.SchoolName,
					Category:       reg.Category,
					EventKey:       ev.Key,
					EventName:      ev.DisplayName,
					TeamIndex:      teamIndex,
					RunningNumber:  seeded[id],
				}
				if old, ok := prevByID[id]; ok && old.Dirty {
					slot.RunningNumber = old.RunningNumber
					slot.Dirty = !sameNumber(old.RunningNumber, seeded[id])
				}
				slots = append(slots, slot)
			}
		}
	}
	return slots
}
