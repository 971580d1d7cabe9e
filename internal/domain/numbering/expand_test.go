package numbering

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	domain "lomba-pmr/internal/domain/competition"
)

func newRegistration(school string, category domain.Category, counts map[string]int) *domain.SchoolRegistration {
	return &domain.SchoolRegistration{
		ID:          uuid.New(),
		SchoolName:  school,
		Category:    category,
		EventCounts: datatypes.NewJSONType(counts),
	}
}

func intPtr(n int) *int {
	return &n
}

func TestExpand_ProducesOneSlotPerTeam(t *testing.T) {
	reg := newRegistration("SMP Negeri 1", domain.CategoryMadya, map[string]int{
		"pp":     2,
		"pk":     0,
		"poster": 1,
	})

	slots := Expand([]*domain.SchoolRegistration{reg}, nil, nil)

	if len(slots) != 3 {
		t.Fatalf("Expected 3 slots, got %d", len(slots))
	}

	seen := make(map[string]bool)
	for _, slot := range slots {
		seen[fmt.Sprintf("%s#%d", slot.EventKey, slot.TeamIndex)] = true
		if slot.RunningNumber != nil {
			t.Errorf("Expected unseeded slot %s to have nil running number", slot.SlotID)
		}
		if slot.Dirty {
			t.Errorf("Expected fresh slot %s to be clean", slot.SlotID)
		}
		if slot.SchoolName != "SMP Negeri 1" || slot.Category != domain.CategoryMadya {
			t.Errorf("Slot %s lost registration fields", slot.SlotID)
		}
	}

	for _, want := range []string{"pp#1", "pp#2", "poster#1"} {
		if !seen[want] {
			t.Errorf("Expected slot %s to be produced", want)
		}
	}
	if seen["pk#1"] {
		t.Error("Expected no slot for event with zero teams")
	}
}

func TestExpand_SeedsFromNumberEntries(t *testing.T) {
	reg := newRegistration("SMA Harapan", domain.CategoryWira, map[string]int{"pp": 2})
	entries := []*domain.NumberEntry{
		{RegistrationID: reg.ID, EventKey: "pp", TeamIndex: 1, RunningNumber: intPtr(5)},
	}

	slots := Expand([]*domain.SchoolRegistration{reg}, entries, nil)

	if len(slots) != 2 {
		t.Fatalf("Expected 2 slots, got %d", len(slots))
	}
	for _, slot := range slots {
		switch slot.TeamIndex {
		case 1:
			if slot.RunningNumber == nil || *slot.RunningNumber != 5 {
				t.Errorf("Expected team 1 to be seeded with 5, got %v", slot.RunningNumber)
			}
		case 2:
			if slot.RunningNumber != nil {
				t.Errorf("Expected team 2 to seed nil, got %d", *slot.RunningNumber)
			}
		}
	}
}

func TestExpand_PreservesDirtyEditsAcrossRecompute(t *testing.T) {
	reg := newRegistration("SMA Harapan", domain.CategoryWira, map[string]int{"pp": 1})

	first := Expand([]*domain.SchoolRegistration{reg}, nil, nil)
	board := NewBoard(first)
	if err := board.Assign(first[0].SlotID, "7"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	second := Expand([]*domain.SchoolRegistration{reg}, nil, board.Slots())

	if len(second) != 1 {
		t.Fatalf("Expected 1 slot, got %d", len(second))
	}
	if second[0].RunningNumber == nil || *second[0].RunningNumber != 7 {
		t.Errorf("Expected edited value 7 to survive recompute, got %v", second[0].RunningNumber)
	}
	if !second[0].Dirty {
		t.Error("Expected dirty flag to survive recompute")
	}
}

func TestExpand_ClearsDirtyOnceEntryMatches(t *testing.T) {
	reg := newRegistration("SMA Harapan", domain.CategoryWira, map[string]int{"pp": 1})

	first := Expand([]*domain.SchoolRegistration{reg}, nil, nil)
	board := NewBoard(first)
	if err := board.Assign(first[0].SlotID, "7"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	// Simulates the refetch after a successful save: the store now holds 7.
	entries := []*domain.NumberEntry{
		{RegistrationID: reg.ID, EventKey: "pp", TeamIndex: 1, RunningNumber: intPtr(7)},
	}
	second := Expand([]*domain.SchoolRegistration{reg}, entries, board.Slots())

	if second[0].Dirty {
		t.Error("Expected dirty to clear once the seeded value matches")
	}
	if second[0].RunningNumber == nil || *second[0].RunningNumber != 7 {
		t.Errorf("Expected running number 7, got %v", second[0].RunningNumber)
	}
}

func TestExpand_DropsSlotsWhenCountShrinks(t *testing.T) {
	reg := newRegistration("SMA Harapan", domain.CategoryWira, map[string]int{"pp": 2})

	first := Expand([]*domain.SchoolRegistration{reg}, nil, nil)
	if len(first) != 2 {
		t.Fatalf("Expected 2 slots, got %d", len(first))
	}

	reg.EventCounts = datatypes.NewJSONType(map[string]int{"pp": 1})
	second := Expand([]*domain.SchoolRegistration{reg}, nil, first)

	if len(second) != 1 {
		t.Fatalf("Expected 1 slot after shrink, got %d", len(second))
	}
	if second[0].TeamIndex != 1 {
		t.Errorf("Expected surviving slot to be team 1, got %d", second[0].TeamIndex)
	}
}
