package numbering

import (
	"errors"
	"testing"

	"gorm.io/datatypes"

	domain "lomba-pmr/internal/domain/competition"
)

func boardWith(t *testing.T, regs ...*domain.SchoolRegistration) *Board {
	t.Helper()
	return NewBoard(Expand(regs, nil, nil))
}

func TestBoard_AssignAndDirtyTracking(t *testing.T) {
	reg := newRegistration("SMP Negeri 2", domain.CategoryMadya, map[string]int{"pp": 1})
	board := boardWith(t, reg)
	id := SlotID(reg.ID, "pp", 1)

	if err := board.Assign(id, "12"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	slot, ok := board.Get(id)
	if !ok {
		t.Fatal("Expected slot to exist")
	}
	if slot.RunningNumber == nil || *slot.RunningNumber != 12 {
		t.Errorf("Expected running number 12, got %v", slot.RunningNumber)
	}
	if !slot.Dirty {
		t.Error("Expected slot to be dirty after edit")
	}
}

func TestBoard_DirtyIsMonotonic(t *testing.T) {
	reg := newRegistration("SMP Negeri 2", domain.CategoryMadya, map[string]int{"pp": 1})
	board := boardWith(t, reg)
	id := SlotID(reg.ID, "pp", 1)

	if err := board.Assign(id, "12"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	// Editing back to the original empty value must not clear dirty.
	if err := board.Assign(id, ""); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	slot, _ := board.Get(id)
	if slot.RunningNumber != nil {
		t.Errorf("Expected cleared number, got %v", slot.RunningNumber)
	}
	if !slot.Dirty {
		t.Error("Expected dirty to stay set after reverting the value")
	}
}

func TestBoard_NonNumericInputClears(t *testing.T) {
	reg := newRegistration("SMP Negeri 2", domain.CategoryMadya, map[string]int{"pp": 1})
	board := boardWith(t, reg)
	id := SlotID(reg.ID, "pp", 1)

	for _, raw := range []string{"", "  ", "abc", "12x", "-3", "0"} {
		if err := board.Assign(id, raw); err != nil {
			t.Fatalf("Assign(%q) failed: %v", raw, err)
		}
		slot, _ := board.Get(id)
		if slot.RunningNumber != nil {
			t.Errorf("Assign(%q): expected nil running number, got %d", raw, *slot.RunningNumber)
		}
	}
}

func TestBoard_RejectsDuplicateInSameScope(t *testing.T) {
	first := newRegistration("SMA Harapan", domain.CategoryWira, map[string]int{"pp": 1})
	second := newRegistration("SMA Merdeka", domain.CategoryWira, map[string]int{"pp": 1})
	board := boardWith(t, first, second)

	if err := board.Assign(SlotID(first.ID, "pp", 1), "3"); err != nil {
		t.Fatalf("First assignment failed: %v", err)
	}

	err := board.Assign(SlotID(second.ID, "pp", 1), "3")
	if err == nil {
		t.Fatal("Expected duplicate assignment to be rejected")
	}
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected ConflictError, got %T", err)
	}
	if conflict.Number != 3 || conflict.EventKey != "pp" || conflict.Category != domain.CategoryWira {
		t.Errorf("Conflict details wrong: %+v", conflict)
	}
	if conflict.HolderSchool != "SMA Harapan" {
		t.Errorf("Expected conflict to name the holder, got %q", conflict.HolderSchool)
	}

	// The rejected slot must be left untouched.
	slot, _ := board.Get(SlotID(second.ID, "pp", 1))
	if slot.RunningNumber != nil {
		t.Errorf("Expected rejected slot to keep nil, got %d", *slot.RunningNumber)
	}
	if slot.Dirty {
		t.Error("Expected rejected slot to stay clean")
	}
}

func TestBoard_SameNumberAcrossScopes(t *testing.T) {
	wira := newRegistration("SMA Harapan", domain.CategoryWira, map[string]int{"pp": 1, "pk": 1})
	madya := newRegistration("SMP Negeri 2", domain.CategoryMadya, map[string]int{"pp": 1})
	board := boardWith(t, wira, madya)

	assignments := []struct {
		slotID string
		raw    string
	}{
		{SlotID(wira.ID, "pp", 1), "3"},
		{SlotID(wira.ID, "pk", 1), "3"},  // same number, different event
		{SlotID(madya.ID, "pp", 1), "3"}, // same number and event, different category
	}
	for _, a := range assignments {
		if err := board.Assign(a.slotID, a.raw); err != nil {
			t.Errorf("Assign(%s, %q) should succeed across scopes: %v", a.slotID, a.raw, err)
		}
	}
}

func TestBoard_ReassignSameSlotSameNumber(t *testing.T) {
	reg := newRegistration("SMA Harapan", domain.CategoryWira, map[string]int{"pp": 1})
	board := boardWith(t, reg)
	id := SlotID(reg.ID, "pp", 1)

	if err := board.Assign(id, "9"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	// Re-entering the slot's own number is not a conflict with itself.
	if err := board.Assign(id, "9"); err != nil {
		t.Fatalf("Re-assigning own number should succeed: %v", err)
	}
}

func TestBoard_DirtyRecords(t *testing.T) {
	reg := newRegistration("SMA Harapan", domain.CategoryWira, map[string]int{"pp": 2})
	board := boardWith(t, reg)

	if records := board.DirtyRecords(); len(records) != 0 {
		t.Fatalf("Expected no dirty records on a fresh board, got %d", len(records))
	}

	if err := board.Assign(SlotID(reg.ID, "pp", 2), "4"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	records := board.DirtyRecords()
	if len(records) != 1 {
		t.Fatalf("Expected 1 dirty record, got %d", len(records))
	}
	rec := records[0]
	if rec.RegistrationID != reg.ID || rec.EventKey != "pp" || rec.TeamIndex != 2 {
		t.Errorf("Record key wrong: %+v", rec)
	}
	if rec.RunningNumber == nil || *rec.RunningNumber != 4 {
		t.Errorf("Expected record number 4, got %v", rec.RunningNumber)
	}
}

func TestBoard_ClearProducesNullRecord(t *testing.T) {
	reg := newRegistration("SMA Harapan", domain.CategoryWira, map[string]int{"pp": 1})
	entries := []*domain.NumberEntry{
		{RegistrationID: reg.ID, EventKey: "pp", TeamIndex: 1, RunningNumber: intPtr(8)},
	}
	board := NewBoard(Expand([]*domain.SchoolRegistration{reg}, entries, nil))
	id := SlotID(reg.ID, "pp", 1)

	if err := board.Assign(id, ""); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	records := board.DirtyRecords()
	if len(records) != 1 {
		t.Fatalf("Expected 1 dirty record, got %d", len(records))
	}
	if records[0].RunningNumber != nil {
		t.Errorf("Expected cleared record to carry nil, got %d", *records[0].RunningNumber)
	}
}

func TestBoard_ReplaceReportsDroppedDirtySlots(t *testing.T) {
	reg := newRegistration("SMA Harapan", domain.CategoryWira, map[string]int{"pp": 2})
	board := boardWith(t, reg)

	if err := board.Assign(SlotID(reg.ID, "pp", 2), "6"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	reg.EventCounts = datatypes.NewJSONType(map[string]int{"pp": 1})
	dropped := board.Replace(Expand([]*domain.SchoolRegistration{reg}, nil, board.Slots()))

	if len(dropped) != 1 {
		t.Fatalf("Expected 1 dropped dirty slot, got %d", len(dropped))
	}
	if dropped[0].TeamIndex != 2 {
		t.Errorf("Expected team 2 to be reported dropped, got %d", dropped[0].TeamIndex)
	}
	if _, ok := board.Get(SlotID(reg.ID, "pp", 2)); ok {
		t.Error("Expected dropped slot to be gone from the board")
	}
}
