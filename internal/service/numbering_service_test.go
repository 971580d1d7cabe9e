package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	domain "lomba-pmr/internal/domain/competition"
	"lomba-pmr/internal/domain/numbering"
	"lomba-pmr/internal/infrastructure/repository"
)

func seedRegistration(t *testing.T, repo *repository.MemoryRegistrationRepository, school string, category domain.Category, counts map[string]int) *domain.SchoolRegistration {
	t.Helper()
	reg := &domain.SchoolRegistration{
		ID:          uuid.New(),
		SchoolName:  school,
		Category:    category,
		EventCounts: datatypes.NewJSONType(counts),
		Status:      domain.RegistrationVerified,
	}
	if err := repo.Create(context.Background(), reg); err != nil {
		t.Fatalf("Failed to seed registration: %v", err)
	}
	return reg
}

func newNumberingFixture(t *testing.T) (*NumberingService, *repository.MemoryRegistrationRepository, *repository.MemoryNumberEntryRepository) {
	t.Helper()
	regRepo := repository.NewMemoryRegistrationRepository()
	entryRepo := repository.NewMemoryNumberEntryRepository()
	svc := NewNumberingService(regRepo, entryRepo, 30*time.Second, time.Hour)
	return svc, regRepo, entryRepo
}

func TestNumberingService_OpenAssignSave(t *testing.T) {
	svc, regRepo, entryRepo := newNumberingFixture(t)
	reg := seedRegistration(t, regRepo, "SMA Harapan", domain.CategoryWira, map[string]int{"pp": 2})

	board, err := svc.OpenBoard(context.Background())
	if err != nil {
		t.Fatalf("OpenBoard failed: %v", err)
	}
	if len(board.Slots) != 2 {
		t.Fatalf("Expected 2 slots, got %d", len(board.Slots))
	}

	slotID := numbering.SlotID(reg.ID, "pp", 1)
	slot, err := svc.Assign(board.BoardID, slotID, "11")
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if slot.RunningNumber == nil || *slot.RunningNumber != 11 {
		t.Errorf("Expected assigned value 11, got %v", slot.RunningNumber)
	}

	result, err := svc.Save(context.Background(), board.BoardID)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if result.Saved != 1 {
		t.Errorf("Expected 1 saved record, got %d", result.Saved)
	}

	entry, ok := entryRepo.Get(reg.ID, "pp", 1)
	if !ok {
		t.Fatal("Expected number entry to be persisted")
	}
	if entry.RunningNumber == nil || *entry.RunningNumber != 11 {
		t.Errorf("Expected persisted number 11, got %v", entry.RunningNumber)
	}

	// Save refetches, so the slot must be clean again.
	snapshot, err := svc.GetBoard(board.BoardID, numbering.Filter{})
	if err != nil {
		t.Fatalf("GetBoard failed: %v", err)
	}
	if snapshot.DirtyCount != 0 {
		t.Errorf("Expected no dirty slots after save, got %d", snapshot.DirtyCount)
	}
}

func TestNumberingService_SaveNoDirtyIsNoop(t *testing.T) {
	svc, regRepo, entryRepo := newNumberingFixture(t)
	seedRegistration(t, regRepo, "SMA Harapan", domain.CategoryWira, map[string]int{"pp": 1})

	board, err := svc.OpenBoard(context.Background())
	if err != nil {
		t.Fatalf("OpenBoard failed: %v", err)
	}

	result, err := svc.Save(context.Background(), board.BoardID)
	if err != nil {
		t.Fatalf("Expected no-op save to succeed, got %v", err)
	}
	if result.Saved != 0 {
		t.Errorf("Expected 0 saved records, got %d", result.Saved)
	}
	if entryRepo.UpsertCalls != 0 {
		t.Errorf("Expected the store not to be called, got %d calls", entryRepo.UpsertCalls)
	}
}

func TestNumberingService_SaveFailureKeepsDirty(t *testing.T) {
	svc, regRepo, entryRepo := newNumberingFixture(t)
	reg := seedRegistration(t, regRepo, "SMA Harapan", domain.CategoryWira, map[string]int{"pp": 1})

	board, err := svc.OpenBoard(context.Background())
	if err != nil {
		t.Fatalf("OpenBoard failed: %v", err)
	}
	slotID := numbering.SlotID(reg.ID, "pp", 1)
	if _, err := svc.Assign(board.BoardID, slotID, "5"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	entryRepo.FailUpserts = true
	if _, err := svc.Save(context.Background(), board.BoardID); err == nil {
		t.Fatal("Expected save to surface the store error")
	}

	// Dirty state survives the failure so the whole batch can be retried.
	snapshot, err := svc.GetBoard(board.BoardID, numbering.Filter{})
	if err != nil {
		t.Fatalf("GetBoard failed: %v", err)
	}
	if snapshot.DirtyCount != 1 {
		t.Fatalf("Expected dirty slot to survive failed save, got %d", snapshot.DirtyCount)
	}

	entryRepo.FailUpserts = false
	result, err := svc.Save(context.Background(), board.BoardID)
	if err != nil {
		t.Fatalf("Retry save failed: %v", err)
	}
	if result.Saved != 1 {
		t.Errorf("Expected retry to save 1 record, got %d", result.Saved)
	}
}

func TestNumberingService_RefreshPreservesEditsAndReportsDropped(t *testing.T) {
	svc, regRepo, _ := newNumberingFixture(t)
	reg := seedRegistration(t, regRepo, "SMA Harapan", domain.CategoryWira, map[string]int{"pp": 2})

	board, err := svc.OpenBoard(context.Background())
	if err != nil {
		t.Fatalf("OpenBoard failed: %v", err)
	}
	if _, err := svc.Assign(board.BoardID, numbering.SlotID(reg.ID, "pp", 1), "3"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if _, err := svc.Assign(board.BoardID, numbering.SlotID(reg.ID, "pp", 2), "4"); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	// The school drops its second team while edits are in flight.
	reg.EventCounts = datatypes.NewJSONType(map[string]int{"pp": 1})
	if err := regRepo.Update(context.Background(), reg); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	snapshot, err := svc.Refresh(context.Background(), board.BoardID)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if len(snapshot.Slots) != 1 {
		t.Fatalf("Expected 1 slot after shrink, got %d", len(snapshot.Slots))
	}
	if snapshot.Slots[0].RunningNumber == nil || *snapshot.Slots[0].RunningNumber != 3 {
		t.Errorf("Expected surviving edit 3, got %v", snapshot.Slots[0].RunningNumber)
	}
	if !snapshot.Slots[0].Dirty {
		t.Error("Expected surviving edit to stay dirty")
	}
	if len(snapshot.DroppedSlots) != 1 || snapshot.DroppedSlots[0].TeamIndex != 2 {
		t.Errorf("Expected dropped team 2 to be reported, got %+v", snapshot.DroppedSlots)
	}
}

func TestNumberingService_ConflictAcrossBoardIsNotDetected(t *testing.T) {
	// Two sessions can race to the same number; the duplicate guard only
	// sees the current in-memory snapshot and the store is last-write-wins.
	svc, regRepo, _ := newNumberingFixture(t)
	first := seedRegistration(t, regRepo, "SMA Harapan", domain.CategoryWira, map[string]int{"pp": 1})
	second := seedRegistration(t, regRepo, "SMA Merdeka", domain.CategoryWira, map[string]int{"pp": 1})

	boardA, err := svc.OpenBoard(context.Background())
	if err != nil {
		t.Fatalf("OpenBoard failed: %v", err)
	}
	boardB, err := svc.OpenBoard(context.Background())
	if err != nil {
		t.Fatalf("OpenBoard failed: %v", err)
	}

	if _, err := svc.Assign(boardA.BoardID, numbering.SlotID(first.ID, "pp", 1), "7"); err != nil {
		t.Fatalf("Assign on board A failed: %v", err)
	}
	if _, err := svc.Assign(boardB.BoardID, numbering.SlotID(second.ID, "pp", 1), "7"); err != nil {
		t.Fatalf("Assign on board B should not see board A's edit: %v", err)
	}
}

func TestNumberingService_OpenBoardWhileSweeperRuns(t *testing.T) {
	regRepo := repository.NewMemoryRegistrationRepository()
	entryRepo := repository.NewMemoryNumberEntryRepository()
	svc := NewNumberingService(regRepo, entryRepo, time.Millisecond, time.Hour)
	seedRegistration(t, regRepo, "SMA Harapan", domain.CategoryWira, map[string]int{"pp": 2})

	svc.Start()
	defer svc.Stop()

	// Boards become visible to the background refresh the moment they are
	// registered; opening them repeatedly must still yield consistent
	// snapshots.
	for i := 0; i < 100; i++ {
		board, err := svc.OpenBoard(context.Background())
		if err != nil {
			t.Fatalf("OpenBoard failed: %v", err)
		}
		if len(board.Slots) != 2 {
			t.Fatalf("Expected 2 slots in snapshot, got %d", len(board.Slots))
		}
		if err := svc.CloseBoard(board.BoardID); err != nil {
			t.Fatalf("CloseBoard failed: %v", err)
		}
	}
}

func TestNumberingService_UnknownBoard(t *testing.T) {
	svc, _, _ := newNumberingFixture(t)

	if _, err := svc.GetBoard(uuid.New(), numbering.Filter{}); err != ErrBoardNotFound {
		t.Errorf("Expected ErrBoardNotFound, got %v", err)
	}
	if err := svc.CloseBoard(uuid.New()); err != ErrBoardNotFound {
		t.Errorf("Expected ErrBoardNotFound, got %v", err)
	}
}
