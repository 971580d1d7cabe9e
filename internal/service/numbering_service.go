package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "lomba-pmr/internal/domain/competition"
	"lomba-pmr/internal/domain/numbering"
	"lomba-pmr/pkg/logger"
)

// ErrBoardNotFound is returned when a board ID is unknown or already evicted.
var ErrBoardNotFound = errors.New("numbering board not found")

// BoardSnapshot is the API view of one numbering board.
type BoardSnapshot struct {
	BoardID      uuid.UUID            `json:"board_id"`
	Slots        []numbering.TeamSlot `json:"slots"`
	DirtyCount   int                  `json:"dirty_count"`
	DroppedSlots []numbering.TeamSlot `json:"dropped_slots,omitempty"`
	RefreshedAt  time.Time            `json:"refreshed_at"`
}

// SaveResult reports the outcome of persisting a board's edits.
type SaveResult struct {
	Saved        int                  `json:"saved"`
	DroppedSlots []numbering.TeamSlot `json:"dropped_slots,omitempty"`
}

type numberingBoard struct {
	mu          sync.Mutex
	board       *numbering.Board
	lastAccess  time.Time
	lastRefresh time.Time
	dropped     []numbering.TeamSlot
}

// NumberingService manages per-session numbering boards over the
// registration and number-entry stores. Each board is an independent edit
// buffer; edits live only in memory until saved. Boards are auto-refreshed
// on an interval and evicted after sitting idle past their TTL.
//
// Sessions are not coordinated with each other: two boards can assign the
// same number and the store keeps whichever batch lands last.
type NumberingService struct {
	regRepo   domain.RegistrationRepository
	entryRepo domain.NumberEntryRepository

	boards map[uuid.UUID]*numberingBoard
	mu     sync.RWMutex

	refreshEvery time.Duration
	boardTTL     time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewNumberingService creates a board manager. Call Start to enable the
// background refresh/eviction sweeper.
func NewNumberingService(
	regRepo domain.RegistrationRepository,
	entryRepo domain.NumberEntryRepository,
	refreshEvery time.Duration,
	boardTTL time.Duration,
) *NumberingService {
	ctx, cancel := context.WithCancel(context.Background())
	return &NumberingService{
		regRepo:      regRepo,
		entryRepo:    entryRepo,
		boards:       make(map[uuid.UUID]*numberingBoard),
		refreshEvery: refreshEvery,
		boardTTL:     boardTTL,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start launches the background sweeper.
func (s *NumberingService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	s.wg.Add(1)
	go s.sweeper()
	logger.Info("Numbering board sweeper started (refresh %s, ttl %s)", s.refreshEvery, s.boardTTL)
}

// Stop cancels the sweeper and waits for it to exit.
func (s *NumberingService) Stop() {
	s.cancel()
	s.wg.Wait()
}

// OpenBoard fetches the stores wholesale, expands the roster and registers
// a new board session.
func (s *NumberingService) OpenBoard(ctx context.Context) (*BoardSnapshot, error) {
	slots, err := s.loadRoster(ctx, nil)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	now := time.Now()
	nb := &numberingBoard{
		board:       numbering.NewBoard(slots),
		lastAccess:  now,
		lastRefresh: now,
	}

	// Snapshot before publishing: once the board is in the map the sweeper
	// may refresh it concurrently.
	snapshot := s.snapshot(id, nb, numbering.Filter{})

	s.mu.Lock()
	s.boards[id] = nb
	s.mu.Unlock()

	logger.Info("Opened numbering board %s with %d slots", id, len(slots))
	return snapshot, nil
}

// GetBoard returns the board's slots, filtered and display-sorted.
func (s *NumberingService) GetBoard(boardID uuid.UUID, filter numbering.Filter) (*BoardSnapshot, error) {
	nb, err := s.lookup(boardID)
	if err != nil {
		return nil, err
	}

	nb.mu.Lock()
	defer nb.mu.Unlock()
	nb.lastAccess = time.Now()
	return s.snapshot(boardID, nb, filter), nil
}

// Assign applies one raw input to one slot. Conflict and validation
// semantics live in the board itself; this only adds session bookkeeping.
func (s *NumberingService) Assign(boardID uuid.UUID, slotID, raw string) (numbering.TeamSlot, error) {
	nb, err := s.lookup(boardID)
	if err != nil {
		return numbering.TeamSlot{}, err
	}

	nb.mu.Lock()
	defer nb.mu.Unlock()
	nb.lastAccess = time.Now()

	if err := nb.board.Assign(slotID, raw); err != nil {
		return numbering.TeamSlot{}, err
	}
	slot, _ := nb.board.Get(slotID)
	return slot, nil
}

// Save persists every dirty slot in one batch upsert. With no dirty slots
// it succeeds without touching the store. On store failure the dirty flags
// are left set so the whole batch can be retried. On success the roster is
// re-fetched, which clears dirty for the persisted slots.
func (s *NumberingService) Save(ctx context.Context, boardID uuid.UUID) (*SaveResult, error) {
	nb, err := s.lookup(boardID)
	if err != nil {
		return nil, err
	}

	nb.mu.Lock()
	defer nb.mu.Unlock()
	nb.lastAccess = time.Now()

	records := nb.board.DirtyRecords()
	if len(records) == 0 {
		return &SaveResult{Saved: 0}, nil
	}

	if err := s.entryRepo.UpsertBatch(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to save number entries: %w", err)
	}

	saved := len(records)
	slots, err := s.loadRoster(ctx, nb.board.Slots())
	if err != nil {
		// The batch is persisted; only the refresh failed. Leave the board
		// as-is so the next sweep or manual refresh reconciles it.
		logger.Warn("Saved %d number entries but refresh failed: %v", saved, err)
		return &SaveResult{Saved: saved}, nil
	}

	dropped := nb.board.Replace(slots)
	nb.lastRefresh = time.Now()
	nb.dropped = dropped

	logger.Info("Saved %d number entries for board %s", saved, boardID)
	return &SaveResult{Saved: saved, DroppedSlots: dropped}, nil
}

// Refresh re-fetches both stores and recomputes the roster, carrying
// unsaved edits forward by slot ID. Edits on slots that vanished are
// reported, not silently discarded.
func (s *NumberingService) Refresh(ctx context.Context, boardID uuid.UUID) (*BoardSnapshot, error) {
	nb, err := s.lookup(boardID)
	if err != nil {
		return nil, err
	}

	nb.mu.Lock()
	defer nb.mu.Unlock()
	nb.lastAccess = time.Now()

	if err := s.refreshLocked(ctx, nb); err != nil {
		return nil, err
	}
	return s.snapshot(boardID, nb, numbering.Filter{}), nil
}

// CloseBoard discards a board session.
func (s *NumberingService) CloseBoard(boardID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.boards[boardID]; !ok {
		return ErrBoardNotFound
	}
	delete(s.boards, boardID)
	return nil
}

// BoardCount reports how many sessions are live.
func (s *NumberingService) BoardCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.boards)
}

func (s *NumberingService) lookup(boardID uuid.UUID) (*numberingBoard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nb, ok := s.boards[boardID]
	if !ok {
		return nil, ErrBoardNotFound
	}
	return nb, nil
}

// loadRoster fetches registrations and number entries wholesale and expands
// them. A failure of either fetch fails the whole refresh; partial data is
// never used.
func (s *NumberingService) loadRoster(ctx context.Context, prev []numbering.TeamSlot) ([]numbering.TeamSlot, error) {
	regs, err := s.regRepo.List(ctx, domain.RegistrationFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch registrations: %w", err)
	}
	entries, err := s.entryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch number entries: %w", err)
	}
	return numbering.Expand(regs, entries, prev), nil
}

func (s *NumberingService) refreshLocked(ctx context.Context, nb *numberingBoard) error {
	slots, err := s.loadRoster(ctx, nb.board.Slots())
	if err != nil {
		return err
	}

	dropped := nb.board.Replace(slots)
	nb.lastRefresh = time.Now()
	nb.dropped = dropped
	if len(dropped) > 0 {
		logger.Warn("Refresh dropped %d slots with unsaved edits", len(dropped))
	}
	return nil
}

func (s *NumberingService) snapshot(boardID uuid.UUID, nb *numberingBoard, filter numbering.Filter) *BoardSnapshot {
	slots := filter.Apply(nb.board.Slots())
	numbering.SortSlots(slots)
	return &BoardSnapshot{
		BoardID:      boardID,
		Slots:        slots,
		DirtyCount:   nb.board.DirtyCount(),
		DroppedSlots: nb.dropped,
		RefreshedAt:  nb.lastRefresh,
	}
}

// sweeper periodically refreshes live boards and evicts idle ones.
func (s *NumberingService) sweeper() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.refreshEvery)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *NumberingService) sweep() {
	s.mu.Lock()
	type entry struct {
		id uuid.UUID
		nb *numberingBoard
	}
	var live []entry
	now := time.Now()
	for id, nb := range s.boards {
		if now.Sub(nb.lastAccess) > s.boardTTL {
			delete(s.boards, id)
			logger.Info("Evicted idle numbering board %s", id)
			continue
		}
		live = append(live, entry{id: id, nb: nb})
	}
	s.mu.Unlock()

	for _, e := range live {
		ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
		e.nb.mu.Lock()
		if err := s.refreshLocked(ctx, e.nb); err != nil {
			logger.Warn("Background refresh of board %s failed: %v", e.id, err)
		}
		e.nb.mu.Unlock()
		cancel()
	}
}
