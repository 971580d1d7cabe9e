package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	domain "lomba-pmr/internal/domain/competition"
)

// In-memory repository implementations used by tests and local demos.
// They mirror the GORM repositories' observable behavior, including the
// composite-key merge semantics of UpsertBatch.

// MemoryRegistrationRepository is an in-memory domain.RegistrationRepository.
type MemoryRegistrationRepository struct {
	regs  map[uuid.UUID]*domain.SchoolRegistration
	mutex sync.RWMutex
}

func NewMemoryRegistrationRepository() *MemoryRegistrationRepository {
	return &MemoryRegistrationRepository{regs: make(map[uuid.UUID]*domain.SchoolRegistration)}
}

func (r *MemoryRegistrationRepository) Create(ctx context.Context, reg *domain.SchoolRegistration) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	if _, exists := r.regs[reg.ID]; exists {
		return errors.New("registration already exists")
	}
	clone := *reg
	r.regs[reg.ID] = &clone
	return nil
}

func (r *MemoryRegistrationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SchoolRegistration, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	reg, exists := r.regs[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	clone := *reg
	return &clone, nil
}

func (r *MemoryRegistrationRepository) List(ctx context.Context, filter domain.RegistrationFilter) ([]*domain.SchoolRegistration, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var regs []*domain.SchoolRegistration
	for _, reg := range r.regs {
		if filter.Category != "" && reg.Category != filter.Category {
			continue
		}
		if filter.Status != "" && reg.Status != filter.Status {
			continue
		}
		if filter.SchoolQuery != "" &&
			!strings.Contains(strings.ToLower(reg.SchoolName), strings.ToLower(filter.SchoolQuery)) {
			continue
		}
		clone := *reg
		regs = append(regs, &clone)
	}

	sort.Slice(regs, func(i, j int) bool {
		return regs[i].SchoolName < regs[j].SchoolName
	})
	return regs, nil
}

func (r *MemoryRegistrationRepository) Update(ctx context.Context, reg *domain.SchoolRegistration) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.regs[reg.ID]; !exists {
		return domain.ErrNotFound
	}
	clone := *reg
	r.regs[reg.ID] = &clone
	return nil
}

// MemoryNumberEntryRepository is an in-memory domain.NumberEntryRepository.
// FailUpserts makes the next UpsertBatch calls fail, for store-error tests.
type MemoryNumberEntryRepository struct {
	entries     map[string]*domain.NumberEntry
	mutex       sync.RWMutex
	FailUpserts bool
	UpsertCalls int
}

func NewMemoryNumberEntryRepository() *MemoryNumberEntryRepository {
	return &MemoryNumberEntryRepository{entries: make(map[string]*domain.NumberEntry)}
}

func entryKey(registrationID uuid.UUID, eventKey string, teamIndex int) string {
	return fmt.Sprintf("%s:%s:%d", registrationID, eventKey, teamIndex)
}

func (r *MemoryNumberEntryRepository) List(ctx context.Context) ([]*domain.NumberEntry, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	entries := make([]*domain.NumberEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		clone := *entry
		entries = append(entries, &clone)
	}
	return entries, nil
}

func (r *MemoryNumberEntryRepository) UpsertBatch(ctx context.Context, records []domain.NumberEntryRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.UpsertCalls++
	if r.FailUpserts {
		return errors.New("store unavailable")
	}

	for _, rec := range records {
		key := entryKey(rec.RegistrationID, rec.EventKey, rec.TeamIndex)
		if existing, ok := r.entries[key]; ok {
			existing.RunningNumber = rec.RunningNumber
			continue
		}
		r.entries[key] = &domain.NumberEntry{
			RegistrationID: rec.RegistrationID,
			EventKey:       rec.EventKey,
			TeamIndex:      rec.TeamIndex,
			RunningNumber:  rec.RunningNumber,
		}
	}
	return nil
}

// Get returns one entry by composite key, for test assertions.
func (r *MemoryNumberEntryRepository) Get(registrationID uuid.UUID, eventKey string, teamIndex int) (*domain.NumberEntry, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	entry, ok := r.entries[entryKey(registrationID, eventKey, teamIndex)]
	if !ok {
		return nil, false
	}
	clone := *entry
	return &clone, true
}

// MemoryPaymentRepository is an in-memory domain.PaymentRepository.
type MemoryPaymentRepository struct {
	payments map[uuid.UUID]*domain.PaymentRecord
	mutex    sync.RWMutex
}

func NewMemoryPaymentRepository() *MemoryPaymentRepository {
	return &MemoryPaymentRepository{payments: make(map[uuid.UUID]*domain.PaymentRecord)}
}

func (r *MemoryPaymentRepository) Create(ctx context.Context, payment *domain.PaymentRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	clone := *payment
	r.payments[payment.ID] = &clone
	return nil
}

func (r *MemoryPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	payment, exists := r.payments[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	clone := *payment
	return &clone, nil
}

func (r *MemoryPaymentRepository) ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]*domain.PaymentRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var payments []*domain.PaymentRecord
	for _, payment := range r.payments {
		if payment.RegistrationID == registrationID {
			clone := *payment
			payments = append(payments, &clone)
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].CreatedAt.Before(payments[j].CreatedAt)
	})
	return payments, nil
}

func (r *MemoryPaymentRepository) Update(ctx context.Context, payment *domain.PaymentRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.payments[payment.ID]; !exists {
		return domain.ErrNotFound
	}
	clone := *payment
	r.payments[payment.ID] = &clone
	return nil
}

// MemoryScoreRepository is an in-memory domain.ScoreRepository.
type MemoryScoreRepository struct {
	scores map[string]*domain.ScoreEntry
	mutex  sync.RWMutex
}

func NewMemoryScoreRepository() *MemoryScoreRepository {
	return &MemoryScoreRepository{scores: make(map[string]*domain.ScoreEntry)}
}

func (r *MemoryScoreRepository) Upsert(ctx context.Context, score *domain.ScoreEntry) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	clone := *score
	r.scores[entryKey(score.RegistrationID, score.EventKey, score.TeamIndex)] = &clone
	return nil
}

func (r *MemoryScoreRepository) ListByEvent(ctx context.Context, eventKey string) ([]*domain.ScoreEntry, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var scores []*domain.ScoreEntry
	for _, score := range r.scores {
		if score.EventKey == eventKey {
			clone := *score
			scores = append(scores, &clone)
		}
	}
	return scores, nil
}

func (r *MemoryScoreRepository) ListAll(ctx context.Context) ([]*domain.ScoreEntry, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	scores := make([]*domain.ScoreEntry, 0, len(r.scores))
	for _, score := range r.scores {
		clone := *score
		scores = append(scores, &clone)
	}
	return scores, nil
}
