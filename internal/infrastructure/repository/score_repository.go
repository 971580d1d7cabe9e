package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "lomba-pmr/internal/domain/competition"
)

// ScoreRepository implements domain.ScoreRepository using GORM.
type ScoreRepository struct {
	db *gorm.DB
}

// NewScoreRepository creates a new GORM score repository.
func NewScoreRepository(db *gorm.DB) domain.ScoreRepository {
	return &ScoreRepository{db: db}
}

// Upsert writes a score, overwriting any earlier score for the same slot.
func (r *ScoreRepository) Upsert(ctx context.Context, score *domain.ScoreEntry) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "registration_id"},
			{Name: "event_key"},
			{Name: "team_index"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
	}).Create(score).Error
}

// ListByEvent retrieves all scores for one event.
func (r *ScoreRepository) ListByEvent(ctx context.Context, eventKey string) ([]*domain.ScoreEntry, error) {
	var scores []*domain.ScoreEntry
	if err := r.db.WithContext(ctx).Where("event_key = ?", eventKey).Find(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

// ListAll retrieves every score.
func (r *ScoreRepository) ListAll(ctx context.Context) ([]*domain.ScoreEntry, error) {
	var scores []*domain.ScoreEntry
	if err := r.db.WithContext(ctx).Find(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}
