package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "lomba-pmr/internal/domain/competition"
)

// NumberEntryRepository implements domain.NumberEntryRepository using GORM.
type NumberEntryRepository struct {
	db *gorm.DB
}

// NewNumberEntryRepository creates a new GORM number-entry repository.
func NewNumberEntryRepository(db *gorm.DB) domain.NumberEntryRepository {
	return &NumberEntryRepository{db: db}
}

// List retrieves every running-number entry.
func (r *NumberEntryRepository) List(ctx context.Context) ([]*domain.NumberEntry, error) {
	var entries []*domain.NumberEntry
	if err := r.db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// UpsertBatch writes all records in one statement, merging on the composite
// key (registration_id, event_key, team_index). Existing rows have their
// running_number overwritten, including with null to clear a number.
func (r *NumberEntryRepository) UpsertBatch(ctx context.Context, records []domain.NumberEntryRecord) error {
	if len(records) == 0 {
		return nil
	}

	entries := make([]domain.NumberEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, domain.NumberEntry{
			RegistrationID: rec.RegistrationID,
			EventKey:       rec.EventKey,
			TeamIndex:      rec.TeamIndex,
			RunningNumber:  rec.RunningNumber,
		})
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "registration_id"},
			{Name: "event_key"},
			{Name: "team_index"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"running_number", "updated_at"}),
	}).Create(&entries).Error
}
