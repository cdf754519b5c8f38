package repositories

import (
	"context"
	"time"

	"github.com/lac-hong-legacy/engage_api/model"
	"github.com/lac-hong-legacy/engage_api/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressRepository persists ProgressRecords under an optimistic version token.
type ProgressRepository struct {
	BaseRepository
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *ProgressRepository) GetProgress(ctx context.Context, participantID string) (*model.ProgressRecord, error) {
	var rec model.ProgressRecord
	if err := r.withContext(ctx).Where("participant_id = ?", participantID).First(&rec).Error; err != nil {
		return nil, HandleError("get progress", err)
	}
	return &rec, nil
}

// CreateProgress inserts rec at version 1. A concurrent creator wins with ErrConflict.
func (r *ProgressRepository) CreateProgress(ctx context.Context, rec *model.ProgressRecord) error {
	if rec.ID == "" {
		rec.ID = newID()
	}
	rec.Version = 1

	res := r.withContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "participant_id"}}, DoNothing: true}).
		Create(rec)
	if res.Error != nil {
		return HandleError("create progress", res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.ErrConflict
	}
	return nil
}

// UpdateProgress writes rec only if the stored version still equals expected.
func (r *ProgressRepository) UpdateProgress(ctx context.Context, rec *model.ProgressRecord, expected int) error {
	now := time.Now()
	res := r.withContext(ctx).
		Model(&model.ProgressRecord{}).
		Where("participant_id = ? AND version = ?", rec.ParticipantID, expected).
		Updates(map[string]interface{}{
			"completed_units": rec.CompletedUnits,
			"best_scores":     rec.BestScores,
			"best_stars":      rec.BestStars,
			"version":         expected + 1,
			"updated_at":      now,
		})
	if res.Error != nil {
		return HandleError("update progress", res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.ErrConflict
	}
	rec.Version = expected + 1
	rec.UpdatedAt = now
	return nil
}
