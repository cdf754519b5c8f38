package repositories

import (
	"context"
	"time"

	"github.com/lac-hong-legacy/engage_api/model"
	"github.com/lac-hong-legacy/engage_api/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GamificationRepository struct {
	BaseRepository
}

func NewGamificationRepository(db *gorm.DB) *GamificationRepository {
	return &GamificationRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *GamificationRepository) GetGamification(ctx context.Context, participantID string) (*model.GamificationRecord, error) {
	var rec model.GamificationRecord
	if err := r.withContext(ctx).Where("participant_id = ?", participantID).First(&rec).Error; err != nil {
		return nil, HandleError("get gamification", err)
	}
	return &rec, nil
}

func (r *GamificationRepository) CreateGamification(ctx context.Context, rec *model.GamificationRecord) error {
	if rec.ID == "" {
		rec.ID = newID()
	}
	rec.Version = 1

	res := r.withContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "participant_id"}}, DoNothing: true}).
		Create(rec)
	if res.Error != nil {
		return HandleError("create gamification", res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.ErrConflict
	}
	return nil
}

func (r *GamificationRepository) UpdateGamification(ctx context.Context, rec *model.GamificationRecord, expected int) error {
	now := time.Now()
	res := r.withContext(ctx).
		Model(&model.GamificationRecord{}).
		Where("participant_id = ? AND version = ?", rec.ParticipantID, expected).
		Updates(map[string]interface{}{
			"xp":                   rec.XP,
			"hearts":               rec.Hearts,
			"streak_days":          rec.StreakDays,
			"last_activity_day":    rec.LastActivityDay,
			"last_heart_reset_day": rec.LastHeartResetDay,
			"version":              expected + 1,
			"updated_at":           now,
		})
	if res.Error != nil {
		return HandleError("update gamification", res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.ErrConflict
	}
	rec.Version = expected + 1
	rec.UpdatedAt = now
	return nil
}
