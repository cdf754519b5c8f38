package repositories

import (
	"context"

	"github.com/lac-hong-legacy/engage_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ParticipantRepository struct {
	BaseRepository
}

func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *ParticipantRepository) GetParticipant(ctx context.Context, id string) (*model.Participant, error) {
	var p model.Participant
	if err := r.withContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, HandleError("get participant", err)
	}
	return &p, nil
}

// UpsertParticipant enrolls p or refreshes its condition and day counter.
func (r *ParticipantRepository) UpsertParticipant(ctx context.Context, p *model.Participant) error {
	err := r.withContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"condition", "day_number", "updated_at"}),
		}).
		Create(p).Error
	return HandleError("upsert participant", err)
}
