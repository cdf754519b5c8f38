package repositories

import (
	"context"
	"time"

	"github.com/lac-hong-legacy/engage_api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type VideoRunRepository struct {
	BaseRepository
}

func NewVideoRunRepository(db *gorm.DB) *VideoRunRepository {
	return &VideoRunRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *VideoRunRepository) CreateVideoRun(ctx context.Context, run *model.VideoRun) error {
	if run.ID == "" {
		run.ID = newID()
	}
	if err := r.withContext(ctx).Create(run).Error; err != nil {
		return HandleError("create video run", err)
	}
	return nil
}

// FinishVideoRun attaches final metrics once. Returns false if the run was already finished.
func (r *VideoRunRepository) FinishVideoRun(ctx context.Context, id string, endedAt time.Time, metrics datatypes.JSON) (bool, error) {
	res := r.withContext(ctx).
		Model(&model.VideoRun{}).
		Where("id = ? AND ended_at IS NULL", id).
		Updates(map[string]interface{}{
			"ended_at":   endedAt,
			"metrics":    metrics,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, HandleError("finish video run", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *VideoRunRepository) GetVideoRun(ctx context.Context, id string) (*model.VideoRun, error) {
	var run model.VideoRun
	if err := r.withContext(ctx).Where("id = ?", id).First(&run).Error; err != nil {
		return nil, HandleError("get video run", err)
	}
	return &run, nil
}

func (r *VideoRunRepository) ListVideoRuns(ctx context.Context, participantID string) ([]model.VideoRun, error) {
	var runs []model.VideoRun
	err := r.withContext(ctx).
		Where("participant_id = ?", participantID).
		Order("started_at ASC").
		Find(&runs).Error
	if err != nil {
		return nil, HandleError("list video runs", err)
	}
	return runs, nil
}
