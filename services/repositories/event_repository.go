package repositories

import (
	"context"

	"github.com/lac-hong-legacy/engage_api/model"
	"gorm.io/gorm"
)

type EventRepository struct {
	BaseRepository
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *EventRepository) AppendEvent(ctx context.Context, event *model.Event) error {
	if event.ID == "" {
		event.ID = newID()
	}
	if err := r.withContext(ctx).Create(event).Error; err != nil {
		return HandleError("append event", err)
	}
	return nil
}

func (r *EventRepository) ListEvents(ctx context.Context, participantID string) ([]model.Event, error) {
	var events []model.Event
	err := r.withContext(ctx).
		Where("participant_id = ?", participantID).
		Order("timestamp ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, HandleError("list events", err)
	}
	return events, nil
}
