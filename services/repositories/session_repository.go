package repositories

import (
	"context"
	"time"

	"github.com/lac-hong-legacy/engage_api/model"
	"gorm.io/gorm"
)

// SessionRepository handles session and video run persistence
type SessionRepository struct {
	BaseRepository
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *SessionRepository) CreateSession(ctx context.Context, session *model.Session) error {
	if session.ID == "" {
		session.ID = newID()
	}
	if err := r.withContext(ctx).Create(session).Error; err != nil {
		return HandleError("create session", err)
	}
	return nil
}

// CloseSession closes an open session. Returns false when the session was
// already closed or does not exist.
func (r *SessionRepository) CloseSession(ctx context.Context, id string, endedAt time.Time, durationSeconds int64, reason string) (bool, error) {
	res := r.withContext(ctx).
		Model(&model.Session{}).
		Where("id = ? AND ended_at IS NULL", id).
		Updates(map[string]interface{}{
			"ended_at":         endedAt,
			"duration_seconds": durationSeconds,
			"end_reason":       reason,
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return false, HandleError("close session", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *SessionRepository) GetSession(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	if err := r.withContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		return nil, HandleError("get session", err)
	}
	return &session, nil
}

func (r *SessionRepository) ListOpenSessions(ctx context.Context, participantID string) ([]model.Session, error) {
	var sessions []model.Session
	err := r.withContext(ctx).
		Where("participant_id = ? AND ended_at IS NULL", participantID).
		Order("started_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, HandleError("list open sessions", err)
	}
	return sessions, nil
}

func (r *SessionRepository) ListSessions(ctx context.Context, participantID string) ([]model.Session, error) {
	var sessions []model.Session
	err := r.withContext(ctx).
		Where("participant_id = ?", participantID).
		Order("started_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, HandleError("list sessions", err)
	}
	return sessions, nil
}
