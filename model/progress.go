package model

import (
	"encoding/json"
	"time"

	"github.com/lac-hong-legacy/engage_api/engine"
	"github.com/lac-hong-legacy/engage_api/shared"
)

// ProgressRecord holds one participant's completion state.
type ProgressRecord struct {
	ID             string          `json:"id" gorm:"primaryKey"`
	ParticipantID  string          `json:"participant_id" gorm:"uniqueIndex;not null"`
	CompletedUnits json.RawMessage `json:"completed_units" gorm:"type:text"` // JSON array of unit ids
	BestScores     json.RawMessage `json:"best_scores" gorm:"type:text"`     // unit id -> correct count
	BestStars      json.RawMessage `json:"best_stars" gorm:"type:text"`      // unit id -> stars
	Version        int             `json:"version" gorm:"not null;default:1"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Progress decodes the JSON columns. Empty columns decode to empty collections.
func (r *ProgressRecord) Progress() (*engine.Progress, error) {
	p := engine.NewProgress()
	if r == nil {
		return p, nil
	}

	var completed []string
	if len(r.CompletedUnits) > 0 {
		if err := shared.Unmarshal(r.CompletedUnits, &completed); err != nil {
			return nil, err
		}
	}
	for _, id := range completed {
		p.CompletedUnits[id] = struct{}{}
	}

	if len(r.BestScores) > 0 {
		if err := shared.Unmarshal(r.BestScores, &p.BestScore); err != nil {
			return nil, err
		}
	}
	if len(r.BestStars) > 0 {
		if err := shared.Unmarshal(r.BestStars, &p.BestStars); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// SetProgress encodes p into the JSON columns.
func (r *ProgressRecord) SetProgress(p *engine.Progress) error {
	completed, err := shared.Marshal(p.Completed())
	if err != nil {
		return err
	}
	scores, err := shared.Marshal(p.BestScore)
	if err != nil {
		return err
	}
	stars, err := shared.Marshal(p.BestStars)
	if err != nil {
		return err
	}

	r.CompletedUnits = completed
	r.BestScores = scores
	r.BestStars = stars
	return nil
}

// GamificationRecord holds hearts, XP and streak for one participant.
type GamificationRecord struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	ParticipantID     string    `json:"participant_id" gorm:"uniqueIndex;not null"`
	XP                int       `json:"xp"`
	Hearts            int       `json:"hearts"`
	StreakDays        int       `json:"streak_days"`
	LastActivityDay   *string   `json:"last_activity_day" gorm:"size:10"`
	LastHeartResetDay *string   `json:"last_heart_reset_day" gorm:"size:10"`
	Version           int       `json:"version" gorm:"not null;default:1"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (r *GamificationRecord) ActivityDay() string {
	if r.LastActivityDay == nil {
		return ""
	}
	return *r.LastActivityDay
}

func (r *GamificationRecord) HeartResetDay() string {
	if r.LastHeartResetDay == nil {
		return ""
	}
	return *r.LastHeartResetDay
}
