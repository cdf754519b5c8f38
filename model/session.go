package model

import (
	"time"

	"gorm.io/datatypes"
)

// Session bounds one interval of active presence in a single tab.
type Session struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	ParticipantID   string     `json:"participant_id" gorm:"index;not null"`
	TabID           string     `json:"tab_id" gorm:"index"`
	Condition       string     `json:"condition"`
	DayNumber       int        `json:"day_number"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at" gorm:"index"`
	DurationSeconds *int64     `json:"duration_seconds"`
	EndReason       *string    `json:"end_reason"` // normal, tab_hidden, page_unload, page_hide, logout
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (s *Session) IsOpen() bool {
	return s.EndedAt == nil
}

// VideoRun is one attempt at viewing a unit's video.
type VideoRun struct {
	ID            string         `json:"id" gorm:"primaryKey"`
	ParticipantID string         `json:"participant_id" gorm:"index;not null"`
	SessionID     *string        `json:"session_id" gorm:"index"`
	UnitID        string         `json:"unit_id" gorm:"not null"`
	StartedAt     time.Time      `json:"started_at"`
	EndedAt       *time.Time     `json:"ended_at"`
	Metrics       datatypes.JSON `json:"metrics"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
