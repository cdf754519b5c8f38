package model

import (
	"time"

	"gorm.io/datatypes"
)

// Event is a write-once interaction record.
type Event struct {
	ID            string         `json:"id" gorm:"primaryKey"`
	ParticipantID string         `json:"participant_id" gorm:"index:idx_event_participant_ts;not null"`
	SessionID     *string        `json:"session_id" gorm:"index"`
	VideoRunID    *string        `json:"video_run_id"`
	Type          string         `json:"type" gorm:"size:64;not null"`
	Timestamp     time.Time      `json:"timestamp" gorm:"index:idx_event_participant_ts"`
	Metadata      datatypes.JSON `json:"metadata"`
	CreatedAt     time.Time      `json:"created_at"`
}
