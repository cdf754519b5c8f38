package model

import "time"

// Participant is enrolled externally and read-only to the engine.
type Participant struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Condition  string    `json:"condition" gorm:"not null;default:'gamified'"` // gamified, control
	DayNumber  int       `json:"day_number" gorm:"default:1"`
	EnrolledAt time.Time `json:"enrolled_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
