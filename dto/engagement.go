package dto

// ==================== REQUEST DTOs ====================

type LoginRequest struct {
	TabID     string `json:"tab_id" validate:"required,max=100" example:"tab-1"`
	Condition string `json:"condition,omitempty" validate:"omitempty,oneof=gamified control" example:"gamified"`
	DayNumber int    `json:"day_number" validate:"min=0" example:"1"`
}

func (r LoginRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LogoutRequest struct {
	TabID string `json:"tab_id" validate:"required,max=100" example:"tab-1"`
}

func (r LogoutRequest) Validate() error {
	return GetValidator().Struct(r)
}

type QuizResultRequest struct {
	TabID   string `json:"tab_id,omitempty" validate:"max=100" example:"tab-1"`
	UnitID  string `json:"unit_id" validate:"required,max=100" example:"unit-01"`
	Correct int    `json:"correct" validate:"min=0,ltefield=Total" example:"9"`
	Total   int    `json:"total" validate:"required,min=1" example:"10"`
}

func (r QuizResultRequest) Validate() error {
	return GetValidator().Struct(r)
}

type AnswerJudgedRequest struct {
	TabID   string `json:"tab_id,omitempty" validate:"max=100" example:"tab-1"`
	UnitID  string `json:"unit_id" validate:"required,max=100" example:"unit-01"`
	Correct *bool  `json:"correct" validate:"required" example:"false"`
}

func (r AnswerJudgedRequest) Validate() error {
	return GetValidator().Struct(r)
}

type StartVideoRunRequest struct {
	TabID  string `json:"tab_id,omitempty" validate:"max=100" example:"tab-1"`
	UnitID string `json:"unit_id" validate:"required,max=100" example:"unit-01"`
}

func (r StartVideoRunRequest) Validate() error {
	return GetValidator().Struct(r)
}

type FinishVideoRunRequest struct {
	Metrics map[string]interface{} `json:"metrics" validate:"required,flat_metrics"`
}

func (r FinishVideoRunRequest) Validate() error {
	return GetValidator().Struct(r)
}

type RecordEventRequest struct {
	TabID      string                 `json:"tab_id,omitempty" validate:"max=100" example:"tab-1"`
	Type       string                 `json:"type" validate:"required,max=64" example:"caption_toggled"`
	VideoRunID string                 `json:"video_run_id,omitempty" validate:"max=64"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

func (r RecordEventRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ==================== RESPONSE DTOs ====================

type GamificationSnapshot struct {
	ParticipantID   string `json:"participant_id"`
	XP              int    `json:"xp"`
	Hearts          int    `json:"hearts"`
	MaxHearts       int    `json:"max_hearts"`
	StreakDays      int    `json:"streak_days"`
	LastActivityDay string `json:"last_activity_day,omitempty"`
	CanParticipate  bool   `json:"can_participate"`
	Initialized     bool   `json:"initialized"`
}

type SessionInfo struct {
	SessionID string `json:"session_id"`
	TabID     string `json:"tab_id"`
	StartedAt int64  `json:"started_at"`
}

type LoginResponse struct {
	Session         *SessionInfo          `json:"session,omitempty"`
	Condition       string                `json:"condition"`
	Gamification    *GamificationSnapshot `json:"gamification,omitempty"`
	OpenSessions    int                   `json:"open_sessions"`
	CatalogSize     int                   `json:"catalog_size"`
	UnlockedThrough int                   `json:"unlocked_through"`
}

type SessionSignalResponse struct {
	TabID     string       `json:"tab_id"`
	Open      bool         `json:"open"`
	Session   *SessionInfo `json:"session,omitempty"`
	EndReason string       `json:"end_reason,omitempty"`
}

type QuizResultResponse struct {
	UnitID           string                `json:"unit_id"`
	Correct          int                   `json:"correct"`
	Total            int                   `json:"total"`
	Stars            int                   `json:"stars"`
	XPEarned         int                   `json:"xp_earned"`
	BestScore        int                   `json:"best_score"`
	BestStars        int                   `json:"best_stars"`
	NextUnitUnlocked bool                  `json:"next_unit_unlocked"`
	Gamification     *GamificationSnapshot `json:"gamification,omitempty"`
}

type AnswerJudgedResponse struct {
	Correct        bool `json:"correct"`
	Hearts         int  `json:"hearts"`
	CanParticipate bool `json:"can_participate"`
}

type UnlockResponse struct {
	Index    int  `json:"index"`
	Unlocked bool `json:"unlocked"`
}

type BestScoreResponse struct {
	UnitID    string `json:"unit_id"`
	BestScore int    `json:"best_score"`
	BestStars int    `json:"best_stars"`
}

type CanParticipateResponse struct {
	CanParticipate bool `json:"can_participate"`
}

type VideoRunResponse struct {
	RunID     string `json:"run_id"`
	UnitID    string `json:"unit_id"`
	SessionID string `json:"session_id,omitempty"`
	Finished  bool   `json:"finished"`
}

type ExportResponse struct {
	ObjectKey string `json:"object_key"`
	Size      int64  `json:"size"`
}
