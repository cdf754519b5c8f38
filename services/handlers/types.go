package handlers

import (
	"context"

	"github.com/lac-hong-legacy/engage_api/dto"
)

type EngagementServiceInterface interface {
	OnLogin(ctx context.Context, participantID string, req dto.LoginRequest) *dto.LoginResponse
	OnLogout(ctx context.Context, participantID, tabID string) *dto.SessionSignalResponse
	OnTabHidden(ctx context.Context, participantID, tabID string) *dto.SessionSignalResponse
	OnTabVisible(ctx context.Context, participantID, tabID string) *dto.SessionSignalResponse
	OnBeforeUnload(ctx context.Context, participantID, tabID string) *dto.SessionSignalResponse
	OnPageHide(ctx context.Context, participantID, tabID string) *dto.SessionSignalResponse
	OnQuizCompleted(ctx context.Context, participantID string, req dto.QuizResultRequest) (*dto.QuizResultResponse, error)
	OnAnswerJudged(ctx context.Context, participantID string, req dto.AnswerJudgedRequest) *dto.AnswerJudgedResponse
	IsUnlocked(ctx context.Context, participantID string, index int) (*dto.UnlockResponse, error)
	GetBestScore(ctx context.Context, participantID, unitID string) (*dto.BestScoreResponse, error)
	GetGamificationSnapshot(ctx context.Context, participantID string) *dto.GamificationSnapshot
	CanParticipate(ctx context.Context, participantID string) bool
	StartVideoRun(ctx context.Context, participantID string, req dto.StartVideoRunRequest) (*dto.VideoRunResponse, error)
	FinishVideoRun(ctx context.Context, participantID, runID string, req dto.FinishVideoRunRequest) (*dto.VideoRunResponse, error)
	RecordEvent(ctx context.Context, participantID string, req dto.RecordEventRequest)
}

type ExportServiceInterface interface {
	ExportParticipant(ctx context.Context, participantID string) (*dto.ExportResponse, error)
}
