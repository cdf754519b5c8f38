package services

import (
	"context"
	"fmt"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/engage_api/dto"
	"github.com/lac-hong-legacy/engage_api/model"
	"github.com/lac-hong-legacy/engage_api/shared"
	log "github.com/sirupsen/logrus"
)

// EngagementService turns UI triggers into ledger, progress and session
// transitions. Gamification and telemetry writes are best-effort here; quiz
// result persistence is the only write whose failure reaches the caller.
type EngagementService struct {
	appContext.DefaultService

	participants *ParticipantService
	ledger       *GamificationService
	progress     *ProgressService
	sessions     *SessionService
	events       *EventService
	videos       *VideoRunService
	catalog      *CatalogService
}

const ENGAGEMENT_SVC = "engagement_svc"

func (svc EngagementService) Id() string {
	return ENGAGEMENT_SVC
}

func (svc *EngagementService) Start() error {
	svc.participants = svc.Service(PARTICIPANT_SVC).(*ParticipantService)
	svc.ledger = svc.Service(GAMIFICATION_SVC).(*GamificationService)
	svc.progress = svc.Service(PROGRESS_SVC).(*ProgressService)
	svc.sessions = svc.Service(SESSION_SVC).(*SessionService)
	svc.events = svc.Service(EVENT_SVC).(*EventService)
	svc.videos = svc.Service(VIDEO_RUN_SVC).(*VideoRunService)
	svc.catalog = svc.Service(CATALOG_SVC).(*CatalogService)
	return nil
}

type EngagementDeps struct {
	Participants *ParticipantService
	Ledger       *GamificationService
	Progress     *ProgressService
	Sessions     *SessionService
	Events       *EventService
	Videos       *VideoRunService
	Catalog      *CatalogService
}

func NewEngagementService(deps EngagementDeps) *EngagementService {
	return &EngagementService{
		participants: deps.Participants,
		ledger:       deps.Ledger,
		progress:     deps.Progress,
		sessions:     deps.Sessions,
		events:       deps.Events,
		videos:       deps.Videos,
		catalog:      deps.Catalog,
	}
}

// condition resolves the participant's condition from the enrollment record.
// The condition the tab cached at login only stands in when no enrollment can
// be read, and gamified is the last resort.
func (svc *EngagementService) condition(ctx context.Context, participantID, tabID string) string {
	if c, ok := svc.participants.EnrolledCondition(ctx, participantID); ok {
		return c
	}
	if c := svc.sessions.CachedCondition(participantID, tabID); c != "" {
		return c
	}
	return shared.ConditionGamified
}

// loginCondition settles the condition a login runs under. An enrolled
// participant keeps the enrolled condition whatever the login asks for.
func (svc *EngagementService) loginCondition(ctx context.Context, participantID string, req dto.LoginRequest) string {
	if enrolled, ok := svc.participants.EnrolledCondition(ctx, participantID); ok {
		if req.Condition != "" && req.Condition != enrolled {
			log.WithFields(log.Fields{
				"participant_id": participantID,
				"enrolled":       enrolled,
				"requested":      req.Condition,
			}).Warn("Login condition differs from enrollment, keeping enrollment")
		}
		return enrolled
	}
	if shared.IsValidCondition(req.Condition) {
		return req.Condition
	}
	return shared.ConditionGamified
}

func swallow(op, participantID string, err error) {
	if err == nil {
		return
	}
	swallowedWritesTotal.WithLabelValues(op).Inc()
	log.WithFields(log.Fields{"participant_id": participantID, "op": op}).WithError(err).Warn("Best-effort write failed")
}

func sessionInfo(s *model.Session) *dto.SessionInfo {
	if s == nil {
		return nil
	}
	return &dto.SessionInfo{SessionID: s.ID, TabID: s.TabID, StartedAt: s.StartedAt.Unix()}
}

func (svc *EngagementService) OnLogin(ctx context.Context, participantID string, req dto.LoginRequest) *dto.LoginResponse {
	condition := svc.loginCondition(ctx, participantID, req)

	session := svc.sessions.Login(ctx, req.TabID, Identity{
		ParticipantID: participantID,
		Condition:     condition,
		DayNumber:     req.DayNumber,
	})

	gamified := condition == shared.ConditionGamified
	if gamified {
		swallow("login_sequence", participantID, svc.ledger.LoginSequence(ctx, participantID))
	}

	sessionID := ""
	if session != nil {
		sessionID = session.ID
	}
	svc.events.Record(participantID, shared.EventLogin, map[string]interface{}{
		"condition":  condition,
		"day_number": req.DayNumber,
		"tab_id":     req.TabID,
	}, sessionID, "")

	resp := &dto.LoginResponse{
		Session:         sessionInfo(session),
		Condition:       condition,
		CatalogSize:     svc.catalog.Len(),
		UnlockedThrough: svc.progress.HighestUnlocked(ctx, participantID),
	}
	if open, err := svc.sessions.ListOpenSessions(ctx, participantID); err == nil {
		resp.OpenSessions = len(open)
	}
	if gamified {
		resp.Gamification = svc.ledger.Snapshot(ctx, participantID)
	}
	return resp
}

func (svc *EngagementService) OnLogout(ctx context.Context, participantID, tabID string) *dto.SessionSignalResponse {
	closed := svc.sessions.Logout(ctx, participantID, tabID)
	sessionID := ""
	if closed != nil {
		sessionID = closed.ID
	}
	svc.events.Record(participantID, shared.EventLogout, map[string]interface{}{"tab_id": tabID}, sessionID, "")
	return closedSignal(tabID, closed)
}

func closedSignal(tabID string, closed *model.Session) *dto.SessionSignalResponse {
	resp := &dto.SessionSignalResponse{TabID: tabID, Open: false}
	if closed != nil {
		resp.Session = sessionInfo(closed)
		if closed.EndReason != nil {
			resp.EndReason = *closed.EndReason
		}
	}
	return resp
}

func (svc *EngagementService) OnTabHidden(ctx context.Context, participantID, tabID string) *dto.SessionSignalResponse {
	return closedSignal(tabID, svc.sessions.TabHidden(ctx, participantID, tabID))
}

func (svc *EngagementService) OnTabVisible(ctx context.Context, participantID, tabID string) *dto.SessionSignalResponse {
	opened := svc.sessions.TabVisible(ctx, participantID, tabID)
	if opened == nil {
		if id := svc.sessions.CurrentSessionID(participantID, tabID); id != "" {
			return &dto.SessionSignalResponse{TabID: tabID, Open: true, Session: &dto.SessionInfo{SessionID: id, TabID: tabID}}
		}
		return &dto.SessionSignalResponse{TabID: tabID, Open: false}
	}
	return &dto.SessionSignalResponse{TabID: tabID, Open: true, Session: sessionInfo(opened)}
}

func (svc *EngagementService) OnBeforeUnload(ctx context.Context, participantID, tabID string) *dto.SessionSignalResponse {
	return closedSignal(tabID, svc.sessions.BeforeUnload(ctx, participantID, tabID))
}

func (svc *EngagementService) OnPageHide(ctx context.Context, participantID, tabID string) *dto.SessionSignalResponse {
	return closedSignal(tabID, svc.sessions.PageHide(ctx, participantID, tabID))
}

// OnQuizCompleted persists the result, then awards XP for gamified participants.
func (svc *EngagementService) OnQuizCompleted(ctx context.Context, participantID string, req dto.QuizResultRequest) (*dto.QuizResultResponse, error) {
	outcome, err := svc.progress.SaveQuizResult(ctx, participantID, req.UnitID, req.Correct, req.Total)
	if err != nil {
		return nil, err
	}

	resp := &dto.QuizResultResponse{
		UnitID:           outcome.UnitID,
		Correct:          req.Correct,
		Total:            req.Total,
		Stars:            outcome.Stars,
		BestScore:        outcome.BestScore,
		BestStars:        outcome.BestStars,
		NextUnitUnlocked: outcome.NextUnitUnlocked,
	}

	if svc.condition(ctx, participantID, req.TabID) == shared.ConditionGamified {
		_, err := svc.ledger.AwardXP(ctx, participantID, outcome.XP)
		swallow("award_xp", participantID, err)
		resp.XPEarned = outcome.XP
		resp.Gamification = svc.ledger.Snapshot(ctx, participantID)
	}

	svc.events.Record(participantID, shared.EventQuizCompleted, map[string]interface{}{
		"unit_id": req.UnitID,
		"correct": req.Correct,
		"total":   req.Total,
		"stars":   outcome.Stars,
		"xp":      resp.XPEarned,
	}, svc.sessions.CurrentSessionID(participantID, req.TabID), "")

	return resp, nil
}

// OnAnswerJudged charges a heart for an incorrect answer at the moment it is judged.
func (svc *EngagementService) OnAnswerJudged(ctx context.Context, participantID string, req dto.AnswerJudgedRequest) *dto.AnswerJudgedResponse {
	correct := req.Correct != nil && *req.Correct
	resp := &dto.AnswerJudgedResponse{Correct: correct, Hearts: shared.MaxHearts, CanParticipate: true}

	if svc.condition(ctx, participantID, req.TabID) == shared.ConditionGamified {
		if !correct {
			_, err := svc.ledger.DeductHeart(ctx, participantID)
			swallow("deduct_heart", participantID, err)
		}
		snapshot := svc.ledger.Snapshot(ctx, participantID)
		resp.Hearts = snapshot.Hearts
		resp.CanParticipate = snapshot.CanParticipate
	}

	svc.events.Record(participantID, shared.EventAnswerJudged, map[string]interface{}{
		"unit_id": req.UnitID,
		"correct": correct,
	}, svc.sessions.CurrentSessionID(participantID, req.TabID), "")

	return resp
}

func (svc *EngagementService) IsUnlocked(ctx context.Context, participantID string, index int) (*dto.UnlockResponse, error) {
	unlocked, err := svc.progress.IsUnlocked(ctx, participantID, index)
	if err != nil {
		return nil, err
	}
	return &dto.UnlockResponse{Index: index, Unlocked: unlocked}, nil
}

func (svc *EngagementService) GetBestScore(ctx context.Context, participantID, unitID string) (*dto.BestScoreResponse, error) {
	if _, ok := svc.catalog.UnitIndex(unitID); !ok {
		return nil, shared.NewBadRequestError(ErrUnknownUnit, fmt.Sprintf("Unknown unit %q", unitID))
	}
	score, stars := svc.progress.BestScore(ctx, participantID, unitID)
	return &dto.BestScoreResponse{UnitID: unitID, BestScore: score, BestStars: stars}, nil
}

func (svc *EngagementService) GetGamificationSnapshot(ctx context.Context, participantID string) *dto.GamificationSnapshot {
	snapshot := svc.ledger.Snapshot(ctx, participantID)
	if svc.condition(ctx, participantID, "") == shared.ConditionControl {
		snapshot.CanParticipate = true
	}
	return snapshot
}

func (svc *EngagementService) CanParticipate(ctx context.Context, participantID string) bool {
	if svc.condition(ctx, participantID, "") == shared.ConditionControl {
		return true
	}
	return svc.ledger.CanParticipate(ctx, participantID)
}

func (svc *EngagementService) StartVideoRun(ctx context.Context, participantID string, req dto.StartVideoRunRequest) (*dto.VideoRunResponse, error) {
	sessionID := svc.sessions.CurrentSessionID(participantID, req.TabID)
	run, err := svc.videos.StartRun(ctx, participantID, sessionID, req.UnitID)
	if err != nil {
		return nil, err
	}

	svc.events.Record(participantID, shared.EventVideoStarted, map[string]interface{}{"unit_id": req.UnitID}, sessionID, run.ID)
	return &dto.VideoRunResponse{RunID: run.ID, UnitID: run.UnitID, SessionID: sessionID}, nil
}

func (svc *EngagementService) FinishVideoRun(ctx context.Context, participantID, runID string, req dto.FinishVideoRunRequest) (*dto.VideoRunResponse, error) {
	run, updated, err := svc.videos.FinishRun(ctx, participantID, runID, req.Metrics)
	if err != nil {
		return nil, err
	}

	sessionID := ""
	if run.SessionID != nil {
		sessionID = *run.SessionID
	}
	if updated {
		svc.events.Record(participantID, shared.EventVideoFinished, req.Metrics, sessionID, run.ID)
	}
	return &dto.VideoRunResponse{RunID: run.ID, UnitID: run.UnitID, SessionID: sessionID, Finished: true}, nil
}

func (svc *EngagementService) RecordEvent(ctx context.Context, participantID string, req dto.RecordEventRequest) {
	svc.events.Record(participantID, req.Type, req.Metadata, svc.sessions.CurrentSessionID(participantID, req.TabID), req.VideoRunID)
}
