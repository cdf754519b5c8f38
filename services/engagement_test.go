package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lac-hong-legacy/engage_api/clock"
	"github.com/lac-hong-legacy/engage_api/dto"
	"github.com/lac-hong-legacy/engage_api/model"
	"github.com/lac-hong-legacy/engage_api/shared"
)

type engagementFixture struct {
	stores     *StoreService
	clock      *clock.Manual
	events     *EventService
	engagement *EngagementService
}

func newEngagementFixture(t *testing.T) *engagementFixture {
	t.Helper()
	stores := newTestStores(t)
	clk := newManualClock()
	catalog := newTestCatalog(t)
	events := NewEventService(stores.Events(), clk, 64)
	t.Cleanup(events.Shutdown)

	sessions := NewSessionService(stores.Sessions(), nil, clk)
	t.Cleanup(sessions.Shutdown)

	engagement := NewEngagementService(EngagementDeps{
		Participants: NewParticipantService(stores.Participants(), nil),
		Ledger:       NewGamificationService(stores.Gamification(), clk),
		Progress:     NewProgressService(stores.Progress(), catalog),
		Sessions:     sessions,
		Events:       events,
		Videos:       NewVideoRunService(stores.VideoRuns(), catalog, clk),
		Catalog:      catalog,
	})
	return &engagementFixture{stores: stores, clock: clk, events: events, engagement: engagement}
}

func (f *engagementFixture) enroll(t *testing.T, id, condition string) {
	t.Helper()
	err := f.stores.Participants().UpsertParticipant(context.Background(), &model.Participant{
		ID: id, Condition: condition, DayNumber: 1, EnrolledAt: studyNoon,
	})
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
}

func boolPtr(b bool) *bool { return &b }

func TestGamifiedParticipantFlow(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture(t)
	f.enroll(t, "p1", shared.ConditionGamified)
	svc := f.engagement

	login := svc.OnLogin(ctx, "p1", dto.LoginRequest{TabID: "tab-a", DayNumber: 1})
	if login.Session == nil || login.Condition != shared.ConditionGamified || login.Gamification == nil {
		t.Fatalf("login = %+v", login)
	}
	if login.Gamification.StreakDays != 1 || login.Gamification.Hearts != shared.MaxHearts {
		t.Fatalf("login gamification = %+v", login.Gamification)
	}
	if login.OpenSessions != 1 || login.CatalogSize != 3 || login.UnlockedThrough != 0 {
		t.Fatalf("login summary = %+v", login)
	}

	judged := svc.OnAnswerJudged(ctx, "p1", dto.AnswerJudgedRequest{TabID: "tab-a", UnitID: "unit-1", Correct: boolPtr(false)})
	if judged.Hearts != shared.MaxHearts-1 || !judged.CanParticipate {
		t.Fatalf("judged = %+v", judged)
	}
	judged = svc.OnAnswerJudged(ctx, "p1", dto.AnswerJudgedRequest{TabID: "tab-a", UnitID: "unit-1", Correct: boolPtr(true)})
	if judged.Hearts != shared.MaxHearts-1 {
		t.Fatalf("correct answer cost a heart: %+v", judged)
	}

	if unlocked, _ := svc.IsUnlocked(ctx, "p1", 1); unlocked.Unlocked {
		t.Fatalf("unit 2 open before unit 1 completed")
	}

	result, err := svc.OnQuizCompleted(ctx, "p1", dto.QuizResultRequest{TabID: "tab-a", UnitID: "unit-1", Correct: 9, Total: 10})
	if err != nil {
		t.Fatalf("OnQuizCompleted: %v", err)
	}
	if result.Stars != 2 || result.XPEarned != 55 || !result.NextUnitUnlocked {
		t.Fatalf("result = %+v", result)
	}
	if result.Gamification == nil || result.Gamification.XP != 55 {
		t.Fatalf("result gamification = %+v", result.Gamification)
	}

	if unlocked, _ := svc.IsUnlocked(ctx, "p1", 1); !unlocked.Unlocked {
		t.Fatalf("unit 2 still locked")
	}
	best, err := svc.GetBestScore(ctx, "p1", "unit-1")
	if err != nil || best.BestScore != 9 || best.BestStars != 2 {
		t.Fatalf("best = %+v, %v", best, err)
	}

	logout := svc.OnLogout(ctx, "p1", "tab-a")
	if logout.Open || logout.EndReason != shared.EndReasonLogout {
		t.Fatalf("logout = %+v", logout)
	}

	f.events.Shutdown()
	events, err := f.stores.Events().ListEvents(ctx, "p1")
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	want := []string{shared.EventLogin, shared.EventAnswerJudged, shared.EventAnswerJudged, shared.EventQuizCompleted, shared.EventLogout}
	if len(events) != len(want) {
		t.Fatalf("recorded %d events, want %d", len(events), len(want))
	}
	for i, e := range events {
		if e.Type != want[i] {
			t.Fatalf("event %d = %s, want %s", i, e.Type, want[i])
		}
		if i < 4 && (e.SessionID == nil || *e.SessionID != login.Session.SessionID) {
			t.Fatalf("event %d not tied to the login session", i)
		}
	}
}

func TestControlParticipantSkipsGamification(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture(t)
	f.enroll(t, "c1", shared.ConditionControl)
	svc := f.engagement

	login := svc.OnLogin(ctx, "c1", dto.LoginRequest{TabID: "tab-a", DayNumber: 1})
	if login.Condition != shared.ConditionControl || login.Gamification != nil {
		t.Fatalf("control login = %+v", login)
	}

	for i := 0; i < shared.MaxHearts+5; i++ {
		judged := svc.OnAnswerJudged(ctx, "c1", dto.AnswerJudgedRequest{TabID: "tab-a", UnitID: "unit-1", Correct: boolPtr(false)})
		if judged.Hearts != shared.MaxHearts || !judged.CanParticipate {
			t.Fatalf("control answer %d = %+v", i, judged)
		}
	}

	result, err := svc.OnQuizCompleted(ctx, "c1", dto.QuizResultRequest{TabID: "tab-a", UnitID: "unit-1", Correct: 10, Total: 10})
	if err != nil {
		t.Fatalf("OnQuizCompleted: %v", err)
	}
	if result.XPEarned != 0 || result.Gamification != nil || result.Stars != 3 {
		t.Fatalf("control result = %+v", result)
	}

	if _, err := f.stores.Gamification().GetGamification(ctx, "c1"); !errors.Is(err, shared.ErrNotFound) {
		t.Fatalf("control participant got a gamification record: %v", err)
	}
	if !svc.CanParticipate(ctx, "c1") {
		t.Fatalf("control participant blocked")
	}
	if unlocked, _ := svc.IsUnlocked(ctx, "c1", 1); !unlocked.Unlocked {
		t.Fatalf("progress not tracked for control participant")
	}
}

func TestOutOfHeartsBlocksUntilNextDay(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture(t)
	f.enroll(t, "p1", shared.ConditionGamified)
	svc := f.engagement

	svc.OnLogin(ctx, "p1", dto.LoginRequest{TabID: "tab-a", DayNumber: 1})
	for i := 0; i < shared.MaxHearts; i++ {
		svc.OnAnswerJudged(ctx, "p1", dto.AnswerJudgedRequest{TabID: "tab-a", UnitID: "unit-1", Correct: boolPtr(false)})
	}
	if svc.CanParticipate(ctx, "p1") {
		t.Fatalf("participant with no hearts allowed")
	}
	if svc.GetGamificationSnapshot(ctx, "p1").Hearts != 0 {
		t.Fatalf("hearts not exhausted")
	}

	f.clock.Advance(24 * time.Hour)
	if !svc.CanParticipate(ctx, "p1") {
		t.Fatalf("hearts not refilled on the next day")
	}
}

func TestVisibilitySignals(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture(t)
	svc := f.engagement

	login := svc.OnLogin(ctx, "p1", dto.LoginRequest{TabID: "tab-a", Condition: shared.ConditionGamified, DayNumber: 1})

	hidden := svc.OnTabHidden(ctx, "p1", "tab-a")
	if hidden.Open || hidden.EndReason != shared.EndReasonTabHidden || hidden.Session.SessionID != login.Session.SessionID {
		t.Fatalf("hidden = %+v", hidden)
	}

	visible := svc.OnTabVisible(ctx, "p1", "tab-a")
	if !visible.Open || visible.Session == nil || visible.Session.SessionID == login.Session.SessionID {
		t.Fatalf("visible = %+v", visible)
	}
	again := svc.OnTabVisible(ctx, "p1", "tab-a")
	if !again.Open || again.Session.SessionID != visible.Session.SessionID {
		t.Fatalf("repeat visible = %+v", again)
	}

	unload := svc.OnBeforeUnload(ctx, "p1", "tab-a")
	if unload.Open || unload.EndReason != shared.EndReasonPageUnload {
		t.Fatalf("unload = %+v", unload)
	}
	if pagehide := svc.OnPageHide(ctx, "p1", "tab-a"); pagehide.Session != nil {
		t.Fatalf("pagehide after unload = %+v", pagehide)
	}
}

func TestVideoRunThroughEngagement(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture(t)
	svc := f.engagement

	login := svc.OnLogin(ctx, "p1", dto.LoginRequest{TabID: "tab-a", Condition: shared.ConditionControl, DayNumber: 1})
	run, err := svc.StartVideoRun(ctx, "p1", dto.StartVideoRunRequest{TabID: "tab-a", UnitID: "unit-1"})
	if err != nil {
		t.Fatalf("StartVideoRun: %v", err)
	}
	if run.SessionID != login.Session.SessionID {
		t.Fatalf("run session = %q", run.SessionID)
	}

	done, err := svc.FinishVideoRun(ctx, "p1", run.RunID, dto.FinishVideoRunRequest{Metrics: map[string]interface{}{"watched_seconds": 120}})
	if err != nil || !done.Finished {
		t.Fatalf("FinishVideoRun = %+v, %v", done, err)
	}
	if _, err := svc.FinishVideoRun(ctx, "p1", run.RunID, dto.FinishVideoRunRequest{}); err != nil {
		t.Fatalf("repeat FinishVideoRun: %v", err)
	}

	svc.RecordEvent(ctx, "p1", dto.RecordEventRequest{TabID: "tab-a", Type: "video_paused", VideoRunID: run.RunID})

	f.events.Shutdown()
	events, _ := f.stores.Events().ListEvents(ctx, "p1")
	var finished, paused int
	for _, e := range events {
		switch e.Type {
		case shared.EventVideoFinished:
			finished++
		case "video_paused":
			paused++
			if e.VideoRunID == nil || *e.VideoRunID != run.RunID {
				t.Fatalf("custom event lost its run id")
			}
		}
	}
	if finished != 1 || paused != 1 {
		t.Fatalf("finished=%d paused=%d", finished, paused)
	}
}

func TestQuizResultErrorsReachCaller(t *testing.T) {
	f := newEngagementFixture(t)
	_, err := f.engagement.OnQuizCompleted(context.Background(), "p1", dto.QuizResultRequest{UnitID: "missing", Correct: 1, Total: 10})
	if !errors.Is(err, ErrUnknownUnit) {
		t.Fatalf("err = %v", err)
	}
	if _, err := f.engagement.GetBestScore(context.Background(), "p1", "missing"); !errors.Is(err, ErrUnknownUnit) {
		t.Fatalf("best score err = %v", err)
	}
}

func TestEnrollmentConditionWinsOverLogin(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture(t)
	f.enroll(t, "c1", shared.ConditionControl)
	svc := f.engagement

	login := svc.OnLogin(ctx, "c1", dto.LoginRequest{TabID: "tab-a", Condition: shared.ConditionGamified, DayNumber: 1})
	if login.Condition != shared.ConditionControl || login.Gamification != nil {
		t.Fatalf("login = %+v, want the enrolled control condition", login)
	}

	judged := svc.OnAnswerJudged(ctx, "c1", dto.AnswerJudgedRequest{TabID: "tab-a", UnitID: "unit-1", Correct: boolPtr(false)})
	if judged.Hearts != shared.MaxHearts || !judged.CanParticipate {
		t.Fatalf("answer = %+v", judged)
	}
	if _, err := f.stores.Gamification().GetGamification(ctx, "c1"); !errors.Is(err, shared.ErrNotFound) {
		t.Fatalf("control participant got a gamification record: %v", err)
	}
	if !svc.CanParticipate(ctx, "c1") || !svc.GetGamificationSnapshot(ctx, "c1").CanParticipate {
		t.Fatalf("participation answers disagree with the answer path")
	}
}

func TestUnenrolledLoginUsesRequestedCondition(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture(t)
	svc := f.engagement

	login := svc.OnLogin(ctx, "c2", dto.LoginRequest{TabID: "tab-a", Condition: shared.ConditionControl, DayNumber: 3})
	if login.Condition != shared.ConditionControl || login.Gamification != nil {
		t.Fatalf("login = %+v", login)
	}

	for i := 0; i < shared.MaxHearts; i++ {
		judged := svc.OnAnswerJudged(ctx, "c2", dto.AnswerJudgedRequest{TabID: "tab-a", UnitID: "unit-1", Correct: boolPtr(false)})
		if judged.Hearts != shared.MaxHearts || !judged.CanParticipate {
			t.Fatalf("answer %d = %+v", i, judged)
		}
	}
	if _, err := f.stores.Gamification().GetGamification(ctx, "c2"); !errors.Is(err, shared.ErrNotFound) {
		t.Fatalf("control login created a gamification record: %v", err)
	}
	if !svc.CanParticipate(ctx, "c2") || !svc.GetGamificationSnapshot(ctx, "c2").CanParticipate {
		t.Fatalf("participation answers disagree with the answer path")
	}

	// enrollment stays external to the engine
	if _, err := f.stores.Participants().GetParticipant(ctx, "c2"); !errors.Is(err, shared.ErrNotFound) {
		t.Fatalf("login wrote a participant record: %v", err)
	}
}
