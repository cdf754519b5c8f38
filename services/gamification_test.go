package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lac-hong-legacy/engage_api/shared"
)

func TestStreakTransitions(t *testing.T) {
	ctx := context.Background()
	clk := newManualClock()
	ledger := NewGamificationService(newTestStores(t).Gamification(), clk)

	rec, err := ledger.UpdateStreak(ctx, "p1")
	if err != nil {
		t.Fatalf("first UpdateStreak: %v", err)
	}
	if rec.StreakDays != 1 || rec.Hearts != shared.MaxHearts || rec.XP != 0 {
		t.Fatalf("initial record = %+v", rec)
	}

	steps := []struct {
		name    string
		advance time.Duration
		want    int
	}{
		{"same day", 3 * time.Hour, 1},
		{"next day", 24 * time.Hour, 2},
		{"following day", 24 * time.Hour, 3},
		{"same day again", time.Hour, 3},
		{"gap of two days", 48 * time.Hour, 1},
		{"resumes", 24 * time.Hour, 2},
	}
	for _, step := range steps {
		clk.Advance(step.advance)
		rec, err := ledger.UpdateStreak(ctx, "p1")
		if err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		if rec.StreakDays != step.want {
			t.Fatalf("%s: streak = %d, want %d", step.name, rec.StreakDays, step.want)
		}
	}
}

func TestStreakFollowsReferenceDay(t *testing.T) {
	ctx := context.Background()
	// 23:30 in the reference zone
	clk := newManualClock()
	clk.Set(time.Date(2026, 3, 11, 4, 30, 0, 0, time.UTC))
	ledger := NewGamificationService(newTestStores(t).Gamification(), clk)

	if _, err := ledger.UpdateStreak(ctx, "p1"); err != nil {
		t.Fatalf("UpdateStreak: %v", err)
	}

	// 00:30 the next reference day, one hour later in wall time
	clk.Advance(time.Hour)
	rec, err := ledger.UpdateStreak(ctx, "p1")
	if err != nil {
		t.Fatalf("UpdateStreak: %v", err)
	}
	if rec.StreakDays != 2 {
		t.Fatalf("streak = %d, want 2", rec.StreakDays)
	}
	if rec.ActivityDay() != "2026-03-11" {
		t.Fatalf("activity day = %q", rec.ActivityDay())
	}
}

func TestDeductHeartClampsAtZero(t *testing.T) {
	ctx := context.Background()
	ledger := NewGamificationService(newTestStores(t).Gamification(), newManualClock())

	for i := 0; i < shared.MaxHearts+1; i++ {
		if _, err := ledger.DeductHeart(ctx, "p1"); err != nil {
			t.Fatalf("deduct %d: %v", i, err)
		}
	}

	snapshot := ledger.Snapshot(ctx, "p1")
	if snapshot.Hearts != 0 {
		t.Fatalf("hearts = %d, want 0", snapshot.Hearts)
	}
	if snapshot.CanParticipate || ledger.CanParticipate(ctx, "p1") {
		t.Fatalf("participant with no hearts should be blocked")
	}
}

func TestHeartsResetOncePerDay(t *testing.T) {
	ctx := context.Background()
	clk := newManualClock()
	ledger := NewGamificationService(newTestStores(t).Gamification(), clk)

	if reset, err := ledger.CheckAndResetHearts(ctx, "p1"); err != nil || reset {
		t.Fatalf("reset without record = %v, %v", reset, err)
	}

	if _, err := ledger.EnsureInitialized(ctx, "p1"); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := ledger.DeductHeart(ctx, "p1"); err != nil {
			t.Fatalf("deduct: %v", err)
		}
	}

	if reset, _ := ledger.CheckAndResetHearts(ctx, "p1"); reset {
		t.Fatalf("reset on the initialization day")
	}

	clk.Advance(24 * time.Hour)
	reset, err := ledger.CheckAndResetHearts(ctx, "p1")
	if err != nil || !reset {
		t.Fatalf("next day reset = %v, %v", reset, err)
	}
	if got := ledger.Snapshot(ctx, "p1").Hearts; got != shared.MaxHearts {
		t.Fatalf("hearts after reset = %d", got)
	}

	if _, err := ledger.DeductHeart(ctx, "p1"); err != nil {
		t.Fatalf("deduct: %v", err)
	}
	if reset, _ := ledger.CheckAndResetHearts(ctx, "p1"); reset {
		t.Fatalf("second reset on the same day")
	}
	if got := ledger.Snapshot(ctx, "p1").Hearts; got != shared.MaxHearts-1 {
		t.Fatalf("hearts = %d, want %d", got, shared.MaxHearts-1)
	}
}

func TestHeartResetIndependentOfStreak(t *testing.T) {
	ctx := context.Background()
	clk := newManualClock()
	ledger := NewGamificationService(newTestStores(t).Gamification(), clk)

	if _, err := ledger.EnsureInitialized(ctx, "p1"); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}
	if _, err := ledger.DeductHeart(ctx, "p1"); err != nil {
		t.Fatalf("deduct: %v", err)
	}

	// the streak moves to the new day before hearts are checked
	clk.Advance(24 * time.Hour)
	if _, err := ledger.UpdateStreak(ctx, "p1"); err != nil {
		t.Fatalf("UpdateStreak: %v", err)
	}
	reset, err := ledger.CheckAndResetHearts(ctx, "p1")
	if err != nil || !reset {
		t.Fatalf("reset after streak update = %v, %v", reset, err)
	}
}

func TestDeductHeartRefillsOnNewDay(t *testing.T) {
	ctx := context.Background()
	clk := newManualClock()
	ledger := NewGamificationService(newTestStores(t).Gamification(), clk)

	for i := 0; i < 5; i++ {
		if _, err := ledger.DeductHeart(ctx, "p1"); err != nil {
			t.Fatalf("deduct %d: %v", i, err)
		}
	}

	// no login on the new day, the wrong answer is the first thing recorded
	clk.Advance(24 * time.Hour)
	rec, err := ledger.DeductHeart(ctx, "p1")
	if err != nil {
		t.Fatalf("deduct on new day: %v", err)
	}
	if rec.Hearts != shared.MaxHearts-1 {
		t.Fatalf("hearts = %d, want %d", rec.Hearts, shared.MaxHearts-1)
	}
	if rec.HeartResetDay() != ledger.today() {
		t.Fatalf("heart reset day = %q, want %q", rec.HeartResetDay(), ledger.today())
	}

	// the refill was stamped, so later checks that day leave the deduction alone
	if reset, _ := ledger.CheckAndResetHearts(ctx, "p1"); reset {
		t.Fatalf("second reset on the same day")
	}
	if got := ledger.Snapshot(ctx, "p1").Hearts; got != shared.MaxHearts-1 {
		t.Fatalf("snapshot hearts = %d, want %d", got, shared.MaxHearts-1)
	}
}

func TestLoginSequence(t *testing.T) {
	ctx := context.Background()
	clk := newManualClock()
	ledger := NewGamificationService(newTestStores(t).Gamification(), clk)

	if err := ledger.LoginSequence(ctx, "p1"); err != nil {
		t.Fatalf("first login: %v", err)
	}
	if got := ledger.Snapshot(ctx, "p1").StreakDays; got != 1 {
		t.Fatalf("streak after first login = %d", got)
	}
	for i := 0; i < 3; i++ {
		_, _ = ledger.DeductHeart(ctx, "p1")
	}

	clk.Advance(24 * time.Hour)
	if err := ledger.LoginSequence(ctx, "p1"); err != nil {
		t.Fatalf("second login: %v", err)
	}

	snapshot := ledger.Snapshot(ctx, "p1")
	if snapshot.Hearts != shared.MaxHearts || snapshot.StreakDays != 2 {
		t.Fatalf("snapshot = %+v", snapshot)
	}
}

func TestAwardXP(t *testing.T) {
	ctx := context.Background()
	ledger := NewGamificationService(newTestStores(t).Gamification(), newManualClock())

	if _, err := ledger.AwardXP(ctx, "p1", 55); err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	rec, err := ledger.AwardXP(ctx, "p1", 20)
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if rec.XP != 75 {
		t.Fatalf("xp = %d, want 75", rec.XP)
	}

	rec, err = ledger.AwardXP(ctx, "p1", -10)
	if err != nil {
		t.Fatalf("negative AwardXP: %v", err)
	}
	if rec.XP != 75 {
		t.Fatalf("negative award changed xp to %d", rec.XP)
	}
}

func TestLedgerRetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	store := &flakyGamificationStore{GamificationStore: newTestStores(t).Gamification()}
	ledger := NewGamificationService(store, newManualClock())

	if _, err := ledger.EnsureInitialized(ctx, "p1"); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}

	store.conflicts = 2
	rec, err := ledger.AwardXP(ctx, "p1", 10)
	if err != nil {
		t.Fatalf("AwardXP after conflicts: %v", err)
	}
	if rec.XP != 10 || store.updates != 3 {
		t.Fatalf("xp = %d after %d updates", rec.XP, store.updates)
	}

	store.conflicts = 5
	if _, err := ledger.AwardXP(ctx, "p1", 10); !errors.Is(err, shared.ErrConflict) {
		t.Fatalf("exhausted retries err = %v, want ErrConflict", err)
	}
	store.conflicts = 0
	if got := ledger.Snapshot(ctx, "p1").XP; got != 10 {
		t.Fatalf("xp after failed award = %d, want 10", got)
	}
}

func TestCanParticipateWhenStoreUnreadable(t *testing.T) {
	ctx := context.Background()
	store := &flakyGamificationStore{GamificationStore: newTestStores(t).Gamification()}
	ledger := NewGamificationService(store, newManualClock())

	if !ledger.CanParticipate(ctx, "nobody") {
		t.Fatalf("participant without a record should be allowed")
	}

	store.readErr = shared.ErrStoreUnavailable
	if !ledger.CanParticipate(ctx, "p1") {
		t.Fatalf("unreadable store should allow participation")
	}
	snapshot := ledger.Snapshot(ctx, "p1")
	if snapshot.Hearts != shared.MaxHearts || !snapshot.CanParticipate || snapshot.Initialized {
		t.Fatalf("default snapshot = %+v", snapshot)
	}
}
