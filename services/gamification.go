package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/engage_api/clock"
	"github.com/lac-hong-legacy/engage_api/dto"
	"github.com/lac-hong-legacy/engage_api/model"
	"github.com/lac-hong-legacy/engage_api/shared"
	log "github.com/sirupsen/logrus"
)

// GamificationService is the ledger for hearts, XP and streaks. Every
// read-modify-write runs against the record version it read and is re-run
// from a fresh read when another writer got there first.
type GamificationService struct {
	appContext.DefaultService

	store    GamificationStore
	clock    clock.Clock
	attempts int
}

const GAMIFICATION_SVC = "gamification_svc"

func (svc GamificationService) Id() string {
	return GAMIFICATION_SVC
}

func (svc *GamificationService) Configure(ctx *appContext.Context) error {
	svc.attempts = shared.GetEnvInt("STORE_RETRY_ATTEMPTS", 3)
	return svc.DefaultService.Configure(ctx)
}

func (svc *GamificationService) Start() error {
	svc.store = svc.Service(STORE_SVC).(*StoreService).Gamification()
	svc.clock = clock.System{}
	return nil
}

func NewGamificationService(store GamificationStore, clk clock.Clock) *GamificationService {
	return &GamificationService{store: store, clock: clk, attempts: 3}
}

func (svc *GamificationService) today() string {
	return clock.DayIdentifier(svc.clock.Now())
}

// EnsureInitialized returns the participant's record, creating the baseline
// record (full hearts, streak of one) when none exists.
func (svc *GamificationService) EnsureInitialized(ctx context.Context, participantID string) (*model.GamificationRecord, error) {
	rec, err := svc.store.GetGamification(ctx, participantID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	today := svc.today()
	rec = &model.GamificationRecord{
		ParticipantID:     participantID,
		XP:                0,
		Hearts:            shared.MaxHearts,
		StreakDays:        1,
		LastActivityDay:   &today,
		LastHeartResetDay: &today,
	}

	err = svc.store.CreateGamification(ctx, rec)
	if errors.Is(err, shared.ErrConflict) {
		storeConflictsTotal.WithLabelValues("gamification", "create").Inc()
		return svc.store.GetGamification(ctx, participantID)
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"participant_id": participantID, "day": today}).Info("Gamification record initialized")
	return rec, nil
}

// mutate applies fn to a fresh copy of the record and writes it back under the
// version it was read at. fn returns false when nothing needs writing.
func (svc *GamificationService) mutate(ctx context.Context, participantID, op string, fn func(rec *model.GamificationRecord, today string) bool) (*model.GamificationRecord, error) {
	attempts := svc.attempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		rec, err := svc.store.GetGamification(ctx, participantID)
		if err != nil {
			return nil, err
		}

		expected := rec.Version
		if !fn(rec, svc.today()) {
			return rec, nil
		}

		err = svc.store.UpdateGamification(ctx, rec, expected)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, shared.ErrConflict) {
			return nil, err
		}

		storeConflictsTotal.WithLabelValues("gamification", op).Inc()
		log.WithFields(log.Fields{
			"participant_id": participantID,
			"op":             op,
			"attempt":        attempt,
		}).Debug("Gamification record changed underneath, retrying")
	}

	return nil, fmt.Errorf("%s after %d attempts: %w", op, attempts, shared.ErrConflict)
}

// CheckAndResetHearts refills hearts once per study day. The reset is stamped
// on its own day label so repeated calls on the same day are no-ops whether or
// not the streak has been updated. An absent record is left alone.
func (svc *GamificationService) CheckAndResetHearts(ctx context.Context, participantID string) (bool, error) {
	reset := false
	_, err := svc.mutate(ctx, participantID, "reset_hearts", func(rec *model.GamificationRecord, _ string) bool {
		reset = refillHearts(rec, svc.clock.Now())
		return reset
	})
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if reset {
		heartResetsTotal.Inc()
		log.WithFields(log.Fields{"participant_id": participantID}).Info("Daily hearts reset")
	}
	return reset, nil
}

// refillHearts tops hearts up to the maximum when the last reset was stamped
// on an earlier day.
func refillHearts(rec *model.GamificationRecord, now time.Time) bool {
	if !clock.ShouldAdvanceDay(rec.HeartResetDay(), now) {
		return false
	}
	today := clock.DayIdentifier(now)
	rec.Hearts = shared.MaxHearts
	rec.LastHeartResetDay = &today
	return true
}

// UpdateStreak advances, keeps or breaks the streak based on how many study
// days passed since the last recorded activity.
func (svc *GamificationService) UpdateStreak(ctx context.Context, participantID string) (*model.GamificationRecord, error) {
	outcome := ""
	rec, err := svc.mutate(ctx, participantID, "update_streak", func(rec *model.GamificationRecord, today string) bool {
		outcome = streakOutcome(rec, today)
		switch outcome {
		case "unchanged":
			return false
		case "extended":
			rec.StreakDays++
		default:
			rec.StreakDays = 1
		}
		rec.LastActivityDay = &today
		return true
	})
	if errors.Is(err, shared.ErrNotFound) {
		rec, err = svc.EnsureInitialized(ctx, participantID)
		outcome = "initialized"
	}
	if err != nil {
		return nil, err
	}

	streakTransitionsTotal.WithLabelValues(outcome).Inc()
	return rec, nil
}

func streakOutcome(rec *model.GamificationRecord, today string) string {
	if rec.StreakDays == 0 {
		return "floor"
	}
	last := rec.ActivityDay()
	if last == "" {
		return "restarted"
	}

	diff, err := clock.DaysBetween(last, today)
	if err != nil {
		log.WithFields(log.Fields{"participant_id": rec.ParticipantID, "last_activity_day": last}).
			WithError(err).Warn("Unreadable activity day, restarting streak")
		return "restarted"
	}

	switch diff {
	case 0:
		return "unchanged"
	case 1:
		return "extended"
	default:
		return "broken"
	}
}

// AwardXP adds amount to the participant's XP. Negative amounts are ignored.
func (svc *GamificationService) AwardXP(ctx context.Context, participantID string, amount int) (*model.GamificationRecord, error) {
	if amount < 0 {
		log.WithFields(log.Fields{"participant_id": participantID, "amount": amount}).Warn("Ignoring negative XP award")
		return svc.store.GetGamification(ctx, participantID)
	}

	rec, err := svc.applyInitialized(ctx, participantID, "award_xp", func(rec *model.GamificationRecord, _ string) bool {
		if amount == 0 {
			return false
		}
		rec.XP += amount
		return true
	})
	if err != nil {
		return nil, err
	}

	xpAwardedTotal.Add(float64(amount))
	return rec, nil
}

// DeductHeart removes one heart, clamped at zero. A record whose hearts were
// last refilled on an earlier day is refilled first, in the same write.
func (svc *GamificationService) DeductHeart(ctx context.Context, participantID string) (*model.GamificationRecord, error) {
	deducted, reset := false, false
	rec, err := svc.applyInitialized(ctx, participantID, "deduct_heart", func(rec *model.GamificationRecord, _ string) bool {
		reset = refillHearts(rec, svc.clock.Now())
		deducted = false
		if rec.Hearts <= 0 {
			rec.Hearts = 0
			return reset
		}
		rec.Hearts--
		deducted = true
		return true
	})
	if err != nil {
		return nil, err
	}

	if reset {
		heartResetsTotal.Inc()
		log.WithFields(log.Fields{"participant_id": participantID}).Info("Daily hearts reset before deduction")
	}
	if deducted {
		heartsDeductedTotal.Inc()
	}
	return rec, nil
}

// applyInitialized runs mutate, creating the baseline record first if the
// participant has none yet.
func (svc *GamificationService) applyInitialized(ctx context.Context, participantID, op string, fn func(*model.GamificationRecord, string) bool) (*model.GamificationRecord, error) {
	rec, err := svc.mutate(ctx, participantID, op, fn)
	if !errors.Is(err, shared.ErrNotFound) {
		return rec, err
	}
	if _, err := svc.EnsureInitialized(ctx, participantID); err != nil {
		return nil, err
	}
	return svc.mutate(ctx, participantID, op, fn)
}

// CanParticipate refills hearts if the day has turned and reports whether any
// are left. Participants without a record, or whose record cannot be read,
// are allowed.
func (svc *GamificationService) CanParticipate(ctx context.Context, participantID string) bool {
	if _, err := svc.CheckAndResetHearts(ctx, participantID); err != nil {
		log.WithFields(log.Fields{"participant_id": participantID}).WithError(err).Warn("Heart reset check failed")
	}

	rec, err := svc.store.GetGamification(ctx, participantID)
	if errors.Is(err, shared.ErrNotFound) {
		return true
	}
	if err != nil {
		log.WithFields(log.Fields{"participant_id": participantID}).WithError(err).Warn("Gamification read failed, allowing participation")
		return true
	}
	return rec.Hearts > 0
}

// LoginSequence resets hearts before evaluating the streak so both are
// attributed to the same day transition.
func (svc *GamificationService) LoginSequence(ctx context.Context, participantID string) error {
	if _, err := svc.CheckAndResetHearts(ctx, participantID); err != nil {
		return err
	}
	_, err := svc.UpdateStreak(ctx, participantID)
	return err
}

// Snapshot returns the participant's current hearts, XP and streak, filling in
// defaults when no record exists or it cannot be read.
func (svc *GamificationService) Snapshot(ctx context.Context, participantID string) *dto.GamificationSnapshot {
	if _, err := svc.CheckAndResetHearts(ctx, participantID); err != nil {
		log.WithFields(log.Fields{"participant_id": participantID}).WithError(err).Warn("Heart reset check failed")
	}

	snapshot := &dto.GamificationSnapshot{
		ParticipantID: participantID,
		Hearts:        shared.MaxHearts,
		MaxHearts:     shared.MaxHearts,
	}

	rec, err := svc.store.GetGamification(ctx, participantID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			log.WithFields(log.Fields{"participant_id": participantID}).WithError(err).Warn("Gamification read failed, using defaults")
		}
		snapshot.CanParticipate = true
		return snapshot
	}

	snapshot.XP = rec.XP
	snapshot.Hearts = rec.Hearts
	snapshot.StreakDays = rec.StreakDays
	snapshot.LastActivityDay = rec.ActivityDay()
	snapshot.CanParticipate = rec.Hearts > 0
	snapshot.Initialized = true
	return snapshot
}
