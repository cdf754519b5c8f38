package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/engage_api/engine"
	"github.com/lac-hong-legacy/engage_api/model"
	"github.com/lac-hong-legacy/engage_api/shared"
	log "github.com/sirupsen/logrus"
)

type ProgressService struct {
	appContext.DefaultService

	store    ProgressStore
	catalog  *CatalogService
	attempts int
}

const PROGRESS_SVC = "progress_svc"

// QuizOutcome is the result of saving one quiz completion.
type QuizOutcome struct {
	UnitID           string
	Stars            int
	XP               int
	BestScore        int
	BestStars        int
	NextUnitUnlocked bool
}

func (svc ProgressService) Id() string {
	return PROGRESS_SVC
}

func (svc *ProgressService) Configure(ctx *appContext.Context) error {
	svc.attempts = shared.GetEnvInt("STORE_RETRY_ATTEMPTS", 3)
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressService) Start() error {
	svc.store = svc.Service(STORE_SVC).(*StoreService).Progress()
	svc.catalog = svc.Service(CATALOG_SVC).(*CatalogService)
	return nil
}

func NewProgressService(store ProgressStore, catalog *CatalogService) *ProgressService {
	return &ProgressService{store: store, catalog: catalog, attempts: 3}
}

// SaveQuizResult scores the attempt and folds it into the participant's
// progress. Store failures are returned so the caller can retry.
func (svc *ProgressService) SaveQuizResult(ctx context.Context, participantID, unitID string, correct, total int) (*QuizOutcome, error) {
	index, ok := svc.catalog.UnitIndex(unitID)
	if !ok {
		return nil, shared.NewBadRequestError(ErrUnknownUnit, fmt.Sprintf("Unknown unit %q", unitID))
	}

	outcome := &QuizOutcome{
		UnitID: unitID,
		Stars:  engine.Stars(correct, total),
		XP:     engine.XP(correct, total),
	}

	progress, err := svc.apply(ctx, participantID, func(p *engine.Progress) bool {
		return p.RecordCompletion(unitID, correct, outcome.Stars)
	})
	if err != nil {
		log.WithFields(log.Fields{
			"participant_id": participantID,
			"unit_id":        unitID,
		}).WithError(err).Error("Failed to save quiz result")
		return nil, err
	}

	outcome.BestScore, outcome.BestStars = progress.Best(unitID)
	if index+1 < svc.catalog.Len() {
		outcome.NextUnitUnlocked, _ = engine.IsUnlocked(progress, svc.catalog.Units(), index+1)
	}

	quizCompletionsTotal.WithLabelValues(strconv.Itoa(outcome.Stars)).Inc()
	return outcome, nil
}

// apply runs fn against the latest progress and writes it back under the
// version it was read at, creating the record on first completion.
func (svc *ProgressService) apply(ctx context.Context, participantID string, fn func(*engine.Progress) bool) (*engine.Progress, error) {
	attempts := svc.attempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		rec, err := svc.store.GetProgress(ctx, participantID)
		created := false
		if errors.Is(err, shared.ErrNotFound) {
			rec = &model.ProgressRecord{ParticipantID: participantID}
			created = true
		} else if err != nil {
			return nil, err
		}

		progress, err := rec.Progress()
		if err != nil {
			return nil, fmt.Errorf("decode progress for %s: %w", participantID, err)
		}
		if !fn(progress) && !created {
			return progress, nil
		}
		if err := rec.SetProgress(progress); err != nil {
			return nil, err
		}

		if created {
			err = svc.store.CreateProgress(ctx, rec)
		} else {
			err = svc.store.UpdateProgress(ctx, rec, rec.Version)
		}
		if err == nil {
			return progress, nil
		}
		if !errors.Is(err, shared.ErrConflict) {
			return nil, err
		}

		storeConflictsTotal.WithLabelValues("progress", "save_quiz").Inc()
	}

	return nil, fmt.Errorf("save progress after %d attempts: %w", attempts, shared.ErrConflict)
}

// Progress loads the participant's progress. A missing record is empty progress.
func (svc *ProgressService) Progress(ctx context.Context, participantID string) (*engine.Progress, error) {
	rec, err := svc.store.GetProgress(ctx, participantID)
	if errors.Is(err, shared.ErrNotFound) {
		return engine.NewProgress(), nil
	}
	if err != nil {
		return nil, err
	}
	return rec.Progress()
}

// IsUnlocked evaluates the unlock chain. Out-of-range indices are an error;
// an unreadable store locks everything past the first unit.
func (svc *ProgressService) IsUnlocked(ctx context.Context, participantID string, index int) (bool, error) {
	units := svc.catalog.Units()
	if index < 0 || index >= len(units) {
		return engine.IsUnlocked(nil, units, index)
	}

	progress, err := svc.Progress(ctx, participantID)
	if err != nil {
		log.WithFields(log.Fields{"participant_id": participantID, "index": index}).
			WithError(err).Warn("Progress read failed, treating unit as locked")
		progress = nil
	}
	return engine.IsUnlocked(progress, units, index)
}

// HighestUnlocked returns the index of the furthest unit the participant may open.
func (svc *ProgressService) HighestUnlocked(ctx context.Context, participantID string) int {
	progress, err := svc.Progress(ctx, participantID)
	if err != nil {
		return 0
	}

	units := svc.catalog.Units()
	highest := 0
	for i := 1; i < len(units); i++ {
		if ok, _ := engine.IsUnlocked(progress, units, i); ok {
			highest = i
		}
	}
	return highest
}

// BestScore returns the stored best score and stars for a unit, zero on any failure.
func (svc *ProgressService) BestScore(ctx context.Context, participantID, unitID string) (int, int) {
	progress, err := svc.Progress(ctx, participantID)
	if err != nil {
		log.WithFields(log.Fields{"participant_id": participantID, "unit_id": unitID}).
			WithError(err).Warn("Progress read failed, reporting zero best score")
		return 0, 0
	}
	return progress.Best(unitID)
}
