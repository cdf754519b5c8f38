package services

import (
	"context"
	"errors"
	"fmt"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/engage_api/clock"
	"github.com/lac-hong-legacy/engage_api/model"
	"github.com/lac-hong-legacy/engage_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// VideoRunService tracks unit video viewing attempts.
type VideoRunService struct {
	appContext.DefaultService

	store   VideoRunStore
	catalog *CatalogService
	clock   clock.Clock
}

const VIDEO_RUN_SVC = "video_run_svc"

func (svc VideoRunService) Id() string {
	return VIDEO_RUN_SVC
}

func (svc *VideoRunService) Start() error {
	svc.store = svc.Service(STORE_SVC).(*StoreService).VideoRuns()
	svc.catalog = svc.Service(CATALOG_SVC).(*CatalogService)
	svc.clock = clock.System{}
	return nil
}

func NewVideoRunService(store VideoRunStore, catalog *CatalogService, clk clock.Clock) *VideoRunService {
	return &VideoRunService{store: store, catalog: catalog, clock: clk}
}

// StartRun creates a run tied to sessionID, which may be empty.
func (svc *VideoRunService) StartRun(ctx context.Context, participantID, sessionID, unitID string) (*model.VideoRun, error) {
	if _, ok := svc.catalog.UnitIndex(unitID); !ok {
		return nil, shared.NewBadRequestError(ErrUnknownUnit, fmt.Sprintf("Unknown unit %q", unitID))
	}

	run := &model.VideoRun{
		ParticipantID: participantID,
		SessionID:     optional(sessionID),
		UnitID:        unitID,
		StartedAt:     svc.clock.Now().UTC(),
	}
	if err := svc.store.CreateVideoRun(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// FinishRun attaches the final metrics. Only the first call for a run has any
// effect; later calls return false.
func (svc *VideoRunService) FinishRun(ctx context.Context, participantID, runID string, metrics map[string]interface{}) (*model.VideoRun, bool, error) {
	run, err := svc.store.GetVideoRun(ctx, runID)
	if err != nil {
		return nil, false, err
	}
	if run.ParticipantID != participantID {
		return nil, false, shared.NewNotFoundError(shared.ErrNotFound, "Video run not found")
	}

	raw, err := shared.Marshal(metrics)
	if err != nil {
		return nil, false, shared.NewBadRequestError(err, "Invalid metrics")
	}

	endedAt := svc.clock.Now().UTC()
	updated, err := svc.store.FinishVideoRun(ctx, runID, endedAt, datatypes.JSON(raw))
	if err != nil {
		return nil, false, err
	}
	if !updated {
		log.WithFields(log.Fields{"participant_id": participantID, "run_id": runID}).Info("Video run already finished")
		return run, false, nil
	}

	run.EndedAt = &endedAt
	run.Metrics = datatypes.JSON(raw)
	return run, true, nil
}

func (svc *VideoRunService) ListRuns(ctx context.Context, participantID string) ([]model.VideoRun, error) {
	runs, err := svc.store.ListVideoRuns(ctx, participantID)
	if errors.Is(err, shared.ErrNotFound) {
		return []model.VideoRun{}, nil
	}
	return runs, err
}
