package services

import (
	"context"
	"fmt"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/engage_api/clock"
	"github.com/lac-hong-legacy/engage_api/dto"
	"github.com/lac-hong-legacy/engage_api/model"
	"github.com/lac-hong-legacy/engage_api/shared"
	log "github.com/sirupsen/logrus"
)

type ObjectUploader interface {
	PutObject(ctx context.Context, objectName string, data []byte, contentType string) (int64, error)
}

// ParticipantExport is the document written for one participant.
type ParticipantExport struct {
	ParticipantID string                    `json:"participant_id"`
	ExportedAt    time.Time                 `json:"exported_at"`
	StudyDay      string                    `json:"study_day"`
	Progress      *model.ProgressRecord     `json:"progress,omitempty"`
	Gamification  *model.GamificationRecord `json:"gamification,omitempty"`
	Sessions      []model.Session           `json:"sessions"`
	VideoRuns     []model.VideoRun          `json:"video_runs"`
	Events        []model.Event             `json:"events"`
}

// ExportService gathers everything recorded about a participant into one
// JSON object in the study bucket.
type ExportService struct {
	appContext.DefaultService

	stores   *StoreService
	uploader ObjectUploader
	clock    clock.Clock
}

const EXPORT_SVC = "export_svc"

func (svc ExportService) Id() string {
	return EXPORT_SVC
}

func (svc *ExportService) Start() error {
	svc.stores = svc.Service(STORE_SVC).(*StoreService)
	svc.uploader = svc.Service(MINIO_SVC).(*MinIOService)
	svc.clock = clock.System{}
	return nil
}

func NewExportService(stores *StoreService, uploader ObjectUploader, clk clock.Clock) *ExportService {
	return &ExportService{stores: stores, uploader: uploader, clock: clk}
}

func (svc *ExportService) Collect(ctx context.Context, participantID string) (*ParticipantExport, error) {
	now := svc.clock.Now().UTC()
	doc := &ParticipantExport{
		ParticipantID: participantID,
		ExportedAt:    now,
		StudyDay:      clock.DayIdentifier(now),
	}

	var err error
	if doc.Progress, err = svc.stores.Progress().GetProgress(ctx, participantID); err != nil && !isNotFound(err) {
		return nil, err
	}
	if doc.Gamification, err = svc.stores.Gamification().GetGamification(ctx, participantID); err != nil && !isNotFound(err) {
		return nil, err
	}
	if doc.Sessions, err = svc.stores.Sessions().ListSessions(ctx, participantID); err != nil {
		return nil, err
	}
	if doc.VideoRuns, err = svc.stores.VideoRuns().ListVideoRuns(ctx, participantID); err != nil {
		return nil, err
	}
	if doc.Events, err = svc.stores.Events().ListEvents(ctx, participantID); err != nil {
		return nil, err
	}
	return doc, nil
}

// ExportParticipant uploads the participant's data to exports/<id>/<unix>.json.
func (svc *ExportService) ExportParticipant(ctx context.Context, participantID string) (*dto.ExportResponse, error) {
	doc, err := svc.Collect(ctx, participantID)
	if err != nil {
		return nil, err
	}

	data, err := shared.Marshal(doc)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to encode export")
	}

	key := fmt.Sprintf("exports/%s/%d.json", participantID, doc.ExportedAt.Unix())
	size, err := svc.uploader.PutObject(ctx, key, data, "application/json")
	if err != nil {
		return nil, shared.NewServiceUnavailableError(err, "Export upload failed")
	}

	log.WithFields(log.Fields{
		"participant_id": participantID,
		"object_key":     key,
		"sessions":       len(doc.Sessions),
		"events":         len(doc.Events),
	}).Info("Participant data exported")

	return &dto.ExportResponse{ObjectKey: key, Size: size}, nil
}
