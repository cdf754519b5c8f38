package services

import (
	"context"
	"errors"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/engage_api/model"
	"github.com/lac-hong-legacy/engage_api/services/repositories"
	"github.com/lac-hong-legacy/engage_api/shared"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProgressStore is the record store boundary for ProgressRecords. Updates are
// conditioned on the version read; a mismatch returns shared.ErrConflict.
type ProgressStore interface {
	GetProgress(ctx context.Context, participantID string) (*model.ProgressRecord, error)
	CreateProgress(ctx context.Context, rec *model.ProgressRecord) error
	UpdateProgress(ctx context.Context, rec *model.ProgressRecord, expected int) error
}

type GamificationStore interface {
	GetGamification(ctx context.Context, participantID string) (*model.GamificationRecord, error)
	CreateGamification(ctx context.Context, rec *model.GamificationRecord) error
	UpdateGamification(ctx context.Context, rec *model.GamificationRecord, expected int) error
}

type SessionStore interface {
	CreateSession(ctx context.Context, session *model.Session) error
	CloseSession(ctx context.Context, id string, endedAt time.Time, durationSeconds int64, reason string) (bool, error)
	GetSession(ctx context.Context, id string) (*model.Session, error)
	ListOpenSessions(ctx context.Context, participantID string) ([]model.Session, error)
	ListSessions(ctx context.Context, participantID string) ([]model.Session, error)
}

type VideoRunStore interface {
	CreateVideoRun(ctx context.Context, run *model.VideoRun) error
	FinishVideoRun(ctx context.Context, id string, endedAt time.Time, metrics datatypes.JSON) (bool, error)
	GetVideoRun(ctx context.Context, id string) (*model.VideoRun, error)
	ListVideoRuns(ctx context.Context, participantID string) ([]model.VideoRun, error)
}

type EventStore interface {
	AppendEvent(ctx context.Context, event *model.Event) error
	ListEvents(ctx context.Context, participantID string) ([]model.Event, error)
}

type ParticipantStore interface {
	GetParticipant(ctx context.Context, id string) (*model.Participant, error)
	UpsertParticipant(ctx context.Context, p *model.Participant) error
}

type DatabaseProvider interface {
	Db() *gorm.DB
}

// StoreService builds the gorm repositories on top of whichever database
// service DB_DRIVER selects.
type StoreService struct {
	appContext.DefaultService

	driver string

	progress     *repositories.ProgressRepository
	gamification *repositories.GamificationRepository
	sessions     *repositories.SessionRepository
	videoRuns    *repositories.VideoRunRepository
	events       *repositories.EventRepository
	participants *repositories.ParticipantRepository
}

const STORE_SVC = "store_svc"

func (svc StoreService) Id() string {
	return STORE_SVC
}

func (svc *StoreService) Configure(ctx *appContext.Context) error {
	svc.driver = shared.GetEnv("DB_DRIVER", "sqlite")
	return svc.DefaultService.Configure(ctx)
}

func (svc *StoreService) Start() error {
	id := SQLITE_SVC
	if svc.driver == "postgres" {
		id = POSTGRES_SVC
	}
	svc.init(svc.Service(id).(DatabaseProvider).Db())
	return nil
}

func NewStoreService(db *gorm.DB) *StoreService {
	svc := &StoreService{}
	svc.init(db)
	return svc
}

func (svc *StoreService) init(db *gorm.DB) {
	svc.progress = repositories.NewProgressRepository(db)
	svc.gamification = repositories.NewGamificationRepository(db)
	svc.sessions = repositories.NewSessionRepository(db)
	svc.videoRuns = repositories.NewVideoRunRepository(db)
	svc.events = repositories.NewEventRepository(db)
	svc.participants = repositories.NewParticipantRepository(db)
}

func (svc *StoreService) Progress() ProgressStore         { return svc.progress }
func (svc *StoreService) Gamification() GamificationStore { return svc.gamification }
func (svc *StoreService) Sessions() SessionStore          { return svc.sessions }
func (svc *StoreService) VideoRuns() VideoRunStore        { return svc.videoRuns }
func (svc *StoreService) Events() EventStore              { return svc.events }
func (svc *StoreService) Participants() ParticipantStore  { return svc.participants }

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
