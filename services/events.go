package services

import (
	"context"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/engage_api/clock"
	"github.com/lac-hong-legacy/engage_api/model"
	"github.com/lac-hong-legacy/engage_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// EventService is a fire-and-forget sink for interaction events. Record never
// blocks: events are queued and appended by a background worker, and dropped
// when the queue is full or the append fails.
type EventService struct {
	appContext.DefaultService

	store        EventStore
	clock        clock.Clock
	bufferSize   int
	writeTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan *model.Event
	done   sync.WaitGroup
}

const EVENT_SVC = "event_svc"

func (svc EventService) Id() string {
	return EVENT_SVC
}

func (svc *EventService) Configure(ctx *appContext.Context) error {
	svc.bufferSize = shared.GetEnvInt("EVENT_BUFFER_SIZE", 1024)
	return svc.DefaultService.Configure(ctx)
}

func (svc *EventService) Start() error {
	svc.run(svc.Service(STORE_SVC).(*StoreService).Events(), clock.System{})
	return nil
}

func NewEventService(store EventStore, clk clock.Clock, bufferSize int) *EventService {
	svc := &EventService{bufferSize: bufferSize}
	svc.run(store, clk)
	return svc
}

func (svc *EventService) run(store EventStore, clk clock.Clock) {
	svc.store = store
	svc.clock = clk
	if svc.bufferSize < 1 {
		svc.bufferSize = 1
	}
	if svc.writeTimeout == 0 {
		svc.writeTimeout = 5 * time.Second
	}
	svc.queue = make(chan *model.Event, svc.bufferSize)

	svc.done.Add(1)
	go svc.worker()
}

func (svc *EventService) worker() {
	defer svc.done.Done()

	for event := range svc.queue {
		ctx, cancel := context.WithTimeout(context.Background(), svc.writeTimeout)
		err := svc.store.AppendEvent(ctx, event)
		cancel()

		if err != nil {
			eventsDroppedTotal.WithLabelValues("store").Inc()
			log.WithFields(log.Fields{
				"participant_id": event.ParticipantID,
				"type":           event.Type,
			}).WithError(err).Warn("Failed to record event")
			continue
		}
		eventsRecordedTotal.WithLabelValues(event.Type).Inc()
	}
}

// Shutdown stops accepting events and waits for the queue to drain.
func (svc *EventService) Shutdown() {
	svc.mu.Lock()
	if svc.closed || svc.queue == nil {
		svc.mu.Unlock()
		return
	}
	svc.closed = true
	close(svc.queue)
	svc.mu.Unlock()

	svc.done.Wait()
}

// Record queues an event. sessionID and videoRunID may be empty.
func (svc *EventService) Record(participantID, eventType string, metadata map[string]interface{}, sessionID, videoRunID string) {
	event := &model.Event{
		ParticipantID: participantID,
		SessionID:     optional(sessionID),
		VideoRunID:    optional(videoRunID),
		Type:          eventType,
		Timestamp:     svc.clock.Now().UTC(),
	}

	if len(metadata) > 0 {
		raw, err := shared.Marshal(metadata)
		if err != nil {
			log.WithFields(log.Fields{"participant_id": participantID, "type": eventType}).
				WithError(err).Warn("Dropping unencodable event metadata")
		} else {
			event.Metadata = datatypes.JSON(raw)
		}
	}

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	if svc.closed {
		eventsDroppedTotal.WithLabelValues("closed").Inc()
		return
	}

	select {
	case svc.queue <- event:
	default:
		eventsDroppedTotal.WithLabelValues("queue_full").Inc()
		log.WithFields(log.Fields{"participant_id": participantID, "type": eventType}).Warn("Event queue full, dropping event")
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
