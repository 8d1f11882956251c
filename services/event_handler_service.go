package services

import (
	"encoding/json"
	"sync"
	"time"

	"jotfox-notes/jotfox/broker"
	"jotfox-notes/jotfox/database"
	"jotfox-notes/jotfox/models"

	"github.com/rs/zerolog/log"
)

type EventHandlerServiceInterface interface {
	Start()
	Stop()
	ProcessPendingEvents() (int, error)
}

// EventHandlerService publishes outbox events written by the other services
// and marks them dispatched.
type EventHandlerService struct {
	db       *database.Database
	producer broker.Producer
	interval time.Duration

	mu        sync.Mutex
	isRunning bool
	stop      chan struct{}
	done      chan struct{}
}

func NewEventHandlerService(db *database.Database, producer broker.Producer) *EventHandlerService {
	return &EventHandlerService{
		db:       db,
		producer: producer,
		interval: time.Second,
	}
}

func (s *EventHandlerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
}

func (s *EventHandlerService) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()
	<-done
}

func (s *EventHandlerService) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if _, err := s.ProcessPendingEvents(); err != nil {
				log.Error().Err(err).Msg("error fetching events")
			}
		}
	}
}

// ProcessPendingEvents publishes every undispatched event once, oldest first,
// and reports how many went out.
func (s *EventHandlerService) ProcessPendingEvents() (int, error) {
	var events []models.Event
	if err := s.db.DB.Where("dispatched = ?", false).Order("timestamp asc").Find(&events).Error; err != nil {
		return 0, err
	}
	if len(events) > 0 {
		log.Debug().Int("count", len(events)).Msg("found pending events")
	}

	dispatched := 0
	for _, event := range events {
		if err := s.dispatchEvent(event); err != nil {
			log.Error().Err(err).Str("event_id", event.ID).Msg("error dispatching event")
			continue
		}
		dispatched++
	}
	return dispatched, nil
}

func (s *EventHandlerService) dispatchEvent(event models.Event) error {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(event.Data), &data); err != nil {
		log.Warn().Err(err).Str("event_id", event.ID).Msg("could not unmarshal event data")
		data = map[string]interface{}{}
	}

	payload, err := json.Marshal(map[string]interface{}{
		"event_id":  event.ID,
		"type":      event.Event,
		"entity":    event.Entity,
		"operation": event.Operation,
		"actor_id":  event.ActorID,
		"timestamp": event.Timestamp,
		"data":      data,
	})
	if err != nil {
		return err
	}

	if err := s.producer.Publish(broker.SubjectForEntity(event.Entity), event.Event, payload); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.db.DB.Model(&models.Event{}).Where("id = ?", event.ID).Updates(map[string]interface{}{
		"dispatched":    true,
		"dispatched_at": now,
		"status":        "completed",
	}).Error
}

var EventHandlerServiceInstance EventHandlerServiceInterface
