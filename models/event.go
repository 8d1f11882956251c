package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is an outbox row written in the same transaction as the change it
// describes, and dispatched to the broker afterwards.
type Event struct {
	ID           string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Event        string     `gorm:"not null" json:"event"`
	Version      int        `gorm:"not null" json:"version"`
	Entity       string     `gorm:"not null" json:"entity"`
	Operation    string     `gorm:"not null" json:"operation"`
	ActorID      string     `gorm:"type:varchar(36)" json:"actor_id"`
	Timestamp    time.Time  `gorm:"not null" json:"timestamp"`
	Data         string     `gorm:"type:text;not null" json:"data"`
	Status       string     `gorm:"not null;default:'pending'" json:"status"`
	Dispatched   bool       `gorm:"not null;default:false" json:"dispatched"`
	DispatchedAt *time.Time `json:"dispatched_at,omitempty"`
}

func NewEvent(event, entity, operation, actorID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New().String(),
		Event:     event,
		Version:   1,
		Entity:    entity,
		Operation: operation,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Data:      string(dataBytes),
		Status:    "pending",
	}, nil
}
