package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// WebSocketMessageType represents message type constants
type WebSocketMessageType string

const (
	SnapshotMessage WebSocketMessageType = "snapshot"
	PendingMessage  WebSocketMessageType = "pending"
	ResultsMessage  WebSocketMessageType = "results"
	DragMessage     WebSocketMessageType = "drag"
	ErrorMessage    WebSocketMessageType = "error"
)

// ClientMessage is a UI event sent by the browser over the bridge.
type ClientMessage struct {
	ID      string          `json:"id,omitempty"`
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// StandardMessage represents a standardized WebSocket message format
type StandardMessage struct {
	ID        string               `json:"id"`
	Type      WebSocketMessageType `json:"type"`
	Event     string               `json:"event,omitempty"`
	ReplyTo   string               `json:"reply_to,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
	Payload   interface{}          `json:"payload"`
}

// NewStandardMessage creates a new standard message
func NewStandardMessage(msgType WebSocketMessageType, event string, payload interface{}) *StandardMessage {
	return &StandardMessage{
		ID:        uuid.New().String(),
		Type:      msgType,
		Event:     event,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// InReplyTo links the message to the client message that caused it.
func (m *StandardMessage) InReplyTo(clientMessageID string) *StandardMessage {
	m.ReplyTo = clientMessageID
	return m
}

// Payloads carried by ClientMessage, keyed by action.

type UpdateNotePayload struct {
	NoteID int       `json:"noteID"`
	Draft  NoteDraft `json:"draft"`
}

type NoteIDPayload struct {
	NoteID int `json:"noteID"`
}

type ReorderPayload struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type SearchPayload struct {
	Term string `json:"term"`
}

type LayoutPayload struct {
	Positions []Position `json:"positions"`
}

type DragPayload struct {
	Index int   `json:"index"`
	Delta Point `json:"delta"`
}
