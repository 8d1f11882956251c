package testutils

import (
	"time"

	"jotfox-notes/jotfox/models"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

var eventColumns = []string{
	"id", "event", "version", "entity", "operation",
	"actor_id", "timestamp", "data", "status",
	"dispatched", "dispatched_at",
}

// MockEventRows builds outbox rows for sqlmock. Blank fields get the values a
// freshly written pending event would have.
func MockEventRows(events []models.Event) *sqlmock.Rows {
	rows := sqlmock.NewRows(eventColumns)
	for _, e := range events {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.Version == 0 {
			e.Version = 1
		}
		if e.Timestamp.IsZero() {
			e.Timestamp = time.Now().UTC()
		}
		if e.Data == "" {
			e.Data = "{}"
		}
		if e.Status == "" {
			e.Status = "pending"
		}
		rows.AddRow(e.ID, e.Event, e.Version, e.Entity, e.Operation, e.ActorID,
			e.Timestamp, e.Data, e.Status, e.Dispatched, e.DispatchedAt)
	}
	return rows
}
