package model

import (
	"time"

	"github.com/google/uuid"
)

// Batch statuses as stored in the database.
const (
	StatusPending = "pending"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Batch is the persisted record of one batch call.
type Batch struct {
	ID         uuid.UUID   `json:"id"`
	Filename   string      `json:"filename"`
	SourcePath string      `json:"source_path"`
	SourceType string      `json:"source_type"`
	Spec       BatchSpec   `json:"spec"`
	Status     string      `json:"status"`
	Results    BatchResult `json:"results,omitempty"`
	Error      string      `json:"error,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Task is the queue message that triggers processing of a stored batch.
type Task struct {
	BatchID    uuid.UUID `json:"batch_id"`
	Filename   string    `json:"filename"`
	SourcePath string    `json:"source_path"`
	SourceType string    `json:"source_type"`
	Spec       BatchSpec `json:"spec"`
}
