package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// DefaultMaxAttempts is applied when a job is enqueued without one.
const DefaultMaxAttempts = 3

// TranslationJob is one row of the translation_jobs queue table. The
// background processor claims the highest-priority pending job (FIFO
// within a priority), translates it, and marks it completed or failed.
// A job at attempts == max_attempts stays failed and is never retried
// automatically.
type TranslationJob struct {
	ID             uuid.UUID `db:"id"              json:"id"`
	Key            string    `db:"key"             json:"key"`
	Text           string    `db:"text"            json:"text"`
	SourceLanguage string    `db:"source_language" json:"source_language"`
	Context        string    `db:"context"         json:"context,omitempty"`
	Priority       int       `db:"priority"        json:"priority"`
	Attempts       int       `db:"attempts"        json:"attempts"`
	MaxAttempts    int       `db:"max_attempts"    json:"max_attempts"`
	Status         string    `db:"status"          json:"status"`
	Error          *string   `db:"error"           json:"error,omitempty"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"      json:"updated_at"`
}

// JobStats is an aggregate count of queue jobs by status.
type JobStats struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

// Total returns the number of jobs across all statuses.
func (s JobStats) Total() int {
	return s.Pending + s.Processing + s.Completed + s.Failed
}
