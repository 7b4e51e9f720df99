package store

import (
	"context"
	"errors"
	"time"

	"github.com/NouradinAbdurahman/portfolio-api/pkg/models"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	// Translations. Upsert is atomic per key; last writer wins.
	UpsertTranslation(ctx context.Context, rec *models.TranslationRecord) (*models.TranslationRecord, error)
	GetTranslation(ctx context.Context, key string) (*models.TranslationRecord, error)
	ListTranslations(ctx context.Context, locale string) (map[string]string, error)
	ListNeedsReview(ctx context.Context) ([]*models.TranslationRecord, error)
	ApproveTranslation(ctx context.Context, key string) error
	SetLocaleValue(ctx context.Context, key, locale, value string) error

	// Job queue. ClaimNextJob atomically picks the next eligible pending
	// job and marks it processing, so concurrent processors never claim
	// the same job twice.
	CreateJob(ctx context.Context, job *models.TranslationJob) error
	GetJob(ctx context.Context, id uuid.UUID) (*models.TranslationJob, error)
	ClaimNextJob(ctx context.Context) (*models.TranslationJob, error)
	CompleteJob(ctx context.Context, id uuid.UUID) error
	FailJob(ctx context.Context, id uuid.UUID, errMsg string) error
	RetryJob(ctx context.Context, id uuid.UUID) error
	RequeueStuckJobs(ctx context.Context, stuckFor time.Duration) (int, error)
	JobStats(ctx context.Context) (*models.JobStats, error)
}
