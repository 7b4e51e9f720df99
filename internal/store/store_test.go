package store_test

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/NouradinAbdurahman/portfolio-api/internal/store"
	"github.com/NouradinAbdurahman/portfolio-api/pkg/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// migrationsDir returns the absolute path to the migrations directory.
func migrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "migrations")
}

// setupTestDB spins up a Postgres container, runs migrations, and returns a pool + cleanup.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("portfolio_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	err = store.RunMigrations(connStr, migrationsDir())
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	return pool
}

func newJob(key, text string) *models.TranslationJob {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.TranslationJob{
		ID:             uuid.New(),
		Key:            key,
		Text:           text,
		SourceLanguage: "en",
		MaxAttempts:    3,
		Status:         models.JobStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// --- Translation Tests ---

func TestUpsertTranslation_Insert(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)

	rec, err := s.UpsertTranslation(context.Background(), &models.TranslationRecord{
		Key: "hero.title",
		Values: map[string]string{
			"en": "Hello", "ar": "مرحبا", "tr": "Merhaba",
		},
		AutoTranslated: true,
		NeedsReview:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "hero.title", rec.Key)
	assert.Equal(t, "مرحبا", rec.Values["ar"])
	assert.Empty(t, rec.Values["fr"])
	assert.True(t, rec.AutoTranslated)
	assert.False(t, rec.UpdatedAt.IsZero())
}

func TestUpsertTranslation_UpdateReplacesAllLocales(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	_, err := s.UpsertTranslation(ctx, &models.TranslationRecord{
		Key:    "hero.title",
		Values: map[string]string{"en": "Hello", "fr": "Bonjour"},
	})
	require.NoError(t, err)

	rec, err := s.UpsertTranslation(ctx, &models.TranslationRecord{
		Key:            "hero.title",
		Values:         map[string]string{"en": "Hi", "de": "Hallo"},
		AutoTranslated: true,
		NeedsReview:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi", rec.Values["en"])
	assert.Equal(t, "Hallo", rec.Values["de"])
	// Last writer wins across all columns, including ones it left empty.
	assert.Empty(t, rec.Values["fr"])
}

func TestUpsertTranslation_RequiresEnglish(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)

	_, err := s.UpsertTranslation(context.Background(), &models.TranslationRecord{
		Key:    "hero.title",
		Values: map[string]string{"fr": "Bonjour"},
	})
	assert.Error(t, err)
}

func TestGetTranslation_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)

	_, err := s.GetTranslation(context.Background(), "missing.key")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListTranslations_FallsBackToEnglish(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	_, err := s.UpsertTranslation(ctx, &models.TranslationRecord{
		Key:    "hero.title",
		Values: map[string]string{"en": "Hello", "fr": "Bonjour"},
	})
	require.NoError(t, err)
	_, err = s.UpsertTranslation(ctx, &models.TranslationRecord{
		Key:    "hero.subtitle",
		Values: map[string]string{"en": "Welcome"},
	})
	require.NoError(t, err)

	bundle, err := s.ListTranslations(ctx, "fr")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", bundle["hero.title"])
	assert.Equal(t, "Welcome", bundle["hero.subtitle"], "empty locale column falls back to en")
}

func TestListTranslations_RejectsUnknownLocale(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)

	_, err := s.ListTranslations(context.Background(), "xx")
	assert.Error(t, err)
}

func TestReviewWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	_, err := s.UpsertTranslation(ctx, &models.TranslationRecord{
		Key:            "hero.title",
		Values:         map[string]string{"en": "Hello", "ar": "مرحبا"},
		AutoTranslated: true,
		NeedsReview:    true,
	})
	require.NoError(t, err)

	pending, err := s.ListNeedsReview(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "hero.title", pending[0].Key)

	require.NoError(t, s.ApproveTranslation(ctx, "hero.title"))

	pending, err = s.ListNeedsReview(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestApproveTranslation_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)

	err := s.ApproveTranslation(context.Background(), "missing.key")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetLocaleValue_ClearsReviewFlags(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	_, err := s.UpsertTranslation(ctx, &models.TranslationRecord{
		Key:            "hero.title",
		Values:         map[string]string{"en": "Hello", "ar": "مرحبا"},
		AutoTranslated: true,
		NeedsReview:    true,
	})
	require.NoError(t, err)

	require.NoError(t, s.SetLocaleValue(ctx, "hero.title", "ar", "أهلا"))

	rec, err := s.GetTranslation(ctx, "hero.title")
	require.NoError(t, err)
	assert.Equal(t, "أهلا", rec.Values["ar"])
	assert.False(t, rec.AutoTranslated)
	assert.False(t, rec.NeedsReview)
}

func TestSetLocaleValue_ForbidsEmptyEnglish(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	_, err := s.UpsertTranslation(ctx, &models.TranslationRecord{
		Key:    "hero.title",
		Values: map[string]string{"en": "Hello"},
	})
	require.NoError(t, err)

	err = s.SetLocaleValue(ctx, "hero.title", "en", "")
	assert.Error(t, err)
}

// --- Job Tests ---

func TestJob_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	job := newJob("hero.title", "Hello")
	require.NoError(t, s.CreateJob(ctx, job))

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, got.Status)
	assert.Equal(t, "hero.title", got.Key)
	assert.Nil(t, got.Error)
}

func TestJob_CreateDuplicateID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	job := newJob("hero.title", "Hello")
	require.NoError(t, s.CreateJob(ctx, job))

	dup := newJob("other.key", "Other")
	dup.ID = job.ID
	err := s.CreateJob(ctx, dup)
	assert.ErrorIs(t, err, store.ErrDuplicateKey)
}

func TestClaimNextJob_PriorityThenFIFO(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	older := newJob("low.older", "a")
	older.CreatedAt = older.CreatedAt.Add(-2 * time.Minute)
	newer := newJob("low.newer", "b")
	newer.CreatedAt = newer.CreatedAt.Add(-time.Minute)
	urgent := newJob("high.urgent", "c")
	urgent.Priority = 10

	for _, j := range []*models.TranslationJob{older, newer, urgent} {
		require.NoError(t, s.CreateJob(ctx, j))
	}

	// Highest priority first, then oldest within equal priority.
	first, err := s.ClaimNextJob(ctx)
	require.NoError(t, err)
	assert.Equal(t, urgent.ID, first.ID)
	assert.Equal(t, models.JobStatusProcessing, first.Status)

	second, err := s.ClaimNextJob(ctx)
	require.NoError(t, err)
	assert.Equal(t, older.ID, second.ID)

	third, err := s.ClaimNextJob(ctx)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, third.ID)

	_, err = s.ClaimNextJob(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestClaimNextJob_SkipsExhaustedJobs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	job := newJob("hero.title", "Hello")
	job.Attempts = 3
	require.NoError(t, s.CreateJob(ctx, job))

	_, err := s.ClaimNextJob(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCompleteJob_OnlyFromProcessing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	job := newJob("hero.title", "Hello")
	require.NoError(t, s.CreateJob(ctx, job))

	// Pending jobs cannot be completed.
	err := s.CompleteJob(ctx, job.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.ClaimNextJob(ctx)
	require.NoError(t, err)
	require.NoError(t, s.CompleteJob(ctx, job.ID))

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, got.Status)
}

func TestFailAndRetryJob(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	job := newJob("hero.title", "Hello")
	require.NoError(t, s.CreateJob(ctx, job))
	_, err := s.ClaimNextJob(ctx)
	require.NoError(t, err)

	require.NoError(t, s.FailJob(ctx, job.ID, "provider down"))

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, got.Status)
	assert.Equal(t, 1, got.Attempts)
	require.NotNil(t, got.Error)
	assert.Equal(t, "provider down", *got.Error)

	require.NoError(t, s.RetryJob(ctx, job.ID))

	got, err = s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, got.Status)
}

func TestRetryJob_AttemptCeiling(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	job := newJob("hero.title", "Hello")
	require.NoError(t, s.CreateJob(ctx, job))

	// Burn through every attempt.
	for i := 0; i < job.MaxAttempts; i++ {
		claimed, err := s.ClaimNextJob(ctx)
		require.NoError(t, err)
		require.Equal(t, job.ID, claimed.ID)
		require.NoError(t, s.FailJob(ctx, job.ID, "still down"))
		if i < job.MaxAttempts-1 {
			require.NoError(t, s.RetryJob(ctx, job.ID))
		}
	}

	// Attempts == max_attempts: no retry, no claim.
	err := s.RetryJob(ctx, job.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.ClaimNextJob(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRetryJob_OnlyFailedJobs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	job := newJob("hero.title", "Hello")
	require.NoError(t, s.CreateJob(ctx, job))

	err := s.RetryJob(ctx, job.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRequeueStuckJobs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	job := newJob("hero.title", "Hello")
	require.NoError(t, s.CreateJob(ctx, job))
	_, err := s.ClaimNextJob(ctx)
	require.NoError(t, err)

	// Freshly claimed: not stuck yet.
	n, err := s.RequeueStuckJobs(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)

	// A negative threshold counts everything in processing as stuck.
	n, err = s.RequeueStuckJobs(ctx, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, got.Status)
	// Crash recovery does not charge an attempt.
	assert.Zero(t, got.Attempts)
}

func TestJobStats(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	a := newJob("a", "One")
	b := newJob("b", "Two")
	c := newJob("c", "Three")
	for _, j := range []*models.TranslationJob{a, b, c} {
		require.NoError(t, s.CreateJob(ctx, j))
	}

	claimed, err := s.ClaimNextJob(ctx)
	require.NoError(t, err)
	require.NoError(t, s.CompleteJob(ctx, claimed.ID))

	claimed, err = s.ClaimNextJob(ctx)
	require.NoError(t, err)
	require.NoError(t, s.FailJob(ctx, claimed.ID, "boom"))

	stats, err := s.JobStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 3, stats.Total())
}

// --- Ping Test ---

func TestPing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)

	err := s.Ping(context.Background())
	assert.NoError(t, err)
}
