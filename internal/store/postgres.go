package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NouradinAbdurahman/portfolio-api/pkg/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// localeColumns lists the per-locale columns of the translations table in
// declaration order. Adding a locale means a migration plus this list.
var localeColumns = []string{"en", "ar", "tr", "it", "fr", "de"}

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Translations ---

const translationSelectCols = `key, COALESCE(en,''), COALESCE(ar,''), COALESCE(tr,''), COALESCE(it,''), COALESCE(fr,''), COALESCE(de,''), auto_translated, needs_review, updated_at`

func scanTranslation(row pgx.Row) (*models.TranslationRecord, error) {
	var rec models.TranslationRecord
	vals := make([]string, len(localeColumns))
	dest := []any{&rec.Key}
	for i := range vals {
		dest = append(dest, &vals[i])
	}
	dest = append(dest, &rec.AutoTranslated, &rec.NeedsReview, &rec.UpdatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	rec.Values = make(map[string]string, len(localeColumns))
	for i, col := range localeColumns {
		rec.Values[col] = vals[i]
	}
	return &rec, nil
}

func (s *PostgresStore) UpsertTranslation(ctx context.Context, rec *models.TranslationRecord) (*models.TranslationRecord, error) {
	if rec.Key == "" {
		return nil, fmt.Errorf("upsert translation: key is required")
	}
	if rec.Values[models.LocaleEnglish] == "" {
		return nil, fmt.Errorf("upsert translation %q: en value is required", rec.Key)
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO translations (key, en, ar, tr, it, fr, de, auto_translated, needs_review, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		 ON CONFLICT (key) DO UPDATE SET
		   en = EXCLUDED.en,
		   ar = EXCLUDED.ar,
		   tr = EXCLUDED.tr,
		   it = EXCLUDED.it,
		   fr = EXCLUDED.fr,
		   de = EXCLUDED.de,
		   auto_translated = EXCLUDED.auto_translated,
		   needs_review = EXCLUDED.needs_review,
		   updated_at = NOW()
		 RETURNING `+translationSelectCols,
		rec.Key,
		rec.Values["en"], rec.Values["ar"], rec.Values["tr"],
		rec.Values["it"], rec.Values["fr"], rec.Values["de"],
		rec.AutoTranslated, rec.NeedsReview,
	)
	result, err := scanTranslation(row)
	if err != nil {
		return nil, fmt.Errorf("upsert translation %q: %w", rec.Key, err)
	}
	return result, nil
}

func (s *PostgresStore) GetTranslation(ctx context.Context, key string) (*models.TranslationRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+translationSelectCols+` FROM translations WHERE key = $1`, key)
	rec, err := scanTranslation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get translation %q: %w", key, err)
	}
	return rec, nil
}

// ListTranslations returns the flat key -> value map for one locale,
// falling back to the English value where the locale column is empty.
func (s *PostgresStore) ListTranslations(ctx context.Context, locale string) (map[string]string, error) {
	if !models.IsSupportedLocale(locale) {
		return nil, fmt.Errorf("list translations: unsupported locale %q", locale)
	}

	// locale is validated against the fixed column set above, so it is
	// safe to interpolate as an identifier.
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT key, COALESCE(NULLIF(%s, ''), en) FROM translations`, locale))
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	defer rows.Close()

	bundle := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		bundle[key] = value
	}
	return bundle, rows.Err()
}

func (s *PostgresStore) ListNeedsReview(ctx context.Context) ([]*models.TranslationRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+translationSelectCols+` FROM translations WHERE needs_review ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list needs review: %w", err)
	}
	defer rows.Close()

	var records []*models.TranslationRecord
	for rows.Next() {
		rec, err := scanTranslation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ApproveTranslation marks a machine-translated record as human-confirmed.
func (s *PostgresStore) ApproveTranslation(ctx context.Context, key string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE translations SET needs_review = false, updated_at = NOW() WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("approve translation %q: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetLocaleValue writes a single human-edited locale value. Human edits
// clear the auto_translated and needs_review flags.
func (s *PostgresStore) SetLocaleValue(ctx context.Context, key, locale, value string) error {
	if !models.IsSupportedLocale(locale) {
		return fmt.Errorf("set locale value: unsupported locale %q", locale)
	}
	if locale == models.LocaleEnglish && value == "" {
		return fmt.Errorf("set locale value %q: en must not be emptied", key)
	}

	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE translations
		 SET %s = $2, auto_translated = false, needs_review = false, updated_at = NOW()
		 WHERE key = $1`, locale),
		key, value)
	if err != nil {
		return fmt.Errorf("set locale value %q/%s: %w", key, locale, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Jobs ---

const jobSelectCols = `id, key, text, source_language, COALESCE(context,''), priority, attempts, max_attempts, status, error, created_at, updated_at`

func scanJob(row pgx.Row) (*models.TranslationJob, error) {
	var j models.TranslationJob
	err := row.Scan(&j.ID, &j.Key, &j.Text, &j.SourceLanguage, &j.Context,
		&j.Priority, &j.Attempts, &j.MaxAttempts, &j.Status, &j.Error,
		&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *PostgresStore) CreateJob(ctx context.Context, job *models.TranslationJob) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO translation_jobs (id, key, text, source_language, context, priority, attempts, max_attempts, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		job.ID, job.Key, job.Text, job.SourceLanguage, job.Context,
		job.Priority, job.Attempts, job.MaxAttempts, job.Status,
		job.CreatedAt, job.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, id uuid.UUID) (*models.TranslationJob, error) {
	job, err := scanJob(s.pool.QueryRow(ctx,
		`SELECT `+jobSelectCols+` FROM translation_jobs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// ClaimNextJob selects the next eligible pending job (highest priority
// first, then oldest) and marks it processing in a single statement.
// FOR UPDATE SKIP LOCKED keeps concurrent processors from double-claiming.
// Returns ErrNotFound when the queue has no eligible job.
func (s *PostgresStore) ClaimNextJob(ctx context.Context) (*models.TranslationJob, error) {
	job, err := scanJob(s.pool.QueryRow(ctx,
		`UPDATE translation_jobs SET status = 'processing', updated_at = NOW()
		 WHERE id = (
		   SELECT id FROM translation_jobs
		   WHERE status = 'pending' AND attempts < max_attempts
		   ORDER BY priority DESC, created_at ASC
		   LIMIT 1
		   FOR UPDATE SKIP LOCKED
		 )
		 RETURNING `+jobSelectCols))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("claim next job: %w", err)
	}
	return job, nil
}

func (s *PostgresStore) CompleteJob(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE translation_jobs SET status = 'completed', error = NULL, updated_at = NOW()
		 WHERE id = $1 AND status = 'processing'`, id)
	if err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FailJob records a processing failure: increments attempts, stores the
// error message, and sets status failed.
func (s *PostgresStore) FailJob(ctx context.Context, id uuid.UUID, errMsg string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE translation_jobs
		 SET status = 'failed', attempts = attempts + 1, error = $2, updated_at = NOW()
		 WHERE id = $1`, id, errMsg)
	if err != nil {
		return fmt.Errorf("fail job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RetryJob requeues a failed job that still has attempts remaining.
func (s *PostgresStore) RetryJob(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE translation_jobs SET status = 'pending', updated_at = NOW()
		 WHERE id = $1 AND status = 'failed' AND attempts < max_attempts`, id)
	if err != nil {
		return fmt.Errorf("retry job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RequeueStuckJobs returns jobs stuck in processing (a processor crashed
// mid-job) to pending without charging an attempt.
func (s *PostgresStore) RequeueStuckJobs(ctx context.Context, stuckFor time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-stuckFor)
	tag, err := s.pool.Exec(ctx,
		`UPDATE translation_jobs SET status = 'pending', updated_at = NOW()
		 WHERE status = 'processing' AND updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("requeue stuck jobs: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) JobStats(ctx context.Context) (*models.JobStats, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM translation_jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}
	defer rows.Close()

	var stats models.JobStats
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan job stats: %w", err)
		}
		switch status {
		case models.JobStatusPending:
			stats.Pending = count
		case models.JobStatusProcessing:
			stats.Processing = count
		case models.JobStatusCompleted:
			stats.Completed = count
		case models.JobStatusFailed:
			stats.Failed = count
		}
	}
	return &stats, rows.Err()
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
