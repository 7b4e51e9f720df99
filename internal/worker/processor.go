// Package worker drains the translation job queue on a fixed interval,
// decoupling rate-limited provider calls from request-time latency.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/NouradinAbdurahman/portfolio-api/internal/cache"
	"github.com/NouradinAbdurahman/portfolio-api/internal/store"
	"github.com/NouradinAbdurahman/portfolio-api/internal/translate"
	"github.com/NouradinAbdurahman/portfolio-api/pkg/bidi"
	"github.com/NouradinAbdurahman/portfolio-api/pkg/models"
	"github.com/google/uuid"
)

const jobStatusTTL = 30 * time.Minute

// Processor polls the translation_jobs table and processes one job per
// tick. Jobs that fail have attempts incremented and stay failed until a
// caller requeues them; jobs at their attempt ceiling are terminal.
type Processor struct {
	engine       *translate.Engine
	store        store.Store
	cache        cache.Cache
	stuckTimeout time.Duration
	maxAttempts  int

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewProcessor creates a Processor. stuckTimeout bounds how long a job
// may sit in processing before a tick requeues it (crash recovery).
func NewProcessor(engine *translate.Engine, st store.Store, ca cache.Cache, stuckTimeout time.Duration, maxAttempts int) *Processor {
	if maxAttempts <= 0 {
		maxAttempts = models.DefaultMaxAttempts
	}
	return &Processor{
		engine:       engine,
		store:        st,
		cache:        ca,
		stuckTimeout: stuckTimeout,
		maxAttempts:  maxAttempts,
	}
}

// Start begins polling every interval. It is a logged no-op when the
// processor is already running or when zero providers are configured.
func (p *Processor) Start(interval time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		slog.Info("translation processor already running")
		return
	}
	if p.engine == nil || p.engine.ProviderCount() == 0 {
		slog.Warn("translation processor not started, no providers available")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.running = true
	p.done = make(chan struct{})

	go p.loop(ctx, interval)
	slog.Info("translation processor started", "interval", interval)
}

// Stop cancels polling. Idempotent. An in-flight tick finishes; Stop
// waits for it.
func (p *Processor) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel := p.cancel
	done := p.done
	p.mu.Unlock()

	cancel()
	<-done
	slog.Info("translation processor stopped")
}

func (p *Processor) loop(ctx context.Context, interval time.Duration) {
	defer close(p.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Processor) tick(ctx context.Context) {
	if p.stuckTimeout > 0 {
		if n, err := p.store.RequeueStuckJobs(ctx, p.stuckTimeout); err != nil {
			slog.Warn("requeueing stuck jobs failed", "error", err)
		} else if n > 0 {
			slog.Info("requeued stuck translation jobs", "count", n)
		}
	}

	job, err := p.store.ClaimNextJob(ctx)
	if err != nil {
		if err != store.ErrNotFound {
			slog.Warn("claiming translation job failed", "error", err)
		}
		return
	}
	p.processJob(ctx, job)
}

// Enqueue inserts a new pending job and returns its id. It does not
// trigger processing; the next tick picks the job up.
func (p *Processor) Enqueue(ctx context.Context, job *models.TranslationJob) (uuid.UUID, error) {
	if job.Key == "" {
		return uuid.Nil, fmt.Errorf("enqueue: key is required")
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.SourceLanguage == "" {
		job.SourceLanguage = models.LocaleEnglish
	}
	if job.MaxAttempts <= 0 {
		job.MaxAttempts = p.maxAttempts
	}
	job.Attempts = 0
	job.Status = models.JobStatusPending
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	if err := p.store.CreateJob(ctx, job); err != nil {
		return uuid.Nil, fmt.Errorf("enqueue translation job: %w", err)
	}
	p.setJobStatus(ctx, job.ID, models.JobStatusPending)
	return job.ID, nil
}

// Stats returns the aggregate job counts by status.
func (p *Processor) Stats(ctx context.Context) (*models.JobStats, error) {
	return p.store.JobStats(ctx)
}

func (p *Processor) processJob(ctx context.Context, job *models.TranslationJob) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic processing translation job", "job_id", job.ID, "error", r)
			p.markFailed(ctx, job, fmt.Sprintf("panic: %v", r))
		}
	}()

	p.setJobStatus(ctx, job.ID, models.JobStatusProcessing)

	// Empty or already-processed text has nothing to translate.
	if !needsTranslation(job.Text) {
		p.markCompleted(ctx, job)
		return
	}

	// A record that already covers every locale needs no work either.
	if rec, err := p.store.GetTranslation(ctx, job.Key); err == nil && rec.HasLocales(models.SupportedLocales) {
		p.markCompleted(ctx, job)
		return
	}

	targets := targetsExcluding(job.SourceLanguage)
	result := p.engine.TranslateContent(ctx, models.TranslationRequest{
		Key:           job.Key,
		Text:          job.Text,
		SourceLocale:  job.SourceLanguage,
		TargetLocales: targets,
		Context:       job.Context,
	})

	values := make(map[string]string, len(result.Translations)+1)
	for locale, text := range result.Translations {
		values[locale] = text
	}
	values[job.SourceLanguage] = job.Text

	rec := &models.TranslationRecord{
		Key:            job.Key,
		Values:         values,
		AutoTranslated: true,
		NeedsReview:    true,
	}
	if _, err := p.store.UpsertTranslation(ctx, rec); err != nil {
		p.markFailed(ctx, job, fmt.Sprintf("saving translation: %v", err))
		return
	}

	if p.cache != nil {
		if err := p.cache.InvalidateLocaleBundles(ctx); err != nil {
			slog.Warn("invalidating locale bundles failed", "error", err)
		}
	}
	p.markCompleted(ctx, job)

	if !result.Success {
		slog.Warn("translation job completed with locale fallbacks",
			"job_id", job.ID, "key", job.Key, "failed_locales", len(result.Errors))
	}
}

func (p *Processor) markCompleted(ctx context.Context, job *models.TranslationJob) {
	if err := p.store.CompleteJob(ctx, job.ID); err != nil {
		slog.Warn("marking job completed failed", "job_id", job.ID, "error", err)
		return
	}
	p.setJobStatus(ctx, job.ID, models.JobStatusCompleted)
}

func (p *Processor) markFailed(ctx context.Context, job *models.TranslationJob, msg string) {
	if err := p.store.FailJob(ctx, job.ID, msg); err != nil {
		slog.Warn("marking job failed failed", "job_id", job.ID, "error", err)
		return
	}
	p.setJobStatus(ctx, job.ID, models.JobStatusFailed)
	slog.Error("translation job failed",
		"job_id", job.ID, "key", job.Key, "attempt", job.Attempts+1, "max_attempts", job.MaxAttempts, "error", msg)
}

func (p *Processor) setJobStatus(ctx context.Context, id uuid.UUID, status string) {
	if p.cache == nil {
		return
	}
	_ = p.cache.SetJobStatus(ctx, id, status, jobStatusTTL)
}

// needsTranslation reports whether text is worth sending to a provider.
func needsTranslation(text string) bool {
	return strings.TrimSpace(text) != "" && !bidi.Processed(text)
}

// targetsExcluding returns every supported locale except source.
func targetsExcluding(source string) []string {
	targets := make([]string, 0, len(models.SupportedLocales)-1)
	for _, l := range models.SupportedLocales {
		if l != source {
			targets = append(targets, l)
		}
	}
	return targets
}
