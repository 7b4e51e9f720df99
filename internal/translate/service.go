package translate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NouradinAbdurahman/portfolio-api/internal/cache"
	"github.com/NouradinAbdurahman/portfolio-api/internal/store"
	"github.com/NouradinAbdurahman/portfolio-api/pkg/models"
)

// SaveOptions controls the skip-existing policy of TranslateAndSave.
type SaveOptions struct {
	// SkipExisting returns the stored record without an engine call when
	// it already covers every target locale.
	SkipExisting bool
	// ForceRetranslate overrides SkipExisting.
	ForceRetranslate bool
}

// DefaultSaveOptions enables the skip-existing short circuit.
func DefaultSaveOptions() SaveOptions {
	return SaveOptions{SkipExisting: true}
}

// BatchItem is one key/text pair in a batch translation.
type BatchItem struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Service binds the Engine to the record store. It decides whether a key
// needs translating, invokes the Engine, and persists results with an
// idempotent upsert. Methods degrade to a failed-but-usable result rather
// than returning errors; partial failure is reported inside the result.
type Service struct {
	engine  *Engine
	store   store.Store
	cache   cache.Cache
	targets []string
}

// NewService creates a Service. engine and st may be nil in degraded
// deployments; ca may be nil when no cache is wired (tests).
func NewService(engine *Engine, st store.Store, ca cache.Cache, targetLocales []string) *Service {
	if len(targetLocales) == 0 {
		targetLocales = models.DefaultTargetLocales
	}
	return &Service{engine: engine, store: st, cache: ca, targets: targetLocales}
}

// TranslateAndSave translates englishText into every configured target
// locale and upserts the full locale set under key. It never returns an
// error: a missing engine or store yields an English-only failed result.
func (s *Service) TranslateAndSave(ctx context.Context, key, englishText string, opts SaveOptions) *models.TranslationResult {
	if s.engine == nil || s.store == nil {
		return s.degradedResult(key, englishText, ErrStoreUnavailable.Error())
	}

	if opts.SkipExisting && !opts.ForceRetranslate {
		rec, err := s.store.GetTranslation(ctx, key)
		if err == nil && rec.HasLocales(s.targets) {
			return &models.TranslationResult{
				Key:          key,
				Translations: rec.Values,
				Raw:          rec.Values,
				Success:      true,
			}
		}
	}

	result := s.engine.TranslateContent(ctx, models.TranslationRequest{
		Key:           key,
		Text:          englishText,
		SourceLocale:  models.LocaleEnglish,
		TargetLocales: s.targets,
	})

	values := make(map[string]string, len(result.Translations)+1)
	for locale, text := range result.Translations {
		values[locale] = text
	}
	values[models.LocaleEnglish] = englishText

	rec := &models.TranslationRecord{
		Key:            key,
		Values:         values,
		AutoTranslated: true,
		NeedsReview:    true,
	}
	if _, err := s.store.UpsertTranslation(ctx, rec); err != nil {
		slog.Error("saving translation failed", "key", key, "error", err)
		result.Success = false
		result.Errors = append(result.Errors, models.LocaleError{
			Locale:  models.LocaleEnglish,
			Message: fmt.Sprintf("saving translation: %v", err),
		})
		return result
	}

	result.Translations[models.LocaleEnglish] = englishText
	s.invalidateBundles(ctx)
	return result
}

// TranslateBatch runs TranslateAndSave for each item sequentially. A
// panic or failure in one item is converted into a failed entry for that
// item only; the batch always returns len(items) results.
func (s *Service) TranslateBatch(ctx context.Context, items []BatchItem, opts SaveOptions) []*models.TranslationResult {
	results := make([]*models.TranslationResult, len(items))
	for i, item := range items {
		results[i] = s.translateItem(ctx, item, opts)
	}
	return results
}

func (s *Service) translateItem(ctx context.Context, item BatchItem, opts SaveOptions) (result *models.TranslationResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic translating batch item", "key", item.Key, "error", r)
			result = s.degradedResult(item.Key, item.Text, fmt.Sprintf("panic: %v", r))
		}
	}()
	return s.TranslateAndSave(ctx, item.Key, item.Text, opts)
}

// TranslateProject flattens a project into keyed strings and translates
// them as one batch.
func (s *Service) TranslateProject(ctx context.Context, p models.Project, opts SaveOptions) []*models.TranslationResult {
	return s.TranslateBatch(ctx, FlattenProject(p), opts)
}

// TranslateResume flattens the resume section and translates it as one batch.
func (s *Service) TranslateResume(ctx context.Context, r models.Resume, opts SaveOptions) []*models.TranslationResult {
	return s.TranslateBatch(ctx, FlattenResume(r), opts)
}

// TranslateContact flattens the contact section and translates it as one batch.
func (s *Service) TranslateContact(ctx context.Context, c models.Contact, opts SaveOptions) []*models.TranslationResult {
	return s.TranslateBatch(ctx, FlattenContact(c), opts)
}

// degradedResult is the English-only payload returned when translation
// cannot run at all. The caller still gets usable content.
func (s *Service) degradedResult(key, englishText, reason string) *models.TranslationResult {
	return &models.TranslationResult{
		Key:          key,
		Translations: map[string]string{models.LocaleEnglish: englishText},
		Raw:          map[string]string{models.LocaleEnglish: englishText},
		Success:      false,
		Errors: []models.LocaleError{
			{Locale: models.LocaleEnglish, Message: reason},
		},
	}
}

func (s *Service) invalidateBundles(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateLocaleBundles(ctx); err != nil {
		slog.Warn("invalidating locale bundles failed", "error", err)
	}
}
