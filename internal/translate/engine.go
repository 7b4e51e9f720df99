package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/NouradinAbdurahman/portfolio-api/pkg/bidi"
	"github.com/NouradinAbdurahman/portfolio-api/pkg/models"
)

// Engine turns one TranslationRequest into a TranslationResult. It tries
// providers in priority order with automatic fallback and never lets a
// single-locale failure abort the whole batch: a locale that cannot be
// translated gets the source text (directionality-processed) so the
// result map is always fully populated.
type Engine struct {
	providers []models.Provider // available providers, priority order
	fallback  models.Provider   // first available provider, retried last
	timeout   time.Duration
}

// NewEngine filters the given providers down to those with a usable
// credential. The first available provider becomes the designated
// fallback-of-last-resort. timeout bounds each provider call.
func NewEngine(timeout time.Duration, providers ...models.Provider) *Engine {
	e := &Engine{timeout: timeout}
	for _, p := range providers {
		if p.Available() {
			e.providers = append(e.providers, p)
		} else {
			slog.Info("translation provider skipped, no credential", "provider", p.Name())
		}
	}
	if len(e.providers) > 0 {
		e.fallback = e.providers[0]
	}
	return e
}

// ProviderCount returns the number of usable providers.
func (e *Engine) ProviderCount() int {
	return len(e.providers)
}

// TranslateText translates one string between two locales, trying each
// provider in order and finally retrying the designated fallback.
// Empty or whitespace-only input is returned unchanged without any call.
func (e *Engine) TranslateText(ctx context.Context, text, from, to string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if len(e.providers) == 0 {
		return "", ErrNoProviders
	}

	var lastErr error
	for _, p := range e.providers {
		out, err := e.callProvider(ctx, p, text, from, to)
		if err == nil {
			return out, nil
		}
		lastErr = err
		slog.Warn("translation provider failed",
			"provider", p.Name(), "from", from, "to", to, "error", err)
	}

	// One last attempt through the fallback before giving up.
	out, err := e.callProvider(ctx, e.fallback, text, from, to)
	if err == nil {
		return out, nil
	}
	if lastErr == nil {
		lastErr = err
	}
	return "", fmt.Errorf("%w: %v", ErrAllProvidersFailed, lastErr)
}

func (e *Engine) callProvider(ctx context.Context, p models.Provider, text, from, to string) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	return p.Translate(ctx, text, from, to)
}

// TranslateContent translates one source string into every requested
// target locale. Provider errors are downgraded to per-locale error
// entries; they never propagate out of this method.
func (e *Engine) TranslateContent(ctx context.Context, req models.TranslationRequest) *models.TranslationResult {
	result := &models.TranslationResult{
		Key:          req.Key,
		Translations: make(map[string]string, len(req.TargetLocales)),
		Raw:          make(map[string]string, len(req.TargetLocales)),
	}

	for _, locale := range req.TargetLocales {
		var raw string
		if locale == req.SourceLocale {
			// Source locale slot gets the text verbatim, no network call.
			raw = req.Text
		} else {
			out, err := e.TranslateText(ctx, req.Text, req.SourceLocale, locale)
			if err != nil {
				result.Errors = append(result.Errors, models.LocaleError{
					Locale:  locale,
					Message: err.Error(),
				})
				out = req.Text // untranslated source beats an empty slot
			}
			raw = out
		}
		result.Raw[locale] = raw
		result.Translations[locale] = bidi.Process(raw, models.IsRTL(locale))
	}

	result.Success = len(result.Errors) == 0
	return result
}
