package models

import (
	"context"
	"errors"
	"fmt"
)

// ErrProviderUnavailable is returned by a provider that has no usable
// credential configured. The Engine filters these out before any call.
var ErrProviderUnavailable = errors.New("translation provider unavailable")

// Provider is the core interface every machine-translation vendor
// integration must implement. Never call a specific vendor directly —
// always inject this interface.
type Provider interface {
	// Translate converts text from one locale to another. Inline markup
	// in text must survive the round trip.
	Translate(ctx context.Context, text, sourceLocale, targetLocale string) (string, error)
	// Available reports whether the provider has a usable credential.
	Available() bool
	// Name returns the provider identifier (e.g., "deepl", "google").
	Name() string
}

// ProviderError is returned when a vendor responds with a non-success
// HTTP status. The Engine treats it as a signal to try the next provider.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: status %d", e.Provider, e.StatusCode)
}
