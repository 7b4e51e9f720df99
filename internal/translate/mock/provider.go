// Package mock provides a models.Provider test double.
package mock

import (
	"context"
	"sync/atomic"

	"github.com/NouradinAbdurahman/portfolio-api/pkg/models"
)

// Provider satisfies models.Provider for testing. Calls counts every
// Translate invocation, so tests can assert zero provider calls on
// cache-hit paths.
type Provider struct {
	Name_         string
	Available_    bool
	TranslateFunc func(ctx context.Context, text, from, to string) (string, error)
	Calls         atomic.Int64
}

func (m *Provider) Name() string    { return m.Name_ }
func (m *Provider) Available() bool { return m.Available_ }

func (m *Provider) Translate(ctx context.Context, text, from, to string) (string, error) {
	m.Calls.Add(1)
	if m.TranslateFunc != nil {
		return m.TranslateFunc(ctx, text, from, to)
	}
	return text, nil
}

// NewEchoProvider returns a provider that "translates" by prefixing the
// target locale, making output assertions unambiguous.
func NewEchoProvider(name string) *Provider {
	return &Provider{
		Name_:      name,
		Available_: true,
		TranslateFunc: func(_ context.Context, text, _, to string) (string, error) {
			return "[" + to + "] " + text, nil
		},
	}
}

// NewFailingProvider returns an available provider that always returns err.
func NewFailingProvider(name string, err error) *Provider {
	return &Provider{
		Name_:      name,
		Available_: true,
		TranslateFunc: func(_ context.Context, _, _, _ string) (string, error) {
			return "", err
		},
	}
}

// NewUnavailableProvider returns a provider with no credential.
func NewUnavailableProvider(name string) *Provider {
	return &Provider{Name_: name, Available_: false}
}

var _ models.Provider = (*Provider)(nil)
