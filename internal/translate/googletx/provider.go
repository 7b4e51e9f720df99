// Package googletx implements models.Provider against the Google Cloud
// Translation v2 REST API.
package googletx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/NouradinAbdurahman/portfolio-api/internal/config"
	"github.com/NouradinAbdurahman/portfolio-api/pkg/models"
)

const defaultBaseURL = "https://translation.googleapis.com"

// Provider implements models.Provider using Google Translate v2, a single
// JSON endpoint authenticated with an API-key query parameter.
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewProvider(cfg config.GoogleConfig, timeout time.Duration) *Provider {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	return &Provider{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(base, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *Provider) Name() string { return "google" }

func (p *Provider) Available() bool { return p.apiKey != "" }

// Translate converts text between two locales. format=html keeps inline
// markup (directionality spans) intact across the round trip.
func (p *Provider) Translate(ctx context.Context, text, sourceLocale, targetLocale string) (string, error) {
	if !p.Available() {
		return "", models.ErrProviderUnavailable
	}

	payload, err := json.Marshal(map[string]any{
		"q":      text,
		"source": sourceLocale,
		"target": targetLocale,
		"format": "html",
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/language/translate/v2?key=%s", p.baseURL, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("google translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &models.ProviderError{
			Provider:   p.Name(),
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var out struct {
		Data struct {
			Translations []struct {
				TranslatedText string `json:"translatedText"`
			} `json:"translations"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding google translate response: %w", err)
	}
	if len(out.Data.Translations) == 0 {
		return "", fmt.Errorf("google translate returned no translations")
	}
	return out.Data.Translations[0].TranslatedText, nil
}

var _ models.Provider = (*Provider)(nil)
