// Package deepl implements models.Provider against the DeepL v2 REST API.
package deepl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NouradinAbdurahman/portfolio-api/internal/config"
	"github.com/NouradinAbdurahman/portfolio-api/pkg/models"
)

const (
	proBaseURL  = "https://api.deepl.com"
	freeBaseURL = "https://api-free.deepl.com"
)

// Provider implements models.Provider using DeepL. Pro and free accounts
// use different endpoints, selected by the config flag.
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewProvider(cfg config.DeepLConfig, timeout time.Duration) *Provider {
	base := cfg.BaseURL
	if base == "" {
		if cfg.Pro {
			base = proBaseURL
		} else {
			base = freeBaseURL
		}
	}
	return &Provider{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(base, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *Provider) Name() string { return "deepl" }

func (p *Provider) Available() bool { return p.apiKey != "" }

// Translate converts text between two locales. tag_handling=html tells
// DeepL to leave inline markup (directionality spans) intact.
func (p *Provider) Translate(ctx context.Context, text, sourceLocale, targetLocale string) (string, error) {
	if !p.Available() {
		return "", models.ErrProviderUnavailable
	}

	form := url.Values{
		"text":         {text},
		"source_lang":  {strings.ToUpper(sourceLocale)},
		"target_lang":  {strings.ToUpper(targetLocale)},
		"tag_handling": {"html"},
	}

	endpoint := p.baseURL + "/v2/translate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+p.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepl request: %w", err)
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
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding deepl response: %w", err)
	}
	if len(out.Translations) == 0 {
		return "", fmt.Errorf("deepl returned no translations")
	}
	return out.Translations[0].Text, nil
}

var _ models.Provider = (*Provider)(nil)
