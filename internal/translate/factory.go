package translate

import (
	"github.com/NouradinAbdurahman/portfolio-api/internal/config"
	"github.com/NouradinAbdurahman/portfolio-api/internal/translate/deepl"
	"github.com/NouradinAbdurahman/portfolio-api/internal/translate/googletx"
	"github.com/NouradinAbdurahman/portfolio-api/pkg/models"
)

// NewProviders constructs every configured provider adapter in fallback
// priority order: DeepL first, Google Translate second. Providers without
// a credential are still returned; the Engine filters them out.
// Called once at server startup.
func NewProviders(cfg config.TranslateConfig) []models.Provider {
	return []models.Provider{
		deepl.NewProvider(cfg.DeepL, cfg.RequestTimeout),
		googletx.NewProvider(cfg.Google, cfg.RequestTimeout),
	}
}
