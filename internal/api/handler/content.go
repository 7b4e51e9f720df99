package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/NouradinAbdurahman/portfolio-api/internal/api/response"
	"github.com/NouradinAbdurahman/portfolio-api/internal/cache"
	"github.com/NouradinAbdurahman/portfolio-api/internal/store"
	"github.com/NouradinAbdurahman/portfolio-api/pkg/models"
	"github.com/go-chi/chi/v5"
)

const bundleTTL = 5 * time.Minute

// NewContentHandler returns the handler for GET /api/v1/content?locale=xx:
// the flat key -> value map for one locale, with per-key English fallback.
// Served from the cache when warm.
func NewContentHandler(st store.Store, ca cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locale := r.URL.Query().Get("locale")
		if locale == "" {
			locale = models.LocaleEnglish
		}
		if !models.IsSupportedLocale(locale) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"unsupported locale", map[string]any{"supported": models.SupportedLocales})
			return
		}

		if ca != nil {
			if bundle, ok, err := ca.GetLocaleBundle(r.Context(), locale); err == nil && ok {
				response.JSON(w, bundle)
				return
			}
		}

		bundle, err := st.ListTranslations(r.Context(), locale)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to load translations", nil)
			return
		}

		if ca != nil {
			if err := ca.SetLocaleBundle(r.Context(), locale, bundle, bundleTTL); err != nil {
				slog.Warn("caching locale bundle failed", "locale", locale, "error", err)
			}
		}
		response.JSON(w, bundle)
	}
}

// NewSetContentHandler returns the handler for PUT /api/v1/content/{key}:
// a human edit of one locale value. Clears the review flags.
func NewSetContentHandler(st store.Store, ca cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")

		var req struct {
			Locale string `json:"locale"`
			Value  string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if !models.IsSupportedLocale(req.Locale) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "unsupported locale", nil)
			return
		}
		if req.Locale == models.LocaleEnglish && strings.TrimSpace(req.Value) == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "en value must not be empty", nil)
			return
		}

		if err := st.SetLocaleValue(r.Context(), key, req.Locale, req.Value); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Unknown content key", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to save content", nil)
			return
		}

		invalidateBundles(r, ca)
		response.JSON(w, map[string]any{"key": key, "locale": req.Locale})
	}
}

// NewReviewListHandler returns the handler for GET /api/v1/review: all
// machine-translated records awaiting human confirmation.
func NewReviewListHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := st.ListNeedsReview(r.Context())
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to list records", nil)
			return
		}
		if records == nil {
			records = []*models.TranslationRecord{}
		}
		response.JSON(w, records)
	}
}

// NewApproveHandler returns the handler for POST /api/v1/review/{key}/approve.
func NewApproveHandler(st store.Store, ca cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")

		if err := st.ApproveTranslation(r.Context(), key); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Unknown content key", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to approve translation", nil)
			return
		}

		invalidateBundles(r, ca)
		response.JSON(w, map[string]any{"key": key, "needs_review": false})
	}
}

func invalidateBundles(r *http.Request, ca cache.Cache) {
	if ca == nil {
		return
	}
	if err := ca.InvalidateLocaleBundles(r.Context()); err != nil {
		slog.Warn("invalidating locale bundles failed", "error", err)
	}
}
