// Package handler contains the HTTP handlers for the admin translation API.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/NouradinAbdurahman/portfolio-api/internal/api/response"
	"github.com/NouradinAbdurahman/portfolio-api/internal/translate"
	"github.com/NouradinAbdurahman/portfolio-api/pkg/models"
)

// Translator defines the service interface the translate handlers depend on.
type Translator interface {
	TranslateAndSave(ctx context.Context, key, englishText string, opts translate.SaveOptions) *models.TranslationResult
	TranslateBatch(ctx context.Context, items []translate.BatchItem, opts translate.SaveOptions) []*models.TranslationResult
	TranslateProject(ctx context.Context, p models.Project, opts translate.SaveOptions) []*models.TranslationResult
	TranslateResume(ctx context.Context, r models.Resume, opts translate.SaveOptions) []*models.TranslationResult
	TranslateContact(ctx context.Context, c models.Contact, opts translate.SaveOptions) []*models.TranslationResult
}

type saveOptionsPayload struct {
	SkipExisting     *bool `json:"skip_existing,omitempty"`
	ForceRetranslate bool  `json:"force_retranslate,omitempty"`
}

func (p saveOptionsPayload) toOptions() translate.SaveOptions {
	opts := translate.DefaultSaveOptions()
	if p.SkipExisting != nil {
		opts.SkipExisting = *p.SkipExisting
	}
	opts.ForceRetranslate = p.ForceRetranslate
	return opts
}

// NewTranslateHandler returns the handler for POST /api/v1/translate.
func NewTranslateHandler(svc Translator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Key  string `json:"key"`
			Text string `json:"text"`
			saveOptionsPayload
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if strings.TrimSpace(req.Key) == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "key is required", nil)
			return
		}
		if req.Text == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "text is required", nil)
			return
		}

		result := svc.TranslateAndSave(r.Context(), req.Key, req.Text, req.toOptions())
		response.JSON(w, result)
	}
}

// NewTranslateBatchHandler returns the handler for POST /api/v1/translate/batch.
func NewTranslateBatchHandler(svc Translator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Items []translate.BatchItem `json:"items"`
			saveOptionsPayload
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if len(req.Items) == 0 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "items must not be empty", nil)
			return
		}
		for _, item := range req.Items {
			if strings.TrimSpace(item.Key) == "" {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "every item needs a key", nil)
				return
			}
		}

		results := svc.TranslateBatch(r.Context(), req.Items, req.toOptions())
		response.JSON(w, results)
	}
}

// NewTranslateProjectHandler returns the handler for POST /api/v1/translate/project.
func NewTranslateProjectHandler(svc Translator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Project models.Project `json:"project"`
			saveOptionsPayload
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if strings.TrimSpace(req.Project.Slug) == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "project.slug is required", nil)
			return
		}

		results := svc.TranslateProject(r.Context(), req.Project, req.toOptions())
		response.JSON(w, results)
	}
}

// NewTranslateResumeHandler returns the handler for POST /api/v1/translate/resume.
func NewTranslateResumeHandler(svc Translator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Resume models.Resume `json:"resume"`
			saveOptionsPayload
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		results := svc.TranslateResume(r.Context(), req.Resume, req.toOptions())
		response.JSON(w, results)
	}
}

// NewTranslateContactHandler returns the handler for POST /api/v1/translate/contact.
func NewTranslateContactHandler(svc Translator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Contact models.Contact `json:"contact"`
			saveOptionsPayload
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		results := svc.TranslateContact(r.Context(), req.Contact, req.toOptions())
		response.JSON(w, results)
	}
}
