package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/NouradinAbdurahman/portfolio-api/internal/api/response"
	"github.com/NouradinAbdurahman/portfolio-api/internal/store"
	"github.com/NouradinAbdurahman/portfolio-api/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Queue defines the processor interface the job handlers depend on.
type Queue interface {
	Enqueue(ctx context.Context, job *models.TranslationJob) (uuid.UUID, error)
	Stats(ctx context.Context) (*models.JobStats, error)
}

// NewEnqueueJobHandler returns the handler for POST /api/v1/jobs.
func NewEnqueueJobHandler(q Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Key            string `json:"key"`
			Text           string `json:"text"`
			SourceLanguage string `json:"source_language"`
			Context        string `json:"context"`
			Priority       int    `json:"priority"`
			MaxAttempts    int    `json:"max_attempts"`
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
		if req.SourceLanguage != "" && !models.IsSupportedLocale(req.SourceLanguage) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "unsupported source_language", nil)
			return
		}

		id, err := q.Enqueue(r.Context(), &models.TranslationJob{
			Key:            req.Key,
			Text:           req.Text,
			SourceLanguage: req.SourceLanguage,
			Context:        req.Context,
			Priority:       req.Priority,
			MaxAttempts:    req.MaxAttempts,
		})
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to enqueue job", nil)
			return
		}

		response.Accepted(w, map[string]any{"id": id, "status": models.JobStatusPending})
	}
}

// NewJobStatsHandler returns the handler for GET /api/v1/jobs/stats.
func NewJobStatsHandler(q Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := q.Stats(r.Context())
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to load job stats", nil)
			return
		}
		response.JSON(w, stats)
	}
}

// NewGetJobHandler returns the handler for GET /api/v1/jobs/{jobID}.
func NewGetJobHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid job id", nil)
			return
		}

		job, err := st.GetJob(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Unknown job", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to load job", nil)
			return
		}
		response.JSON(w, job)
	}
}

// NewRetryJobHandler returns the handler for POST /api/v1/jobs/{jobID}/retry.
// Only failed jobs with attempts remaining can be requeued.
func NewRetryJobHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid job id", nil)
			return
		}

		if err := st.RetryJob(r.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusConflict, "NOT_RETRYABLE",
					"Job is not failed or has no attempts remaining", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to retry job", nil)
			return
		}
		response.JSON(w, map[string]any{"id": id, "status": models.JobStatusPending})
	}
}
