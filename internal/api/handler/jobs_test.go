package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/NouradinAbdurahman/portfolio-api/internal/api/handler"
	"github.com/NouradinAbdurahman/portfolio-api/internal/store"
	"github.com/NouradinAbdurahman/portfolio-api/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubQueue implements handler.Queue.
type stubQueue struct {
	lastJob *models.TranslationJob
	id      uuid.UUID
	err     error
	stats   models.JobStats
}

func (q *stubQueue) Enqueue(_ context.Context, job *models.TranslationJob) (uuid.UUID, error) {
	q.lastJob = job
	return q.id, q.err
}

func (q *stubQueue) Stats(_ context.Context) (*models.JobStats, error) {
	return &q.stats, q.err
}

// jobStore implements store.Store with a fixed set of jobs.
type jobStore struct {
	stubStore
	jobs     map[uuid.UUID]*models.TranslationJob
	retryErr error
}

func (s *jobStore) GetJob(_ context.Context, id uuid.UUID) (*models.TranslationJob, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return job, nil
}

func (s *jobStore) RetryJob(_ context.Context, _ uuid.UUID) error {
	return s.retryErr
}

func TestEnqueueJobHandler_Success(t *testing.T) {
	q := &stubQueue{id: uuid.New()}
	w := postJSON(t, handler.NewEnqueueJobHandler(q),
		`{"key":"hero.title","text":"Hello","priority":5}`)

	assert.Equal(t, http.StatusAccepted, w.Code)
	require.NotNil(t, q.lastJob)
	assert.Equal(t, "hero.title", q.lastJob.Key)
	assert.Equal(t, 5, q.lastJob.Priority)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data := body["data"].(map[string]any)
	assert.Equal(t, q.id.String(), data["id"])
	assert.Equal(t, models.JobStatusPending, data["status"])
}

func TestEnqueueJobHandler_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{oops`},
		{"missing key", `{"text":"Hello"}`},
		{"missing text", `{"key":"hero.title"}`},
		{"bad source language", `{"key":"k","text":"t","source_language":"xx"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, handler.NewEnqueueJobHandler(&stubQueue{}), tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestEnqueueJobHandler_QueueError(t *testing.T) {
	q := &stubQueue{err: context.DeadlineExceeded}
	w := postJSON(t, handler.NewEnqueueJobHandler(q), `{"key":"k","text":"t"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestJobStatsHandler(t *testing.T) {
	q := &stubQueue{stats: models.JobStats{Pending: 2, Completed: 5}}

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	handler.NewJobStatsHandler(q)(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(2), data["pending"])
	assert.Equal(t, float64(5), data["completed"])
}

// routeWithJobID mounts h under a chi route so URL params resolve.
func routeWithJobID(h http.HandlerFunc, method, pattern string) http.Handler {
	r := chi.NewRouter()
	r.Method(method, pattern, h)
	return r
}

func TestGetJobHandler_Found(t *testing.T) {
	id := uuid.New()
	st := &jobStore{jobs: map[uuid.UUID]*models.TranslationJob{
		id: {
			ID:          id,
			Key:         "hero.title",
			Status:      models.JobStatusCompleted,
			MaxAttempts: 3,
			CreatedAt:   time.Now().UTC(),
		},
	}}
	router := routeWithJobID(handler.NewGetJobHandler(st), "GET", "/jobs/{jobID}")

	req := httptest.NewRequest("GET", "/jobs/"+id.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data := body["data"].(map[string]any)
	assert.Equal(t, models.JobStatusCompleted, data["status"])
}

func TestGetJobHandler_NotFound(t *testing.T) {
	st := &jobStore{jobs: map[uuid.UUID]*models.TranslationJob{}}
	router := routeWithJobID(handler.NewGetJobHandler(st), "GET", "/jobs/{jobID}")

	req := httptest.NewRequest("GET", "/jobs/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetJobHandler_BadID(t *testing.T) {
	st := &jobStore{}
	router := routeWithJobID(handler.NewGetJobHandler(st), "GET", "/jobs/{jobID}")

	req := httptest.NewRequest("GET", "/jobs/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRetryJobHandler_Success(t *testing.T) {
	id := uuid.New()
	st := &jobStore{}
	router := routeWithJobID(handler.NewRetryJobHandler(st), "POST", "/jobs/{jobID}/retry")

	req := httptest.NewRequest("POST", "/jobs/"+id.String()+"/retry", strings.NewReader(""))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data := body["data"].(map[string]any)
	assert.Equal(t, models.JobStatusPending, data["status"])
}

func TestRetryJobHandler_NotRetryable(t *testing.T) {
	st := &jobStore{retryErr: store.ErrNotFound}
	router := routeWithJobID(handler.NewRetryJobHandler(st), "POST", "/jobs/{jobID}/retry")

	req := httptest.NewRequest("POST", "/jobs/"+uuid.NewString()+"/retry", strings.NewReader(""))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "NOT_RETRYABLE", errObj["code"])
}
