package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/NouradinAbdurahman/portfolio-api/internal/api/middleware"
	"github.com/NouradinAbdurahman/portfolio-api/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler http.HandlerFunc

	ContentHandler http.HandlerFunc

	TranslateHandler        http.HandlerFunc
	TranslateBatchHandler   http.HandlerFunc
	TranslateProjectHandler http.HandlerFunc
	TranslateResumeHandler  http.HandlerFunc
	TranslateContactHandler http.HandlerFunc

	SetContentHandler http.HandlerFunc
	ReviewListHandler http.HandlerFunc
	ApproveHandler    http.HandlerFunc

	EnqueueJobHandler http.HandlerFunc
	JobStatsHandler   http.HandlerFunc
	GetJobHandler     http.HandlerFunc
	RetryJobHandler   http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
// The content read endpoint is public; everything else is the admin
// surface behind bearer auth and rate limiting.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public endpoints
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))
	r.Get("/api/v1/content", orNotImplemented(deps.ContentHandler))

	// Admin endpoints
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.Post("/api/v1/translate", orNotImplemented(deps.TranslateHandler))
		r.Post("/api/v1/translate/batch", orNotImplemented(deps.TranslateBatchHandler))
		r.Post("/api/v1/translate/project", orNotImplemented(deps.TranslateProjectHandler))
		r.Post("/api/v1/translate/resume", orNotImplemented(deps.TranslateResumeHandler))
		r.Post("/api/v1/translate/contact", orNotImplemented(deps.TranslateContactHandler))

		r.Put("/api/v1/content/{key}", orNotImplemented(deps.SetContentHandler))
		r.Get("/api/v1/review", orNotImplemented(deps.ReviewListHandler))
		r.Post("/api/v1/review/{key}/approve", orNotImplemented(deps.ApproveHandler))

		r.Post("/api/v1/jobs", orNotImplemented(deps.EnqueueJobHandler))
		r.Get("/api/v1/jobs/stats", orNotImplemented(deps.JobStatsHandler))
		r.Get("/api/v1/jobs/{jobID}", orNotImplemented(deps.GetJobHandler))
		r.Post("/api/v1/jobs/{jobID}/retry", orNotImplemented(deps.RetryJobHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
