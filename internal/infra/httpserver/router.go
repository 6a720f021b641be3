package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	approadmaps "github.com/bizpulse/roadmap/internal/application/roadmaps"
	"github.com/bizpulse/roadmap/internal/domain/assessment"
	"github.com/bizpulse/roadmap/internal/domain/playbooks"
	domain "github.com/bizpulse/roadmap/internal/domain/roadmaps"
	"github.com/bizpulse/roadmap/internal/logger"
	"github.com/bizpulse/roadmap/internal/middleware"
)

type Router struct {
	svc *approadmaps.Service
	log logger.Logger
}

type Options struct {
	RateLimitCapacity   int
	RateLimitRefillRate int
	HealthCheckers      map[string]middleware.HealthChecker
}

func NewRouter(svc *approadmaps.Service, log logger.Logger, opts Options) http.Handler {
	r := &Router{svc: svc, log: log}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	mux.Use(middleware.LoggingMiddleware(log))
	mux.Use(middleware.MetricsMiddleware)
	if opts.RateLimitCapacity > 0 {
		mux.Use(middleware.RateLimitMiddleware(opts.RateLimitCapacity, opts.RateLimitRefillRate))
	}

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/roadmaps", r.wrap(r.handleGenerate))
		rt.Get("/roadmaps/{id}", r.wrap(r.handleGet))
		rt.Post("/roadmaps/{id}/playbooks/{type}", r.wrap(r.handleAttachPlaybook))
		rt.Get("/share/{code}", r.wrap(r.handleShare))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				http.Error(w, "not found", http.StatusNotFound)
			case errors.Is(err, domain.ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, playbooks.ErrQuotaExceeded):
				http.Error(w, "content generator quota exceeded", http.StatusTooManyRequests)
			default:
				r.log.Error("request failed", map[string]interface{}{
					"path": req.URL.Path,
					"err":  err.Error(),
				})
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}
	}
}

// POST /v1/roadmaps
// Body: {"business_name": "...", "email": "...", "answers": {...}}
func (r *Router) handleGenerate(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		BusinessName string                 `json:"business_name"`
		Email        string                 `json:"email"`
		Answers      assessment.QuizAnswers `json:"answers"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return domain.ErrInvalidInput
	}
	if err := middleware.ValidateBusinessName(body.BusinessName); err != nil {
		return errors.Join(domain.ErrInvalidInput, err)
	}
	if err := middleware.ValidateEmail(body.Email); err != nil {
		return errors.Join(domain.ErrInvalidInput, err)
	}

	rm, err := r.svc.Generate(req.Context(), approadmaps.GenerateCommand{
		BusinessName: middleware.SanitizeString(body.BusinessName),
		Email:        middleware.SanitizeString(body.Email),
		Answers:      body.Answers,
	})
	if err != nil {
		return err
	}
	middleware.IncrementRoadmaps()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(rm)
}

// GET /v1/roadmaps/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		return domain.ErrNotFound
	}

	rm, err := r.svc.Get(req.Context(), id)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(rm)
}

// GET /v1/share/{code}. Resolusi link publik; view count naik 1 di repo.
func (r *Router) handleShare(w http.ResponseWriter, req *http.Request) error {
	code := chi.URLParam(req, "code")

	rm, err := r.svc.GetByShareCode(req.Context(), code)
	if err != nil {
		return err
	}
	middleware.IncrementShareViews()

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(rm)
}

// POST /v1/roadmaps/{id}/playbooks/{type}
// Body: {"text": "..."}, callback dari generator eksternal.
func (r *Router) handleAttachPlaybook(w http.ResponseWriter, req *http.Request) error {
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		return domain.ErrNotFound
	}
	pbType := domain.PlaybookType(chi.URLParam(req, "type"))

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return domain.ErrInvalidInput
	}

	if err := r.svc.AttachPlaybook(req.Context(), id, pbType, body.Text); err != nil {
		return err
	}
	middleware.IncrementPlaybooks()

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"status": "attached",
		"id":     id,
		"type":   pbType,
	})
}
