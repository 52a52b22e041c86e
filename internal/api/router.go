// Package api exposes the chatbot over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fleet-chatbot/internal/common/logger"
	answerquestion "fleet-chatbot/internal/workers/chatbot/answer-question"
)

// Asker answers a user question.
type Asker interface {
	Ask(ctx context.Context, source string, req answerquestion.Request) answerquestion.Reply
}

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck func(ctx context.Context) error

type Options struct {
	Asker          Asker
	AllowedOrigins []string
	// RequestTimeout bounds a single question end to end. Zero means no limit.
	RequestTimeout time.Duration
	Checks         map[string]ReadinessCheck
	Logger         logger.Logger
}

type Handler struct {
	asker   Asker
	timeout time.Duration
	checks  map[string]ReadinessCheck
	logger  logger.Logger
}

// NewRouter builds the chatbot HTTP handler.
func NewRouter(opts Options) http.Handler {
	h := &Handler{
		asker:   opts.Asker,
		timeout: opts.RequestTimeout,
		checks:  opts.Checks,
		logger:  opts.Logger.WithFields(map[string]interface{}{"component": "api"}),
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(h.recoverer)
	r.Use(h.instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Post("/api/chatbot/get-question-answer", h.GetQuestionAnswer)

	return r
}
