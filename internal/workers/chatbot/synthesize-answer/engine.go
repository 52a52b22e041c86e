package synthesizeanswer

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"fleet-chatbot/internal/common/errors"
	"fleet-chatbot/internal/common/logger"
	"fleet-chatbot/internal/common/metrics"
	"fleet-chatbot/internal/common/observability"
	"fleet-chatbot/internal/models"
	"fleet-chatbot/internal/workers/chatbot/synthesize-answer/formatters"
)

// DataBackend fetches the rows of one dataset.
type DataBackend interface {
	Fetch(ctx context.Context, q models.DatasetQuery) (models.ResultSet, error)
}

// Clock supplies the reading formatters compare dates against.
type Clock func() time.Time

// Engine turns a classified question into an answer: it validates the
// dataset, binds parameters, fetches rows and renders them. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	backend DataBackend
	clock   Clock
	obs     *observability.Observability
	logger  logger.Logger
}

type Option func(*Engine)

func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

func WithObservability(o *observability.Observability) Option {
	return func(e *Engine) { e.obs = o }
}

func NewEngine(backend DataBackend, log logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		backend: backend,
		clock:   time.Now,
		obs:     &observability.Observability{},
		logger:  log.WithFields(map[string]interface{}{"component": "answer-synthesis"}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is an answer together with how it was reached.
type Result struct {
	Answer  models.SynthesizedAnswer
	Intent  formatters.Intent
	Outcome Outcome
	Dataset models.Dataset
}

// Synthesize answers q. It never returns an error: failures are carried in
// the answer's code and message.
func (e *Engine) Synthesize(ctx context.Context, q models.ClassifiedQuestion, rc models.RequestContext) models.SynthesizedAnswer {
	return e.Evaluate(ctx, q, rc).Answer
}

// Evaluate is Synthesize with the resolved intent and outcome.
func (e *Engine) Evaluate(ctx context.Context, q models.ClassifiedQuestion, rc models.RequestContext) Result {
	ctx, span := e.obs.StartSpan(ctx, "synthesize-answer", attribute.String("label", q.Label))
	res := e.evaluate(ctx, q, rc)
	span.SetAttributes(
		attribute.String("intent", res.Intent.String()),
		attribute.String("outcome", string(res.Outcome)),
		attribute.Int("responseCode", int(res.Answer.Code)),
	)
	span.End()

	e.obs.RecordAnswer(ctx, res.Intent.String(), int(res.Answer.Code))
	metrics.AnswersReturned.WithLabelValues(strconv.Itoa(int(res.Answer.Code))).Inc()
	return res
}

func (e *Engine) evaluate(ctx context.Context, q models.ClassifiedQuestion, rc models.RequestContext) Result {
	if strings.TrimSpace(q.Label) == "" {
		return Result{Answer: failure(errors.NewEmptyQuestionError()), Outcome: OutcomeEmptyQuestion}
	}

	dataset, ok := models.LookupDataset(q.Label)
	if !ok {
		e.logger.Debug("label is not an allowed dataset", map[string]interface{}{"label": q.Label})
		return Result{Answer: success(""), Outcome: OutcomeNotAllowed}
	}

	query := models.DatasetQuery{Dataset: dataset, Parameters: Bind(q.Metadata, rc)}
	rows, err := e.fetch(ctx, query)
	if err != nil {
		e.logger.Error("dataset fetch failed", map[string]interface{}{
			"dataset": string(dataset),
			"error":   err,
		})
		return Result{Answer: failure(err), Outcome: OutcomeBackendFailed, Dataset: dataset}
	}

	intent, ok := formatters.Resolve(q.Label, q.Metadata)
	if !ok {
		return Result{Answer: success(""), Outcome: OutcomeNoIntent, Dataset: dataset}
	}

	text, malformed := formatters.Render(intent, rows, formatters.Request{
		Query:    q.RawQuery,
		Metadata: q.Metadata,
		Now:      e.clock(),
	})
	if malformed > 0 {
		metrics.MalformedRows.WithLabelValues(string(dataset)).Add(float64(malformed))
		e.logger.Warn("skipped malformed rows", map[string]interface{}{
			"intent": intent.String(),
			"error":  errors.NewMalformedRowError(string(dataset), malformed),
		})
	}
	metrics.IntentsRendered.WithLabelValues(intent.String()).Inc()

	outcome := OutcomeAnswered
	if text == "" {
		outcome = OutcomeEmptyAnswer
	}
	return Result{Answer: success(text), Intent: intent, Outcome: outcome, Dataset: dataset}
}

func (e *Engine) fetch(ctx context.Context, q models.DatasetQuery) (models.ResultSet, error) {
	ctx, span := e.obs.StartSpan(ctx, "dataset.fetch", attribute.String("dataset", string(q.Dataset)))
	start := time.Now()
	rows, err := e.backend.Fetch(ctx, q)
	e.obs.RecordFetchDuration(ctx, string(q.Dataset), time.Since(start))
	observability.EndSpan(span, err)
	return rows, err
}

func success(text string) models.SynthesizedAnswer {
	return models.SynthesizedAnswer{Text: text, Code: models.StatusOK, Message: models.MessageSuccess}
}

func failure(err error) models.SynthesizedAnswer {
	return models.SynthesizedAnswer{
		Code:    errors.StatusCodeOf(err),
		Message: errors.Normalize(err).Message,
	}
}
