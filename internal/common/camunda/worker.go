// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"fleet-chatbot/internal/common/metrics"
	"fleet-chatbot/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// JobHandler completes or fails the job itself; a returned error is logged only.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job) error
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   *zap.Logger
	taskType string
}

// WorkerOptions tune a job worker. Zero values fall back to the client defaults.
type WorkerOptions struct {
	MaxJobsActive int
	Timeout       time.Duration
	// Observability, when set, also records jobs on the OpenTelemetry meter.
	Observability *observability.Observability
}

func NewWorker(
	client zbc.Client,
	taskType string,
	opts WorkerOptions,
	handler JobHandler,
	logger *zap.Logger,
) *CamundaWorker {
	step := client.NewJobWorker().
		JobType(taskType).
		Handler(instrument(taskType, handler, opts.Observability, logger))
	if opts.MaxJobsActive > 0 {
		step = step.MaxJobsActive(opts.MaxJobsActive)
	}
	if opts.Timeout > 0 {
		step = step.Timeout(opts.Timeout)
	}

	logger.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", opts.MaxJobsActive),
		zap.Duration("timeout", opts.Timeout))

	return &CamundaWorker{
		worker:   step.Open(),
		logger:   logger,
		taskType: taskType,
	}
}

// instrument adapts a JobHandler to the Zeebe handler signature and records
// the worker job metrics around it.
func instrument(taskType string, handler JobHandler, obs *observability.Observability, logger *zap.Logger) worker.JobHandler {
	if obs == nil {
		obs = &observability.Observability{}
	}
	return func(client worker.JobClient, job entities.Job) {
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()

		ctx := context.Background()
		start := time.Now()
		err := handler.Handle(client, job)
		elapsed := time.Since(start)
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())

		status := "success"
		if err != nil {
			status = "failed"
		}
		obs.RecordJobProcessed(ctx, status)
		obs.RecordJobDuration(ctx, elapsed, status)

		if err != nil {
			metrics.WorkerJobsFailed.WithLabelValues(taskType, "HANDLER_ERROR").Inc()
			logger.Error("Handler returned error", zap.Error(err), zap.Int64("jobKey", job.Key))
			return
		}
		metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
	}
}

func (w *CamundaWorker) Stop() {
	w.logger.Info("stopping worker", zap.String("taskType", w.taskType))
	w.worker.Close()
	w.worker.AwaitClose()
}
