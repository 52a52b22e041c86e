package querystoredprocedure

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"fleet-chatbot/internal/common/errors"
	"fleet-chatbot/internal/common/logger"
	"fleet-chatbot/internal/models"
)

const (
	TaskType = "query-stored-procedure"
)

var ErrInvalidDataset = stderrors.New("INVALID_DATASET")

// Handler exposes a dataset fetch as a Camunda job.
type Handler struct {
	config  *Config
	backend Backend
	errs    *errors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, backend Backend, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		backend: backend,
		errs:    errors.NewErrorHandler(l),
		logger:  l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errs.HandleJobError(ctx, client, job, errors.NewInvalidInputError(err))
		return nil
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errs.HandleJobError(ctx, client, job, err)
		return nil
	}

	return h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}

	dataset, ok := models.LookupDataset(input.Dataset)
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, errors.NewInvalidDatasetError(input.Dataset))
	}

	start := time.Now()
	rows, err := h.backend.Fetch(ctx, models.DatasetQuery{Dataset: dataset, Parameters: input.Parameters})
	if err != nil {
		return nil, err
	}

	return &Output{
		Rows:               rows,
		RowCount:           len(rows),
		QueryExecutionTime: time.Since(start).Milliseconds(),
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return err
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return err
	}
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
