package recordunanswered

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"fleet-chatbot/internal/common/errors"
	"fleet-chatbot/internal/common/logger"
)

const (
	TaskType = "record-unanswered"
)

type Handler struct {
	config   *Config
	recorder Recorder
	errs     *errors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(config *Config, recorder Recorder, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		recorder: recorder,
		errs:     errors.NewErrorHandler(l),
		logger:   l,
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

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("create complete job command: %w", err)
	}
	_, err = cmd.Send(ctx)
	return err
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}
	out, err := h.recorder.Record(ctx, *input)
	if err != nil {
		return nil, err
	}
	h.logger.Info("unanswered question recorded", map[string]interface{}{
		"documentId": out.DocumentID,
		"outcome":    input.Outcome,
	})
	return out, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
