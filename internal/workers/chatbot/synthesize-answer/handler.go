package synthesizeanswer

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
	TaskType = "synthesize-answer"
)

// Handler runs the engine for a classified question carried by a job. The
// job always completes; the answer's responseCode tells the process whether
// synthesis succeeded.
type Handler struct {
	config *Config
	engine *Engine
	errs   *errors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, engine *Engine, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		engine: engine,
		errs:   errors.NewErrorHandler(l),
		logger: l,
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
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return err
	}
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}

	res := h.engine.Evaluate(ctx, input.Question(), input.Context())
	return &Output{
		Response:     res.Answer.Text,
		ResponseCode: int(res.Answer.Code),
		Message:      res.Answer.Message,
		Intent:       res.Intent.String(),
		Outcome:      string(res.Outcome),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
