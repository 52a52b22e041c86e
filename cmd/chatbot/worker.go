package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fleet-chatbot/internal/common/camunda"
	"fleet-chatbot/internal/common/config"
	"fleet-chatbot/internal/common/errors"
	"fleet-chatbot/internal/common/logger"
	recordunanswered "fleet-chatbot/internal/workers/analytics/record-unanswered"
	answerquestion "fleet-chatbot/internal/workers/chatbot/answer-question"
	synthesizeanswer "fleet-chatbot/internal/workers/chatbot/synthesize-answer"
	querystoredprocedure "fleet-chatbot/internal/workers/data-access/query-stored-procedure"
	queryknowledgebase "fleet-chatbot/internal/workers/qna/query-knowledge-base"
	"fleet-chatbot/pkg/registry"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the Camunda job workers",
	RunE:  runWorker,
}

func runWorker(cmd *cobra.Command, args []string) error {
	if err := config.ValidateWorker(cfg); err != nil {
		return err
	}

	ctx := context.Background()
	zapLog.Info("Starting worker manager...")

	a, err := newApp(ctx, cfg, zapLog, 15, "fleet-chatbot-worker")
	if err != nil {
		return err
	}
	defer a.close()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		return err
	}
	defer zeebe.Close()
	brokers, err := zeebe.BrokerCount(ctx)
	if err != nil {
		return err
	}
	zapLog.Info("Zeebe client connected successfully", zap.Int("brokers", brokers))

	handlers := map[string]camunda.JobHandler{
		queryknowledgebase.TaskType: queryknowledgebase.NewHandler(
			queryknowledgebase.LoadConfig(cfg), a.knowledgeBase, a.log),
		querystoredprocedure.TaskType: querystoredprocedure.NewHandler(
			querystoredprocedure.LoadConfig(cfg), a.backend, a.log),
		synthesizeanswer.TaskType: synthesizeanswer.NewHandler(
			synthesizeanswer.LoadConfig(cfg), a.engine, a.log),
		answerquestion.TaskType: answerquestion.NewHandler(
			answerquestion.LoadConfig(cfg), a.service, a.log),
	}
	if cfg.Analytics.Enabled {
		handlers[recordunanswered.TaskType] = recordunanswered.NewHandler(
			recordunanswered.LoadConfig(cfg), a.recorder, a.log)
	}

	reg, err := registry.Default()
	if err != nil {
		return err
	}

	var workers []*camunda.CamundaWorker
	for taskType, handler := range handlers {
		if !config.IsWorkerEnabled(cfg, taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			continue
		}
		activity, ok := reg.Find(taskType)
		if !ok {
			return fmt.Errorf("task type %q is not in the activity registry", taskType)
		}
		handler = withInputSchema(activity, handler, a.log)
		wcfg := config.GetWorkerConfig(cfg, taskType)
		workers = append(workers, camunda.NewWorker(zeebe.GetClient(), taskType, camunda.WorkerOptions{
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       config.GetDuration(wcfg.Timeout),
			Observability: a.obs,
		}, handler, zapLog))
	}
	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := zeebe.HealthCheck(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())
	healthServer := &http.Server{Addr: cfg.Server.MetricsAddress, Handler: mux}
	go func() {
		if err := listen(healthServer, "Health/Metrics"); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	for _, w := range workers {
		w.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
	return nil
}

// schemaChecked fails jobs whose variables do not match the activity's
// input schema before the handler sees them.
type schemaChecked struct {
	activity *registry.Activity
	next     camunda.JobHandler
	errs     *errors.ErrorHandler
}

func withInputSchema(activity *registry.Activity, next camunda.JobHandler, log logger.Logger) camunda.JobHandler {
	return &schemaChecked{
		activity: activity,
		next:     next,
		errs:     errors.NewErrorHandler(log.WithFields(map[string]interface{}{"taskType": activity.TaskType})),
	}
}

func (s *schemaChecked) Handle(client worker.JobClient, job entities.Job) error {
	res, err := s.activity.ValidateInput([]byte(job.Variables))
	if err != nil {
		return err
	}
	if !res.Valid {
		s.errs.HandleJobError(context.Background(), client, job, errors.NewInvalidInputError(fmt.Errorf("%s", res.Error())))
		return nil
	}
	return s.next.Handle(client, job)
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
