package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"fleet-chatbot/internal/common/config"
	"fleet-chatbot/internal/common/errors"
	"fleet-chatbot/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fastRetry = &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func TestExecuteWithRetry_RetriesTransientFailures(t *testing.T) {
	calls := 0
	result, err := executeWithRetry(context.Background(), fastRetry, func(context.Context) (interface{}, error) {
		calls++
		if calls < 3 {
			return nil, stderrors.New("rpc error: code = Unavailable")
		}
		return "ok", nil
	}, "publish")

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetry_StopsOnPermanentFailure(t *testing.T) {
	calls := 0
	_, err := executeWithRetry(context.Background(), fastRetry, func(context.Context) (interface{}, error) {
		calls++
		return nil, stderrors.New("process definition not found")
	}, "create-instance")

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, errors.IsCode(err, errors.ErrCodeResourceNotFound))
}

func TestExecuteWithRetry_ExhaustsRetries(t *testing.T) {
	_, err := executeWithRetry(context.Background(), fastRetry, func(context.Context) (interface{}, error) {
		return nil, stderrors.New("context deadline exceeded")
	}, "complete")

	assert.True(t, errors.IsCode(err, errors.ErrCodeTimeout))
}

func TestMapZeebeError(t *testing.T) {
	tests := []struct {
		msg  string
		code errors.ErrorCode
	}{
		{"connection refused", errors.ErrCodeExternalService},
		{"already exists", errors.ErrCodeBusinessRule},
		{"permission denied", errors.ErrCodeAuthentication},
		{"something odd", errors.ErrCodeExternalService},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := mapZeebeError(stderrors.New(tt.msg), "op", 0)
			assert.True(t, errors.IsCode(err, tt.code))
		})
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.CamundaConfig{BrokerAddress: "zeebe:26500", UsePlaintextConnection: true, Timeout: 2000, RequestTimeout: 500})
	assert.Equal(t, "zeebe:26500", cfg.GatewayAddress)
	assert.True(t, cfg.UsePlaintextConnection)
	assert.Equal(t, 2*time.Second, cfg.ConnectionTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.RequestTimeout)
}

type handlerFunc func(worker.JobClient, entities.Job) error

func (f handlerFunc) Handle(c worker.JobClient, j entities.Job) error { return f(c, j) }

func TestInstrument_RecordsOutcome(t *testing.T) {
	job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 7}}

	before := testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues("test-ok"))
	instrument("test-ok", handlerFunc(func(worker.JobClient, entities.Job) error { return nil }), nil, zap.NewNop())(nil, job)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues("test-ok")))

	beforeFail := testutil.ToFloat64(metrics.WorkerJobsFailed.WithLabelValues("test-fail", "HANDLER_ERROR"))
	instrument("test-fail", handlerFunc(func(worker.JobClient, entities.Job) error { return stderrors.New("x") }), nil, zap.NewNop())(nil, job)
	assert.Equal(t, beforeFail+1, testutil.ToFloat64(metrics.WorkerJobsFailed.WithLabelValues("test-fail", "HANDLER_ERROR")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues("test-fail")))
}
