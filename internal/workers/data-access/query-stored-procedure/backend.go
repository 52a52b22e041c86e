package querystoredprocedure

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"strings"
	"time"

	"fleet-chatbot/internal/common/config"
	"fleet-chatbot/internal/common/database"
	"fleet-chatbot/internal/common/errors"
	httpclient "fleet-chatbot/internal/common/http"
	"fleet-chatbot/internal/common/logger"
	"fleet-chatbot/internal/common/metrics"
	"fleet-chatbot/internal/models"
)

// storedProcPath is appended to the data API endpoint.
const storedProcPath = "/api/StoredProc/"

// Backend fetches the rows of one dataset.
type Backend interface {
	Fetch(ctx context.Context, q models.DatasetQuery) (models.ResultSet, error)
}

// Deps holds the optional clients a backend may be built over.
type Deps struct {
	HTTP     *httpclient.Client
	Postgres *database.PostgresClient
	Redis    *database.RedisClient
}

// NewBackend builds the configured backend, wrapped with the Redis cache when
// enabled and with fetch metrics.
func NewBackend(cfg *Config, deps Deps, log logger.Logger) (Backend, error) {
	var b Backend
	switch cfg.Backend {
	case config.BackendHTTP, "":
		client := deps.HTTP
		if client == nil {
			client = httpclient.NewClient(cfg.Timeout)
		}
		b = NewHTTPBackend(cfg.Endpoint, client)
	case config.BackendPostgres:
		if deps.Postgres == nil {
			return nil, fmt.Errorf("postgres backend selected without a database connection")
		}
		b = NewSQLBackend(deps.Postgres)
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.Backend)
	}

	if cfg.CacheEnabled {
		if deps.Redis == nil {
			return nil, fmt.Errorf("dataset cache enabled without a redis connection")
		}
		b = NewCachedBackend(b, deps.Redis, cfg.CacheTTL, log)
	}
	return Instrument(cfg.Backend, b), nil
}

// HTTPBackend posts dataset queries to the dashboard data API.
type HTTPBackend struct {
	url    string
	client *httpclient.Client
}

func NewHTTPBackend(endpoint string, client *httpclient.Client) *HTTPBackend {
	return &HTTPBackend{
		url:    strings.TrimRight(endpoint, "/") + storedProcPath,
		client: client,
	}
}

func (b *HTTPBackend) Fetch(ctx context.Context, q models.DatasetQuery) (models.ResultSet, error) {
	resp, err := b.client.PostJSON(ctx, b.url, nil, q.Payload())
	if err != nil {
		return nil, transportError(ctx, q.Dataset, err)
	}
	if !resp.OK() {
		return nil, errors.NewBackendRejectedError(string(q.Dataset), resp.StatusCode, truncate(string(resp.Body), 512))
	}
	return decodeResultSet(q.Dataset, resp.Body)
}

// decodeResultSet parses a JSON row array. An empty body or null is an empty set.
func decodeResultSet(dataset models.Dataset, body []byte) (models.ResultSet, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return models.ResultSet{}, nil
	}
	var rs models.ResultSet
	if err := json.Unmarshal(body, &rs); err != nil {
		return nil, errors.NewBackendInvalidBodyError(string(dataset), err)
	}
	if rs == nil {
		rs = models.ResultSet{}
	}
	return rs, nil
}

func transportError(ctx context.Context, dataset models.Dataset, err error) error {
	var netErr net.Error
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) ||
		stderrors.Is(err, context.DeadlineExceeded) ||
		(stderrors.As(err, &netErr) && netErr.Timeout()) {
		return errors.NewBackendTimeoutError(string(dataset), err)
	}
	return errors.NewBackendUnreachableError(string(dataset), err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

type instrumented struct {
	name string
	next Backend
}

// Instrument records fetch latency and failures under the backend name.
func Instrument(name string, next Backend) Backend {
	return &instrumented{name: name, next: next}
}

func (i *instrumented) Fetch(ctx context.Context, q models.DatasetQuery) (models.ResultSet, error) {
	start := time.Now()
	rs, err := i.next.Fetch(ctx, q)
	metrics.DatasetFetchDuration.WithLabelValues(string(q.Dataset), i.name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DatasetFetchErrors.WithLabelValues(string(q.Dataset), string(errors.Normalize(err).Code)).Inc()
	}
	return rs, err
}
