package querystoredprocedure

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"fleet-chatbot/internal/common/config"
	"fleet-chatbot/internal/common/database"
	"fleet-chatbot/internal/common/errors"
	httpclient "fleet-chatbot/internal/common/http"
	"fleet-chatbot/internal/common/logger"
	"fleet-chatbot/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig(endpoint string) *Config {
	return &Config{
		Backend:  config.BackendHTTP,
		Endpoint: endpoint,
		Timeout:  5 * time.Second,
		CacheTTL: time.Minute,
	}
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func workstationQuery() models.DatasetQuery {
	return models.DatasetQuery{
		Dataset:    models.DatasetWorkstations,
		Parameters: map[string]string{models.ParamUserID: "u-1", models.ParamSiteID: "4"},
	}
}

// dataAPI fakes the dashboard data API and records the last request body.
func dataAPI(t *testing.T, status int, body string, got *map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/StoredProc/", r.URL.Path)
		if got != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

type countingBackend struct {
	calls atomic.Int32
	rows  models.ResultSet
	err   error
}

func (c *countingBackend) Fetch(context.Context, models.DatasetQuery) (models.ResultSet, error) {
	c.calls.Add(1)
	return c.rows, c.err
}

// ==========================
// HTTP Backend Tests
// ==========================

func TestHTTPBackend_Fetch(t *testing.T) {
	var body map[string]string
	srv := dataAPI(t, http.StatusOK, `[{"SerialNo":"123"},{"SerialNo":"456"}]`, &body)

	b := NewHTTPBackend(srv.URL+"/", httpclient.NewClient(time.Second))
	rs, err := b.Fetch(context.Background(), workstationQuery())

	require.NoError(t, err)
	assert.Len(t, rs, 2)
	assert.Equal(t, map[string]string{
		"storedProcName": "dbo.prcDashGetWorkstations",
		"@UserId":        "u-1",
		"@SiteId":        "4",
	}, body)
}

func TestHTTPBackend_Fetch_EmptyBodies(t *testing.T) {
	for _, payload := range []string{"", "null", "[]"} {
		t.Run(payload, func(t *testing.T) {
			srv := dataAPI(t, http.StatusOK, payload, nil)
			rs, err := NewHTTPBackend(srv.URL, httpclient.NewClient(time.Second)).Fetch(context.Background(), workstationQuery())
			require.NoError(t, err)
			assert.NotNil(t, rs)
			assert.Empty(t, rs)
		})
	}
}

func TestHTTPBackend_Fetch_Failures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		code      errors.ErrorCode
		retryable bool
	}{
		{"server error", http.StatusInternalServerError, "boom", errors.ErrCodeBackendRejected, true},
		{"client error", http.StatusBadRequest, "bad", errors.ErrCodeBackendRejected, false},
		{"not an array", http.StatusOK, `{"rows":[]}`, errors.ErrCodeBackendRejected, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := dataAPI(t, tt.status, tt.body, nil)
			_, err := NewHTTPBackend(srv.URL, httpclient.NewClient(time.Second)).Fetch(context.Background(), workstationQuery())

			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
		})
	}
}

func TestHTTPBackend_Fetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTPBackend(url, httpclient.NewClient(time.Second)).Fetch(context.Background(), workstationQuery())
	assert.True(t, errors.IsCode(err, errors.ErrCodeBackendUnreachable))
	assert.Equal(t, models.StatusInternalError, errors.StatusCodeOf(err))
}

func TestHTTPBackend_Fetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server notices the client disconnect and cancels r.Context().
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewHTTPBackend(srv.URL, httpclient.NewClient(5*time.Second)).Fetch(ctx, workstationQuery())
	assert.True(t, errors.IsCode(err, errors.ErrCodeBackendTimeout))
}

// ==========================
// SQL Backend Tests
// ==========================

func TestSQLBackend_Fetch(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT row_to_json(r)::text FROM "dbo"."prcDashGetWorkstations"("siteid" => $1, "userid" => $2) AS r`).
		WithArgs("4", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"row_to_json"}).
			AddRow(`{"SerialNo":"123","Department":"ICU"}`).
			AddRow(`{"SerialNo":"456","Department":"ER"}`))

	rs, err := NewSQLBackend(database.NewPostgresFromDB(db)).Fetch(context.Background(), workstationQuery())
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.JSONEq(t, `{"SerialNo":"456","Department":"ER"}`, string(rs[1]))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLBackend_Fetch_NoParameters(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT row_to_json(r)::text FROM "reporting"."ROI_HighestUsage"() AS r`).
		WillReturnRows(sqlmock.NewRows([]string{"row_to_json"}))

	rs, err := NewSQLBackend(database.NewPostgresFromDB(db)).Fetch(context.Background(), models.DatasetQuery{Dataset: models.DatasetHighestUsage})
	require.NoError(t, err)
	assert.Empty(t, rs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLBackend_Fetch_RejectsUnknownDataset(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewSQLBackend(database.NewPostgresFromDB(db)).Fetch(context.Background(), models.DatasetQuery{Dataset: `dbo.x"; DROP TABLE t; --`})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidDataset))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLBackend_Fetch_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT row_to_json").WillReturnError(stderrors.New("connection refused"))

	_, err = NewSQLBackend(database.NewPostgresFromDB(db)).Fetch(context.Background(), workstationQuery())
	assert.True(t, errors.IsCode(err, errors.ErrCodeBackendUnreachable))
}

// ==========================
// Cache Tests
// ==========================

func TestCachedBackend_ServesRepeatQueriesFromRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer rdb.Close()

	next := &countingBackend{rows: models.ResultSet{json.RawMessage(`{"SerialNo":"1"}`)}}
	cached := NewCachedBackend(next, rdb, time.Minute, createTestLogger(t))

	ctx := context.Background()
	first, err := cached.Fetch(ctx, workstationQuery())
	require.NoError(t, err)
	second, err := cached.Fetch(ctx, workstationQuery())
	require.NoError(t, err)

	assert.Equal(t, int32(1), next.calls.Load())
	assert.JSONEq(t, string(first[0]), string(second[0]))
	assert.True(t, mr.Exists(CacheKey(workstationQuery())))
	assert.Equal(t, time.Minute, mr.TTL(CacheKey(workstationQuery())))

	mr.FastForward(2 * time.Minute)
	_, err = cached.Fetch(ctx, workstationQuery())
	require.NoError(t, err)
	assert.Equal(t, int32(2), next.calls.Load())
}

func TestCachedBackend_DoesNotCacheFailures(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)

	next := &countingBackend{err: errors.NewBackendRejectedError("d", 503, "")}
	_, err = NewCachedBackend(next, rdb, time.Minute, createTestLogger(t)).Fetch(context.Background(), workstationQuery())

	assert.Error(t, err)
	assert.False(t, mr.Exists(CacheKey(workstationQuery())))
}

func TestCachedBackend_FallsThroughWhenRedisFails(t *testing.T) {
	client, mock := redismock.NewClientMock()
	q := workstationQuery()
	key := CacheKey(q)
	rows := models.ResultSet{json.RawMessage(`{"SerialNo":"1"}`)}
	payload, err := json.Marshal(rows)
	require.NoError(t, err)

	mock.ExpectGet(key).SetErr(stderrors.New("dial tcp: connection refused"))
	mock.ExpectSet(key, payload, time.Minute).SetErr(stderrors.New("dial tcp: connection refused"))

	next := &countingBackend{rows: rows}
	rs, err := NewCachedBackend(next, database.NewRedisFromClient(client), time.Minute, createTestLogger(t)).Fetch(context.Background(), q)

	require.NoError(t, err)
	assert.Len(t, rs, 1)
	assert.Equal(t, int32(1), next.calls.Load())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheKey_IgnoresParameterOrderAndHidesValues(t *testing.T) {
	a := models.DatasetQuery{Dataset: models.DatasetWorkstations, Parameters: map[string]string{"@UserId": "alice", "@SiteId": "1"}}
	b := models.DatasetQuery{Dataset: "DBO.PRCDASHGETWORKSTATIONS", Parameters: map[string]string{"@SiteId": "1", "@UserId": "alice"}}
	c := models.DatasetQuery{Dataset: models.DatasetWorkstations, Parameters: map[string]string{"@UserId": "bob", "@SiteId": "1"}}

	assert.Equal(t, CacheKey(a), CacheKey(b))
	assert.NotEqual(t, CacheKey(a), CacheKey(c))
	assert.NotContains(t, CacheKey(a), "alice")
}

// ==========================
// Factory and Handler Tests
// ==========================

func TestNewBackend(t *testing.T) {
	log := createTestLogger(t)

	_, err := NewBackend(&Config{Backend: "mssql"}, Deps{}, log)
	assert.Error(t, err)

	_, err = NewBackend(&Config{Backend: config.BackendPostgres}, Deps{}, log)
	assert.Error(t, err)

	_, err = NewBackend(&Config{Backend: config.BackendHTTP, Endpoint: "http://x", CacheEnabled: true}, Deps{}, log)
	assert.Error(t, err)

	b, err := NewBackend(&Config{Backend: config.BackendHTTP, Endpoint: "http://x"}, Deps{}, log)
	require.NoError(t, err)
	assert.NotNil(t, b)
}

func TestHandler_Execute(t *testing.T) {
	srv := dataAPI(t, http.StatusOK, `[{"ChargerSerial":"C1"},{"ChargerSerial":"C2"},{"ChargerSerial":"C3"}]`, nil)
	cfg := createTestConfig(srv.URL)
	backend, err := NewBackend(cfg, Deps{}, createTestLogger(t))
	require.NoError(t, err)

	h := NewHandler(cfg, backend, createTestLogger(t))
	out, err := h.Execute(context.Background(), &Input{Dataset: "DBO.PRCDASHGETCHARGER"})

	require.NoError(t, err)
	assert.Equal(t, 3, out.RowCount)
	assert.GreaterOrEqual(t, out.QueryExecutionTime, int64(0))
}

func TestHandler_Execute_InvalidDataset(t *testing.T) {
	next := &countingBackend{}
	h := NewHandler(createTestConfig(""), next, createTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{Dataset: "dbo.Users"})

	assert.ErrorIs(t, err, ErrInvalidDataset)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidDataset))
	assert.Equal(t, int32(0), next.calls.Load())

	_, err = h.Execute(context.Background(), nil)
	assert.Error(t, err)
}
