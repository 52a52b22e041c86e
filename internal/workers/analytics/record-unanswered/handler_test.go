package recordunanswered

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"fleet-chatbot/internal/common/config"
	"fleet-chatbot/internal/common/database"
	"fleet-chatbot/internal/common/errors"
	"fleet-chatbot/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

type indexed struct {
	path string
	doc  Document
}

// fakeElasticsearch records index requests and answers like a real node.
func fakeElasticsearch(t *testing.T, status int) (*database.ElasticsearchClient, *[]indexed) {
	t.Helper()
	var (
		mu   sync.Mutex
		docs []indexed
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")

		body, _ := io.ReadAll(r.Body)
		var doc Document
		if len(body) > 0 {
			require.NoError(t, json.Unmarshal(body, &doc))
		}
		mu.Lock()
		docs = append(docs, indexed{path: r.URL.Path, doc: doc})
		mu.Unlock()

		w.WriteHeader(status)
		if status >= 300 {
			_, _ = w.Write([]byte(`{"error":{"type":"cluster_block_exception"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":"created"}`))
	}))
	t.Cleanup(srv.Close)

	client, err := database.NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client, &docs
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func intPtr(v int) *int { return &v }

// ==========================
// Recorder Tests
// ==========================

func TestESRecorder_Record(t *testing.T) {
	client, docs := fakeElasticsearch(t, http.StatusCreated)
	rec := NewESRecorder(client, "chatbot-unanswered")
	rec.now = func() time.Time { return time.Date(2024, 5, 15, 8, 0, 0, 0, time.UTC) }

	out, err := rec.Record(context.Background(), Input{
		Question:     "what colour is the sky",
		Label:        "No answer found.",
		Outcome:      "dataset_not_allowed",
		ResponseCode: 200,
		SiteID:       intPtr(4),
	})
	require.NoError(t, err)
	assert.Equal(t, "created", out.Result)
	_, err = uuid.Parse(out.DocumentID)
	assert.NoError(t, err)

	require.Len(t, *docs, 1)
	got := (*docs)[0]
	assert.Equal(t, "/chatbot-unanswered/_doc/"+out.DocumentID, got.path)
	assert.Equal(t, "what colour is the sky", got.doc.Question)
	assert.Equal(t, []string{}, got.doc.MetadataKeys)
	assert.Equal(t, 4, *got.doc.SiteID)
	assert.True(t, got.doc.RecordedAt.Equal(time.Date(2024, 5, 15, 8, 0, 0, 0, time.UTC)))
}

func TestESRecorder_Record_UsesRequestID(t *testing.T) {
	client, docs := fakeElasticsearch(t, http.StatusCreated)

	out, err := NewESRecorder(client, "idx").Record(context.Background(), Input{RequestID: "req-1", Question: "q"})
	require.NoError(t, err)
	assert.Equal(t, "req-1", out.DocumentID)
	assert.True(t, strings.HasSuffix((*docs)[0].path, "/req-1"))
}

func TestESRecorder_Record_Failures(t *testing.T) {
	client, docs := fakeElasticsearch(t, http.StatusForbidden)
	rec := NewESRecorder(client, "idx")

	_, err := rec.Record(context.Background(), Input{Question: "q"})
	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeAnalyticsIndexFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)

	_, err = rec.Record(context.Background(), Input{Question: " "})
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmptyQuestion))
	assert.Len(t, *docs, 1)
}

// ==========================
// Handler Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	client, _ := fakeElasticsearch(t, http.StatusCreated)
	h := NewHandler(&Config{Index: "idx", Timeout: time.Second}, NewESRecorder(client, "idx"), createTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{Question: "q", Outcome: "no_intent"})
	require.NoError(t, err)
	assert.Equal(t, "created", out.Result)

	_, err = h.Execute(context.Background(), nil)
	assert.Error(t, err)
}

func TestNopRecorder(t *testing.T) {
	out, err := NopRecorder{}.Record(context.Background(), Input{})
	require.NoError(t, err)
	assert.Equal(t, "noop", out.Result)
}
