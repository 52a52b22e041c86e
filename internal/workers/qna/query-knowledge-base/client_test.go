package queryknowledgebase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"fleet-chatbot/internal/common/errors"
	"fleet-chatbot/internal/common/logger"
	"fleet-chatbot/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig(endpoint string) *Config {
	return &Config{
		Endpoint:            endpoint,
		SubscriptionKey:     "test-key",
		ProjectName:         "fleet-chatbot",
		DeploymentName:      "production",
		APIVersion:          "2021-10-01",
		Timeout:             5 * time.Second,
		Top:                 3,
		ConfidenceThreshold: 0.3,
		ValidateResponse:    true,
	}
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func knowledgeBase(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func createTestClient(t *testing.T, endpoint string) *Client {
	return NewClient(createTestConfig(endpoint), nil, nil, createTestLogger(t))
}

// ==========================
// Request Shape Tests
// ==========================

func TestClient_SendsQuestionAnsweringRequest(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/language/:query-knowledgebases", r.URL.Path)
		assert.Equal(t, "fleet-chatbot", r.URL.Query().Get("projectName"))
		assert.Equal(t, "2021-10-01", r.URL.Query().Get("api-version"))
		assert.Equal(t, "production", r.URL.Query().Get("deploymentName"))
		assert.Equal(t, "test-key", r.Header.Get("Ocp-Apim-Subscription-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"answers":[]}`))
	}))
	defer srv.Close()

	createTestClient(t, srv.URL+"/").Classify(context.Background(), "where is workstation 12")

	assert.Equal(t, map[string]interface{}{
		"question":                   "where is workstation 12",
		"top":                        float64(3),
		"confidenceScoreThreshold":   0.3,
		"includeUnstructuredSources": true,
		"answerSpanRequest": map[string]interface{}{
			"enable":                   false,
			"topAnswersWithSpan":       float64(1),
			"confidenceScoreThreshold": 0.3,
		},
	}, got)
}

// ==========================
// Response Handling Tests
// ==========================

func TestClient_Classify_MetadataShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "array form",
			body: `{"answers":[{"answer":"dbo.prcDashAssetTracking","confidenceScore":0.92,
				"metadata":[{"key":"is_siteid","value":"true"},{"key":"is_ws_loc","value":"true"}]}]}`,
		},
		{
			name: "object form",
			body: `{"answers":[{"answer":"dbo.prcDashAssetTracking","confidenceScore":0.92,
				"metadata":{"is_siteid":"true","is_ws_loc":"true"}}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := createTestClient(t, knowledgeBase(t, http.StatusOK, tt.body).URL).
				Classify(context.Background(), "where is workstation 12")

			require.True(t, res.OK())
			assert.Equal(t, models.MessageSuccess, res.Message)
			assert.Equal(t, "dbo.prcDashAssetTracking", res.Question.Label)
			assert.Equal(t, "where is workstation 12", res.Question.RawQuery)
			assert.Equal(t, []string{"is_siteid", "is_ws_loc"}, res.Question.Metadata.Keys())
		})
	}
}

func TestClient_Classify_NoAnswers(t *testing.T) {
	for _, body := range []string{`{"answers":[]}`, `{}`, `{"answers":[{"answer":null}]}`} {
		res := createTestClient(t, knowledgeBase(t, http.StatusOK, body).URL).Classify(context.Background(), "hello")
		assert.Equal(t, models.StatusOK, res.Code)
		assert.Equal(t, NoAnswerLabel, res.Question.Label)
	}
}

func TestClient_Classify_Failures(t *testing.T) {
	tests := []struct {
		name     string
		question string
		status   int
		body     string
		code     models.StatusCode
		message  string
	}{
		{"blank question", "  ", http.StatusOK, `{}`, models.StatusNotFound, "Question cannot be null or empty"},
		{"rejected", "q", http.StatusUnauthorized, `{"error":"denied"}`, models.StatusNotFound, `Request failed with status code 401 and content: {"error":"denied"}`},
		{"invalid metadata", "q", http.StatusOK, `{"answers":[{"answer":"x","metadata":42}]}`, models.StatusInternalError, "Knowledge base response is invalid"},
		{"not json", "q", http.StatusOK, `<html>`, models.StatusInternalError, "Knowledge base response is invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := createTestClient(t, knowledgeBase(t, tt.status, tt.body).URL).Classify(context.Background(), tt.question)
			assert.Equal(t, tt.code, res.Code)
			assert.Equal(t, tt.message, res.Message)
			assert.Empty(t, res.Question.Label)
		})
	}
}

func TestClient_Classify_TransportFailureIsBadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	res := createTestClient(t, url).Classify(context.Background(), "q")
	assert.Equal(t, models.StatusBadRequest, res.Code)
	assert.Contains(t, res.Message, "HTTP request failed: ")
}

func TestClient_Query_ReturnsStructuredErrors(t *testing.T) {
	_, err := createTestClient(t, knowledgeBase(t, http.StatusServiceUnavailable, "busy").URL).Query(context.Background(), "q")

	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeQnARejected, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

// ==========================
// Handler Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	srv := knowledgeBase(t, http.StatusOK, `{"answers":[{"answer":"dbo.prcDashGetCharger","metadata":{"chrg_dtl":"true"}}]}`)
	h := NewHandler(createTestConfig(srv.URL), createTestClient(t, srv.URL), createTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{Question: "how many chargers"})
	require.NoError(t, err)
	assert.Equal(t, "dbo.prcDashGetCharger", out.Label)
	assert.Equal(t, 200, out.ResponseCode)
	assert.True(t, out.Metadata.Flag(models.KeyChargerDetails))
}

func TestHandler_Execute_RetryableFailureIsAnError(t *testing.T) {
	srv := knowledgeBase(t, http.StatusBadGateway, "upstream")
	h := NewHandler(createTestConfig(srv.URL), createTestClient(t, srv.URL), createTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{Question: "q"})
	assert.True(t, errors.IsCode(err, errors.ErrCodeQnARejected))

	out, err := h.Execute(context.Background(), &Input{Question: ""})
	require.NoError(t, err)
	assert.Equal(t, 404, out.ResponseCode)
}
