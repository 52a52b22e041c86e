package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "key", r.Header.Get("Ocp-Apim-Subscription-Key"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["question"])

		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(5 * time.Second)
	resp, err := c.PostJSON(context.Background(), srv.URL, map[string]string{"Ocp-Apim-Subscription-Key": "key"}, map[string]string{"question": "hello"})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
}

func TestClient_PostJSON_NonSuccessIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	resp, err := NewClientWithTransport(srv.Client()).PostJSON(context.Background(), srv.URL, nil, struct{}{})
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestClient_PostJSON_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(time.Second).PostJSON(context.Background(), url, nil, struct{}{})
	assert.Error(t, err)
}

func TestClient_PostJSON_UnmarshalableBody(t *testing.T) {
	_, err := NewClient(time.Second).PostJSON(context.Background(), "http://localhost", nil, make(chan int))
	assert.ErrorContains(t, err, "marshal request body")
}
