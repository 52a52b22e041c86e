package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
qna:
  endpoint: https://qna.example.com
  project_name: fleet
data_api:
  endpoint: https://data.example.com
`

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "fleet-chatbot", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, []string{"http://localhost:44346"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "2021-10-01", cfg.QnA.APIVersion)
	assert.Equal(t, "production", cfg.QnA.DeploymentName)
	assert.Equal(t, 3, cfg.QnA.Top)
	assert.InDelta(t, 0.3, cfg.QnA.ConfidenceThreshold, 1e-9)
	assert.Equal(t, BackendHTTP, cfg.DataAPI.Backend)
	assert.Equal(t, "chatbot-unanswered", cfg.Analytics.Index)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile_ExpandsAndOverridesFromEnv(t *testing.T) {
	t.Setenv("TEST_QNA_ENDPOINT", "https://expanded.example.com")
	t.Setenv("AZURE_SERVICE_KEY", "secret-key")
	t.Setenv("CHATBOT_API_ENDPOINT", "https://data-from-env.example.com")
	t.Setenv("TEST_UNSET_PLACEHOLDER", "")

	cfg, err := LoadFromFile(writeConfig(t, `
qna:
  endpoint: ${TEST_QNA_ENDPOINT}
  subscription_key: ${TEST_UNSET_PLACEHOLDER}
  project_name: fleet
data_api:
  endpoint: ""
`))
	require.NoError(t, err)

	assert.Equal(t, "https://expanded.example.com", cfg.QnA.Endpoint)
	assert.Equal(t, "secret-key", cfg.QnA.SubscriptionKey)
	assert.Equal(t, "https://data-from-env.example.com", cfg.DataAPI.Endpoint)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing qna endpoint", "qna:\n  project_name: fleet\n", "qna.endpoint is required"},
		{"unknown backend", minimalConfig + "  backend: mssql\n", "data_api.backend must be"},
		{"postgres without host", "qna:\n  endpoint: x\n  project_name: p\ndata_api:\n  backend: postgres\n", "database.postgres.host is required"},
		{"cache without redis", minimalConfig + "  cache_enabled: true\n", "database.redis.address is required"},
		{"analytics without elasticsearch", minimalConfig + "analytics:\n  enabled: true\n", "elasticsearch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AZURE_SERVICE_ENDPOINT", "")
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestWorkerHelpers(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"record-unanswered": {Enabled: false, MaxJobsActive: 2, Timeout: 1000},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "record-unanswered"))
	assert.True(t, IsWorkerEnabled(cfg, "answer-question"))
	assert.Equal(t, 2, GetWorkerConfig(cfg, "record-unanswered").MaxJobsActive)
	assert.Equal(t, 30000, GetWorkerConfig(cfg, "answer-question").Timeout)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
	assert.Error(t, ValidateWorker(cfg))
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "fleet", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=fleet sslmode=disable", p.GetDSN())
}
