// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig               `mapstructure:"app"`
	Server    ServerConfig            `mapstructure:"server"`
	QnA       QnAConfig               `mapstructure:"qna"`
	DataAPI   DataAPIConfig           `mapstructure:"data_api"`
	Database  DatabaseConfig          `mapstructure:"database"`
	Analytics AnalyticsConfig         `mapstructure:"analytics"`
	Camunda   CamundaConfig           `mapstructure:"camunda"`
	Workers   map[string]WorkerConfig `mapstructure:"workers"`
	Logging   LoggingConfig           `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Address         string   `mapstructure:"address"`
	MetricsAddress  string   `mapstructure:"metrics_address"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
}

// QnAConfig points at the question answering knowledge base.
type QnAConfig struct {
	Endpoint            string  `mapstructure:"endpoint"`
	SubscriptionKey     string  `mapstructure:"subscription_key"`
	ProjectName         string  `mapstructure:"project_name"`
	DeploymentName      string  `mapstructure:"deployment_name"`
	APIVersion          string  `mapstructure:"api_version"`
	Timeout             int     `mapstructure:"timeout"` // milliseconds
	Top                 int     `mapstructure:"top"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	ValidateResponse    bool    `mapstructure:"validate_response"`
}

// Data backend kinds.
const (
	BackendHTTP     = "http"
	BackendPostgres = "postgres"
)

// DataAPIConfig selects and configures the dataset backend.
type DataAPIConfig struct {
	Backend      string `mapstructure:"backend"`
	Endpoint     string `mapstructure:"endpoint"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds
	CacheEnabled bool   `mapstructure:"cache_enabled"`
	CacheTTL     int    `mapstructure:"cache_ttl"` // milliseconds
}

type CamundaConfig struct {
	BrokerAddress          string `mapstructure:"broker_address"`
	UsePlaintextConnection bool   `mapstructure:"use_plaintext"`
	MaxJobsActive          int    `mapstructure:"max_jobs_active"`
	Timeout                int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout         int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

// GetURL returns the URL field or the first address.
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AnalyticsConfig controls the unanswered-question log.
type AnalyticsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Index   string `mapstructure:"index"`
}

// WorkerConfig holds the settings applicable to every Camunda worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
