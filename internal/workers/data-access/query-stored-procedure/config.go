// internal/workers/data-access/query-stored-procedure/config.go
package querystoredprocedure

import (
	"time"

	"fleet-chatbot/internal/common/config"
)

type Config struct {
	Backend      string
	Endpoint     string
	Timeout      time.Duration
	CacheEnabled bool
	CacheTTL     time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Backend:      cfg.DataAPI.Backend,
		Endpoint:     cfg.DataAPI.Endpoint,
		Timeout:      config.GetDuration(cfg.DataAPI.Timeout),
		CacheEnabled: cfg.DataAPI.CacheEnabled,
		CacheTTL:     config.GetDuration(cfg.DataAPI.CacheTTL),
	}
}
