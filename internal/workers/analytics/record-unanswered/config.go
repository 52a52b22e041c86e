// internal/workers/analytics/record-unanswered/config.go
package recordunanswered

import (
	"time"

	"fleet-chatbot/internal/common/config"
)

type Config struct {
	Index   string
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Index:   cfg.Analytics.Index,
		Timeout: config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
