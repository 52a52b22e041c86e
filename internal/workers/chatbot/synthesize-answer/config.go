// internal/workers/chatbot/synthesize-answer/config.go
package synthesizeanswer

import (
	"time"

	"fleet-chatbot/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
