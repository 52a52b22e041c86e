// internal/workers/chatbot/answer-question/config.go
package answerquestion

import (
	"time"

	"fleet-chatbot/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// RecordTimeout bounds the analytics write made after an unanswered question.
	RecordTimeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout:       config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		RecordTimeout: 5 * time.Second,
	}
}
