// internal/workers/qna/query-knowledge-base/config.go
package queryknowledgebase

import (
	"time"

	"fleet-chatbot/internal/common/config"
)

type Config struct {
	Endpoint            string
	SubscriptionKey     string
	ProjectName         string
	DeploymentName      string
	APIVersion          string
	Timeout             time.Duration
	Top                 int
	ConfidenceThreshold float64
	ValidateResponse    bool
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Endpoint:            cfg.QnA.Endpoint,
		SubscriptionKey:     cfg.QnA.SubscriptionKey,
		ProjectName:         cfg.QnA.ProjectName,
		DeploymentName:      cfg.QnA.DeploymentName,
		APIVersion:          cfg.QnA.APIVersion,
		Timeout:             config.GetDuration(cfg.QnA.Timeout),
		Top:                 cfg.QnA.Top,
		ConfidenceThreshold: cfg.QnA.ConfidenceThreshold,
		ValidateResponse:    cfg.QnA.ValidateResponse,
	}
}
