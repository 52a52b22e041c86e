package queryknowledgebase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"fleet-chatbot/internal/common/errors"
	httpclient "fleet-chatbot/internal/common/http"
	"fleet-chatbot/internal/common/logger"
	"fleet-chatbot/internal/common/metrics"
	"fleet-chatbot/internal/common/observability"
	"fleet-chatbot/internal/models"
)

// NoAnswerLabel is the label reported when the knowledge base has no answer.
const NoAnswerLabel = "No answer found."

const subscriptionKeyHeader = "Ocp-Apim-Subscription-Key"

// Client queries an Azure AI Language question answering project.
type Client struct {
	config *Config
	http   *httpclient.Client
	url    string
	obs    *observability.Observability
	logger logger.Logger
}

func NewClient(config *Config, http *httpclient.Client, obs *observability.Observability, log logger.Logger) *Client {
	if http == nil {
		http = httpclient.NewClient(config.Timeout)
	}
	if obs == nil {
		obs = &observability.Observability{}
	}
	return &Client{
		config: config,
		http:   http,
		url:    queryURL(config),
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"component": "knowledge-base"}),
	}
}

func queryURL(cfg *Config) string {
	q := url.Values{}
	q.Set("projectName", cfg.ProjectName)
	q.Set("api-version", cfg.APIVersion)
	q.Set("deploymentName", cfg.DeploymentName)
	return strings.TrimRight(cfg.Endpoint, "/") + "/language/:query-knowledgebases?" + q.Encode()
}

// Classify sends question to the knowledge base. Failures are reported in
// the returned Classification's code and message.
func (c *Client) Classify(ctx context.Context, question string) Classification {
	result, err := c.Query(ctx, question)
	if err != nil {
		return Classification{
			Code:    errors.StatusCodeOf(err),
			Message: errors.Normalize(err).Message,
		}
	}
	return result
}

// Query is Classify with failures returned as structured errors.
func (c *Client) Query(ctx context.Context, question string) (Classification, error) {
	ctx, span := c.obs.StartSpan(ctx, "knowledge-base.query")
	start := time.Now()

	result, err := c.query(ctx, question)

	outcome := "ok"
	if err != nil {
		outcome = strings.ToLower(string(errors.Normalize(err).Code))
		if !errors.IsCode(err, errors.ErrCodeEmptyQuestion) {
			c.logger.Error("knowledge base query failed", map[string]interface{}{"error": err})
		}
	}
	metrics.KnowledgeBaseDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	observability.EndSpan(span, err)
	return result, err
}

func (c *Client) query(ctx context.Context, question string) (Classification, error) {
	if strings.TrimSpace(question) == "" {
		return Classification{}, errors.NewEmptyQuestionError()
	}

	body := queryRequest{
		Question:                   question,
		Top:                        c.config.Top,
		ConfidenceScoreThreshold:   c.config.ConfidenceThreshold,
		IncludeUnstructuredSources: true,
		AnswerSpanRequest: answerSpanRequest{
			Enable:                   false,
			TopAnswersWithSpan:       1,
			ConfidenceScoreThreshold: c.config.ConfidenceThreshold,
		},
	}
	headers := map[string]string{subscriptionKeyHeader: c.config.SubscriptionKey}

	resp, err := c.http.PostJSON(ctx, c.url, headers, body)
	if err != nil {
		return Classification{}, errors.NewQnARequestFailedError(err)
	}
	if !resp.OK() {
		return Classification{}, errors.NewQnARejectedError(resp.StatusCode, string(resp.Body))
	}

	if c.config.ValidateResponse {
		if res := responseSchema.ValidateBytes(resp.Body); !res.Valid {
			return Classification{}, errors.NewQnAResponseInvalidError(res.Error())
		}
	}

	var parsed queryResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return Classification{}, errors.NewQnAResponseInvalidError(fmt.Sprintf("Unexpected error: %s", err))
	}

	q := models.ClassifiedQuestion{Label: NoAnswerLabel, RawQuery: question}
	if len(parsed.Answers) > 0 {
		best := parsed.Answers[0]
		if best.Answer != nil {
			q.Label = *best.Answer
		}
		q.Metadata = best.Metadata
	}
	return Classification{Question: q, Code: models.StatusOK, Message: models.MessageSuccess}, nil
}
