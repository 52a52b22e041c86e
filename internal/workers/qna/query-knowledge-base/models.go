// internal/workers/qna/query-knowledge-base/models.go
package queryknowledgebase

import "fleet-chatbot/internal/models"

type Input struct {
	Question string `json:"question"`
}

type Output struct {
	Label        string          `json:"label"`
	Metadata     models.Metadata `json:"metadata"`
	ResponseCode int             `json:"responseCode"`
	Message      string          `json:"message"`
}

// Classification is the knowledge base's reading of a question. On success
// Question.Label holds the best answer, which names a dataset when the
// question is about fleet data.
type Classification struct {
	Question models.ClassifiedQuestion
	Code     models.StatusCode
	Message  string
}

func (c Classification) OK() bool {
	return c.Code == models.StatusOK
}

type queryRequest struct {
	Question                   string            `json:"question"`
	Top                        int               `json:"top"`
	ConfidenceScoreThreshold   float64           `json:"confidenceScoreThreshold"`
	IncludeUnstructuredSources bool              `json:"includeUnstructuredSources"`
	AnswerSpanRequest          answerSpanRequest `json:"answerSpanRequest"`
}

type answerSpanRequest struct {
	Enable                   bool    `json:"enable"`
	TopAnswersWithSpan       int     `json:"topAnswersWithSpan"`
	ConfidenceScoreThreshold float64 `json:"confidenceScoreThreshold"`
}

type queryResponse struct {
	Answers []knowledgeBaseAnswer `json:"answers"`
}

type knowledgeBaseAnswer struct {
	Answer          *string         `json:"answer"`
	ConfidenceScore float64         `json:"confidenceScore"`
	Metadata        models.Metadata `json:"metadata"`
}
