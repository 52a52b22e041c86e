// internal/workers/chatbot/answer-question/models.go
package answerquestion

import "fleet-chatbot/internal/models"

// Question sources reported on the questions-received metric.
const (
	SourceAPI    = "api"
	SourceWorker = "worker"
	SourceCLI    = "cli"
)

// Request is a user question with the caller identity.
type Request struct {
	Question string  `json:"question"`
	SiteID   *int    `json:"siteId,omitempty"`
	UserID   *string `json:"userId,omitempty"`
}

func (r Request) Context() models.RequestContext {
	return models.RequestContext{SiteID: r.SiteID, UserID: r.UserID}
}

// Reply is the answer returned to the caller.
type Reply struct {
	RequestID string                   `json:"requestId"`
	Answer    models.SynthesizedAnswer `json:"answer"`
	Label     string                   `json:"label,omitempty"`
	Outcome   string                   `json:"outcome,omitempty"`
}

type Input = Request

type Output struct {
	RequestID    string `json:"requestId"`
	Response     string `json:"response"`
	ResponseCode int    `json:"responseCode"`
	Message      string `json:"message"`
	Label        string `json:"label,omitempty"`
	Outcome      string `json:"outcome,omitempty"`
}
