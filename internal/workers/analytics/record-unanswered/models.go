// internal/workers/analytics/record-unanswered/models.go
package recordunanswered

import "time"

// Input describes a question the chatbot could not answer.
type Input struct {
	RequestID    string   `json:"requestId,omitempty"`
	Question     string   `json:"question"`
	Label        string   `json:"label"`
	MetadataKeys []string `json:"metadataKeys,omitempty"`
	Outcome      string   `json:"outcome"`
	ResponseCode int      `json:"responseCode"`
	SiteID       *int     `json:"siteId,omitempty"`
	UserID       *string  `json:"userId,omitempty"`
}

type Output struct {
	DocumentID string `json:"documentId"`
	Result     string `json:"result"`
}

// Document is the indexed form of an unanswered question.
type Document struct {
	RequestID    string    `json:"requestId,omitempty"`
	Question     string    `json:"question"`
	Label        string    `json:"label"`
	MetadataKeys []string  `json:"metadataKeys"`
	Outcome      string    `json:"outcome"`
	ResponseCode int       `json:"responseCode"`
	SiteID       *int      `json:"siteId,omitempty"`
	UserID       *string   `json:"userId,omitempty"`
	RecordedAt   time.Time `json:"recordedAt"`
}
