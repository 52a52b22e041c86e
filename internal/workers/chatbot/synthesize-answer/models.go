// internal/workers/chatbot/synthesize-answer/models.go
package synthesizeanswer

import "fleet-chatbot/internal/models"

// Input is the job payload: a classified question plus the caller identity.
type Input struct {
	Label    string          `json:"label"`
	RawQuery string          `json:"rawQuery"`
	Metadata models.Metadata `json:"metadata"`
	SiteID   *int            `json:"siteId,omitempty"`
	UserID   *string         `json:"userId,omitempty"`
}

func (in Input) Question() models.ClassifiedQuestion {
	return models.ClassifiedQuestion{Label: in.Label, RawQuery: in.RawQuery, Metadata: in.Metadata}
}

func (in Input) Context() models.RequestContext {
	return models.RequestContext{SiteID: in.SiteID, UserID: in.UserID}
}

type Output struct {
	Response     string `json:"response"`
	ResponseCode int    `json:"responseCode"`
	Message      string `json:"message"`
	Intent       string `json:"intent"`
	Outcome      string `json:"outcome"`
}

// Outcome explains how an answer was reached.
type Outcome string

const (
	OutcomeAnswered      Outcome = "answered"
	OutcomeEmptyQuestion Outcome = "empty_question"
	OutcomeNotAllowed    Outcome = "dataset_not_allowed"
	OutcomeBackendFailed Outcome = "backend_failed"
	OutcomeNoIntent      Outcome = "no_intent"
	OutcomeEmptyAnswer   Outcome = "empty_answer"
)

// Unanswered reports whether the question ended without text for the user
// for a reason the knowledge base owners can act on.
func (o Outcome) Unanswered() bool {
	switch o {
	case OutcomeNotAllowed, OutcomeNoIntent, OutcomeEmptyAnswer:
		return true
	}
	return false
}
