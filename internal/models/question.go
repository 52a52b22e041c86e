// internal/models/question.go
package models

import "strconv"

// StatusCode is the response code carried alongside every chatbot answer.
type StatusCode int

const (
	StatusOK                StatusCode = 200
	StatusCreated           StatusCode = 201
	StatusAccepted          StatusCode = 202
	StatusBadRequest        StatusCode = 400
	StatusUnauthorized      StatusCode = 401
	StatusPaymentRequired   StatusCode = 402
	StatusForbidden         StatusCode = 403
	StatusNotFound          StatusCode = 404
	StatusInternalError     StatusCode = 500
	StatusRecordNotInserted StatusCode = 501
)

func (c StatusCode) String() string {
	switch c {
	case StatusOK:
		return "OK"
	case StatusCreated:
		return "Created"
	case StatusAccepted:
		return "Accepted"
	case StatusBadRequest:
		return "BadRequest"
	case StatusUnauthorized:
		return "Unauthorized"
	case StatusPaymentRequired:
		return "PaymentRequired"
	case StatusForbidden:
		return "Forbidden"
	case StatusNotFound:
		return "NotFound"
	case StatusInternalError:
		return "InternalError"
	case StatusRecordNotInserted:
		return "RecordNotInserted"
	}
	return strconv.Itoa(int(c))
}

const (
	MessageSuccess       = "Success"
	MessageEmptyQuestion = "Question cannot be null or empty"
	// MessageNoAnswer is shown to users whenever no formatter produced text.
	MessageNoAnswer = "No answer found. Try another prompt."
)

// ClassifiedQuestion is a question after the QA backend labelled it.
// Label doubles as the dataset name.
type ClassifiedQuestion struct {
	Label    string   `json:"label"`
	RawQuery string   `json:"rawQuery"`
	Metadata Metadata `json:"metadata"`
}

// RequestContext carries the caller identity used for parameter binding.
type RequestContext struct {
	SiteID *int    `json:"siteId,omitempty"`
	UserID *string `json:"userId,omitempty"`
}

// SiteIDText renders the site id for the wire, "" when absent.
func (r RequestContext) SiteIDText() string {
	if r.SiteID == nil {
		return ""
	}
	return strconv.Itoa(*r.SiteID)
}

// UserIDText renders the user id for the wire, "" when absent.
func (r RequestContext) UserIDText() string {
	if r.UserID == nil {
		return ""
	}
	return *r.UserID
}

// SynthesizedAnswer is the engine result. Text is empty for every non-OK code.
type SynthesizedAnswer struct {
	Text    string     `json:"response"`
	Code    StatusCode `json:"responseCode"`
	Message string     `json:"message"`
}

func (a SynthesizedAnswer) OK() bool {
	return a.Code == StatusOK
}
