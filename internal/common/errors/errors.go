// Package errors provides the structured error taxonomy of the chatbot and
// its conversion to HTTP status codes and BPMN errors.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"fleet-chatbot/internal/models"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeEmptyQuestion ErrorCode = "EMPTY_QUESTION"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"

	ErrCodeInvalidDataset     ErrorCode = "INVALID_DATASET"
	ErrCodeBackendUnreachable ErrorCode = "BACKEND_UNREACHABLE"
	ErrCodeBackendRejected    ErrorCode = "BACKEND_REJECTED"
	ErrCodeBackendTimeout     ErrorCode = "BACKEND_TIMEOUT"
	ErrCodeMalformedRow       ErrorCode = "MALFORMED_ROW"

	ErrCodeQnARequestFailed   ErrorCode = "QNA_REQUEST_FAILED"
	ErrCodeQnARejected        ErrorCode = "QNA_REJECTED"
	ErrCodeQnAResponseInvalid ErrorCode = "QNA_RESPONSE_INVALID"

	ErrCodeCacheUnavailable     ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeAnalyticsIndexFailed ErrorCode = "ANALYTICS_INDEX_FAILED"

	ErrCodeBusinessRule     ErrorCode = "BUSINESS_RULE_VIOLATION"
	ErrCodeExternalService  ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout          ErrorCode = "TIMEOUT_ERROR"
	ErrCodeResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeAuthentication   ErrorCode = "AUTHENTICATION_ERROR"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// AsStandardError finds the first StandardError in err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// IsCode reports whether err carries a StandardError with code.
func IsCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewEmptyQuestionError is returned when a question or its label is blank.
func NewEmptyQuestionError() *StandardError {
	return newError(ErrCodeEmptyQuestion, models.MessageEmptyQuestion, "", false, nil)
}

// NewInvalidInputError creates a non-retryable input decoding error.
func NewInvalidInputError(err error) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid job input", err.Error(), false, err)
}

// NewInvalidDatasetError is returned for labels outside the dataset allow-list.
func NewInvalidDatasetError(label string) *StandardError {
	return newError(ErrCodeInvalidDataset, "Dataset is not allowed", fmt.Sprintf("label: %s", label), false, nil)
}

// NewBackendUnreachableError creates a retryable transport error for the data backend.
func NewBackendUnreachableError(dataset string, err error) *StandardError {
	return newError(ErrCodeBackendUnreachable, err.Error(), fmt.Sprintf("dataset: %s", dataset), true, err)
}

// NewBackendRejectedError is returned when the data backend answers with a
// non-success status. Server-side failures are retryable.
func NewBackendRejectedError(dataset string, status int, body string) *StandardError {
	e := newError(ErrCodeBackendRejected,
		fmt.Sprintf("data backend returned status %d", status),
		fmt.Sprintf("dataset: %s, body: %s", dataset, body),
		status >= 500, nil)
	e.Metadata = map[string]interface{}{"status": status}
	return e
}

// NewBackendInvalidBodyError is returned when a success response is not a JSON row array.
func NewBackendInvalidBodyError(dataset string, err error) *StandardError {
	return newError(ErrCodeBackendRejected, "data backend returned an invalid body", fmt.Sprintf("dataset: %s, error: %s", dataset, err), false, err)
}

// NewBackendTimeoutError creates a retryable data backend timeout error.
func NewBackendTimeoutError(dataset string, err error) *StandardError {
	return newError(ErrCodeBackendTimeout, "data backend request timed out", fmt.Sprintf("dataset: %s, error: %s", dataset, err), true, err)
}

// NewMalformedRowError describes rows skipped by a formatter. It is logged, never returned to callers.
func NewMalformedRowError(dataset string, count int) *StandardError {
	return newError(ErrCodeMalformedRow, "rows could not be decoded", fmt.Sprintf("dataset: %s, count: %d", dataset, count), false, nil)
}

// NewQnARequestFailedError creates a retryable transport error for the QA backend.
func NewQnARequestFailedError(err error) *StandardError {
	return newError(ErrCodeQnARequestFailed, fmt.Sprintf("HTTP request failed: %s", err.Error()), "", true, err)
}

// NewQnARejectedError is returned when the QA backend answers with a non-success status.
func NewQnARejectedError(status int, body string) *StandardError {
	e := newError(ErrCodeQnARejected,
		fmt.Sprintf("Request failed with status code %d and content: %s", status, body),
		"", status >= 500, nil)
	e.Metadata = map[string]interface{}{"status": status}
	return e
}

// NewQnAResponseInvalidError creates a non-retryable error for undecodable QA responses.
func NewQnAResponseInvalidError(details string) *StandardError {
	return newError(ErrCodeQnAResponseInvalid, "Knowledge base response is invalid", details, false, nil)
}

// NewCacheUnavailableError creates a retryable cache error.
func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Dataset cache unavailable", err.Error(), true, err)
}

// NewAnalyticsIndexFailedError creates a retryable search index error.
func NewAnalyticsIndexFailedError(index string, err error) *StandardError {
	return newError(ErrCodeAnalyticsIndexFailed, "Failed to index unanswered question", fmt.Sprintf("index: %s, error: %s", index, err), true, err)
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return newError(ErrCodeBusinessRule, message, details, false, nil)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), err.Error(), true, err)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error(), true, err)
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return newError(ErrCodeResourceNotFound, fmt.Sprintf("Resource not found in %s", service), details, false, nil)
}

func NewAuthenticationError(details string) *StandardError {
	return newError(ErrCodeAuthentication, "Authentication failed", details, false, nil)
}

// Internal wraps an unexpected error.
func Internal(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

// ==========================
// 4. Status and BPMN Conversion
// ==========================

// StatusCodeFor maps an error code to the chatbot response code.
func StatusCodeFor(code ErrorCode) models.StatusCode {
	switch code {
	case ErrCodeEmptyQuestion, ErrCodeQnARejected, ErrCodeInvalidDataset:
		return models.StatusNotFound
	case ErrCodeQnARequestFailed, ErrCodeInvalidInput:
		return models.StatusBadRequest
	case ErrCodeAuthentication:
		return models.StatusUnauthorized
	default:
		return models.StatusInternalError
	}
}

// StatusCodeOf maps any error to a response code. Errors outside the taxonomy are internal errors.
func StatusCodeOf(err error) models.StatusCode {
	if stdErr, ok := AsStandardError(err); ok {
		return StatusCodeFor(stdErr.Code)
	}
	return models.StatusInternalError
}

// GetRetryCount returns the recommended retry count for a job failing with code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeBackendUnreachable,
		ErrCodeQnARequestFailed,
		ErrCodeCacheUnavailable,
		ErrCodeAnalyticsIndexFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeBackendTimeout,
		ErrCodeBackendRejected,
		ErrCodeQnARejected,
		ErrCodeTimeout:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
// BPMN error codes equal the internal codes.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"responseCode":      int(StatusCodeFor(stdErr.Code)),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "QNA"):
		return "KNOWLEDGE_BASE"
	case strings.HasPrefix(codeStr, "BACKEND") || strings.Contains(codeStr, "DATASET") || strings.Contains(codeStr, "ROW"):
		return "DATA"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "ANALYTICS"):
		return "ANALYTICS"
	case strings.Contains(codeStr, "QUESTION") || strings.Contains(codeStr, "INPUT"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
