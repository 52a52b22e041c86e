// pkg/registry/schema.go
package registry

import "encoding/json"

type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one Camunda task type the chatbot serves.
type Activity struct {
	ID           string          `json:"id"`
	DisplayName  string          `json:"displayName"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Version      string          `json:"version"`
	TaskType     string          `json:"taskType"`
	InputSchema  json.RawMessage `json:"inputSchema"`
	OutputSchema json.RawMessage `json:"outputSchema,omitempty"`
	ErrorCodes   []string        `json:"errorCodes"`
	Timeout      string          `json:"timeout"`
	Retries      int             `json:"retries"`
	Tags         []string        `json:"tags,omitempty"`
}
