// internal/workers/data-access/query-stored-procedure/models.go
package querystoredprocedure

import "fleet-chatbot/internal/models"

type Input struct {
	Dataset    string            `json:"dataset"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

type Output struct {
	Rows               models.ResultSet `json:"rows"`
	RowCount           int              `json:"rowCount"`
	QueryExecutionTime int64            `json:"queryExecutionTime"` // milliseconds
}
