package querystoredprocedure

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"

	"fleet-chatbot/internal/common/database"
	"fleet-chatbot/internal/common/errors"
	"fleet-chatbot/internal/models"
)

// SQLBackend calls the dataset's set-returning function directly on the
// reporting database. Each row is serialized by row_to_json so the result set
// has the same shape as the data API's.
type SQLBackend struct {
	db *database.PostgresClient
}

func NewSQLBackend(db *database.PostgresClient) *SQLBackend {
	return &SQLBackend{db: db}
}

func (b *SQLBackend) Fetch(ctx context.Context, q models.DatasetQuery) (models.ResultSet, error) {
	dataset, ok := models.LookupDataset(string(q.Dataset))
	if !ok {
		return nil, errors.NewInvalidDatasetError(string(q.Dataset))
	}

	query, args := buildCall(dataset, q.Parameters)
	rows, err := b.db.Query(ctx, query, args...)
	if err != nil {
		return nil, transportError(ctx, dataset, err)
	}
	defer rows.Close()

	rs := models.ResultSet{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, errors.NewBackendInvalidBodyError(string(dataset), err)
		}
		rs = append(rs, json.RawMessage(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, transportError(ctx, dataset, err)
	}
	return rs, nil
}

// buildCall renders a named-notation call. "@UserId" binds to the function
// argument userid; parameters are ordered by name.
func buildCall(dataset models.Dataset, params map[string]string) (string, []interface{}) {
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	args := make([]interface{}, 0, len(names))
	for i, k := range names {
		arg := strings.ToLower(strings.TrimPrefix(k, "@"))
		parts = append(parts, fmt.Sprintf("%s => $%d", pq.QuoteIdentifier(arg), i+1))
		args = append(args, params[k])
	}

	query := fmt.Sprintf("SELECT row_to_json(r)::text FROM %s.%s(%s) AS r",
		pq.QuoteIdentifier(dataset.Schema()),
		pq.QuoteIdentifier(dataset.Name()),
		strings.Join(parts, ", "))
	return query, args
}
