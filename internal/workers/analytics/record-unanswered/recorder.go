package recordunanswered

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleet-chatbot/internal/common/database"
	"fleet-chatbot/internal/common/errors"
	"fleet-chatbot/internal/common/metrics"
)

// Recorder stores unanswered questions for knowledge base curation.
type Recorder interface {
	Record(ctx context.Context, in Input) (*Output, error)
}

// ESRecorder indexes one document per unanswered question.
type ESRecorder struct {
	client *database.ElasticsearchClient
	index  string
	now    func() time.Time
}

func NewESRecorder(client *database.ElasticsearchClient, index string) *ESRecorder {
	return &ESRecorder{client: client, index: index, now: time.Now}
}

func (r *ESRecorder) Record(ctx context.Context, in Input) (*Output, error) {
	if strings.TrimSpace(in.Question) == "" {
		return nil, errors.NewEmptyQuestionError()
	}

	doc := Document{
		RequestID:    in.RequestID,
		Question:     in.Question,
		Label:        in.Label,
		MetadataKeys: in.MetadataKeys,
		Outcome:      in.Outcome,
		ResponseCode: in.ResponseCode,
		SiteID:       in.SiteID,
		UserID:       in.UserID,
		RecordedAt:   r.now().UTC(),
	}
	if doc.MetadataKeys == nil {
		doc.MetadataKeys = []string{}
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("marshal document: %w", err))
	}

	id := in.RequestID
	if id == "" {
		id = uuid.NewString()
	}

	result, err := r.client.IndexDocument(ctx, r.index, id, body)
	if err != nil {
		metrics.UnansweredRecorded.WithLabelValues("failed").Inc()
		return nil, errors.NewAnalyticsIndexFailedError(r.index, err)
	}
	metrics.UnansweredRecorded.WithLabelValues(result).Inc()
	return &Output{DocumentID: id, Result: result}, nil
}

// NopRecorder drops every question. It is used when analytics is disabled.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Input) (*Output, error) {
	return &Output{Result: "noop"}, nil
}
