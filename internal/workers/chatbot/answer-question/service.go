package answerquestion

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleet-chatbot/internal/common/logger"
	"fleet-chatbot/internal/common/metrics"
	"fleet-chatbot/internal/models"
	recordunanswered "fleet-chatbot/internal/workers/analytics/record-unanswered"
	synthesizeanswer "fleet-chatbot/internal/workers/chatbot/synthesize-answer"
	queryknowledgebase "fleet-chatbot/internal/workers/qna/query-knowledge-base"
)

// Classifier labels a question using the knowledge base.
type Classifier interface {
	Classify(ctx context.Context, question string) queryknowledgebase.Classification
}

// Synthesizer answers a classified question.
type Synthesizer interface {
	Evaluate(ctx context.Context, q models.ClassifiedQuestion, rc models.RequestContext) synthesizeanswer.Result
}

// Service answers user questions: it classifies the question, synthesizes an
// answer from fleet data and records questions left unanswered.
type Service struct {
	config     *Config
	classifier Classifier
	engine     Synthesizer
	recorder   recordunanswered.Recorder
	logger     logger.Logger
}

// NewService builds a Service. A nil recorder disables the unanswered log.
func NewService(config *Config, classifier Classifier, engine Synthesizer, recorder recordunanswered.Recorder, log logger.Logger) *Service {
	if recorder == nil {
		recorder = recordunanswered.NopRecorder{}
	}
	return &Service{
		config:     config,
		classifier: classifier,
		engine:     engine,
		recorder:   recorder,
		logger:     log.WithFields(map[string]interface{}{"component": "answer-question"}),
	}
}

// Ask answers req. The reply always carries a response code; it is OK
// whenever the knowledge base was reachable, even if no data answer was found.
func (s *Service) Ask(ctx context.Context, source string, req Request) Reply {
	metrics.QuestionsReceived.WithLabelValues(source).Inc()
	reply := Reply{RequestID: uuid.NewString()}

	cls := s.classifier.Classify(ctx, req.Question)
	if !cls.OK() || strings.TrimSpace(cls.Question.Label) == "" {
		reply.Answer = models.SynthesizedAnswer{Text: cls.Message, Code: cls.Code, Message: cls.Message}
		return reply
	}

	q := cls.Question
	q.RawQuery = req.Question
	reply.Label = q.Label

	res := s.engine.Evaluate(ctx, q, req.Context())
	reply.Outcome = string(res.Outcome)
	reply.Answer = res.Answer
	if reply.Answer.Text == "" && reply.Answer.Code == models.StatusOK {
		reply.Answer.Text = models.MessageNoAnswer
	}

	if res.Outcome.Unanswered() {
		s.record(ctx, reply, q, req)
	}
	return reply
}

func (s *Service) record(ctx context.Context, reply Reply, q models.ClassifiedQuestion, req Request) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.recordTimeout())
	defer cancel()

	_, err := s.recorder.Record(ctx, recordunanswered.Input{
		RequestID:    reply.RequestID,
		Question:     req.Question,
		Label:        q.Label,
		MetadataKeys: q.Metadata.Keys(),
		Outcome:      reply.Outcome,
		ResponseCode: int(reply.Answer.Code),
		SiteID:       req.SiteID,
		UserID:       req.UserID,
	})
	if err != nil {
		s.logger.Warn("failed to record unanswered question", map[string]interface{}{
			"requestId": reply.RequestID,
			"error":     err,
		})
	}
}

func (s *Service) recordTimeout() time.Duration {
	if s.config == nil || s.config.RecordTimeout <= 0 {
		return 5 * time.Second
	}
	return s.config.RecordTimeout
}
