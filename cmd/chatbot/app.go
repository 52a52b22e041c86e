package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fleet-chatbot/internal/api"
	"fleet-chatbot/internal/common/config"
	"fleet-chatbot/internal/common/database"
	httpclient "fleet-chatbot/internal/common/http"
	"fleet-chatbot/internal/common/logger"
	"fleet-chatbot/internal/common/observability"
	recordunanswered "fleet-chatbot/internal/workers/analytics/record-unanswered"
	answerquestion "fleet-chatbot/internal/workers/chatbot/answer-question"
	synthesizeanswer "fleet-chatbot/internal/workers/chatbot/synthesize-answer"
	querystoredprocedure "fleet-chatbot/internal/workers/data-access/query-stored-procedure"
	queryknowledgebase "fleet-chatbot/internal/workers/qna/query-knowledge-base"
)

// app holds the wired answer pipeline and the connections it owns.
type app struct {
	cfg *config.Config
	log logger.Logger
	obs *observability.Observability

	pg    *database.PostgresClient
	redis *database.RedisClient
	es    *database.ElasticsearchClient

	knowledgeBase *queryknowledgebase.Client
	backend       querystoredprocedure.Backend
	engine        *synthesizeanswer.Engine
	recorder      recordunanswered.Recorder
	service       *answerquestion.Service
}

// newApp connects the configured dependencies, retrying each up to attempts
// times, and wires the pipeline over them.
func newApp(ctx context.Context, cfg *config.Config, zapLog *zap.Logger, attempts int, serviceName string) (*app, error) {
	a := &app{
		cfg: cfg,
		log: logger.NewZapAdapter(zapLog),
		obs: observability.New(serviceName),
	}

	if cfg.DataAPI.Backend == config.BackendPostgres {
		err := retryWithBackoff(func() error {
			var err error
			a.pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return a.pg.Ping(ctx)
		}, attempts, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			a.close()
			return nil, err
		}
		zapLog.Info("PostgreSQL connected successfully")
	}

	if cfg.DataAPI.CacheEnabled {
		err := retryWithBackoff(func() error {
			var err error
			a.redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return a.redis.Ping(ctx)
		}, attempts, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			a.close()
			return nil, err
		}
		zapLog.Info("Redis connected successfully")
	}

	a.recorder = recordunanswered.NopRecorder{}
	if cfg.Analytics.Enabled {
		err := retryWithBackoff(func() error {
			var err error
			a.es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return a.es.Ping()
		}, attempts, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			a.close()
			return nil, err
		}
		a.recorder = recordunanswered.NewESRecorder(a.es, cfg.Analytics.Index)
		zapLog.Info("Elasticsearch connected successfully")
	}

	kbConfig := queryknowledgebase.LoadConfig(cfg)
	a.knowledgeBase = queryknowledgebase.NewClient(kbConfig, httpclient.NewClient(kbConfig.Timeout), a.obs, a.log)

	dataConfig := querystoredprocedure.LoadConfig(cfg)
	backend, err := querystoredprocedure.NewBackend(dataConfig, querystoredprocedure.Deps{
		HTTP:     httpclient.NewClient(dataConfig.Timeout),
		Postgres: a.pg,
		Redis:    a.redis,
	}, a.log)
	if err != nil {
		a.close()
		return nil, err
	}
	a.backend = backend

	a.engine = synthesizeanswer.NewEngine(a.backend, a.log, synthesizeanswer.WithObservability(a.obs))
	a.service = answerquestion.NewService(answerquestion.LoadConfig(cfg), a.knowledgeBase, a.engine, a.recorder, a.log)
	return a, nil
}

// readinessChecks reports the connections the pipeline depends on.
func (a *app) readinessChecks() map[string]api.ReadinessCheck {
	checks := map[string]api.ReadinessCheck{}
	if a.pg != nil {
		checks["postgres"] = a.pg.Ping
	}
	if a.redis != nil {
		checks["redis"] = a.redis.Ping
	}
	if a.es != nil {
		checks["elasticsearch"] = func(context.Context) error { return a.es.Ping() }
	}
	return checks
}

func (a *app) close() {
	if a.pg != nil {
		_ = a.pg.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	a.obs.Shutdown()
}
