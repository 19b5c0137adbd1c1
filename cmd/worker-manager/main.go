// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclients "readiness-workers/internal/common/aws"
	"readiness-workers/internal/common/camunda"
	"readiness-workers/internal/common/config"
	"readiness-workers/internal/common/crm"
	"readiness-workers/internal/common/database"
	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/common/observability"
	"readiness-workers/internal/report"
	"readiness-workers/internal/store"

	// Assessment intake workers (4)
	fpl "readiness-workers/internal/workers/assessment/flag-priority-lead"
	ps "readiness-workers/internal/workers/assessment/persist-submission"
	ss "readiness-workers/internal/workers/assessment/score-submission"
	vs "readiness-workers/internal/workers/assessment/validate-submission"

	// Data access workers (1)
	fs "readiness-workers/internal/workers/data-access/fetch-submission"

	// Lead pipeline workers (3)
	is "readiness-workers/internal/workers/leads/index-submission"
	na "readiness-workers/internal/workers/leads/notify-advisor"
	scl "readiness-workers/internal/workers/leads/sync-crm-lead"

	// Report delivery workers (2)
	gr "readiness-workers/internal/workers/report/generate-report"
	sre "readiness-workers/internal/workers/report/send-report-email"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Shared domain services ---
	repo := store.NewPostgresRepository(pg.DB)
	searchIndex := store.NewSearchIndex(esClient.Client, cfg.Database.Elasticsearch.Index)
	artifactCache := store.NewArtifactCache(
		redis.Client,
		time.Duration(cfg.Assessment.ReportCacheTTL)*time.Minute,
		time.Duration(cfg.Assessment.ThrottleWindow)*time.Second,
	)

	renderer, err := report.NewRenderer(cfg.Assessment.BrandName)
	if err != nil {
		zapLog.Fatal("report renderer init failed", zap.Error(err))
	}

	crmClient := crm.NewClient(
		cfg.Integrations.CRM.BaseURL,
		cfg.Integrations.CRM.APIKey,
		cfg.Integrations.CRM.OAuthToken,
	)

	zapLog.Info("All external service clients initialized")

	var workers []*camunda.CamundaWorker
	startWorker := func(taskType string, handler camunda.HandlerFunc) {
		wcfg := cfg.Workers[taskType]
		workers = append(workers, camunda.NewWorker(
			zeebeClient,
			taskType,
			wcfg.MaxJobsActive,
			time.Duration(wcfg.Timeout)*time.Millisecond,
			handler,
			zapLog,
		))
	}
	workerTimeout := func(taskType string) time.Duration {
		return time.Duration(cfg.Workers[taskType].Timeout) * time.Millisecond
	}

	// --- 1. Assessment intake workers (4) ---
	if cfg.Workers[vs.TaskType].Enabled {
		handler := vs.NewHandler(&vs.Config{Timeout: workerTimeout(vs.TaskType)}, log)
		startWorker(vs.TaskType, handler.Handle)
	}

	if cfg.Workers[ss.TaskType].Enabled {
		handler := ss.NewHandler(&ss.Config{Timeout: workerTimeout(ss.TaskType)}, log)
		startWorker(ss.TaskType, handler.Handle)
	}

	if cfg.Workers[ps.TaskType].Enabled {
		handler := ps.NewHandler(&ps.Config{Timeout: workerTimeout(ps.TaskType)}, repo, artifactCache, log)
		startWorker(ps.TaskType, handler.Handle)
	}

	if cfg.Workers[fpl.TaskType].Enabled {
		handler := fpl.NewHandler(&fpl.Config{}, log)
		startWorker(fpl.TaskType, handler.Handle)
	}

	// --- 2. Data access workers (1) ---
	if cfg.Workers[fs.TaskType].Enabled {
		handler := fs.NewHandler(&fs.Config{Timeout: workerTimeout(fs.TaskType)}, repo, log)
		startWorker(fs.TaskType, handler.Handle)
	}

	// --- 3. Lead pipeline workers (3) ---
	if cfg.Workers[is.TaskType].Enabled {
		handler := is.NewHandler(
			&is.Config{
				IndexName: cfg.Database.Elasticsearch.Index,
				Timeout:   workerTimeout(is.TaskType),
			},
			searchIndex, log,
		)
		startWorker(is.TaskType, handler.Handle)
	}

	if cfg.Workers[scl.TaskType].Enabled {
		handler := scl.NewHandler(&scl.Config{Timeout: workerTimeout(scl.TaskType)}, crmClient, log)
		startWorker(scl.TaskType, handler.Handle)
	}

	if cfg.Workers[na.TaskType].Enabled {
		snsClient, err := awsclients.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		topicARN := ""
		if cfg.Integrations.AWS.SNS.Enabled {
			topicARN = cfg.Integrations.AWS.SNS.AdvisorTopicARN
		}
		handler := na.NewHandler(
			&na.Config{
				TopicARN: topicARN,
				Timeout:  workerTimeout(na.TaskType),
			},
			snsClient, log,
		)
		startWorker(na.TaskType, handler.Handle)
	}

	// --- 4. Report delivery workers (2) ---
	if cfg.Workers[gr.TaskType].Enabled {
		handler := gr.NewHandler(&gr.Config{Timeout: workerTimeout(gr.TaskType)}, repo, renderer, artifactCache, log)
		startWorker(gr.TaskType, handler.Handle)
	}

	if cfg.Workers[sre.TaskType].Enabled {
		sesClient, err := awsclients.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		handler := sre.NewHandler(
			&sre.Config{
				FromEmail: cfg.Integrations.AWS.SES.FromEmail,
				ReplyTo:   cfg.Integrations.AWS.SES.ReplyTo,
				Timeout:   workerTimeout(sre.TaskType),
			},
			repo, artifactCache, renderer, sesClient, log,
		)
		startWorker(sre.TaskType, handler.Handle)
	}

	zapLog.Info("All workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	metricsAddr := cfg.Server.MetricsAddress
	if metricsAddr == "" {
		metricsAddr = ":8080"
	}
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening", zap.String("address", metricsAddr))
		if err := http.ListenAndServe(metricsAddr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	for _, w := range workers {
		w.Stop()
	}

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
