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

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"careercompass-workers/internal/catalog"
	"careercompass-workers/internal/common/aws"
	"careercompass-workers/internal/common/config"
	"careercompass-workers/internal/common/database"
	"careercompass-workers/internal/common/logger"
	"careercompass-workers/internal/common/metrics"
	"careercompass-workers/internal/common/observability"
	"careercompass-workers/internal/results"
	"careercompass-workers/internal/session"

	// Data Access Workers (2)
	la "careercompass-workers/internal/workers/data-access/load-assessment"
	sp "careercompass-workers/internal/workers/data-access/search-professions"

	// Assessment Pipeline Workers (5)
	bp "careercompass-workers/internal/workers/assessment/build-profile"
	mp "careercompass-workers/internal/workers/assessment/match-professions"
	pr "careercompass-workers/internal/workers/assessment/persist-result"
	st "careercompass-workers/internal/workers/assessment/score-traits"
	vs "careercompass-workers/internal/workers/assessment/validate-submission"

	// Communication Workers (1)
	nr "careercompass-workers/internal/workers/communication/notify-result"
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
			delay *= 2 // Exponential backoff
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

	tracing, err := observability.NewTracing("worker-manager", cfg.Observability.JaegerEndpoint)
	if err != nil {
		zapLog.Warn("tracing disabled", zap.Error(err))
		tracing, _ = observability.NewTracing("worker-manager", "")
	} else {
		defer tracing.Shutdown(context.Background())
	}

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

	// --- Shared domain stores ---
	catalogStore := catalog.NewStore(pg.DB, redis.Client,
		time.Duration(cfg.Matching.CatalogCacheTTL)*time.Second, log)
	resultStore := results.NewStore(pg.DB)
	progressStore := session.NewProgressStore(redis.Client, cfg.Assessment.ProgressTTL())

	// --- Register the scoring pipeline workers ---

	// 1. Data access
	if wcfg := config.GetWorkerConfig(cfg, la.TaskType); wcfg.Enabled {
		handler := la.NewHandler(
			&la.Config{Timeout: config.GetDuration(wcfg.Timeout)},
			catalogStore, log,
		)
		startWorker(zeebeClient, la.TaskType, wcfg, handler.Handle, obs, tracing, zapLog)
	}

	if wcfg := config.GetWorkerConfig(cfg, sp.TaskType); wcfg.Enabled {
		handler := sp.NewHandler(
			&sp.Config{
				Index:       cfg.Database.Elasticsearch.Index,
				DefaultSize: 20,
				MaxSize:     100,
				Timeout:     config.GetDuration(wcfg.Timeout),
			},
			esClient.Client, log,
		)
		startWorker(zeebeClient, sp.TaskType, wcfg, handler.Handle, obs, tracing, zapLog)
	}

	// 2. Assessment pipeline
	if wcfg := config.GetWorkerConfig(cfg, vs.TaskType); wcfg.Enabled {
		handler := vs.NewHandler(&vs.Config{Timeout: config.GetDuration(wcfg.Timeout)}, log)
		startWorker(zeebeClient, vs.TaskType, wcfg, handler.Handle, obs, tracing, zapLog)
	}

	if wcfg := config.GetWorkerConfig(cfg, st.TaskType); wcfg.Enabled {
		handler := st.NewHandler(&st.Config{Timeout: config.GetDuration(wcfg.Timeout)}, log)
		startWorker(zeebeClient, st.TaskType, wcfg, handler.Handle, obs, tracing, zapLog)
	}

	if wcfg := config.GetWorkerConfig(cfg, bp.TaskType); wcfg.Enabled {
		handler := bp.NewHandler(&bp.Config{Timeout: config.GetDuration(wcfg.Timeout)}, log)
		startWorker(zeebeClient, bp.TaskType, wcfg, handler.Handle, obs, tracing, zapLog)
	}

	if wcfg := config.GetWorkerConfig(cfg, mp.TaskType); wcfg.Enabled {
		handler := mp.NewHandler(
			&mp.Config{
				TopN:    cfg.Matching.TopN,
				Timeout: config.GetDuration(wcfg.Timeout),
			},
			catalogStore, log,
		)
		startWorker(zeebeClient, mp.TaskType, wcfg, handler.Handle, obs, tracing, zapLog)
	}

	if wcfg := config.GetWorkerConfig(cfg, pr.TaskType); wcfg.Enabled {
		handler := pr.NewHandler(
			&pr.Config{Timeout: config.GetDuration(wcfg.Timeout)},
			resultStore, progressStore, log,
		)
		startWorker(zeebeClient, pr.TaskType, wcfg, handler.Handle, obs, tracing, zapLog)
	}

	// 3. Communication
	if wcfg := config.GetWorkerConfig(cfg, nr.TaskType); wcfg.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("failed to create SES client", zap.Error(err))
		}
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("failed to create SNS client", zap.Error(err))
		}
		handler := nr.NewHandler(
			&nr.Config{
				EmailEnabled:  cfg.Notifications.Email.Enabled,
				SMSEnabled:    cfg.Notifications.SMS.Enabled,
				FromEmail:     cfg.Notifications.Email.FromEmail,
				AWSRegion:     cfg.Notifications.AWS.Region,
				ResultURLBase: cfg.Notifications.ResultURLBase,
				Timeout:       config.GetDuration(wcfg.Timeout),
			},
			pg.DB, sesClient, snsClient, log,
		)
		startWorker(zeebeClient, nr.TaskType, wcfg, handler.Handle, obs, tracing, zapLog)
	}

	zapLog.Info("All workers registered successfully")

	// --- Health & Metrics Server ---
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
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Observability.MetricsAddress))
		if err := http.ListenAndServe(cfg.Observability.MetricsAddress, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), obs *observability.Observability, tracing *observability.Tracing, log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	instrumented := func(jobClient worker.JobClient, job entities.Job) {
		ctx, span := tracing.StartSpan(context.Background(), taskType)
		start := time.Now()
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer func() {
			metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
			metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
			obs.RecordJobProcessed(ctx, taskType, "handled")
			obs.RecordJobDuration(ctx, taskType, time.Since(start))
			span.End()
		}()
		handlerFunc(jobClient, job)
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(instrumented).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
