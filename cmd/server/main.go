// Command server serves the donations analytics API over the enriched
// dataset, with an admin endpoint that re-runs the pipeline in place.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ihsan/internal/admin"
	"ihsan/internal/analytics"
	analyticshandler "ihsan/internal/analytics/handler"
	analyticsmetrics "ihsan/internal/analytics/metrics"
	"ihsan/internal/dataset"
	datasetpg "ihsan/internal/dataset/store/postgres"
	"ihsan/internal/donation"
	"ihsan/internal/enrich"
	enrichmetrics "ihsan/internal/enrich/metrics"
	jwttoken "ihsan/internal/jwt_token"
	"ihsan/internal/pipeline"
	pipelinemetrics "ihsan/internal/pipeline/metrics"
	"ihsan/internal/platform/config"
	"ihsan/internal/platform/httpserver"
	"ihsan/internal/platform/kafka/producer"
	"ihsan/internal/platform/logger"
	platformmetrics "ihsan/internal/platform/metrics"
	"ihsan/internal/platform/redis"
	"ihsan/internal/translate"
	translatemetrics "ihsan/internal/translate/metrics"
	"ihsan/internal/translate/remote"
	translatememory "ihsan/internal/translate/store/memory"
	translateredis "ihsan/internal/translate/store/redis"
	dErrors "ihsan/pkg/domain-errors"
	"ihsan/pkg/platform/httputil"
)

// main wires the dependencies and keeps the server lifecycle small. Business
// logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	loader := dataset.NewLoader(cfg.Dataset.RawPath, cfg.Dataset.EnrichedPath,
		dataset.WithLogger(log))

	ds, err := loader.Load()
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeNotFound) {
			log.Error("dataset load failed", "error", err.Error())
			os.Exit(1)
		}
		log.Warn("no dataset files found, serving an empty degraded dataset",
			"hint", "run cmd/preprocess or POST /admin/reprocess once the raw file exists",
		)
		ds = donation.Dataset{}
	}

	analyticsSvc := analytics.NewService(ds,
		analytics.WithLogger(log),
		analytics.WithMetrics(analyticsmetrics.New()),
	)

	runner, cleanup, err := newRunner(ctx, cfg, log, loader)
	if err != nil {
		log.Error("pipeline setup failed", "error", err.Error())
		os.Exit(1)
	}
	defer cleanup()

	adminSvc, err := admin.NewService(runner, loader, analyticsSvc,
		admin.WithLogger(log))
	if err != nil {
		log.Error("admin service setup failed", "error", err.Error())
		os.Exit(1)
	}

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, "ihsan", "ihsan-admin")
	httpMetrics := platformmetrics.New()

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle("/metrics", promhttp.Handler())
	analyticshandler.New(analyticsSvc, log, httpMetrics).Register(router)
	admin.NewHandler(adminSvc, log, jwttoken.NewJWTServiceAdapter(jwtService)).Register(router)

	srv := httpserver.New(cfg.Server.Addr, router)

	log.Info("starting ihsan server",
		"addr", cfg.Server.Addr,
		"degraded", analyticsSvc.Degraded(),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}

// newRunner builds the pipeline used by the admin reprocess endpoint, with
// the same optional Redis cache, Postgres sink, and Kafka publisher as
// cmd/preprocess.
func newRunner(ctx context.Context, cfg config.Config, log *slog.Logger, loader *dataset.Loader) (*pipeline.Runner, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for _, fn := range cleanups {
			fn()
		}
	}

	translator, err := newTranslator(ctx, cfg, log)
	if err != nil {
		return nil, cleanup, err
	}

	enricher := enrich.New(
		enrich.WithLogger(log),
		enrich.WithMetrics(enrichmetrics.New()),
		enrich.WithBatchSize(cfg.Pipeline.BatchSize),
		enrich.WithWorkers(cfg.Pipeline.Workers),
	)

	opts := []pipeline.Option{
		pipeline.WithLogger(log),
		pipeline.WithMetrics(pipelinemetrics.New()),
		pipeline.WithYearWindow(cfg.Pipeline.YearFrom, cfg.Pipeline.YearTo),
	}

	if cfg.Dataset.DatabaseURL != "" {
		store, err := datasetpg.Open(ctx, cfg.Dataset.DatabaseURL)
		if err != nil {
			return nil, cleanup, err
		}
		cleanups = append(cleanups, func() { store.Close() })
		opts = append(opts, pipeline.WithSink(store))
	}

	kafkaProducer, err := producer.New(cfg.Pipeline.KafkaBrokers, cfg.Pipeline.KafkaTopic)
	if err != nil {
		return nil, cleanup, err
	}
	if kafkaProducer != nil {
		cleanups = append(cleanups, kafkaProducer.Close)
		opts = append(opts, pipeline.WithPublisher(kafkaProducer))
	}

	runner, err := pipeline.NewRunner(loader, enricher, translator, opts...)
	return runner, cleanup, err
}

func newTranslator(ctx context.Context, cfg config.Config, log *slog.Logger) (*translate.Service, error) {
	var cache translate.Cache
	if cfg.Translate.RedisURL != "" {
		client, err := redis.New(cfg.Translate.RedisURL)
		if err != nil {
			return nil, err
		}
		store := translateredis.NewStore(client.Client)
		if err := store.Seed(ctx, translate.SeedTranslations()); err != nil {
			return nil, err
		}
		cache = store
	} else {
		cache = translatememory.NewSeededStore(translate.SeedTranslations())
	}

	var rem translate.Remote
	if cfg.Translate.RemoteURL != "" {
		rem = remote.NewClient(cfg.Translate.RemoteURL, cfg.Translate.Timeout)
	} else {
		rem = remote.Disabled{}
	}

	return translate.New(cache, rem,
		translate.WithLogger(log),
		translate.WithMetrics(translatemetrics.New()),
		translate.WithDelay(cfg.Translate.Delay),
		translate.WithLanguages(cfg.Translate.SourceLang, cfg.Translate.TargetLang),
	)
}
