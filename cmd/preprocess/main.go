// Command preprocess runs the enrichment pipeline once: it reads the raw
// donation file, derives calendar and translation columns, and writes the
// enriched dataset.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"ihsan/internal/dataset"
	datasetpg "ihsan/internal/dataset/store/postgres"
	"ihsan/internal/enrich"
	enrichmetrics "ihsan/internal/enrich/metrics"
	"ihsan/internal/pipeline"
	pipelinemetrics "ihsan/internal/pipeline/metrics"
	"ihsan/internal/platform/config"
	"ihsan/internal/platform/kafka/producer"
	"ihsan/internal/platform/logger"
	"ihsan/internal/platform/redis"
	"ihsan/internal/translate"
	translatemetrics "ihsan/internal/translate/metrics"
	"ihsan/internal/translate/remote"
	translatememory "ihsan/internal/translate/store/memory"
	translateredis "ihsan/internal/translate/store/redis"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	translator, err := newTranslator(ctx, cfg, log)
	if err != nil {
		log.Error("translator setup failed", "error", err.Error())
		os.Exit(1)
	}

	enricher := enrich.New(
		enrich.WithLogger(log),
		enrich.WithMetrics(enrichmetrics.New()),
		enrich.WithBatchSize(cfg.Pipeline.BatchSize),
		enrich.WithWorkers(cfg.Pipeline.Workers),
		enrich.WithProgress(func(p enrich.Progress) {
			log.Info("enrichment progress",
				"batch", p.Batch,
				"total_batches", p.TotalBatches,
			)
		}),
	)

	loader := dataset.NewLoader(cfg.Dataset.RawPath, cfg.Dataset.EnrichedPath,
		dataset.WithLogger(log))

	opts := []pipeline.Option{
		pipeline.WithLogger(log),
		pipeline.WithMetrics(pipelinemetrics.New()),
		pipeline.WithYearWindow(cfg.Pipeline.YearFrom, cfg.Pipeline.YearTo),
	}

	if cfg.Dataset.DatabaseURL != "" {
		store, err := datasetpg.Open(ctx, cfg.Dataset.DatabaseURL)
		if err != nil {
			log.Error("postgres sink setup failed", "error", err.Error())
			os.Exit(1)
		}
		defer store.Close()
		opts = append(opts, pipeline.WithSink(store))
	}

	if kafkaProducer, err := producer.New(cfg.Pipeline.KafkaBrokers, cfg.Pipeline.KafkaTopic); err != nil {
		log.Error("kafka producer setup failed", "error", err.Error())
		os.Exit(1)
	} else if kafkaProducer != nil {
		defer kafkaProducer.Close()
		opts = append(opts, pipeline.WithPublisher(kafkaProducer))
	}

	runner, err := pipeline.NewRunner(loader, enricher, translator, opts...)
	if err != nil {
		log.Error("pipeline setup failed", "error", err.Error())
		os.Exit(1)
	}

	if _, err := runner.Run(ctx); err != nil {
		os.Exit(1)
	}
}

// newTranslator picks the cache and remote from config: Redis cache when
// TRANSLATE_REDIS_URL is set (seeded on startup), in-memory otherwise; a
// remote HTTP translator when TRANSLATE_REMOTE_URL is set, disabled otherwise.
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
		log.Warn("no remote translator configured, unseeded labels keep their original text")
		rem = remote.Disabled{}
	}

	return translate.New(cache, rem,
		translate.WithLogger(log),
		translate.WithMetrics(translatemetrics.New()),
		translate.WithDelay(cfg.Translate.Delay),
		translate.WithLanguages(cfg.Translate.SourceLang, cfg.Translate.TargetLang),
	)
}
