package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
}

// Dataset locates the donation data sources. The enriched CSV is the primary
// source; the raw CSV is the degraded fallback. DatabaseURL optionally enables
// the PostgreSQL sink alongside the CSV output.
type Dataset struct {
	RawPath      string
	EnrichedPath string
	DatabaseURL  string
}

// Pipeline tunes the preprocessing run. YearFrom/YearTo bound the complete
// years window; batch size only affects progress reporting, never output.
type Pipeline struct {
	YearFrom     int
	YearTo       int
	BatchSize    int
	Workers      int
	KafkaBrokers []string
	KafkaTopic   string
}

// Translate configures the category translation step. RemoteURL points at the
// machine-translation endpoint; RedisURL optionally shares the cache across
// runs; Delay is the fixed pause between remote calls.
type Translate struct {
	RemoteURL  string
	SourceLang string
	TargetLang string
	RedisURL   string
	Delay      time.Duration
	Timeout    time.Duration
}

// Config aggregates all runtime configuration.
type Config struct {
	Server    Server
	Dataset   Dataset
	Pipeline  Pipeline
	Translate Translate
}

// FromEnv builds the full config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr: envStr("IHSAN_ADDR", ":8080"),
			// Default for development - must be overridden in production
			JWTSigningKey: envStr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		},
		Dataset: Dataset{
			RawPath:      envStr("DATASET_RAW_PATH", "data/general_donation.csv"),
			EnrichedPath: envStr("DATASET_ENRICHED_PATH", "data/general_donation_enriched.csv"),
			DatabaseURL:  os.Getenv("DATASET_DB_URL"),
		},
		Pipeline: Pipeline{
			YearFrom:     envInt("PIPELINE_YEAR_FROM", 2019),
			YearTo:       envInt("PIPELINE_YEAR_TO", 2024),
			BatchSize:    envInt("PIPELINE_BATCH_SIZE", 10000),
			Workers:      envInt("ENRICH_WORKERS", 1),
			KafkaBrokers: envList("PIPELINE_KAFKA_BROKERS"),
			KafkaTopic:   envStr("PIPELINE_KAFKA_TOPIC", "ihsan.pipeline.runs"),
		},
		Translate: Translate{
			RemoteURL:  os.Getenv("TRANSLATE_REMOTE_URL"),
			SourceLang: envStr("TRANSLATE_SOURCE_LANG", "ar"),
			TargetLang: envStr("TRANSLATE_TARGET_LANG", "en"),
			RedisURL:   os.Getenv("TRANSLATE_REDIS_URL"),
			Delay:      envDuration("TRANSLATE_DELAY", 100*time.Millisecond),
			Timeout:    envDuration("TRANSLATE_TIMEOUT", 10*time.Second),
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
