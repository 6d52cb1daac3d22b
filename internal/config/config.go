// Package config loads pipeline and service settings from environment
// variables, with an optional .env file for local development.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/pipeline"
)

// Config holds all pipeline and service settings, populated from environment
// variables.
type Config struct {
	// Data layout.
	RawCSVPath     string
	StateWeekPath  string
	ModelReadyPath string
	ModelsDir      string
	ForecastDir    string

	// Cleaning behavior.
	MissingStrategy pipeline.Strategy
	KeepTerritories bool

	// Web app.
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Observability.
	LogLevel  string
	LogFormat string

	// Optional forecast publication to Kafka. Enabled when brokers are set.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool

	// Optional forecast persistence to Postgres. Enabled when the DSN is set.
	PostgresDSN     string
	PostgresEnabled bool
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is loaded first when
// present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	strategy, err := pipeline.ParseStrategy(envOrDefault("MISSING_STRATEGY", string(pipeline.StrategyStateMedian)))
	if err != nil {
		return nil, errors.New("invalid MISSING_STRATEGY: must be one of drop, ffill, state_median")
	}

	shutdownStr := envOrDefault("SHUTDOWN_TIMEOUT", "10s")
	shutdownTimeout, err := time.ParseDuration(shutdownStr)
	if err != nil || shutdownTimeout <= 0 {
		return nil, errors.New("invalid SHUTDOWN_TIMEOUT")
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	dsn := os.Getenv("POSTGRES_DSN")

	cfg := &Config{
		RawCSVPath:     envOrDefault("RAW_CSV_PATH", "data/raw/Weekly_Hospital_Respiratory_Data.csv"),
		StateWeekPath:  envOrDefault("STATE_WEEK_PATH", "data/cleaned/state_week_50.csv"),
		ModelReadyPath: envOrDefault("MODEL_READY_PATH", "data/cleaned/model_ready.csv"),
		ModelsDir:      envOrDefault("MODELS_DIR", "models"),
		ForecastDir:    envOrDefault("FORECAST_DIR", "data/cleaned"),

		MissingStrategy: strategy,
		KeepTerritories: os.Getenv("KEEP_TERRITORIES") == "true",

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout: shutdownTimeout,

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		KafkaBrokers: brokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "hospital-forecasts"),
		KafkaEnabled: len(brokers) > 0,

		PostgresDSN:     dsn,
		PostgresEnabled: dsn != "",
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
