package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds pipeline configuration
type Config struct {
	InputCSV      string  // source trip telemetry table
	OutputCSV     string  // enriched table destination, empty disables the CSV export
	DBPath        string  // SQLite output table, empty disables persistence
	CapPercentile float64 // duration capping quantile in (0,1)
	TrainSeed     int64   // seed for the train/test split shuffle
	TestFraction  float64 // share of records held out for evaluation
	SkipTraining  bool    // stop after enrichment and export
}

// Load reads configuration from the environment, honoring a local .env file.
func Load() (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := &Config{
		InputCSV:      getenvDefault("INPUT_CSV", "./data/trips.csv"),
		OutputCSV:     os.Getenv("OUTPUT_CSV"),
		DBPath:        os.Getenv("DB_PATH"),
		CapPercentile: 0.99,
		TrainSeed:     42,
		TestFraction:  0.2,
	}

	if v := os.Getenv("CAP_PERCENTILE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 || f >= 1 {
			return nil, fmt.Errorf("invalid CAP_PERCENTILE: %q (want a value in (0,1))", v)
		}
		cfg.CapPercentile = f
	}

	if v := os.Getenv("TRAIN_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TRAIN_SEED: %q", v)
		}
		cfg.TrainSeed = n
	}

	if v := os.Getenv("TEST_FRACTION"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 || f >= 1 {
			return nil, fmt.Errorf("invalid TEST_FRACTION: %q (want a value in (0,1))", v)
		}
		cfg.TestFraction = f
	}

	if v := os.Getenv("SKIP_TRAINING"); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			cfg.SkipTraining = true
		}
	}

	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
