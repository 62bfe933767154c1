package main

import (
	"log"

	"github.com/calchen/trip-telemetry-go/internal/config"
	"github.com/calchen/trip-telemetry-go/internal/database"
	"github.com/calchen/trip-telemetry-go/internal/export"
	"github.com/calchen/trip-telemetry-go/internal/loader"
	"github.com/calchen/trip-telemetry-go/internal/pipeline"
	"github.com/calchen/trip-telemetry-go/internal/quality"
	"github.com/calchen/trip-telemetry-go/internal/regress"
	"github.com/calchen/trip-telemetry-go/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	records, err := loader.LoadFile(cfg.InputCSV)
	if err != nil {
		log.Fatal("Failed to load trip records: ", err)
	}
	log.Printf("[Main] Loaded %d trip records from %s", len(records), cfg.InputCSV)

	enriched, report, err := pipeline.Run(records, quality.Options{Percentile: cfg.CapPercentile})
	if err != nil {
		log.Fatal("Pipeline failed: ", err)
	}
	pipeline.LogReport(report, enriched)

	if cfg.OutputCSV != "" {
		if err := export.WriteFile(cfg.OutputCSV, enriched); err != nil {
			log.Fatal("Failed to export enriched table: ", err)
		}
		log.Printf("[Main] Wrote enriched table to %s", cfg.OutputCSV)
	}

	if cfg.DBPath != "" {
		db, err := database.Open(database.Config{Path: cfg.DBPath})
		if err != nil {
			log.Fatal("Failed to initialize database: ", err)
		}
		defer db.Close()

		repo := repository.NewEnrichedTripRepository(db)
		if err := repo.SaveAll(enriched); err != nil {
			log.Fatal("Failed to persist enriched table: ", err)
		}
		summary, err := repo.GetSummary()
		if err != nil {
			log.Fatal("Failed to read back summary: ", err)
		}
		log.Printf("[Main] Persisted enriched table: %d rows, duration min=%.2f max=%.2f mean=%.2f",
			summary.Count, summary.MinDuration, summary.MaxDuration, summary.AvgDuration)
	}

	if cfg.SkipTraining {
		return
	}

	metrics, err := regress.TrainEvaluate(enriched, regress.Options{
		Seed:         cfg.TrainSeed,
		TestFraction: cfg.TestFraction,
	})
	if err != nil {
		log.Fatal("Training failed: ", err)
	}

	log.Printf("[Main] Baseline regression: MSE=%.4f R2=%.4f (train=%d test=%d excluded=%d)",
		metrics.MSE, metrics.R2, metrics.TrainSize, metrics.TestSize, metrics.Excluded)
	for _, imp := range metrics.Importance {
		log.Printf("[Main] Feature importance: %s=%.4f", imp.Name, imp.Weight)
	}
}
