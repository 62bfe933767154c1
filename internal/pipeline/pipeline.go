package pipeline

import (
	"fmt"
	"log"

	"github.com/calchen/trip-telemetry-go/internal/features"
	"github.com/calchen/trip-telemetry-go/internal/models"
	"github.com/calchen/trip-telemetry-go/internal/quality"
	"github.com/calchen/trip-telemetry-go/internal/stats"
	"github.com/calchen/trip-telemetry-go/internal/temporal"
)

// Report summarizes one pipeline run.
type Report struct {
	Loaded           int
	MalformedDropped int     // records dropped for unparsable timestamps
	NegativeDropped  int     // records dropped for negative duration
	Capped           int     // records clamped to the duration cap
	CapMinutes       float64 // the duration cap applied
	Enriched         int
}

// Normalize parses raw timestamps and derives the duration target for every
// record. Records with a malformed start or end timestamp are dropped and
// counted; one bad row never aborts the batch.
func Normalize(recs []models.TripRecord) ([]models.EnrichedTripRecord, int) {
	out := make([]models.EnrichedTripRecord, 0, len(recs))
	dropped := 0
	for _, rec := range recs {
		start, err := temporal.ParseEpochMillis(rec.StartLocalTime)
		if err != nil {
			log.Printf("[Pipeline] Dropping record %q: %v", rec.TripID, err)
			dropped++
			continue
		}
		end, err := temporal.ParseEpochMillis(rec.EndLocalTime)
		if err != nil {
			log.Printf("[Pipeline] Dropping record %q: %v", rec.TripID, err)
			dropped++
			continue
		}

		out = append(out, models.EnrichedTripRecord{
			TripRecord:      rec,
			StartInstant:    start,
			EndInstant:      end,
			DurationMinutes: temporal.DurationMinutes(start, end),
		})
	}
	return out, dropped
}

// Run executes the full transformation: temporal normalization, quality
// filtering, feature derivation. Each stage takes an immutable input and
// returns a new collection. Fatal errors (unusable cap) surface to the
// caller; per-record problems are recovered locally and counted.
func Run(recs []models.TripRecord, opts quality.Options) ([]models.EnrichedTripRecord, Report, error) {
	report := Report{Loaded: len(recs)}

	normalized, malformed := Normalize(recs)
	report.MalformedDropped = malformed

	filtered, err := quality.Filter(normalized, opts)
	if err != nil {
		return nil, report, fmt.Errorf("quality filter: %w", err)
	}
	report.NegativeDropped = filtered.DroppedNegative
	report.Capped = filtered.Capped
	report.CapMinutes = filtered.CapMinutes

	enriched := features.DeriveAll(filtered.Records)
	report.Enriched = len(enriched)

	return enriched, report, nil
}

// LogReport writes the run report and a duration five-number summary.
func LogReport(report Report, recs []models.EnrichedTripRecord) {
	log.Printf("[Pipeline] Loaded %d records: %d dropped (malformed timestamp), %d dropped (negative duration), %d capped at %.2f min, %d enriched",
		report.Loaded, report.MalformedDropped, report.NegativeDropped, report.Capped, report.CapMinutes, report.Enriched)

	if len(recs) == 0 {
		return
	}
	durations := make([]float64, len(recs))
	for i, rec := range recs {
		durations[i] = rec.DurationMinutes
	}
	min, q1, median, q3, max := stats.FiveNumberSummary(durations)
	log.Printf("[Pipeline] Duration minutes: min=%.2f q1=%.2f median=%.2f q3=%.2f max=%.2f mean=%.2f",
		min, q1, median, q3, max, stats.Mean(durations))
}
