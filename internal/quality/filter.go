package quality

import (
	"errors"
	"fmt"

	"github.com/calchen/trip-telemetry-go/internal/models"
	"github.com/calchen/trip-telemetry-go/internal/stats"
)

// ErrInsufficientData marks a record set too small for the capping quantile
// to be defined. Fatal for the filter stage.
var ErrInsufficientData = errors.New("insufficient data for quantile cap")

// Options configures the quality filter
type Options struct {
	Percentile float64 // capping quantile in (0,1)
}

// DefaultOptions caps durations at the 99th percentile.
var DefaultOptions = Options{Percentile: 0.99}

// Result is the outcome of one filter run.
type Result struct {
	Records         []models.EnrichedTripRecord
	DroppedNegative int     // records removed for duration < 0
	Capped          int     // records clamped to the quantile value
	CapMinutes      float64 // the quantile the survivors were clamped to
}

// Filter removes invalid records and caps duration outliers. Records with a
// negative duration are dropped; the opts.Percentile quantile is then computed
// over the remaining durations (linear interpolation between order statistics)
// and any duration above it is replaced with the quantile value itself.
// Survivors satisfy duration in [0, cap]. The input slice is not modified.
func Filter(recs []models.EnrichedTripRecord, opts Options) (Result, error) {
	if opts.Percentile <= 0 || opts.Percentile >= 1 {
		return Result{}, fmt.Errorf("capping percentile must be in (0,1), got %v", opts.Percentile)
	}

	kept := make([]models.EnrichedTripRecord, 0, len(recs))
	for _, rec := range recs {
		if rec.DurationMinutes < 0 {
			continue
		}
		kept = append(kept, rec)
	}
	dropped := len(recs) - len(kept)

	// With fewer than 2 survivors the quantile degenerates to a single
	// observation; refuse to produce a cap from that.
	if len(kept) < 2 {
		return Result{}, fmt.Errorf("%w: %d records after negative-duration removal", ErrInsufficientData, len(kept))
	}

	durations := make([]float64, len(kept))
	for i, rec := range kept {
		durations[i] = rec.DurationMinutes
	}
	capVal := stats.Quantile(durations, opts.Percentile)

	out := make([]models.EnrichedTripRecord, len(kept))
	capped := 0
	for i, rec := range kept {
		if rec.DurationMinutes > capVal {
			rec.DurationMinutes = capVal
			capped++
		}
		out[i] = rec
	}

	return Result{
		Records:         out,
		DroppedNegative: dropped,
		Capped:          capped,
		CapMinutes:      capVal,
	}, nil
}
