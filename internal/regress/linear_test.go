package regress

import (
	"errors"
	"math"
	"testing"

	"github.com/calchen/trip-telemetry-go/internal/models"
)

// syntheticRecords builds n records with exactly linear behavior:
// duration = 3 + 2*distance + 0.5*hour.
func syntheticRecords(n int) []models.EnrichedTripRecord {
	recs := make([]models.EnrichedTripRecord, n)
	for i := range recs {
		dist := float64(i%17) + 0.25
		hour := i % 24
		recs[i] = models.EnrichedTripRecord{
			StartHour:       hour,
			DayOfWeek:       i % 7,
			TripDistanceKm:  &dist,
			DurationMinutes: 3 + 2*dist + 0.5*float64(hour),
		}
	}
	return recs
}

func TestTrainEvaluateRecoversLinearModel(t *testing.T) {
	m, err := TrainEvaluate(syntheticRecords(200), Options{Seed: 42, TestFraction: 0.2})
	if err != nil {
		t.Fatalf("TrainEvaluate failed: %v", err)
	}

	if m.TrainSize != 160 || m.TestSize != 40 {
		t.Fatalf("split = (%d, %d), want (160, 40)", m.TrainSize, m.TestSize)
	}
	if m.MSE > 1e-18 {
		t.Fatalf("MSE = %v, want ~0 on exactly linear data", m.MSE)
	}
	if math.Abs(m.R2-1) > 1e-9 {
		t.Fatalf("R2 = %v, want ~1", m.R2)
	}

	// Distance dominates the synthetic signal
	if len(m.Importance) != 3 {
		t.Fatalf("importance count = %d, want 3", len(m.Importance))
	}
	if m.Importance[0].Name != FeatureDistanceKm {
		t.Fatalf("top feature = %q, want %q", m.Importance[0].Name, FeatureDistanceKm)
	}
	// Day of week does not enter the synthetic target
	for _, imp := range m.Importance {
		if imp.Name == FeatureDayOfWeek && imp.Weight > 1e-6 {
			t.Fatalf("day_of_week weight = %v, want ~0", imp.Weight)
		}
	}
}

func TestTrainEvaluateDeterministic(t *testing.T) {
	recs := syntheticRecords(100)
	m1, err := TrainEvaluate(recs, Options{Seed: 7, TestFraction: 0.25})
	if err != nil {
		t.Fatalf("TrainEvaluate failed: %v", err)
	}
	m2, err := TrainEvaluate(recs, Options{Seed: 7, TestFraction: 0.25})
	if err != nil {
		t.Fatalf("TrainEvaluate failed: %v", err)
	}
	if m1.MSE != m2.MSE || m1.R2 != m2.R2 {
		t.Fatalf("same seed produced different metrics: (%v, %v) vs (%v, %v)", m1.MSE, m1.R2, m2.MSE, m2.R2)
	}
}

func TestTrainEvaluateExcludesMissingDistance(t *testing.T) {
	recs := syntheticRecords(50)
	recs[3].TripDistanceKm = nil
	recs[17].TripDistanceKm = nil

	m, err := TrainEvaluate(recs, Options{Seed: 1, TestFraction: 0.2})
	if err != nil {
		t.Fatalf("TrainEvaluate failed: %v", err)
	}
	if m.Excluded != 2 {
		t.Fatalf("Excluded = %d, want 2", m.Excluded)
	}
	if m.TrainSize+m.TestSize != 48 {
		t.Fatalf("usable samples = %d, want 48", m.TrainSize+m.TestSize)
	}
}

func TestTrainEvaluateTooFewSamples(t *testing.T) {
	_, err := TrainEvaluate(syntheticRecords(4), Options{Seed: 1, TestFraction: 0.2})
	if err == nil {
		t.Fatal("TrainEvaluate succeeded on 4 samples")
	}
	if !errors.Is(err, ErrNotEnoughSamples) {
		t.Fatalf("error = %v, want ErrNotEnoughSamples", err)
	}
}

func TestTrainEvaluateRejectsBadOptions(t *testing.T) {
	recs := syntheticRecords(50)
	if _, err := TrainEvaluate(recs, Options{Seed: 1, TestFraction: 0}); err == nil {
		t.Fatal("accepted test fraction 0")
	}
	if _, err := TrainEvaluate(recs, Options{Seed: 1, TestFraction: 0.2, Features: []string{"bogus"}}); err == nil {
		t.Fatal("accepted unknown feature")
	}
}
