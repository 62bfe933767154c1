package regress

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/calchen/trip-telemetry-go/internal/models"
)

// ErrNotEnoughSamples marks a dataset too small to fit and hold out a test split.
var ErrNotEnoughSamples = errors.New("not enough samples for train/test split")

// Feature names accepted by Options.Features.
const (
	FeatureStartHour  = "start_hour"
	FeatureDayOfWeek  = "day_of_week"
	FeatureDistanceKm = "trip_distance_km"
)

// DefaultFeatures is the baseline feature set for the duration model.
var DefaultFeatures = []string{FeatureStartHour, FeatureDayOfWeek, FeatureDistanceKm}

// Options configures the trainer/evaluator.
type Options struct {
	Seed         int64    // shuffle seed; a fixed seed makes the split reproducible
	TestFraction float64  // share of samples held out, in (0,1)
	Features     []string // defaults to DefaultFeatures when empty
}

// Importance ranks one feature by the magnitude of its standardized coefficient.
type Importance struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Metrics reports the evaluation of one fitted model.
type Metrics struct {
	MSE        float64      `json:"mse"`
	R2         float64      `json:"r2"`
	TrainSize  int          `json:"train_size"`
	TestSize   int          `json:"test_size"`
	Excluded   int          `json:"excluded"` // records skipped for missing features
	Importance []Importance `json:"importance"`
}

// TrainEvaluate fits an ordinary least squares model predicting the duration
// target from the configured features and evaluates it on a seeded held-out
// split. Records missing any feature are excluded from the design matrix
// rather than imputed. Deterministic for a fixed seed.
func TrainEvaluate(recs []models.EnrichedTripRecord, opts Options) (Metrics, error) {
	if opts.TestFraction <= 0 || opts.TestFraction >= 1 {
		return Metrics{}, fmt.Errorf("test fraction must be in (0,1), got %v", opts.TestFraction)
	}
	feats := opts.Features
	if len(feats) == 0 {
		feats = DefaultFeatures
	}

	rows, target, excluded, err := designMatrix(recs, feats)
	if err != nil {
		return Metrics{}, err
	}

	n := len(rows)
	testN := int(float64(n) * opts.TestFraction)
	if testN < 1 {
		testN = 1
	}
	trainN := n - testN
	// One more unknown than features (the intercept)
	if trainN < len(feats)+2 {
		return Metrics{}, fmt.Errorf("%w: %d usable samples for %d features", ErrNotEnoughSamples, n, len(feats))
	}

	perm := rand.New(rand.NewSource(opts.Seed)).Perm(n)
	trainIdx, testIdx := perm[:trainN], perm[trainN:]

	beta, err := fitOLS(rows, target, trainIdx, len(feats))
	if err != nil {
		return Metrics{}, err
	}

	m := Metrics{
		TrainSize:  trainN,
		TestSize:   testN,
		Excluded:   excluded,
		Importance: rankImportance(rows, trainIdx, feats, beta),
	}
	m.MSE, m.R2 = evaluate(rows, target, testIdx, beta)
	return m, nil
}

// designMatrix extracts one float row per usable record plus the target.
func designMatrix(recs []models.EnrichedTripRecord, feats []string) ([][]float64, []float64, int, error) {
	rows := make([][]float64, 0, len(recs))
	target := make([]float64, 0, len(recs))
	excluded := 0

	for _, rec := range recs {
		row := make([]float64, len(feats))
		ok := true
		for i, name := range feats {
			switch name {
			case FeatureStartHour:
				row[i] = float64(rec.StartHour)
			case FeatureDayOfWeek:
				row[i] = float64(rec.DayOfWeek)
			case FeatureDistanceKm:
				if rec.TripDistanceKm == nil {
					ok = false
				} else {
					row[i] = *rec.TripDistanceKm
				}
			default:
				return nil, nil, 0, fmt.Errorf("unknown feature %q", name)
			}
		}
		if !ok {
			excluded++
			continue
		}
		rows = append(rows, row)
		target = append(target, rec.DurationMinutes)
	}

	return rows, target, excluded, nil
}

// fitOLS solves the least squares problem over the training rows with an
// intercept column.
func fitOLS(rows [][]float64, target []float64, trainIdx []int, p int) ([]float64, error) {
	x := mat.NewDense(len(trainIdx), p+1, nil)
	y := mat.NewVecDense(len(trainIdx), nil)
	for i, idx := range trainIdx {
		x.Set(i, 0, 1)
		for j, v := range rows[idx] {
			x.Set(i, j+1, v)
		}
		y.SetVec(i, target[idx])
	}

	var qr mat.QR
	qr.Factorize(x)

	beta := mat.NewVecDense(p+1, nil)
	if err := qr.SolveVecTo(beta, false, y); err != nil {
		return nil, fmt.Errorf("failed to solve least squares: %w", err)
	}

	out := make([]float64, p+1)
	for i := range out {
		out[i] = beta.AtVec(i)
	}
	return out, nil
}

func predict(row []float64, beta []float64) float64 {
	pred := beta[0]
	for j, v := range row {
		pred += beta[j+1] * v
	}
	return pred
}

func evaluate(rows [][]float64, target []float64, testIdx []int, beta []float64) (mse, r2 float64) {
	actual := make([]float64, len(testIdx))
	var ssRes float64
	for i, idx := range testIdx {
		actual[i] = target[idx]
		resid := target[idx] - predict(rows[idx], beta)
		ssRes += resid * resid
	}
	mse = ssRes / float64(len(testIdx))

	meanActual := stat.Mean(actual, nil)
	var ssTot float64
	for _, v := range actual {
		diff := v - meanActual
		ssTot += diff * diff
	}
	if ssTot == 0 {
		return mse, 0
	}
	return mse, 1 - ssRes/ssTot
}

// rankImportance weights each coefficient by the training-set standard
// deviation of its feature, so features on different scales compare fairly.
func rankImportance(rows [][]float64, trainIdx []int, feats []string, beta []float64) []Importance {
	out := make([]Importance, len(feats))
	col := make([]float64, len(trainIdx))
	for j, name := range feats {
		for i, idx := range trainIdx {
			col[i] = rows[idx][j]
		}
		sd := stat.StdDev(col, nil)
		w := beta[j+1] * sd
		if w < 0 {
			w = -w
		}
		out[j] = Importance{Name: name, Weight: w}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Weight > out[k].Weight })
	return out
}
