package features

import (
	"time"

	"github.com/calchen/trip-telemetry-go/internal/models"
	"github.com/calchen/trip-telemetry-go/internal/spatial"
)

// StartHour extracts the hour-of-day (0-23) from the start instant's encoded
// wall clock.
func StartHour(start time.Time) int {
	return start.Hour()
}

// DayOfWeek maps the start instant's weekday to 0 = Monday ... 6 = Sunday.
// Downstream categorical encoding depends on this exact numbering.
func DayOfWeek(start time.Time) int {
	// time.Weekday counts 0 = Sunday
	return (int(start.Weekday()) + 6) % 7
}

// Derive returns a copy of rec with calendar and geospatial features filled
// in. Missing coordinates leave TripDistanceKm and BearingDeg nil; they never
// become zero and never abort the batch.
func Derive(rec models.EnrichedTripRecord) models.EnrichedTripRecord {
	rec.StartHour = StartHour(rec.StartInstant)
	rec.DayOfWeek = DayOfWeek(rec.StartInstant)

	if rec.HasCoordinates() {
		if km, ok := spatial.HaversineKm(
			*rec.StartLatitude, *rec.StartLongitude,
			*rec.EndLatitude, *rec.EndLongitude,
		); ok {
			rec.TripDistanceKm = &km
		}
		if deg, ok := spatial.Bearing(
			*rec.StartLatitude, *rec.StartLongitude,
			*rec.EndLatitude, *rec.EndLongitude,
		); ok {
			rec.BearingDeg = &deg
		}
	}

	return rec
}

// DeriveAll applies Derive to every record, returning a new slice.
func DeriveAll(recs []models.EnrichedTripRecord) []models.EnrichedTripRecord {
	out := make([]models.EnrichedTripRecord, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Derive(rec))
	}
	return out
}
