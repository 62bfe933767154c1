package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/calchen/trip-telemetry-go/internal/database"
	"github.com/calchen/trip-telemetry-go/internal/models"
)

// EnrichedTripRepository handles database operations for enriched trips
type EnrichedTripRepository struct {
	db *sql.DB
}

// NewEnrichedTripRepository creates a new enriched trip repository
func NewEnrichedTripRepository(db *sql.DB) *EnrichedTripRepository {
	return &EnrichedTripRepository{db: db}
}

// SaveAll persists the enriched table in a single transaction. A previous
// run's rows for the same trip ids are not deduplicated; each run appends.
func (r *EnrichedTripRepository) SaveAll(recs []models.EnrichedTripRecord) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO enriched_trips (
			trip_id, device_id, firmware_id, config_id,
			start_instant, end_instant, trip_duration, start_hour, day_of_week,
			start_latitude, start_longitude, end_latitude, end_longitude,
			trip_distance_km, bearing_deg, message_count, encounter_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, rec := range recs {
			_, err := stmt.Exec(
				rec.TripID, rec.DeviceID, rec.FirmwareID, rec.ConfigID,
				rec.StartInstant.UnixMilli(), rec.EndInstant.UnixMilli(),
				rec.DurationMinutes, rec.StartHour, rec.DayOfWeek,
				nullable(rec.StartLatitude), nullable(rec.StartLongitude),
				nullable(rec.EndLatitude), nullable(rec.EndLongitude),
				nullable(rec.TripDistanceKm), nullable(rec.BearingDeg),
				nullableInt(rec.MessageCount), nullableInt(rec.EncounterCount),
			)
			if err != nil {
				return fmt.Errorf("failed to insert trip %q: %w", rec.TripID, err)
			}
		}
		return nil
	})
}

// Summary describes the persisted enriched table.
type Summary struct {
	Count       int64
	MinDuration float64
	MaxDuration float64
	AvgDuration float64
}

// GetSummary returns count and duration bounds over the enriched table.
func (r *EnrichedTripRepository) GetSummary() (Summary, error) {
	var s Summary
	row := r.db.QueryRow(`SELECT COUNT(*),
		COALESCE(MIN(trip_duration), 0),
		COALESCE(MAX(trip_duration), 0),
		COALESCE(AVG(trip_duration), 0)
		FROM enriched_trips`)
	if err := row.Scan(&s.Count, &s.MinDuration, &s.MaxDuration, &s.AvgDuration); err != nil {
		return Summary{}, fmt.Errorf("failed to query summary: %w", err)
	}
	return s, nil
}

// GetByTripID retrieves all persisted rows for one trip id in insert order.
func (r *EnrichedTripRepository) GetByTripID(tripID string) ([]models.EnrichedTripRecord, error) {
	rows, err := r.db.Query(`SELECT trip_id, device_id, firmware_id, config_id,
		start_instant, end_instant, trip_duration, start_hour, day_of_week,
		start_latitude, start_longitude, end_latitude, end_longitude,
		trip_distance_km, bearing_deg, message_count, encounter_count
		FROM enriched_trips WHERE trip_id = ? ORDER BY id`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	var recs []models.EnrichedTripRecord
	for rows.Next() {
		rec, err := scanEnrichedTrip(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func scanEnrichedTrip(rows *sql.Rows) (models.EnrichedTripRecord, error) {
	var rec models.EnrichedTripRecord
	var startMs, endMs int64
	var startLat, startLon, endLat, endLon, distKm, bearing sql.NullFloat64
	var msgCount, encCount sql.NullInt64

	err := rows.Scan(
		&rec.TripID, &rec.DeviceID, &rec.FirmwareID, &rec.ConfigID,
		&startMs, &endMs, &rec.DurationMinutes, &rec.StartHour, &rec.DayOfWeek,
		&startLat, &startLon, &endLat, &endLon,
		&distKm, &bearing, &msgCount, &encCount,
	)
	if err != nil {
		return rec, fmt.Errorf("failed to scan trip: %w", err)
	}

	rec.StartInstant = msToTime(startMs)
	rec.EndInstant = msToTime(endMs)
	rec.StartLatitude = floatPtr(startLat)
	rec.StartLongitude = floatPtr(startLon)
	rec.EndLatitude = floatPtr(endLat)
	rec.EndLongitude = floatPtr(endLon)
	rec.TripDistanceKm = floatPtr(distKm)
	rec.BearingDeg = floatPtr(bearing)
	rec.MessageCount = intPtr(msgCount)
	rec.EncounterCount = intPtr(encCount)
	return rec, nil
}

func msToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullable(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableInt(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
