package models

import "time"

// TripRecord represents one row of raw trip telemetry as loaded from the source
// table. Identifier and count columns are carried as opaque values; coordinates
// are optional and stay nil when the source cell is empty, so a missing value
// never collapses to zero downstream.
type TripRecord struct {
	TripID     string `json:"trip_id" db:"trip_id"`
	DeviceID   string `json:"device_id,omitempty" db:"device_id"`
	FirmwareID string `json:"firmware_id,omitempty" db:"firmware_id"`
	ConfigID   string `json:"config_id,omitempty" db:"config_id"`

	// Raw epoch-millisecond timestamps as they appear in the source
	StartLocalTime string `json:"startlocaltime" db:"startlocaltime"`
	EndLocalTime   string `json:"endlocaltime" db:"endlocaltime"`

	StartLatitude  *float64 `json:"startlatitude,omitempty" db:"startlatitude"`
	StartLongitude *float64 `json:"startlongitude,omitempty" db:"startlongitude"`
	EndLatitude    *float64 `json:"endlatitude,omitempty" db:"endlatitude"`
	EndLongitude   *float64 `json:"endlongitude,omitempty" db:"endlongitude"`

	MessageCount   *int64 `json:"message_count,omitempty" db:"message_count"`
	EncounterCount *int64 `json:"encounter_count,omitempty" db:"encounter_count"`

	// Columns the loader does not recognize pass through unmodified,
	// keyed by header name; ExtraColumns preserves source order.
	Extra        map[string]string `json:"extra,omitempty"`
	ExtraColumns []string          `json:"-"`
}

// EnrichedTripRecord is a TripRecord augmented with canonical instants, the
// derived duration target and the engineered features. It is constructed
// functionally from a TripRecord and never mutated in place.
type EnrichedTripRecord struct {
	TripRecord

	StartInstant    time.Time `json:"start_instant"`
	EndInstant      time.Time `json:"end_instant"`
	DurationMinutes float64   `json:"trip_duration"`

	StartHour int `json:"start_hour"`  // 0-23
	DayOfWeek int `json:"day_of_week"` // 0 = Monday ... 6 = Sunday

	TripDistanceKm *float64 `json:"trip_distance_km,omitempty"`
	BearingDeg     *float64 `json:"bearing_deg,omitempty"`
}

// HasCoordinates reports whether both endpoints carry a full lat/lon pair.
func (r *TripRecord) HasCoordinates() bool {
	return r.StartLatitude != nil && r.StartLongitude != nil &&
		r.EndLatitude != nil && r.EndLongitude != nil
}
