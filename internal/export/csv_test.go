package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/calchen/trip-telemetry-go/internal/models"
)

func TestWriteEnrichedTable(t *testing.T) {
	dist := 5.2
	lat := 40.7128
	recs := []models.EnrichedTripRecord{
		{
			TripRecord: models.TripRecord{
				TripID:         "t1",
				StartLocalTime: "1623058200000",
				EndLocalTime:   "1623058800000",
				StartLatitude:  &lat,
				Extra:          map[string]string{"rxdevice": "edge-1"},
				ExtraColumns:   []string{"rxdevice"},
			},
			StartInstant:    time.Date(2021, 6, 7, 9, 30, 0, 0, time.UTC),
			EndInstant:      time.Date(2021, 6, 7, 9, 40, 0, 0, time.UTC),
			DurationMinutes: 10,
			StartHour:       9,
			DayOfWeek:       0,
			TripDistanceKm:  &dist,
		},
		{
			TripRecord:      models.TripRecord{TripID: "t2"},
			DurationMinutes: 42.5,
			StartHour:       22,
			DayOfWeek:       6,
			// distance stays "no value"
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, recs); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-reading output failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("row count = %d, want header + 2", len(rows))
	}

	header := rows[0]
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, want := range []string{"tripid", "rxdevice", "trip_duration", "start_hour", "day_of_week", "trip_distance_km", "bearing_deg"} {
		if _, ok := cols[want]; !ok {
			t.Fatalf("header missing column %q: %v", want, header)
		}
	}

	if rows[1][cols["tripid"]] != "t1" {
		t.Fatalf("tripid = %q", rows[1][cols["tripid"]])
	}
	if rows[1][cols["rxdevice"]] != "edge-1" {
		t.Fatalf("passthrough cell = %q", rows[1][cols["rxdevice"]])
	}
	if rows[1][cols["trip_duration"]] != "10" {
		t.Fatalf("trip_duration = %q", rows[1][cols["trip_duration"]])
	}
	if rows[1][cols["trip_distance_km"]] != "5.2" {
		t.Fatalf("trip_distance_km = %q", rows[1][cols["trip_distance_km"]])
	}

	// Missing values export as empty cells, never zero
	if rows[2][cols["trip_distance_km"]] != "" {
		t.Fatalf("missing distance exported as %q, want empty", rows[2][cols["trip_distance_km"]])
	}
	if rows[2][cols["startlatitude"]] != "" {
		t.Fatalf("missing latitude exported as %q, want empty", rows[2][cols["startlatitude"]])
	}
	if rows[2][cols["day_of_week"]] != "6" {
		t.Fatalf("day_of_week = %q, want 6", rows[2][cols["day_of_week"]])
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := t.TempDir() + "/enriched.csv"
	recs := []models.EnrichedTripRecord{
		{TripRecord: models.TripRecord{TripID: "t1"}, DurationMinutes: 1},
	}
	if err := WriteFile(path, recs); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}
