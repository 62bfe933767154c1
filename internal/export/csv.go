package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/calchen/trip-telemetry-go/internal/models"
)

var baseColumns = []string{
	"tripid", "deviceid", "firmwareid", "configid",
	"startlocaltime", "endlocaltime",
	"startlatitude", "startlongitude", "endlatitude", "endlongitude",
	"messagecount", "encountercount",
}

var derivedColumns = []string{
	"trip_duration", "start_hour", "day_of_week", "trip_distance_km", "bearing_deg",
}

// WriteFile writes the enriched table to a CSV at path.
func WriteFile(path string, recs []models.EnrichedTripRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	return Write(f, recs)
}

// Write emits the enriched table: the source columns, any passthrough
// metadata columns, then the derived feature columns. Missing values are
// written as empty cells, never zero.
func Write(w io.Writer, recs []models.EnrichedTripRecord) error {
	extras := extraColumns(recs)

	cw := csv.NewWriter(w)

	header := make([]string, 0, len(baseColumns)+len(extras)+len(derivedColumns))
	header = append(header, baseColumns...)
	header = append(header, extras...)
	header = append(header, derivedColumns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, rec := range recs {
		row := make([]string, 0, len(header))
		row = append(row,
			rec.TripID, rec.DeviceID, rec.FirmwareID, rec.ConfigID,
			rec.StartLocalTime, rec.EndLocalTime,
			floatCell(rec.StartLatitude), floatCell(rec.StartLongitude),
			floatCell(rec.EndLatitude), floatCell(rec.EndLongitude),
			intCell(rec.MessageCount), intCell(rec.EncounterCount),
		)
		for _, col := range extras {
			row = append(row, rec.Extra[col])
		}
		row = append(row,
			strconv.FormatFloat(rec.DurationMinutes, 'f', -1, 64),
			strconv.Itoa(rec.StartHour),
			strconv.Itoa(rec.DayOfWeek),
			floatCell(rec.TripDistanceKm),
			floatCell(rec.BearingDeg),
		)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row for trip %q: %w", rec.TripID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// extraColumns returns the union of passthrough columns in first-seen order.
func extraColumns(recs []models.EnrichedTripRecord) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, rec := range recs {
		for _, col := range rec.ExtraColumns {
			if !seen[col] {
				seen[col] = true
				cols = append(cols, col)
			}
		}
	}
	return cols
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intCell(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
