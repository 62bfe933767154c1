package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/calchen/trip-telemetry-go/internal/models"
	"github.com/calchen/trip-telemetry-go/internal/spatial"
)

// ErrSourceRead marks an unreadable or structurally broken source table.
// Fatal for the run; surfaced to the caller rather than crashing.
var ErrSourceRead = errors.New("source read error")

// column names the loader maps onto TripRecord fields, lower-cased
const (
	colTripID         = "tripid"
	colDeviceID       = "deviceid"
	colFirmwareID     = "firmwareid"
	colConfigID       = "configid"
	colStartLocalTime = "startlocaltime"
	colEndLocalTime   = "endlocaltime"
	colStartLatitude  = "startlatitude"
	colStartLongitude = "startlongitude"
	colEndLatitude    = "endlatitude"
	colEndLongitude   = "endlongitude"
	colMessageCount   = "messagecount"
	colEncounterCount = "encountercount"
)

// LoadFile reads the trip telemetry CSV at path and returns its records in
// source order.
func LoadFile(path string) ([]models.TripRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrSourceRead, path, err)
	}
	defer f.Close()

	return Load(f)
}

// Load reads trip telemetry rows from r. The first row is the header. The
// source character set is restricted to ASCII; any byte outside that range is
// a source error. Columns beyond the known telemetry fields pass through as
// opaque metadata in source order.
func Load(r io.Reader) ([]models.TripRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrSourceRead, err)
	}
	if err := checkASCII(header); err != nil {
		return nil, err
	}

	cols := make([]string, len(header))
	for i, name := range header {
		cols[i] = strings.ToLower(strings.TrimSpace(name))
	}

	var records []models.TripRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrSourceRead, len(records)+2, err)
		}
		if err := checkASCII(row); err != nil {
			return nil, err
		}
		records = append(records, decodeRow(cols, row))
	}

	return records, nil
}

func decodeRow(cols, row []string) models.TripRecord {
	var rec models.TripRecord
	for i, cell := range row {
		if i >= len(cols) {
			break
		}
		cell = strings.TrimSpace(cell)
		switch cols[i] {
		case colTripID:
			rec.TripID = cell
		case colDeviceID:
			rec.DeviceID = cell
		case colFirmwareID:
			rec.FirmwareID = cell
		case colConfigID:
			rec.ConfigID = cell
		case colStartLocalTime:
			rec.StartLocalTime = cell
		case colEndLocalTime:
			rec.EndLocalTime = cell
		case colStartLatitude:
			rec.StartLatitude = parseLatitude(cell)
		case colStartLongitude:
			rec.StartLongitude = parseLongitude(cell)
		case colEndLatitude:
			rec.EndLatitude = parseLatitude(cell)
		case colEndLongitude:
			rec.EndLongitude = parseLongitude(cell)
		case colMessageCount:
			rec.MessageCount = parseCount(cell)
		case colEncounterCount:
			rec.EncounterCount = parseCount(cell)
		default:
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[cols[i]] = cell
			rec.ExtraColumns = append(rec.ExtraColumns, cols[i])
		}
	}
	return rec
}

// parseLatitude returns nil for empty, unparsable or out-of-range cells:
// a missing coordinate stays "no value", never zero.
func parseLatitude(cell string) *float64 {
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || !spatial.ValidDegrees(v, 0) {
		return nil
	}
	return &v
}

func parseLongitude(cell string) *float64 {
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || !spatial.ValidDegrees(0, v) {
		return nil
	}
	return &v
}

func parseCount(cell string) *int64 {
	n, err := strconv.ParseInt(cell, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func checkASCII(fields []string) error {
	for _, field := range fields {
		for i := 0; i < len(field); i++ {
			if field[i] > 0x7F {
				return fmt.Errorf("%w: non-ASCII byte 0x%02x in %q", ErrSourceRead, field[i], field)
			}
		}
	}
	return nil
}
