package temporal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedTimestamp marks a raw time field that cannot be interpreted as a
// non-negative integer millisecond count. The caller decides whether to drop
// or report the record.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// ParseEpochMillis converts a raw epoch-millisecond field into a canonical
// instant. The startlocaltime/endlocaltime columns already encode local wall
// clock time, so the instant is materialized in UTC and hour/weekday are read
// straight off it without a second timezone shift.
func ParseEpochMillis(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrMalformedTimestamp)
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, raw)
	}
	if ms < 0 {
		return time.Time{}, fmt.Errorf("%w: negative millisecond count %d", ErrMalformedTimestamp, ms)
	}

	return time.UnixMilli(ms).UTC(), nil
}

// DurationMinutes derives the trip duration target from a pair of canonical
// instants. The value may be negative; validity is the Quality Filter's
// concern, not this package's.
func DurationMinutes(start, end time.Time) float64 {
	return end.Sub(start).Seconds() / 60.0
}
