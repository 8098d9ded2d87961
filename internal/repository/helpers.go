package repository

import (
	"database/sql"
	"time"
)

// timeLayout is fixed-width; RFC3339Nano trims trailing zeros and would
// break lexical ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// timeToString stores t in UTC so lexical order matches time order.
func timeToString(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// nullableTimeToString maps the zero time to SQL NULL.
func nullableTimeToString(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return timeToString(t)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// parseNullableTime returns the zero time for NULL, empty or unparsable values.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := parseTime(s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}

func nowUTC() string {
	return time.Now().UTC().Format(timeLayout)
}
