package repository

import (
	"database/sql"
	"strings"
	"time"
)

// sourceSep joins snapshot source directories into one column. It cannot
// appear in a path.
const sourceSep = "\x00"

func joinSources(sources []string) string {
	return strings.Join(sources, sourceSep)
}

func splitSources(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, sourceSep)
}

// nullableIntToValue converts a *int to a value suitable for SQLite storage.
func nullableIntToValue(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullIntToPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
