package repository

import (
	"fmt"
	"time"
)

// History timestamps are stored as ISO-8601 UTC strings so the sqlite
// ORDER BY on created_at sorts chronologically.
func parseHistoryTime(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02T15:04:05.000Z", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse history timestamp %q: %w", s, err)
	}
	return t, nil
}
