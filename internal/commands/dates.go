package commands

import (
	"fmt"
	"time"
)

const dateFormat = "2006-01-02"

// today returns the current date at midnight UTC. All ledger dates are
// day-granular.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD, got %q", s)
	}
	return t, nil
}

// parseAsOf treats an empty flag as today.
func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return today(), nil
	}
	return parseDate(s)
}
