package repository

import (
	"database/sql"
	"time"

	"github.com/andy/invoiceflow/internal/domain"
)

// timeLayout is the RFC3339 format for storing timestamps in SQLite
const timeLayout = time.RFC3339

// formatTime returns the current time formatted as RFC3339
func formatTime() string {
	return time.Now().Format(timeLayout)
}

// parseDay parses a stored calendar date
func parseDay(s string) (time.Time, error) {
	return time.Parse(domain.DateLayout, s)
}

// nullDay stores a zero time as NULL
func nullDay(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(domain.DateLayout)
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func stringOrEmpty(s sql.NullString) string {
	if s.Valid {
		return s.String
	}
	return ""
}
