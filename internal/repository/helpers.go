package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// notFoundOr maps sql.ErrNoRows to ErrNotFound, wrapping everything else.
func notFoundOr(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("scanning %s: %w", what, err)
}

// nullableString converts an optional id to a value suitable for SQLite storage.
// Returns nil (SQL NULL) when the pointer is nil or empty.
func nullableString(s *string) interface{} {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

// stringPtr converts a sql.NullString back into an optional id.
func stringPtr(s sql.NullString) *string {
	if !s.Valid || s.String == "" {
		return nil
	}
	v := s.String
	return &v
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return nowUTC()
	}
	return t.UTC().Format(time.RFC3339)
}

// parseDate parses a dateLayout column into dst.
func parseDate(field, raw string, dst *time.Time) error {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", field, err)
	}
	*dst = t
	return nil
}

// parseTimestamps fills created/updated from their RFC3339 text form.
func parseTimestamps(created, updated string, createdAt, updatedAt *time.Time) error {
	var err error
	if *createdAt, err = time.Parse(time.RFC3339, created); err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	if updatedAt == nil {
		return nil
	}
	if *updatedAt, err = time.Parse(time.RFC3339, updated); err != nil {
		return fmt.Errorf("parsing updated_at: %w", err)
	}
	return nil
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// rowsAffectedOrNotFound turns a zero-row UPDATE/DELETE into ErrNotFound.
func rowsAffectedOrNotFound(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
