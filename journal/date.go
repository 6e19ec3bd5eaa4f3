package journal

import (
	"fmt"
	"time"
)

// Date represents a calendar date in ISO 8601 format (YYYY-MM-DD). Every
// transaction carries a date; dates drive the chronological fold in the
// balance package and the FIFO ordering of acquisition lots.
type Date struct {
	time.Time
}

// NewDate parses a date string in YYYY-MM-DD format.
func NewDate(s string) (*Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %s", s)
	}
	return &Date{Time: t}, nil
}

// MustDate parses a YYYY-MM-DD date string and panics on error.
// Use only in tests or with known-good literals.
func MustDate(s string) *Date {
	d, err := NewDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// NewDateFromTime creates a Date from a time.Time, truncated to the day.
func NewDateFromTime(t time.Time) *Date {
	return &Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// IsZero reports whether the date is nil or the zero time.
// Nil-safe so callers can check optional dates without guarding.
func (d *Date) IsZero() bool {
	if d == nil {
		return true
	}
	return d.Time.IsZero()
}

// Compact returns the date as an 8-digit YYYYMMDD string, the form used by
// dated subaccounts such as assets:broker:aapl:20230115.
func (d *Date) Compact() string {
	return d.Format("20060102")
}

// String returns the date in YYYY-MM-DD format.
func (d *Date) String() string {
	if d == nil {
		return ""
	}
	return d.Format("2006-01-02")
}
