// Package types implements special types for the backend.
package types

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date is a calendar day without a time component.
//
// It is the wire and storage representation for the "date needed" of a
// budget line. All comparisons on it operate on the normalized day so that
// two representations of the same day are always equal, regardless of how
// the client formatted them.
type Date time.Time

// NewDate returns a new Date.
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the Date on which a time occurs, in UTC.
func DateOf(t time.Time) Date {
	year, month, day := t.In(time.UTC).Date()
	return NewDate(year, month, day)
}

// String returns the date formatted as YYYY-MM-DD.
func (d Date) String() string {
	year, month, day := time.Time(d).Date()
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

// Equal reports whether two dates represent the same calendar day.
func (d Date) Equal(other Date) bool {
	dy, dm, dd := time.Time(d).Date()
	oy, om, od := time.Time(other).Date()
	return dy == oy && dm == om && dd == od
}

// Before reports whether d is before other.
func (d Date) Before(other Date) bool {
	return time.Time(d).Before(time.Time(other)) && !d.Equal(other)
}

// MarshalJSON implements the json.Marshaler interface.
// The output is the YYYY-MM-DD representation.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}

	return []byte(fmt.Sprintf("%q", d.String())), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// The date is expected as a YYYY-MM-DD string or an RFC3339 timestamp.
// From an RFC3339 timestamp, everything except the calendar day is ignored.
func (d *Date) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`) // get rid of "
	if value == "" || value == "null" {
		return nil
	}

	// This allows to parse strings in the "2006-01-02" format
	match, err := regexp.MatchString("^[0-9]{4}-[0-9]{2}-[0-9]{2}$", value)
	if err != nil {
		return err
	}

	// This is the default pattern
	pattern := "2006-01-02T15:04:05Z07:00"
	if match {
		pattern = "2006-01-02"
	}

	t, err := time.Parse(pattern, value)
	if err != nil {
		return err
	}

	*d = DateOf(t)
	return nil
}

// ParseDate parses a string in RFC3339 full-date format and returns the Date
// value it represents.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}

	return DateOf(t), nil
}

// Scan reads the value from the database.
func (d *Date) Scan(value interface{}) (err error) {
	nullTime := &sql.NullTime{}
	err = nullTime.Scan(value)
	*d = DateOf(nullTime.Time)
	return err
}

// Value returns the value for the SQL driver to write to the database.
func (d Date) Value() (driver.Value, error) {
	year, month, day := time.Time(d).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}
