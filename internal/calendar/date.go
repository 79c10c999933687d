// Package calendar models stay dates as pure calendar days. A Date carries no
// time-of-day or zone: it is always normalized to midnight UTC so that adding
// one day lands on the next calendar date regardless of DST or server zone.
package calendar

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// ISOLayout is the canonical wire and storage format (YYYY-MM-DD).
	ISOLayout = "2006-01-02"
	// ItalianLayout is the day-first format used by the booking forms.
	ItalianLayout = "02/01/2006"
)

// ErrInvalidDate is returned when a value cannot be read as a calendar date.
var ErrInvalidDate = errors.New("invalid calendar date")

// Date is a calendar day. The zero value is "no date".
type Date struct {
	t time.Time
}

// New builds a Date from year, month and day. Out-of-range values are
// normalized the way time.Date does (e.g. Feb 30 -> Mar 2).
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime keeps only the calendar part of t as seen in t's own location.
func FromTime(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return New(y, m, d)
}

// Today returns the current calendar date in UTC.
func Today() Date { return FromTime(time.Now().UTC()) }

// Parse reads "YYYY-MM-DD" or the Italian "DD/MM/YYYY". Timestamps with a
// time part ("2025-07-01T00:00:00Z") are accepted and truncated to the date.
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	for _, layout := range []string{ISOLayout, ItalianLayout, time.RFC3339} {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		// 0001-01-01 is the zero Date, which means "no date".
		if d := FromTime(t); !d.IsZero() {
			return d, nil
		}
		break
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) IsZero() bool       { return d.t.IsZero() }
func (d Date) Time() time.Time    { return d.t }
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }

// String renders the ISO form, or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(ISOLayout)
}

// Format renders the date with a Go time layout.
func (d Date) Format(layout string) string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(layout)
}

// MarshalJSON encodes as "YYYY-MM-DD" (null for the zero Date).
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts any layout Parse accepts, or null.
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return ErrInvalidDate
	}
	p, err := Parse(s)
	if err != nil {
		return err
	}
	*d = p
	return nil
}

// Scan implements sql.Scanner. Drivers return DATE columns as time.Time,
// string or []byte depending on the backend and DSN options.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = FromTime(v)
		return nil
	case string:
		p, err := Parse(firstField(v))
		if err != nil {
			return err
		}
		*d = p
		return nil
	case []byte:
		p, err := Parse(firstField(string(v)))
		if err != nil {
			return err
		}
		*d = p
		return nil
	default:
		return fmt.Errorf("calendar: cannot scan %T into Date", src)
	}
}

// Value implements driver.Valuer. The ISO string is accepted by every
// supported backend for a DATE column.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// GormDataType maps the column to DATE on every dialect.
func (Date) GormDataType() string { return "date" }

// firstField drops a time suffix like "2025-07-01 00:00:00+00:00".
func firstField(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " T"); i == len(ISOLayout) {
		return s[:i]
	}
	return s
}
