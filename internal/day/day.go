// Package day provides a calendar date without time of day or time zone.
package day

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Layout is the ISO-8601 calendar date layout used for storage and parsing.
const Layout = "2006-01-02"

// Date is a year/month/day triple. The zero value is not a valid date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New returns the date for y-m-d, normalizing out-of-range values the way
// time.Date does.
func New(y int, m time.Month, d int) Date {
	return FromTime(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// FromTime returns the date of t in t's location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current local date.
func Today() Date {
	return FromTime(time.Now())
}

// Parse parses an ISO-8601 date such as "2024-03-15".
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// FromEpochDay returns the date n days after 1970-01-01.
func FromEpochDay(n int64) Date {
	return FromTime(time.Unix(n*86400, 0).UTC())
}

// EpochDay returns the number of days since 1970-01-01.
func (d Date) EpochDay() int64 {
	// Midnight UTC is always a whole number of days from the epoch.
	return d.time().Unix() / 86400
}

func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) String() string {
	return d.time().Format(Layout)
}

// Format formats d with a time layout.
func (d Date) Format(layout string) string {
	return d.time().Format(layout)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Valid reports whether d names a real calendar day.
func (d Date) Valid() bool {
	return !d.IsZero() && New(d.Year, d.Month, d.Day) == d
}

func (d Date) AddDays(n int) Date {
	return New(d.Year, d.Month, d.Day+n)
}

// AddMonths shifts d by n months. The day is clamped to the length of the
// target month, so 2024-03-31 minus one month is 2024-02-29.
func (d Date) AddMonths(n int) Date {
	first := New(d.Year, d.Month+time.Month(n), 1)
	dd := d.Day
	if last := first.DaysInMonth(); dd > last {
		dd = last
	}
	return Date{Year: first.Year, Month: first.Month, Day: dd}
}

// FirstOfMonth returns day 1 of d's month.
func (d Date) FirstOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}

// DaysInMonth returns the number of days in d's month.
func (d Date) DaysInMonth() int {
	return time.Date(d.Year, d.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (d Date) Weekday() time.Weekday {
	return d.time().Weekday()
}

// SameMonth reports whether d and o fall in the same month of the same year.
func (d Date) SameMonth(o Date) bool {
	return d.Year == o.Year && d.Month == o.Month
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }

// Compare returns -1, 0 or +1 as d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmp(d.Year, o.Year)
	case d.Month != o.Month:
		return cmp(int(d.Month), int(o.Month))
	default:
		return cmp(d.Day, o.Day)
	}
}

func cmp(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Value stores the date as ISO-8601 text.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan reads an ISO-8601 text column.
func (d *Date) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case time.Time:
		*d = FromTime(v)
		return nil
	default:
		return fmt.Errorf("scan date: unsupported type %T", src)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
