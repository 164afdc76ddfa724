// Package dateutil provides calendar-day arithmetic without a time-of-day component.
//
// Every date produced by this package is midnight UTC of the calendar day it
// represents, so values can be compared with Equal and used as map keys.
package dateutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Layout is the only accepted textual date representation.
const Layout = time.DateOnly

// Parse errors.
var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrInvalidMonth      = errors.New("invalid month")
	ErrInvalidDay        = errors.New("invalid day")
	ErrInvalidDate       = errors.New("invalid date")
)

var datePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// now is swapped in tests.
var now = time.Now

// Normalize returns the calendar day of t, as seen in t's own location, at midnight UTC.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day in the local timezone.
func Today() time.Time {
	return Normalize(now().In(time.Local))
}

// AddDays returns date shifted by n calendar days.
func AddDays(date time.Time, n int) time.Time {
	return Normalize(date).AddDate(0, 0, n)
}

// AddMonths returns date shifted by n calendar months. Days past the end of
// the target month overflow into the following month (Jan 31 + 1 month is Mar 3
// or Mar 2 depending on leap year).
func AddMonths(date time.Time, n int) time.Time {
	return Normalize(date).AddDate(0, n, 0)
}

// IsSameDay reports whether a and b fall on the same calendar day.
func IsSameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FormatDate renders date as YYYY-MM-DD.
func FormatDate(date time.Time) string {
	return date.Format(Layout)
}

// ParseDate parses a strict YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	match := datePattern.FindStringSubmatch(s)
	if match == nil {
		return time.Time{}, fmt.Errorf("%w: %q, expected YYYY-MM-DD", ErrInvalidDateFormat, s)
	}

	// The pattern guarantees digits, so Atoi cannot fail here.
	year, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	day, _ := strconv.Atoi(match[3])

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: %d", ErrInvalidDay, day)
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, s)
	}
	return date, nil
}

// ParseOptionalDate parses s, treating the empty string as an unbounded date.
func ParseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	date, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

// FormatOptionalDate renders date, or the empty string when it is unbounded.
func FormatOptionalDate(date *time.Time) string {
	if date == nil {
		return ""
	}
	return FormatDate(*date)
}

// Compare returns -1, 0 or 1 when a is before, on or after b.
func Compare(a, b time.Time) int {
	return Normalize(a).Compare(Normalize(b))
}

// DaysBetween returns the number of calendar days from a to b (negative when b precedes a).
func DaysBetween(a, b time.Time) int {
	return int(Normalize(b).Sub(Normalize(a)).Hours() / 24)
}

// Earliest returns the earlier of a and b.
func Earliest(a, b time.Time) time.Time {
	if Compare(a, b) <= 0 {
		return a
	}
	return b
}

// Latest returns the later of a and b.
func Latest(a, b time.Time) time.Time {
	if Compare(a, b) >= 0 {
		return a
	}
	return b
}
