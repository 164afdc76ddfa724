package dateutil

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned when a range starts after it ends.
var ErrInvalidRange = errors.New("invalid date range")

// Range is an inclusive span of calendar days with From on or before To.
type Range struct {
	From time.Time
	To   time.Time
}

// NewRange validates and normalizes an inclusive date range.
func NewRange(from, to time.Time) (Range, error) {
	from, to = Normalize(from), Normalize(to)
	if from.After(to) {
		return Range{}, fmt.Errorf("%w: from %s must be on or before to %s", ErrInvalidRange, FormatDate(from), FormatDate(to))
	}
	return Range{From: from, To: to}, nil
}

// Days returns the number of calendar days covered, both ends included.
func (r Range) Days() int {
	return DaysBetween(r.From, r.To) + 1
}

// String renders the range as "from..to".
func (r Range) String() string {
	return FormatDate(r.From) + ".." + FormatDate(r.To)
}
