// Package analyzer computes allocation exceptions: the maximal date ranges in a
// window where an employee's committed percentage differs from their capacity,
// plus excess-vacation flags. Analyze is pure and safe to call concurrently as
// long as callers do not mutate the input slices during the call.
package analyzer

import (
	"fmt"
	"time"

	"github.com/dannybechar/allocation-tracker/core/dateutil"
	"github.com/dannybechar/allocation-tracker/schema"
)

const (
	// lapseTolerancePercent bounds how far lapsing commitments may be from capacity
	// and still count as "fully committed until recently".
	lapseTolerancePercent = 1

	// windowEdgeToleranceDays is how close to the window end an UNDER range must
	// finish to be treated as running to the edge of the query.
	windowEdgeToleranceDays = 2

	// vacationThresholdDays is the vacation balance above which a VACATION exception is raised.
	vacationThresholdDays = 8
)

// Input is a consistent snapshot of everything one analysis needs.
type Input struct {
	Employees   []schema.Employee
	Commitments []schema.Commitment
	Clients     []schema.Client
	Projects    []schema.Project
	Window      dateutil.Range
}

// Analyze runs the full exception pipeline and returns at most one exception per
// employee, ordered by availability date.
func Analyze(in Input) ([]schema.Exception, error) {
	window, err := dateutil.NewRange(in.Window.From, in.Window.To)
	if err != nil {
		return nil, err
	}

	names := newNameResolver(in.Clients, in.Projects)
	byEmployee := groupCommitments(in.Commitments)

	var found []schema.Exception
	for _, emp := range in.Employees {
		if emp.Billable {
			spans := evaluate(emp, byEmployee[emp.ID], window)
			spans = reclassify(spans, emp, byEmployee[emp.ID], window)
			for _, s := range merge(spans) {
				found = append(found, toException(emp, s, window, names))
			}
		}
		if v, ok := vacation(emp, window); ok {
			found = append(found, v)
		}
	}
	return collapse(found), nil
}

// Timeline returns the merged UNDER/OVER ranges for one employee without
// reclassification, availability or deduplication. Dates in the returned spans are
// inclusive. It ignores the billable flag.
func Timeline(emp schema.Employee, commitments []schema.Commitment, window dateutil.Range) []Span {
	own := groupCommitments(commitments)[emp.ID]
	merged := merge(evaluate(emp, own, window))
	out := make([]Span, len(merged))
	for i, s := range merged {
		out[i] = s.inclusive()
	}
	return out
}

// Span is an inclusive date range with a constant deviation from capacity.
type Span struct {
	Kind    schema.ExceptionKind
	Start   time.Time
	End     time.Time
	Percent int
	Sources []schema.Commitment
}

func (s Span) String() string {
	return fmt.Sprintf("%s %s..%s %d%%", s.Kind, dateutil.FormatDate(s.Start), dateutil.FormatDate(s.End), s.Percent)
}

func groupCommitments(commitments []schema.Commitment) map[int64][]schema.Commitment {
	out := make(map[int64][]schema.Commitment)
	for _, c := range commitments {
		out[c.EmployeeID] = append(out[c.EmployeeID], c)
	}
	return out
}
