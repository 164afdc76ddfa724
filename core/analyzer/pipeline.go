package analyzer

import (
	"slices"
	"time"

	"github.com/dannybechar/allocation-tracker/core/dateutil"
	"github.com/dannybechar/allocation-tracker/schema"
)

// reclassify rewrites an UNDER interval that starts right after a set of commitments
// lapsed, when those commitments added up to capacity. The interval then covers the
// lapsed commitments' span within the window and names them as sources.
func reclassify(intervals []interval, emp schema.Employee, commitments []schema.Commitment, window dateutil.Range) []interval {
	out := make([]interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.kind != schema.UnderKind {
			out = append(out, iv)
			continue
		}

		lapsing := lapsedBefore(commitments, iv.start)
		if len(lapsing) == 0 {
			out = append(out, iv)
			continue
		}

		total := 0
		for _, c := range lapsing {
			total += c.Percent
		}
		if abs(total-emp.CapacityPercent) > lapseTolerancePercent {
			out = append(out, iv)
			continue
		}

		start, end := lapsedSpan(lapsing, window)
		if !end.After(start) {
			// The lapsed span lies entirely before the window.
			out = append(out, iv)
			continue
		}
		iv.start, iv.end = start, end
		iv.sources = lapsing
		out = append(out, iv)
	}
	return out
}

// lapsedBefore returns the commitments whose last day is the day before date.
func lapsedBefore(commitments []schema.Commitment, date time.Time) []schema.Commitment {
	var out []schema.Commitment
	for _, c := range commitments {
		if c.EndDate != nil && dateutil.AddDays(*c.EndDate, 1).Equal(date) {
			out = append(out, c)
		}
	}
	return out
}

// lapsedSpan intersects the combined span of the lapsing commitments with the
// window, returning a half-open range. The range is empty when the commitments
// ended before the window starts.
func lapsedSpan(lapsing []schema.Commitment, window dateutil.Range) (time.Time, time.Time) {
	var earliest, latest time.Time
	unboundedStart := false
	for i, c := range lapsing {
		end := dateutil.Normalize(*c.EndDate)
		if i == 0 || end.After(latest) {
			latest = end
		}
		if c.StartDate == nil {
			unboundedStart = true
			continue
		}
		start := dateutil.Normalize(*c.StartDate)
		if earliest.IsZero() || start.Before(earliest) {
			earliest = start
		}
	}

	start := window.From
	if !unboundedStart {
		start = dateutil.Latest(earliest, window.From)
	}
	return start, dateutil.AddDays(dateutil.Earliest(latest, window.To), 1)
}

// vacation flags an employee whose vacation balance exceeds the threshold.
func vacation(emp schema.Employee, window dateutil.Range) (schema.Exception, bool) {
	if emp.VacationDays <= vacationThresholdDays {
		return schema.Exception{}, false
	}
	return schema.Exception{
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Kind:         schema.VacationKind,
		Start:        window.From,
		End:          window.To,
		VacationDays: emp.VacationDays,
		Availability: window.From,
	}, true
}

type nameKey struct {
	target schema.TargetType
	id     int64
}

// nameResolver maps commitment targets to display names.
type nameResolver map[nameKey]string

func newNameResolver(clients []schema.Client, projects []schema.Project) nameResolver {
	r := make(nameResolver, len(clients)+len(projects))
	for _, c := range clients {
		r[nameKey{schema.ClientTarget, c.ID}] = c.Name
	}
	for _, p := range projects {
		r[nameKey{schema.ProjectTarget, p.ID}] = p.Name
	}
	return r
}

// resolve returns the names of the commitments' targets, skipping unknown targets.
func (r nameResolver) resolve(commitments []schema.Commitment) []string {
	var names []string
	for _, c := range commitments {
		if name, ok := r[nameKey{c.TargetType, c.TargetID}]; ok {
			names = append(names, name)
		}
	}
	return names
}

// toException finalizes a merged interval: inclusive dates, source names and availability.
func toException(emp schema.Employee, iv interval, window dateutil.Range, names nameResolver) schema.Exception {
	span := iv.inclusive()
	e := schema.Exception{
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Kind:         span.Kind,
		Start:        span.Start,
		End:          span.End,
		Percent:      span.Percent,
		Sources:      names.resolve(span.Sources),
	}
	e.Availability = availability(e, window)
	return e
}

// availability picks the date a reader should treat as when the situation changes.
func availability(e schema.Exception, window dateutil.Range) time.Time {
	switch {
	case e.Kind == schema.VacationKind:
		return window.From
	case e.Kind == schema.UnderKind && len(e.Sources) == 0:
		if abs(dateutil.DaysBetween(e.End, window.To)) <= windowEdgeToleranceDays {
			return window.To
		}
		return e.End
	default:
		return e.End
	}
}

// collapse keeps one exception per employee and orders them by availability.
// Allocation exceptions win over VACATION; between two allocation exceptions the
// earlier availability wins, and ties keep the one found first.
func collapse(found []schema.Exception) []schema.Exception {
	var out []schema.Exception
	index := make(map[int64]int)
	for _, e := range found {
		i, ok := index[e.EmployeeID]
		if !ok {
			index[e.EmployeeID] = len(out)
			out = append(out, e)
			continue
		}
		kept := out[i]
		switch {
		case !e.IsAllocation():
		case !kept.IsAllocation():
			out[i] = e
		case e.Availability.Before(kept.Availability):
			out[i] = e
		}
	}
	slices.SortStableFunc(out, func(a, b schema.Exception) int {
		return a.Availability.Compare(b.Availability)
	})
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
