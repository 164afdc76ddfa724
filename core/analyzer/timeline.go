package analyzer

import (
	"slices"
	"time"

	"github.com/dannybechar/allocation-tracker/core/dateutil"
	"github.com/dannybechar/allocation-tracker/schema"
)

// interval is a half-open [start, end) range of calendar days.
type interval struct {
	kind    schema.ExceptionKind
	start   time.Time
	end     time.Time
	percent int
	sources []schema.Commitment
}

func (iv interval) inclusive() Span {
	return Span{
		Kind:    iv.kind,
		Start:   iv.start,
		End:     dateutil.AddDays(iv.end, -1),
		Percent: iv.percent,
		Sources: iv.sources,
	}
}

// changePoints returns the sorted, distinct dates where the committed total may change.
func changePoints(commitments []schema.Commitment, window dateutil.Range) []time.Time {
	points := []time.Time{window.From, dateutil.AddDays(window.To, 1)}
	for _, c := range commitments {
		if c.StartDate != nil && !dateutil.Normalize(*c.StartDate).After(window.To) {
			points = append(points, dateutil.Normalize(*c.StartDate))
		}
		if c.EndDate != nil && !dateutil.Normalize(*c.EndDate).Before(window.From) {
			points = append(points, dateutil.AddDays(*c.EndDate, 1))
		}
	}
	slices.SortFunc(points, time.Time.Compare)
	return slices.CompactFunc(points, time.Time.Equal)
}

// active reports whether c covers the half-open interval [start, end).
func active(c schema.Commitment, start, end time.Time) bool {
	if c.StartDate != nil && !dateutil.Normalize(*c.StartDate).Before(end) {
		return false
	}
	if c.EndDate != nil && dateutil.Normalize(*c.EndDate).Before(start) {
		return false
	}
	return true
}

// evaluate compares the committed total of every interval in the window against capacity.
func evaluate(emp schema.Employee, commitments []schema.Commitment, window dateutil.Range) []interval {
	points := changePoints(commitments, window)
	var out []interval
	for i := 0; i+1 < len(points); i++ {
		start, end := points[i], points[i+1]
		if start.After(window.To) || !end.After(window.From) {
			continue
		}

		sum := 0
		var contributing []schema.Commitment
		for _, c := range commitments {
			if active(c, start, end) {
				sum += c.Percent
				contributing = append(contributing, c)
			}
		}

		switch {
		case sum < emp.CapacityPercent:
			out = append(out, interval{kind: schema.UnderKind, start: start, end: end, percent: emp.CapacityPercent - sum})
		case sum > emp.CapacityPercent:
			out = append(out, interval{kind: schema.OverKind, start: start, end: end, percent: sum - emp.CapacityPercent, sources: contributing})
		}
	}
	return out
}

// merge folds adjacent intervals of the same kind and percent into one.
// OVER sources are unioned by commitment id in first-seen order.
func merge(intervals []interval) []interval {
	sorted := slices.Clone(intervals)
	slices.SortStableFunc(sorted, func(a, b interval) int { return a.start.Compare(b.start) })

	var out []interval
	for _, next := range sorted {
		if n := len(out); n > 0 {
			cur := out[n-1]
			if cur.kind == next.kind && cur.percent == next.percent && cur.end.Equal(next.start) {
				cur.end = next.end
				if cur.kind == schema.OverKind {
					cur.sources = unionByID(cur.sources, next.sources)
				}
				out[n-1] = cur
				continue
			}
		}
		out = append(out, next)
	}
	return out
}

func unionByID(a, b []schema.Commitment) []schema.Commitment {
	out := make([]schema.Commitment, 0, len(a)+len(b))
	seen := make(map[int64]struct{}, len(a)+len(b))
	for _, list := range [][]schema.Commitment{a, b} {
		for _, c := range list {
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
