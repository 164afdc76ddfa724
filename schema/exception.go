package schema

import "time"

// Exception is one reported deviation for an employee within an analysis window.
// Start and End are inclusive calendar dates. Which magnitude field is meaningful
// depends on Kind: Percent for UNDER and OVER, VacationDays for VACATION.
type Exception struct {
	EmployeeID   int64         `json:"employee_id"`
	EmployeeName string        `json:"employee_name"`
	Kind         ExceptionKind `json:"kind"`
	Start        time.Time     `json:"start"`
	End          time.Time     `json:"end"`
	Percent      int           `json:"percent,omitempty"`
	VacationDays float64       `json:"vacation_days,omitempty"`
	Sources      []string      `json:"sources,omitempty"`
	Availability time.Time     `json:"availability"`
}

// IsAllocation reports whether the exception comes from commitment analysis.
func (e Exception) IsAllocation() bool {
	return e.Kind == UnderKind || e.Kind == OverKind
}

// Magnitude returns the kind-specific size of the exception.
func (e Exception) Magnitude() float64 {
	if e.Kind == VacationKind {
		return e.VacationDays
	}
	return float64(e.Percent)
}

// ExceptionView is the presentation form of an Exception with rank and string dates.
type ExceptionView struct {
	Rank         int      `json:"rank"`
	Employee     string   `json:"employee"`
	Kind         string   `json:"kind"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	Magnitude    float64  `json:"magnitude"`
	Sources      []string `json:"sources"`
	Availability string   `json:"availability"`
}

// EnrichExceptions converts exceptions into ranked views in their existing order.
func EnrichExceptions(exceptions []Exception) []ExceptionView {
	output := make([]ExceptionView, len(exceptions))
	for i, e := range exceptions {
		sources := e.Sources
		if sources == nil {
			sources = []string{}
		}
		output[i] = ExceptionView{
			Rank:         i + 1,
			Employee:     e.EmployeeName,
			Kind:         string(e.Kind),
			Start:        e.Start.Format(time.DateOnly),
			End:          e.End.Format(time.DateOnly),
			Magnitude:    e.Magnitude(),
			Sources:      sources,
			Availability: e.Availability.Format(time.DateOnly),
		}
	}
	return output
}
