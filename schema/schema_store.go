package schema

import "time"

// RunRecord represents a row from the alloctrack_runs table.
type RunRecord struct {
	RunID           int64
	RunUUID         string
	StartTime       time.Time
	EndTime         *time.Time
	RunDurationMs   *int32
	WindowFrom      time.Time
	WindowTo        time.Time
	TotalEmployees  int32
	TotalExceptions int32
	ConfigParams    *string
}

// RunExceptionRecord represents a row from the alloctrack_run_exceptions table.
type RunExceptionRecord struct {
	RunID        int64
	EmployeeID   int64
	EmployeeName string
	Kind         string
	StartDate    time.Time
	EndDate      time.Time
	Magnitude    float64
	Sources      string
	Availability time.Time
}
