package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for a store.
	DatabaseBackend string

	// ExceptionKind discriminates the exception variants.
	ExceptionKind string

	// TargetType discriminates what a commitment is assigned to.
	TargetType string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All exception kinds.
const (
	UnderKind    ExceptionKind = "UNDER"
	OverKind     ExceptionKind = "OVER"
	VacationKind ExceptionKind = "VACATION"
)

// All commitment targets.
const (
	ClientTarget  TargetType = "CLIENT"
	ProjectTarget TargetType = "PROJECT"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidExceptionKinds lists all valid exception kinds.
var ValidExceptionKinds = map[ExceptionKind]struct{}{
	UnderKind:    {},
	OverKind:     {},
	VacationKind: {},
}

// ValidTargetTypes lists all valid commitment targets.
var ValidTargetTypes = map[TargetType]struct{}{
	ClientTarget:  {},
	ProjectTarget: {},
}
