package contract

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dannybechar/allocation-tracker/core/dateutil"
	"github.com/dannybechar/allocation-tracker/schema"
)

// Default values for configuration.
const (
	DefaultWindowMonths = 3
	DefaultMetricsJob   = "alloctrack"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
)

// ValidLogFormats lists the supported log encodings.
var ValidLogFormats = []string{"console", "json"}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for alloctrack.
// This struct remains the "final, validated" config.
type Config struct {
	Window         dateutil.Range
	Kinds          []schema.ExceptionKind // empty means all kinds
	EmployeeFilter string                 // case-insensitive substring of the employee name

	Output     schema.OutputMode
	OutputFile string
	Width      int  // Terminal width override (0 = auto-detect)
	UseColors  bool // Enable colored labels in table output

	DBBackend schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	LogLevel  string
	LogFormat string

	MetricsPushURL string
	MetricsJob     string
	MetricsAddr    string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	DBBackend        string `mapstructure:"db-backend"`
	DBConnect        string `mapstructure:"db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	LogLevel         string `mapstructure:"log-level"`
	LogFormat        string `mapstructure:"log-format"`
	MetricsPushURL   string `mapstructure:"metrics-push-url"`
	MetricsJob       string `mapstructure:"metrics-job"`

	// --- Fields from exceptionsCmd.Flags() and mcpCmd.Flags() ---
	From        string `mapstructure:"from"`
	To          string `mapstructure:"to"`
	Kind        string `mapstructure:"kind"`
	Employee    string `mapstructure:"employee"`
	MetricsAddr string `mapstructure:"metrics-addr"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Kinds = slices.Clone(c.Kinds)
	return &clone
}

// CloneWithWindow creates a copy of the Config with a different analysis window.
func (c *Config) CloneWithWindow(window dateutil.Range) *Config {
	clone := c.Clone()
	clone.Window = window
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processWindow(cfg, input, dateutil.Today()); err != nil {
		return err
	}
	return processFilters(cfg, input)
}

// ResolveWindow turns optional from/to strings into a validated window.
// A missing from is today; a missing to is from plus DefaultWindowMonths.
func ResolveWindow(fromStr, toStr string, today time.Time) (dateutil.Range, error) {
	from := today
	if strings.TrimSpace(fromStr) != "" {
		d, err := dateutil.ParseDate(strings.TrimSpace(fromStr))
		if err != nil {
			return dateutil.Range{}, fmt.Errorf("invalid --from value: %w", err)
		}
		from = d
	}
	to := dateutil.AddMonths(from, DefaultWindowMonths)
	if strings.TrimSpace(toStr) != "" {
		d, err := dateutil.ParseDate(strings.TrimSpace(toStr))
		if err != nil {
			return dateutil.Range{}, fmt.Errorf("invalid --to value: %w", err)
		}
		to = d
	}
	return dateutil.NewRange(from, to)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes output, logging and metrics fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.MetricsPushURL = strings.TrimSpace(input.MetricsPushURL)
	cfg.MetricsAddr = strings.TrimSpace(input.MetricsAddr)

	if input.Width < 0 {
		return fmt.Errorf("width must not be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	cfg.LogLevel = strings.ToLower(input.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	cfg.LogFormat = strings.ToLower(input.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if !slices.Contains(ValidLogFormats, cfg.LogFormat) {
		return fmt.Errorf("invalid log format '%s'. must be console, json", input.LogFormat)
	}

	cfg.MetricsJob = strings.TrimSpace(input.MetricsJob)
	if cfg.MetricsJob == "" {
		cfg.MetricsJob = DefaultMetricsJob
	}
	return nil
}

// validateBackendConfigs validates entity and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Entity Backend Validation ---
	cfg.DBBackend = schema.DatabaseBackend(strings.ToLower(input.DBBackend))
	if cfg.DBBackend == "" {
		cfg.DBBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.DBBackend]; !ok || cfg.DBBackend == schema.NoneBackend {
		return fmt.Errorf("invalid db backend '%s'. must be sqlite, mysql, postgresql", input.DBBackend)
	}
	cfg.DBConnect = input.DBConnect
	if err := ValidateDatabaseConnectionString(cfg.DBBackend, cfg.DBConnect); err != nil {
		return fmt.Errorf("--db-connect: %w", err)
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("--history-db-connect: %w", err)
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.DBBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		dbPath := cfg.DBConnect
		if dbPath == "" {
			dbPath = GetDBFilePath()
		}
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		if dbPath == historyPath {
			return fmt.Errorf("entity and history storage must use different SQLite database files. Both resolve to %q", dbPath)
		}
	}
	return nil
}

// processWindow resolves the analysis window relative to today.
func processWindow(cfg *Config, input *ConfigRawInput, today time.Time) error {
	window, err := ResolveWindow(input.From, input.To, today)
	if err != nil {
		return err
	}
	cfg.Window = window
	return nil
}

// processFilters handles the presentation filters for exceptions.
func processFilters(cfg *Config, input *ConfigRawInput) error {
	kinds, unknown := schema.ParseKinds(input.Kind)
	if len(unknown) > 0 {
		return fmt.Errorf("invalid --kind value(s) %s. must be UNDER, OVER, VACATION", strings.Join(unknown, ", "))
	}
	cfg.Kinds = kinds
	cfg.EmployeeFilter = strings.TrimSpace(input.Employee)
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
