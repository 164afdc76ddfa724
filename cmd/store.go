package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/internal/iostore"
)

// dbCmd groups entity store administration.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the entity store (employees, clients, projects, commitments)",
	Long: `Inspect, clear and migrate the database that holds the entities.

Supported backends: SQLite (default), MySQL, PostgreSQL

Subcommands:
  status  - Show row counts per table
  clear   - Remove all entities and their tables
  migrate - Run database schema migrations`,
}

var dbStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display entity counts and connection details",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetEntityStore().GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get entity store status", err)
		}
		iostore.PrintEntityStatus(os.Stdout, status)
	},
}

var dbClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all entities",
	Long: `Delete every employee, client, project and commitment.

For SQLite the database file is removed. For MySQL and PostgreSQL the tables
and the migration table are dropped. Consider 'alloctrack export' first.`,
	Args:    cobra.NoArgs,
	PreRunE: configOnlySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ClearEntities(rootCtx, cfg.DBBackend, cfg.DBConnect); err != nil {
			contract.LogFatal("Failed to clear entities", err)
		}
		fmt.Println("Entity store cleared successfully.")
	},
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run entity store schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the entity store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  alloctrack db migrate

  # Rollback to the initial state
  alloctrack db migrate --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: configOnlySetup,
	Run: func(cmd *cobra.Command, _ []string) {
		targetVersion, _ := cmd.Flags().GetInt("target-version")
		if err := iostore.MigrateEntities(rootCtx, os.Stdout, cfg.DBBackend, cfg.DBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

// historyCmd groups run history administration.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the history of analysis runs",
	Long: `Manage the record of past 'exceptions' runs.

When --history-backend is set, every run stores its window, timing, counts
and each exception it found. The history can be exported to Parquet for
analysis in DuckDB, pandas or a BI tool.

Supported backends: SQLite, MySQL, PostgreSQL, or None (default, disabled)

Subcommands:
  status  - Show run history statistics
  export  - Export runs and exceptions to Parquet
  clear   - Remove all run history
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  alloctrack history status --history-backend sqlite

  # Export for analysis
  alloctrack history export --history-backend sqlite --output-file history`,
}

var historyStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display run history statistics and connection details",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetHistoryStore().GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iostore.PrintHistoryStatus(os.Stdout, status)
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet",
	Long: `Export all recorded runs and their exceptions to two Parquet files:
<output-file>.runs.parquet and <output-file>.run_exceptions.parquet.

Requires: --output-file parameter

Example:
  alloctrack history export --output-file history
  duckdb -c "SELECT * FROM read_parquet('history.runs.parquet') LIMIT 10"`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ExecuteHistoryExport(rootCtx, os.Stdout, storeManager.GetHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

var historyClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Remove all run history",
	Args:    cobra.NoArgs,
	PreRunE: configOnlySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ClearHistory(rootCtx, cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

var historyMigrateCmd = &cobra.Command{
	Use:     "migrate",
	Short:   "Run run-history schema migrations (upgrades/downgrades)",
	Args:    cobra.NoArgs,
	PreRunE: configOnlySetup,
	Run: func(cmd *cobra.Command, _ []string) {
		targetVersion, _ := cmd.Flags().GetInt("target-version")
		if err := iostore.MigrateHistory(rootCtx, os.Stdout, cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
