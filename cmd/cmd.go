// Package cmd defines the command-line interface for alloctrack.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(exceptionsCmd)
	rootCmd.AddCommand(employeeCmd)
	rootCmd.AddCommand(clientCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(commitmentCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to their parent commands
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbClearCmd)
	dbCmd.AddCommand(dbMigrateCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("db-backend", string(schema.SQLiteBackend), "Entity store backend: sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("db-connect", "", "Entity store connection string (sqlite path, user:pass@tcp(host:port)/dbname, or host=... dbname=...)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.NoneBackend), "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Run history connection string (must differ from db-connect)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", contract.DefaultLogFormat, "Log format: console or json")
	rootCmd.PersistentFlags().String("metrics-push-url", "", "Prometheus Pushgateway URL to push run metrics to")
	rootCmd.PersistentFlags().String("metrics-job", contract.DefaultMetricsJob, "Pushgateway job name")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of exceptionsCmd to Viper
	exceptionsCmd.Flags().String("from", "", "Window start as YYYY-MM-DD (default today)")
	exceptionsCmd.Flags().String("to", "", "Window end as YYYY-MM-DD (default three months after --from)")
	exceptionsCmd.Flags().String("kind", "", "Comma-separated exception kinds to show: UNDER, OVER, VACATION")
	exceptionsCmd.Flags().String("employee", "", "Only show employees whose name contains this text")
	if err := viper.BindPFlags(exceptionsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding exceptions flags", err)
	}

	// Bind all flags of mcpCmd to Viper
	mcpCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address while the server runs (e.g. :9090)")
	if err := viper.BindPFlags(mcpCmd.Flags()); err != nil {
		contract.LogFatal("Error binding mcp flags", err)
	}

	// Migration target versions are read straight from the command flags
	// since db and history share the flag name.
	dbMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")

	// Dataset flags
	importCmd.Flags().Bool("truncate", false, "Remove all existing entities before importing")

	initEntityFlags()
}
