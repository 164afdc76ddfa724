package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dannybechar/allocation-tracker/core"
	"github.com/dannybechar/allocation-tracker/internal/contract"
)

// importCmd loads a dataset into the entity store.
var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import employees, clients, projects and commitments from YAML or CSV",
	Long: `Import a dataset into the entity store.

<path> is either a .yaml/.yml file or a directory holding any of
employees.csv, clients.csv, projects.csv and commitments.csv. Missing CSV
files are skipped.

Ids in the files only link rows together; the store assigns new ids.
Rows that fail validation or reference an unknown id are skipped with a warning.

Rows are written one by one, not in a single transaction. If the store fails
midway, the rows stored so far are kept and the error reports how many there
were. With --truncate the previous contents are removed before any row is
written, so keep an 'alloctrack export' around to restore from.

Examples:
  # Replace everything with the contents of a YAML dataset
  alloctrack import team.yaml --truncate

  # Append the CSV files found in a directory
  alloctrack import ./exports/`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		truncate, _ := cmd.Flags().GetBool("truncate")
		if err := core.ImportExecutor(args[0], truncate)(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Failed to import dataset", err)
		}
	},
}

// exportCmd writes the entity store to a YAML dataset.
var exportCmd = &cobra.Command{
	Use:     "export <file.yaml>",
	Short:   "Export all entities as a YAML dataset that import accepts",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExportExecutor(args[0])(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Failed to export dataset", err)
		}
	},
}
