package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dannybechar/allocation-tracker/core"
	"github.com/dannybechar/allocation-tracker/internal/contract"
)

// exceptionsCmd reports allocation and vacation exceptions.
var exceptionsCmd = &cobra.Command{
	Use:   "exceptions",
	Short: "Show employees whose commitments or vacation need attention.",
	Long: `Compare every employee's commitments with their capacity over a date window.

Reports at most one exception per employee:
- UNDER: a billable employee is committed below capacity
- OVER: a billable employee is committed above capacity
- VACATION: an employee carries more vacation days than the threshold

Results are ordered by availability, the date the situation changes.

Examples:
  # Exceptions for the next three months
  alloctrack exceptions

  # A fixed window, only over-commitments
  alloctrack exceptions --from 2026-01-01 --to 2026-03-31 --kind OVER

  # Export to CSV
  alloctrack exceptions --output csv --output-file exceptions.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteExceptions(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute exceptions", err)
		}
	},
}
