package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of alloctrack.",
	Long: `Display the release version, commit hash, build timestamp and Go runtime.

Include this output when reporting bugs or comparing installations.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		printVersion(cmd.OutOrStdout())
	},
}

func printVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, "alloctrack CLI\n")
	_, _ = fmt.Fprintf(w, "  Version: %s\n", version)
	_, _ = fmt.Fprintf(w, "  Commit:  %s\n", commit)
	_, _ = fmt.Fprintf(w, "  Built:   %s\n", date)
	_, _ = fmt.Fprintf(w, "  Runtime: %s\n", runtime.Version())
}
