package outwriter

import (
	"os"

	"github.com/dannybechar/allocation-tracker/internal/contract"
	"golang.org/x/term"
)

// terminalWidth returns the configured width override or the detected terminal width.
func terminalWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// GetExceptionColumnWidths calculates the maximum widths of the employee and sources
// columns in the exception table based on terminal width.
func GetExceptionColumnWidths(cfg *contract.Config) (nameWidth, sourcesWidth int) {
	// # + Kind + Start + End + Magnitude + Available, plus borders and padding
	const fixedWidth = 62 + 20

	available := terminalWidth(cfg) - fixedWidth
	nameWidth = clamp(available*2/5, 10, 30)
	sourcesWidth = clamp(available-nameWidth, 12, 50)
	return nameWidth, sourcesWidth
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
