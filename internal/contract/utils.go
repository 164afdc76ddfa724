package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/dannybechar/allocation-tracker/schema"
)

// Color variables for console output.
var (
	OverColor     = color.New(color.FgRed, color.Bold) // over-commitment needs attention first
	UnderColor    = color.New(color.FgYellow)
	VacationColor = color.New(color.FgCyan)
)

// GetColorLabel returns a colored exception kind for console output (table).
func GetColorLabel(kind schema.ExceptionKind) string {
	text := string(kind)
	switch kind {
	case schema.OverKind:
		return OverColor.Sprint(text)
	case schema.UnderKind:
		return UnderColor.Sprint(text)
	case schema.VacationKind:
		return VacationColor.Sprint(text)
	default:
		return text
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetDBFilePath returns the path to the SQLite DB file for entity storage.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".alloctrack.db"
	}
	return filepath.Join(homeDir, ".alloctrack.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".alloctrack_history.db"
	}
	return filepath.Join(homeDir, ".alloctrack_history.db")
}

// TruncateName shortens a name to maxWidth runes with an ellipsis suffix.
// maxWidth must exceed 3 for truncation to apply.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
