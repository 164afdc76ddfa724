// Package importer reads and writes entity datasets as YAML files or CSV directories.
package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dannybechar/allocation-tracker/core/dateutil"
	"github.com/dannybechar/allocation-tracker/schema"
)

// ErrUnsupportedPath is returned when a path is neither a YAML file nor a directory.
var ErrUnsupportedPath = errors.New("unsupported dataset path (expected .yaml, .yml or a directory of CSV files)")

// ParseError wraps a row-level error with the file and line it came from.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ReadDataset loads a dataset from a YAML file or a directory of CSV files.
// Ids in the result are the ids written in the files, not store ids.
func ReadDataset(path string) (*schema.Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return readCSVDir(path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		return DecodeYAML(f)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedPath)
	}
}

// WriteDatasetFile writes the dataset to path as YAML.
func WriteDatasetFile(path string, ds *schema.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeYAML(f, ds); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func parseDate(s string) (*time.Time, error) {
	return dateutil.ParseOptionalDate(strings.TrimSpace(s))
}
