//go:build basic

// Package integration contains end-to-end tests that build and run the alloctrack binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Or use: make test-integration
package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExceptionsVerification imports the fixture into a fresh sqlite store and
// verifies the reported exceptions for January 2026.
func TestExceptionsVerification(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ALLOCTRACK_DB_BACKEND", "sqlite")
	t.Setenv("ALLOCTRACK_DB_CONNECT", filepath.Join(dir, "entities.db"))
	t.Setenv("ALLOCTRACK_HISTORY_BACKEND", "none")

	_, err := runCommand(t, "import", datasetPath(t))
	require.NoError(t, err)

	out, err := runCommand(t, "exceptions", "--from", "2026-01-01", "--to", "2026-01-31", "--output", "json")
	require.NoError(t, err)
	views := decodeExceptions(t, out)
	require.Len(t, views, 2)

	// vacation exceptions rank ahead of the UNDER window starting on the same day
	assert.Equal(t, "Noa", views[0].Employee)
	assert.Equal(t, "VACATION", views[0].Kind)
	assert.Equal(t, 12.5, views[0].Magnitude)
	assert.Equal(t, "2026-01-01", views[0].Availability)

	assert.Equal(t, "Dana Levi", views[1].Employee)
	assert.Equal(t, "UNDER", views[1].Kind)
	assert.Equal(t, "2026-01-01", views[1].Start)
	assert.Equal(t, "2026-01-31", views[1].End)
	assert.Empty(t, views[1].Sources)
}

// TestExportRoundTrip exports the imported store and re-imports it into a second store.
func TestExportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ALLOCTRACK_DB_BACKEND", "sqlite")
	t.Setenv("ALLOCTRACK_HISTORY_BACKEND", "none")

	t.Setenv("ALLOCTRACK_DB_CONNECT", filepath.Join(dir, "first.db"))
	_, err := runCommand(t, "import", datasetPath(t))
	require.NoError(t, err)
	exported := filepath.Join(dir, "export.yaml")
	_, err = runCommand(t, "export", exported)
	require.NoError(t, err)

	info, err := os.Stat(exported)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	t.Setenv("ALLOCTRACK_DB_CONNECT", filepath.Join(dir, "second.db"))
	out, err := runCommand(t, "import", exported)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 employees, 1 clients, 1 projects, 1 commitments")
}
