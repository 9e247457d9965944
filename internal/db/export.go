package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/balkashynov/slumber/internal/models"
)

// ExportFilename names an export file after the UTC date it was written
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("sleep-data-%s.json", now.UTC().Format("2006-01-02"))
}

// Export writes the state to dir as a dated JSON file and returns its path.
// The file is written to a temp file first and renamed into place.
func Export(state *models.AppState, dir string, now time.Time) (string, error) {
	data, err := Encode(state, true)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, ExportFilename(now))
	tmp, err := os.CreateTemp(dir, ".sleep-data-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to sync export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("failed to move export into place: %w", err)
	}
	return path, nil
}

// Import reads a file written by Export
func Import(path string) (*models.AppState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	state, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s is not a slumber export: %w", filepath.Base(path), err)
	}
	return state, nil
}
