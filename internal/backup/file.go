package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileDestination writes JSONL data to a local file. The write is atomic:
// data lands in a temp file that is renamed over the target.
type FileDestination struct {
	path string
}

// NewFileDestination creates a destination writing to the given path.
func NewFileDestination(path string) *FileDestination {
	return &FileDestination{path: path}
}

// Write replaces the target file with data.
func (d *FileDestination) Write(_ context.Context, data []byte) error {
	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".backup-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
