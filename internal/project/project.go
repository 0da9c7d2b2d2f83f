// Package project persists and restores the on-disk project record: source
// path, output directory, export strategy, and the ordered segment list.
// The format is JSON; a saved project reloads to an equivalent value.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clipforge/clipforge/internal/edit"
)

// formatVersion is written into every file so future readers can migrate.
const formatVersion = 1

type fileRecord struct {
	Version int          `json:"version"`
	Project edit.Project `json:"project"`
}

// Save writes p to path, creating parent directories as needed. The file is
// written atomically via a temp file rename so a crash never leaves a
// half-written project behind.
func Save(p *edit.Project, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create project directory: %w", err)
	}

	data, err := json.MarshalIndent(fileRecord{Version: formatVersion, Project: *p}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write project: %w", err)
	}
	return nil
}

// Load reads a project file written by [Save].
func Load(path string) (*edit.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project %q: %w", path, err)
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse project %q: %w", path, err)
	}
	if rec.Version > formatVersion {
		return nil, fmt.Errorf("project %q: unsupported version %d", path, rec.Version)
	}
	return &rec.Project, nil
}
