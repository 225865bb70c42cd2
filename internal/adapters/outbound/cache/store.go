package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/riskgate/riskgate/internal/domain"
)

// Store keeps the latest report of a project on disk. It implements
// domain.ReportStore.
type Store struct{}

// New creates a new file-based report store.
func New() *Store {
	return &Store{}
}

// Load reads the latest report. Returns (nil, nil) if none was saved.
func (s *Store) Load(projectPath string) (*domain.Report, error) {
	data, err := os.ReadFile(reportPath(projectPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // no report is not an error
		}
		return nil, err
	}

	var r domain.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing cached report: %w", err)
	}
	return &r, nil
}

// Save replaces the latest report, creating directories as needed.
func (s *Store) Save(projectPath string, r *domain.Report) error {
	if err := os.MkdirAll(cacheDir(projectPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}

	// Write then rename so readers never see a partial file.
	tmp := reportPath(projectPath) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, reportPath(projectPath))
}

func cacheDir(projectPath string) string {
	return filepath.Join(projectPath, ".riskgate", "cache")
}

func reportPath(projectPath string) string {
	return filepath.Join(cacheDir(projectPath), "latest.json")
}
