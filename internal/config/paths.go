package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names written per run. cmd/outreach reads ResultsJSON back,
// so the names are part of the contract between the two binaries.
const (
	ResultsJSONFile  = "results.json"
	ResultsCSVFile   = "results.csv"
	ResultsHTMLFile  = "results.html"
	OutreachJSONFile = "outreach_ready.json"
)

// Paths resolves every filesystem location the pipeline writes to. It is
// built once from the configuration and passed in explicitly; there is no
// process-wide output directory state.
type Paths struct {
	OutputDir string
	LogsDir   string
}

// NewPaths creates a Paths rooted at the configured output directory
func NewPaths(cfg *Config) *Paths {
	return &Paths{
		OutputDir: cfg.Output.Dir,
		LogsDir:   filepath.Dir(cfg.Logging.FilePath),
	}
}

// EnsureDirectories creates all output directories if missing
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.LogsDir} {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ResultsJSONPath returns the structured (JSON) report path
func (p *Paths) ResultsJSONPath() string {
	return filepath.Join(p.OutputDir, ResultsJSONFile)
}

// ResultsCSVPath returns the tabular (CSV) report path
func (p *Paths) ResultsCSVPath() string {
	return filepath.Join(p.OutputDir, ResultsCSVFile)
}

// ResultsHTMLPath returns the presentational (HTML) report path
func (p *Paths) ResultsHTMLPath() string {
	return filepath.Join(p.OutputDir, ResultsHTMLFile)
}

// OutreachJSONPath returns the outreach drafts artifact path
func (p *Paths) OutreachJSONPath() string {
	return filepath.Join(p.OutputDir, OutreachJSONFile)
}
