package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// supportedExtensions lists the input formats the ingest readers handle
var supportedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xlsm": true,
}

// FileValidator checks input files before the pipeline touches them, so a
// missing or unusable export fails fast with a clear message instead of a
// partially written run.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateInputFile validates that the input file exists, is a regular
// file, and has a supported extension
func (v *FileValidator) ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("input file does not exist",
			slog.String("path", path))
		return fmt.Errorf("input file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("failed to stat input file",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat input file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("input path is a directory",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		v.logger.Error("unsupported input format",
			slog.String("path", path),
			slog.String("extension", ext))
		return fmt.Errorf("unsupported input format %q for %s", ext, path)
	}

	if info.Size() == 0 {
		v.logger.Warn("input file is empty",
			slog.String("path", path))
	}

	return nil
}

// ValidateOutputDir validates that the output directory exists or can be
// created and is writable
func (v *FileValidator) ValidateOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".write_check")
	if err := os.WriteFile(probe, nil, 0644); err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	_ = os.Remove(probe)

	return nil
}
