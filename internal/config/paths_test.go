package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaths(t *testing.T) {
	cfg := Default()
	cfg.Output.Dir = filepath.Join("run", "outputs")
	cfg.Logging.FilePath = filepath.Join("run", "logs", "app.log")

	paths := NewPaths(cfg)

	assert.Equal(t, filepath.Join("run", "outputs", "results.json"), paths.ResultsJSONPath())
	assert.Equal(t, filepath.Join("run", "outputs", "results.csv"), paths.ResultsCSVPath())
	assert.Equal(t, filepath.Join("run", "outputs", "results.html"), paths.ResultsHTMLPath())
	assert.Equal(t, filepath.Join("run", "outputs", "outreach_ready.json"), paths.OutreachJSONPath())
	assert.Equal(t, filepath.Join("run", "logs"), paths.LogsDir)
}

func TestPaths_EnsureDirectories(t *testing.T) {
	base := t.TempDir()

	cfg := Default()
	cfg.Output.Dir = filepath.Join(base, "outputs")
	cfg.Logging.FilePath = filepath.Join(base, "logs", "app.log")

	paths := NewPaths(cfg)
	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.OutputDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
