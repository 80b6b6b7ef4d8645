package report

import (
	"os"

	apperrors "tfcli/internal/errors"
	"tfcli/pkg/contracts/domain"
)

// Format selects a report projection
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// Render projects the canonical AnalysisResult into the requested format.
// Every projection is pure and read-only: it renders the numbers the
// aggregator computed, never recomputing a statistic, so the same result
// always yields the same payload.
func Render(result domain.AnalysisResult, format Format) ([]byte, error) {
	var payload []byte
	var err error

	switch format {
	case FormatJSON:
		payload, err = RenderJSON(result)
	case FormatCSV:
		payload, err = RenderCSV(result)
	case FormatHTML:
		payload, err = RenderHTML(result)
	default:
		return nil, apperrors.ErrRenderFailed.WithMessage("unsupported report format: %q", format)
	}

	if err != nil {
		return nil, apperrors.ErrRenderFailed.Wrap(err)
	}
	return payload, nil
}

// WriteArtifact writes a rendered payload to its output path. Callers
// render every projection before writing any of them, so a failure here
// never leaves a partially rendered artifact set behind.
func WriteArtifact(path string, payload []byte) error {
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return apperrors.ErrWriteFailed.WithMessage("failed to write %s", path).Wrap(err)
	}
	return nil
}
