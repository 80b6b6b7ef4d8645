package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"tfcli/pkg/contracts/domain"
)

// RenderJSON serializes the full AnalysisResult with stable key names.
// This is the full-fidelity projection: every field of the canonical model
// is represented, parse issues included, and it is the artifact the
// outreach stage reads back.
func RenderJSON(result domain.AnalysisResult) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(result); err != nil {
		return nil, fmt.Errorf("encode analysis result: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseJSON decodes a previously rendered JSON report back into the
// canonical model
func ParseJSON(data []byte) (domain.AnalysisResult, error) {
	var result domain.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("decode analysis result: %w", err)
	}
	return result, nil
}
