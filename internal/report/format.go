package report

import (
	"fmt"
)

// formatScore formats a score value with exactly 2 decimal places. Every
// projection routes numbers through this so CSV and HTML can never diverge
// from each other; values like 4 appear as 4.00 in both.
func formatScore(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int value for report output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatImprovement formats a score delta with an explicit sign, so a flat
// trend reads as +0.00 rather than looking like a missing value
func formatImprovement(f float64) string {
	return fmt.Sprintf("%+.2f", f)
}
