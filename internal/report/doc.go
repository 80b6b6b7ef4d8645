// Package report projects the canonical AnalysisResult into its output
// formats: full-fidelity JSON, a sectioned CSV table, and a presentational
// HTML document grouped by qualitative bucket. Renderers are pure and never
// recompute a statistic, so the three projections cannot diverge.
package report
