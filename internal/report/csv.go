package report

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"tfcli/pkg/contracts/domain"
)

// RenderCSV produces the tabular projection: one row per trainer in the
// result's order, then an Overall section, then a Parse Issues section.
// The sections are separated by blank lines so the per-trainer table is
// never intermixed with summary or diagnostic rows.
//
// Per-trainer column order: Trainer, Responses, Mean, Min, Max, one
// Score_<bin> column per histogram bin, Bucket, Early_Mean, Late_Mean,
// Improvement, Comments, Positive_Comments.
func RenderCSV(result domain.AnalysisResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"Trainer", "Responses", "Mean", "Min", "Max"}
	for _, bin := range result.OverallHist {
		header = append(header, "Score_"+bin.Label)
	}
	header = append(header, "Bucket", "Early_Mean", "Late_Mean", "Improvement", "Comments", "Positive_Comments")
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("write trainer header: %w", err)
	}

	for _, ta := range result.Trainers {
		row := statsCells(ta.Trainer, ta.Stats, ta.Histogram)
		row = append(row, string(ta.Bucket))
		row = append(row, trendCells(ta.Trend)...)
		row = append(row, formatInt(ta.CommentCount), formatInt(ta.PositiveComments))
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write trainer row for %s: %w", ta.Trainer, err)
		}
	}

	blank(writer)

	overallHeader := []string{"Overall", "Responses", "Mean", "Min", "Max"}
	for _, bin := range result.OverallHist {
		overallHeader = append(overallHeader, "Score_"+bin.Label)
	}
	if err := writer.Write(overallHeader); err != nil {
		return nil, fmt.Errorf("write overall header: %w", err)
	}
	if err := writer.Write(statsCells("ALL", result.Overall, result.OverallHist)); err != nil {
		return nil, fmt.Errorf("write overall row: %w", err)
	}

	blank(writer)

	if err := writer.Write([]string{"Row", "Reason", "Detail"}); err != nil {
		return nil, fmt.Errorf("write issues header: %w", err)
	}
	for _, issue := range result.Issues {
		if err := writer.Write([]string{issue.RowRef, string(issue.Reason), issue.Detail}); err != nil {
			return nil, fmt.Errorf("write issue row %s: %w", issue.RowRef, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// statsCells renders the shared statistic columns for a trainer or the
// overall row. The Count == 0 case keeps Min/Max blank rather than showing
// a misleading 0.00.
func statsCells(id string, stats domain.ScoreStats, hist []domain.HistogramBin) []string {
	row := []string{id, formatInt(stats.Count)}
	if stats.Count > 0 {
		row = append(row, formatScore(stats.Mean), formatScore(stats.Min), formatScore(stats.Max))
	} else {
		row = append(row, "", "", "")
	}
	for _, bin := range hist {
		row = append(row, formatInt(bin.Count))
	}
	return row
}

// trendCells renders the early/late split columns, blank when the trainer
// had too few dated responses for a trend
func trendCells(trend *domain.TrendStats) []string {
	if trend == nil {
		return []string{"", "", ""}
	}
	return []string{
		formatScore(trend.EarlyMean),
		formatScore(trend.LateMean),
		formatImprovement(trend.Improvement),
	}
}

// blank writes an empty separator line between sections
func blank(writer *csv.Writer) {
	_ = writer.Write([]string{""})
}
