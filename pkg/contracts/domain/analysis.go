package domain

import (
	"time"
)

// QualityBucket is the discrete label derived from a trainer's mean score
type QualityBucket string

const (
	BucketNeedsAttention QualityBucket = "needs_attention"
	BucketSolid          QualityBucket = "solid"
	BucketExemplary      QualityBucket = "exemplary"
)

// ScoreStats holds summary statistics for a group of composite scores
type ScoreStats struct {
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// HistogramBin is one fixed bucket of the score distribution
type HistogramBin struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Quote is a positive free-text comment selected as evidence, traceable
// back to its source row
type Quote struct {
	RowRef string `json:"row_ref"`
	Text   string `json:"text"`
	Column string `json:"column"`
}

// TrendStats captures how a trainer's scores moved over time: dated
// responses are sorted by timestamp and split into early and late halves,
// and Improvement is the late mean minus the early mean.
type TrendStats struct {
	EarlyMean   float64 `json:"early_mean"`
	LateMean    float64 `json:"late_mean"`
	Improvement float64 `json:"improvement"`
	DatedCount  int     `json:"dated_count"`
}

// TrainerAggregate holds all computed statistics for one trainer.
// Immutable once built by the aggregator. Trend is nil when the trainer
// has too few dated responses for a meaningful early/late split.
type TrainerAggregate struct {
	Trainer          string         `json:"trainer"`
	Stats            ScoreStats     `json:"stats"`
	Histogram        []HistogramBin `json:"histogram"`
	Bucket           QualityBucket  `json:"bucket"`
	Trend            *TrendStats    `json:"trend,omitempty"`
	CommentCount     int            `json:"comment_count"`
	PositiveComments int            `json:"positive_comments"`
	Quotes           []Quote        `json:"quotes,omitempty"`
}

// IsValid checks if the aggregate is usable
func (ta TrainerAggregate) IsValid() bool {
	return ta.Trainer != "" && ta.Stats.Count > 0
}

// ColumnResolution records which header alias satisfied a logical column,
// kept for auditability of export-format drift
type ColumnResolution struct {
	Logical string `json:"logical"`
	Header  string `json:"header,omitempty"`
}

// AnalysisResult is the canonical, terminal snapshot of one run. Every
// renderer and the outreach engine consume this structure; no output path
// recomputes a statistic.
type AnalysisResult struct {
	FormatVersion string             `json:"format_version"`
	RunID         string             `json:"run_id"`
	GeneratedAt   time.Time          `json:"generated_at"`
	Trainers      []TrainerAggregate `json:"trainers"`
	Overall       ScoreStats         `json:"overall"`
	OverallHist   []HistogramBin     `json:"overall_histogram"`
	Issues        []ParseIssue       `json:"parse_issues"`
	Columns       []ColumnResolution `json:"columns"`
	RowsRead      int                `json:"rows_read"`
	Accepted      int                `json:"accepted"`
	Rejected      int                `json:"rejected"`
}

// Trainer returns the aggregate for the given trainer ID, if present
func (ar AnalysisResult) Trainer(id string) (TrainerAggregate, bool) {
	for _, ta := range ar.Trainers {
		if ta.Trainer == id {
			return ta, true
		}
	}
	return TrainerAggregate{}, false
}
