// Package feedback implements the aggregation core of the trainer feedback
// pipeline.
//
// The aggregator groups normalized FeedbackRecords by trainer identity
// (trimmed, case preserved) and computes per-trainer summary statistics:
// response count, mean/min/max of the composite score, a fixed-bucket score
// histogram, an improvement-over-time split of dated responses,
// positive-comment tallies and evidence quotes. The same score statistics
// are computed once more across all records as the overall summary.
//
// Trainer means are mapped to a qualitative bucket by a configurable
// threshold table; with the defaults, a mean below 3.0 is needs_attention,
// above 4.0 is exemplary, and everything between (both ends inclusive) is
// solid.
//
// Aggregation is deterministic: trainers are traversed in sorted order and
// the result sequence is sorted ascending by mean score with ties broken by
// trainer ID, so the same record set always produces a bit-identical result
// regardless of input ordering. Mean is always derived from sum and count,
// which keeps partial aggregates mergeable should per-trainer work ever be
// parallelized.
//
// BuildResult assembles the aggregator output together with the parser's
// diagnostics into the canonical AnalysisResult snapshot, with the
// generation timestamp injected by the caller.
package feedback
