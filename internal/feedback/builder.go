package feedback

import (
	"time"

	"tfcli/pkg/contracts"
	"tfcli/pkg/contracts/domain"
)

// BuildInput carries everything the result builder assembles. GeneratedAt
// is injected by the caller rather than read from the wall clock here, so
// the terminal snapshot stays reproducible in tests.
type BuildInput struct {
	RunID       string
	GeneratedAt time.Time
	Aggregates  Result
	Issues      []domain.ParseIssue
	Columns     []domain.ColumnResolution
	RowsRead    int
}

// BuildResult assembles the canonical AnalysisResult from aggregator output
// and parser diagnostics. It performs no computation beyond assembly and
// does not mutate its inputs; slices are copied so later appends on caller
// state cannot alias into the snapshot.
func BuildResult(in BuildInput) domain.AnalysisResult {
	trainers := make([]domain.TrainerAggregate, len(in.Aggregates.Trainers))
	copy(trainers, in.Aggregates.Trainers)

	issues := make([]domain.ParseIssue, len(in.Issues))
	copy(issues, in.Issues)

	columns := make([]domain.ColumnResolution, len(in.Columns))
	copy(columns, in.Columns)

	hist := make([]domain.HistogramBin, len(in.Aggregates.OverallHist))
	copy(hist, in.Aggregates.OverallHist)

	return domain.AnalysisResult{
		FormatVersion: contracts.DataFormatVersion,
		RunID:         in.RunID,
		GeneratedAt:   in.GeneratedAt,
		Trainers:      trainers,
		Overall:       in.Aggregates.Overall,
		OverallHist:   hist,
		Issues:        issues,
		Columns:       columns,
		RowsRead:      in.RowsRead,
		Accepted:      in.RowsRead - len(issues),
		Rejected:      len(issues),
	}
}
