package feedback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tfcli/pkg/contracts"
	"tfcli/pkg/contracts/domain"
)

func TestBuildResult(t *testing.T) {
	generatedAt := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)

	in := BuildInput{
		RunID:       "run-123",
		GeneratedAt: generatedAt,
		Aggregates: Result{
			Trainers: []domain.TrainerAggregate{
				{Trainer: "B", Stats: domain.ScoreStats{Count: 2, Sum: 3, Mean: 1.5, Min: 1, Max: 2}},
				{Trainer: "A", Stats: domain.ScoreStats{Count: 3, Sum: 12, Mean: 4, Min: 3, Max: 5}},
			},
			Overall:     domain.ScoreStats{Count: 5, Sum: 15, Mean: 3, Min: 1, Max: 5},
			OverallHist: []domain.HistogramBin{{Label: "1", Count: 1}},
		},
		Issues: []domain.ParseIssue{
			{RowRef: "R0004", Reason: domain.IssueMissingTrainer},
			{RowRef: "R0009", Reason: domain.IssueInvalidScore, Detail: "clarity: \"6\" outside [1.00, 5.00]"},
		},
		Columns:  []domain.ColumnResolution{{Logical: "trainer", Header: "Trainer"}},
		RowsRead: 7,
	}

	result := BuildResult(in)

	t.Run("assembles snapshot fields", func(t *testing.T) {
		assert.Equal(t, contracts.DataFormatVersion, result.FormatVersion)
		assert.Equal(t, "run-123", result.RunID)
		assert.Equal(t, generatedAt, result.GeneratedAt)
		assert.Equal(t, in.Aggregates.Trainers, result.Trainers)
		assert.Equal(t, in.Aggregates.Overall, result.Overall)
		assert.Equal(t, in.Issues, result.Issues)
		assert.Equal(t, in.Columns, result.Columns)
	})

	t.Run("counts reconcile", func(t *testing.T) {
		assert.Equal(t, 7, result.RowsRead)
		assert.Equal(t, 5, result.Accepted)
		assert.Equal(t, 2, result.Rejected)
		assert.Equal(t, result.RowsRead, result.Accepted+result.Rejected)
	})

	t.Run("slices are copied not aliased", func(t *testing.T) {
		in.Aggregates.Trainers[0].Trainer = "mutated"
		in.Issues[0].RowRef = "mutated"
		in.Columns[0].Header = "mutated"
		in.Aggregates.OverallHist[0].Count = 99

		assert.Equal(t, "B", result.Trainers[0].Trainer)
		assert.Equal(t, "R0004", result.Issues[0].RowRef)
		assert.Equal(t, "Trainer", result.Columns[0].Header)
		assert.Equal(t, 1, result.OverallHist[0].Count)
	})

	t.Run("trainer lookup by id", func(t *testing.T) {
		ta, ok := result.Trainer("A")
		require.True(t, ok)
		assert.Equal(t, 3, ta.Stats.Count)

		_, ok = result.Trainer("nobody")
		assert.False(t, ok)
	})
}
