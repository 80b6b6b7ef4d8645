package outreach

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tfcli/internal/config"
	"tfcli/pkg/contracts/domain"
)

func aggregate(trainer string, mean float64, bucket domain.QualityBucket) domain.TrainerAggregate {
	return domain.TrainerAggregate{
		Trainer: trainer,
		Stats:   domain.ScoreStats{Count: 3, Sum: mean * 3, Mean: mean, Min: mean - 1, Max: mean + 1},
		Bucket:  bucket,
	}
}

func resultWith(trainers ...domain.TrainerAggregate) domain.AnalysisResult {
	return domain.AnalysisResult{RunID: "run-1", Trainers: trainers}
}

func TestEngine_GenerateDrafts(t *testing.T) {
	ctx := context.Background()

	t.Run("substitutes aggregate values", func(t *testing.T) {
		cfg := config.Default()
		engine := NewEngine(cfg, "Hi {first_name}, {response_count} responses averaged {mean_score} out of {score_max}.", nil)

		drafts := engine.GenerateDrafts(ctx, resultWith(
			aggregate("jane.doe@example.com", 2.5, domain.BucketNeedsAttention),
		))
		require.Len(t, drafts, 1)

		assert.Equal(t, "jane.doe@example.com", drafts[0].Trainer)
		assert.Equal(t, "Hi Jane, 3 responses averaged 2.50 out of 5.", drafts[0].Body)
		assert.Empty(t, drafts[0].Unresolved)
	})

	t.Run("subject gets the same substitution", func(t *testing.T) {
		cfg := config.Default()
		cfg.Outreach.Subject = "Feedback summary for {trainer}"
		engine := NewEngine(cfg, "body", nil)

		drafts := engine.GenerateDrafts(ctx, resultWith(
			aggregate("bob@example.com", 1.5, domain.BucketNeedsAttention),
		))
		require.Len(t, drafts, 1)
		assert.Equal(t, "Feedback summary for bob@example.com", drafts[0].Subject)
	})

	t.Run("unknown placeholders stay verbatim and are reported once", func(t *testing.T) {
		cfg := config.Default()
		engine := NewEngine(cfg, "{manager_name} and {manager_name} should review {next_session}.", nil)

		drafts := engine.GenerateDrafts(ctx, resultWith(
			aggregate("bob@example.com", 1.5, domain.BucketNeedsAttention),
		))
		require.Len(t, drafts, 1)

		assert.Equal(t, "{manager_name} and {manager_name} should review {next_session}.", drafts[0].Body)
		assert.Equal(t, []string{"manager_name", "next_session"}, drafts[0].Unresolved)
	})

	t.Run("evidence quote resolved only when present", func(t *testing.T) {
		cfg := config.Default()
		engine := NewEngine(cfg, "One attendee wrote: {evidence_quote}", nil)

		quoted := aggregate("amy@example.com", 2.0, domain.BucketNeedsAttention)
		quoted.Quotes = []domain.Quote{{RowRef: "R0005", Text: "Amy was patient with every question."}}
		bare := aggregate("bob@example.com", 2.5, domain.BucketNeedsAttention)

		drafts := engine.GenerateDrafts(ctx, resultWith(quoted, bare))
		require.Len(t, drafts, 2)

		assert.Equal(t, "One attendee wrote: Amy was patient with every question.", drafts[0].Body)
		assert.Equal(t, "R0005", drafts[0].EvidenceRow)

		assert.Equal(t, "One attendee wrote: {evidence_quote}", drafts[1].Body)
		assert.Equal(t, []string{"evidence_quote"}, drafts[1].Unresolved)
		assert.Empty(t, drafts[1].EvidenceRow)
	})

	t.Run("trend placeholders resolved only when a trend exists", func(t *testing.T) {
		cfg := config.Default()
		engine := NewEngine(cfg, "Scores moved from {early_mean} to {late_mean} ({improvement}).", nil)

		trending := aggregate("amy@example.com", 2.0, domain.BucketNeedsAttention)
		trending.Trend = &domain.TrendStats{EarlyMean: 1.5, LateMean: 2.5, Improvement: 1.0, DatedCount: 4}
		flat := aggregate("bob@example.com", 2.5, domain.BucketNeedsAttention)

		drafts := engine.GenerateDrafts(ctx, resultWith(trending, flat))
		require.Len(t, drafts, 2)

		assert.Equal(t, "Scores moved from 1.50 to 2.50 (+1.00).", drafts[0].Body)
		assert.Equal(t, "Scores moved from {early_mean} to {late_mean} ({improvement}).", drafts[1].Body)
		assert.Equal(t, []string{"early_mean", "late_mean", "improvement"}, drafts[1].Unresolved)
	})

	t.Run("drafts follow result order", func(t *testing.T) {
		cfg := config.Default()
		cfg.Outreach.Include = "all"
		engine := NewEngine(cfg, "x", nil)

		drafts := engine.GenerateDrafts(ctx, resultWith(
			aggregate("low@example.com", 1.5, domain.BucketNeedsAttention),
			aggregate("mid@example.com", 3.5, domain.BucketSolid),
			aggregate("top@example.com", 4.5, domain.BucketExemplary),
		))
		require.Len(t, drafts, 3)
		assert.Equal(t, "low@example.com", drafts[0].Trainer)
		assert.Equal(t, "mid@example.com", drafts[1].Trainer)
		assert.Equal(t, "top@example.com", drafts[2].Trainer)
	})

	t.Run("no matching trainers yields empty slice", func(t *testing.T) {
		engine := NewEngine(config.Default(), "x", nil)
		drafts := engine.GenerateDrafts(ctx, resultWith(
			aggregate("top@example.com", 4.5, domain.BucketExemplary),
		))
		assert.NotNil(t, drafts)
		assert.Empty(t, drafts)
	})
}

func TestEngine_Includes(t *testing.T) {
	tests := []struct {
		name      string
		include   string
		threshold float64
		aggregate domain.TrainerAggregate
		want      bool
	}{
		{
			name:      "needs_attention includes bucket match",
			include:   "needs_attention",
			aggregate: aggregate("a", 2.0, domain.BucketNeedsAttention),
			want:      true,
		},
		{
			name:      "needs_attention excludes solid",
			include:   "needs_attention",
			aggregate: aggregate("a", 3.5, domain.BucketSolid),
			want:      false,
		},
		{
			name:      "below_threshold compares mean",
			include:   "below_threshold",
			threshold: 4.0,
			aggregate: aggregate("a", 3.5, domain.BucketSolid),
			want:      true,
		},
		{
			name:      "below_threshold is strict",
			include:   "below_threshold",
			threshold: 4.0,
			aggregate: aggregate("a", 4.0, domain.BucketSolid),
			want:      false,
		},
		{
			name:      "all includes everyone",
			include:   "all",
			aggregate: aggregate("a", 5.0, domain.BucketExemplary),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Outreach.Include = tt.include
			if tt.threshold != 0 {
				cfg.Outreach.Threshold = tt.threshold
			}
			engine := NewEngine(cfg, "x", nil)
			assert.Equal(t, tt.want, engine.includes(tt.aggregate))
		})
	}
}

func TestFirstNameFrom(t *testing.T) {
	tests := []struct {
		trainer string
		want    string
	}{
		{"jane.doe@example.com", "Jane"},
		{"bob_smith@example.com", "Bob"},
		{"CAROL@example.com", "Carol"},
		{"dave@example.com", "Dave"},
		{"plainname", "Plainname"},
		{"@example.com", "@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.trainer, func(t *testing.T) {
			assert.Equal(t, tt.want, firstNameFrom(tt.trainer))
		})
	}
}
