package feedback

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"tfcli/internal/config"
	"tfcli/pkg/contracts/domain"
)

// Aggregator groups normalized feedback records by trainer and computes the
// per-trainer and overall statistics. Aggregation is a pure function of the
// record sequence: a permuted input yields a bit-identical result.
type Aggregator struct {
	scores    config.ScoreConfig
	buckets   config.BucketConfig
	trend     config.TrendConfig
	sentiment config.SentimentConfig
	logger    *slog.Logger
}

// NewAggregator creates an aggregator with the configured range, bucket
// thresholds, trend split and sentiment settings
func NewAggregator(cfg *config.Config, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		scores:    cfg.Scores,
		buckets:   cfg.Buckets,
		trend:     cfg.Trend,
		sentiment: cfg.Sentiment,
		logger:    logger,
	}
}

// Result holds the aggregator output for one run
type Result struct {
	Trainers    []domain.TrainerAggregate
	Overall     domain.ScoreStats
	OverallHist []domain.HistogramBin
}

// Aggregate computes statistics per trainer plus one overall summary across
// all records. Trainer identity is the trimmed identifier, case preserved.
// The returned trainer sequence is sorted ascending by mean score, ties
// broken by trainer ID ascending; downstream components rely on that order.
func (a *Aggregator) Aggregate(ctx context.Context, records []domain.FeedbackRecord) Result {
	groups := make(map[string][]domain.FeedbackRecord)
	for _, r := range records {
		id := strings.TrimSpace(r.Trainer)
		groups[id] = append(groups[id], r)
	}

	a.logger.InfoContext(ctx, "grouped records by trainer",
		"records", len(records),
		"trainers", len(groups),
	)

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	trainers := make([]domain.TrainerAggregate, 0, len(groups))
	for _, id := range ids {
		agg := a.aggregateGroup(id, groups[id])
		a.logger.DebugContext(ctx, "aggregated trainer",
			"trainer", id,
			"count", agg.Stats.Count,
			"mean", agg.Stats.Mean,
			"bucket", string(agg.Bucket),
		)
		trainers = append(trainers, agg)
	}

	sort.SliceStable(trainers, func(i, j int) bool {
		if trainers[i].Stats.Mean != trainers[j].Stats.Mean {
			return trainers[i].Stats.Mean < trainers[j].Stats.Mean
		}
		return trainers[i].Trainer < trainers[j].Trainer
	})

	overall, overallHist := a.scoreStats(records)

	return Result{
		Trainers:    trainers,
		Overall:     overall,
		OverallHist: overallHist,
	}
}

// aggregateGroup builds the immutable aggregate for one trainer
func (a *Aggregator) aggregateGroup(id string, records []domain.FeedbackRecord) domain.TrainerAggregate {
	stats, hist := a.scoreStats(records)
	commentCount, positive, quotes := a.analyzeComments(records)

	return domain.TrainerAggregate{
		Trainer:          id,
		Stats:            stats,
		Histogram:        hist,
		Bucket:           a.bucketize(stats.Mean),
		Trend:            a.computeTrend(records),
		CommentCount:     commentCount,
		PositiveComments: positive,
		Quotes:           quotes,
	}
}

// scoreStats computes count, sum, mean, min, max and the fixed-bucket
// histogram over composite scores. Mean is always derived from sum and
// count so that partial aggregates could be merged without averaging
// averages.
func (a *Aggregator) scoreStats(records []domain.FeedbackRecord) (domain.ScoreStats, []domain.HistogramBin) {
	hist := a.emptyHistogram()

	if len(records) == 0 {
		return domain.ScoreStats{}, hist
	}

	stats := domain.ScoreStats{
		Count: len(records),
		Min:   records[0].CompositeScore,
		Max:   records[0].CompositeScore,
	}
	for _, r := range records {
		s := r.CompositeScore
		stats.Sum += s
		if s < stats.Min {
			stats.Min = s
		}
		if s > stats.Max {
			stats.Max = s
		}
		if idx := a.histogramIndex(s, len(hist)); idx >= 0 {
			hist[idx].Count++
		}
	}
	stats.Mean = stats.Sum / float64(stats.Count)

	return stats, hist
}

// emptyHistogram builds one bin per whole score in the valid range
func (a *Aggregator) emptyHistogram() []domain.HistogramBin {
	lo := int(math.Floor(a.scores.Min))
	hi := int(math.Floor(a.scores.Max))
	bins := make([]domain.HistogramBin, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		bins = append(bins, domain.HistogramBin{Label: strconv.Itoa(v)})
	}
	return bins
}

// histogramIndex maps a score to its bin: bin k covers [k, k+1), the last
// bin additionally includes the range maximum
func (a *Aggregator) histogramIndex(score float64, bins int) int {
	idx := int(math.Floor(score)) - int(math.Floor(a.scores.Min))
	if idx >= bins {
		idx = bins - 1
	}
	if idx < 0 {
		return -1
	}
	return idx
}

// bucketize applies the qualitative threshold table to a mean score.
// Boundaries are inclusive on the lower end: the needs_attention threshold
// itself is solid, the exemplary threshold itself is still solid.
func (a *Aggregator) bucketize(mean float64) domain.QualityBucket {
	switch {
	case mean < a.buckets.NeedsAttentionBelow:
		return domain.BucketNeedsAttention
	case mean > a.buckets.ExemplaryAbove:
		return domain.BucketExemplary
	default:
		return domain.BucketSolid
	}
}
