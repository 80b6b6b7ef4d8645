package feedback

import (
	"sort"

	"tfcli/pkg/contracts/domain"
)

// computeTrend derives the improvement-over-time split for one trainer.
// Only dated responses participate; they are sorted by timestamp (row ref
// breaks ties) and split at the midpoint, with the late half keeping the
// extra record on odd counts. Improvement is the late mean minus the early
// mean, so a positive value means scores went up over time.
//
// Returns nil when the trainer has fewer dated responses than the
// configured minimum; a trend from one or two data points would be noise.
func (a *Aggregator) computeTrend(records []domain.FeedbackRecord) *domain.TrendStats {
	dated := make([]domain.FeedbackRecord, 0, len(records))
	for _, r := range records {
		if r.Timestamp != nil {
			dated = append(dated, r)
		}
	}
	if len(dated) < a.trend.MinResponses {
		return nil
	}

	sort.SliceStable(dated, func(i, j int) bool {
		if !dated[i].Timestamp.Equal(*dated[j].Timestamp) {
			return dated[i].Timestamp.Before(*dated[j].Timestamp)
		}
		return dated[i].RowRef < dated[j].RowRef
	})

	mid := len(dated) / 2
	early := meanComposite(dated[:mid])
	late := meanComposite(dated[mid:])

	return &domain.TrendStats{
		EarlyMean:   early,
		LateMean:    late,
		Improvement: late - early,
		DatedCount:  len(dated),
	}
}

func meanComposite(records []domain.FeedbackRecord) float64 {
	sum := 0.0
	for _, r := range records {
		sum += r.CompositeScore
	}
	return sum / float64(len(records))
}
