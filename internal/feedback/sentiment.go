package feedback

import (
	"sort"
	"strings"

	"tfcli/pkg/contracts/domain"
)

// analyzeComments tallies free-text comments for one trainer and selects
// the strongest positive quotes as row-referenced evidence. A comment is
// positive when it contains any configured keyword; quote candidates must
// additionally meet the minimum length, and long ones are truncated for
// readability.
func (a *Aggregator) analyzeComments(records []domain.FeedbackRecord) (total, positive int, quotes []domain.Quote) {
	var candidates []domain.Quote

	for _, r := range records {
		for _, c := range r.Comments {
			total++
			if !a.isPositive(c.Text) {
				continue
			}
			positive++

			// rune-based lengths so truncation never splits a multi-byte
			// character
			text := strings.TrimSpace(c.Text)
			runes := []rune(text)
			if len(runes) < a.sentiment.MinQuoteLength {
				continue
			}
			if len(runes) > a.sentiment.MaxQuoteLength {
				text = string(runes[:a.sentiment.MaxQuoteLength]) + "..."
			}
			candidates = append(candidates, domain.Quote{
				RowRef: r.RowRef,
				Text:   text,
				Column: c.Column,
			})
		}
	}

	// Prefer longer, more detailed quotes; row ref keeps ties deterministic
	sort.SliceStable(candidates, func(i, j int) bool {
		if len(candidates[i].Text) != len(candidates[j].Text) {
			return len(candidates[i].Text) > len(candidates[j].Text)
		}
		return candidates[i].RowRef < candidates[j].RowRef
	})

	if len(candidates) > a.sentiment.MaxQuotes {
		candidates = candidates[:a.sentiment.MaxQuotes]
	}

	return total, positive, candidates
}

// isPositive reports whether the comment contains any positive keyword
func (a *Aggregator) isPositive(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range a.sentiment.PositiveKeywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
