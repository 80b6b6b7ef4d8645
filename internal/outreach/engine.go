package outreach

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"tfcli/internal/config"
	"tfcli/pkg/contracts/domain"
)

// placeholderPattern matches {name} style placeholders in template text
var placeholderPattern = regexp.MustCompile(`\{([a-z][a-z0-9_]*)\}`)

// Engine maps per-trainer aggregates onto a fixed message template. It
// produces text only; nothing is ever sent from here.
type Engine struct {
	outreach config.OutreachConfig
	scores   config.ScoreConfig
	template string
	logger   *slog.Logger
}

// NewEngine creates an engine for the given template text and inclusion
// configuration
func NewEngine(cfg *config.Config, templateText string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		outreach: cfg.Outreach,
		scores:   cfg.Scores,
		template: templateText,
		logger:   logger,
	}
}

// GenerateDrafts produces one draft per trainer matching the inclusion
// predicate, in the same order the trainers appear in the AnalysisResult.
// Placeholders without a value in the aggregate data stay verbatim in the
// body and are reported in the draft's unresolved list, never guessed or
// blanked.
func (e *Engine) GenerateDrafts(ctx context.Context, result domain.AnalysisResult) []domain.OutreachDraft {
	drafts := make([]domain.OutreachDraft, 0)

	for _, ta := range result.Trainers {
		if !e.includes(ta) {
			continue
		}

		values, evidenceRow := e.placeholderValues(ta)

		var unresolved []string
		seen := make(map[string]bool)
		substitute := func(text string) string {
			return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
				name := placeholderPattern.FindStringSubmatch(match)[1]
				if value, ok := values[name]; ok {
					return value
				}
				if !seen[name] {
					seen[name] = true
					unresolved = append(unresolved, name)
				}
				return match
			})
		}

		draft := domain.OutreachDraft{
			Trainer:     ta.Trainer,
			Subject:     substitute(e.outreach.Subject),
			Body:        substitute(e.template),
			EvidenceRow: evidenceRow,
		}
		draft.Unresolved = unresolved

		e.logger.DebugContext(ctx, "generated outreach draft",
			"trainer", ta.Trainer,
			"unresolved", len(unresolved),
		)
		drafts = append(drafts, draft)
	}

	e.logger.InfoContext(ctx, "outreach drafts generated",
		"included", len(drafts),
		"predicate", e.outreach.Include,
	)

	return drafts
}

// includes applies the configured inclusion predicate to one aggregate
func (e *Engine) includes(ta domain.TrainerAggregate) bool {
	switch e.outreach.Include {
	case "all":
		return true
	case "below_threshold":
		return ta.Stats.Mean < e.outreach.Threshold
	default: // needs_attention
		return ta.Bucket == domain.BucketNeedsAttention
	}
}

// placeholderValues builds the substitution table from aggregate data.
// evidence_quote is only resolvable when the trainer actually has a quote;
// an absent quote is left for manual personalization rather than filled
// with a default.
func (e *Engine) placeholderValues(ta domain.TrainerAggregate) (map[string]string, string) {
	values := map[string]string{
		"trainer":        ta.Trainer,
		"first_name":     firstNameFrom(ta.Trainer),
		"response_count": fmt.Sprintf("%d", ta.Stats.Count),
		"mean_score":     fmt.Sprintf("%.2f", ta.Stats.Mean),
		"min_score":      fmt.Sprintf("%.2f", ta.Stats.Min),
		"max_score":      fmt.Sprintf("%.2f", ta.Stats.Max),
		"score_min":      fmt.Sprintf("%g", e.scores.Min),
		"score_max":      fmt.Sprintf("%g", e.scores.Max),
		"bucket":         string(ta.Bucket),
	}

	if ta.Trend != nil {
		values["early_mean"] = fmt.Sprintf("%.2f", ta.Trend.EarlyMean)
		values["late_mean"] = fmt.Sprintf("%.2f", ta.Trend.LateMean)
		values["improvement"] = fmt.Sprintf("%+.2f", ta.Trend.Improvement)
	}

	var evidenceRow string
	if len(ta.Quotes) > 0 {
		values["evidence_quote"] = ta.Quotes[0].Text
		values["evidence_row"] = ta.Quotes[0].RowRef
		evidenceRow = ta.Quotes[0].RowRef
	}

	return values, evidenceRow
}

// firstNameFrom extracts a usable first name from a trainer identifier,
// which in practice is an email address: the part before the @, split on
// dots and underscores, capitalized.
func firstNameFrom(trainer string) string {
	name := trainer
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}
	if dot := strings.IndexAny(name, "._"); dot >= 0 {
		name = name[:dot]
	}
	if name == "" {
		return trainer
	}
	return strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
}
