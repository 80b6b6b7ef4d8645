package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"tfcli/internal/config"
	"tfcli/pkg/contracts/domain"
)

// Parser normalizes raw survey rows into FeedbackRecords. It is pure with
// respect to external state: the only outputs are the record and issue
// sequences, and their counts always sum to the input row count.
type Parser struct {
	columns  config.ColumnConfig
	scores   config.ScoreConfig
	tsLayout string
	logger   *slog.Logger
}

// NewParser creates a parser for the configured column alias table and
// score range
func NewParser(cfg *config.Config, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		columns:  cfg.Columns,
		scores:   cfg.Scores,
		tsLayout: cfg.Input.TimestampLayout,
		logger:   logger,
	}
}

// Output holds everything the parser produced for one input snapshot
type Output struct {
	Records  []domain.FeedbackRecord
	Issues   []domain.ParseIssue
	Columns  []domain.ColumnResolution
	RowsRead int
}

// columnMap is the alias table resolved once against the actual header row
type columnMap struct {
	trainer   int
	timestamp int
	scores    map[string]int // logical name -> column index
	comments  map[string]int
	resolved  []domain.ColumnResolution
}

// ParseFile reads the input file and normalizes every row. A malformed row
// never aborts the run; only an unreadable input source is fatal.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Output, error) {
	header, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "loaded input file",
		"path", path,
		"columns", len(header),
		"rows", len(rows),
	)

	cols := p.resolveColumns(header)
	for _, res := range cols.resolved {
		p.logger.DebugContext(ctx, "resolved column",
			"logical", res.Logical,
			"header", res.Header,
		)
	}

	out := &Output{
		Columns:  cols.resolved,
		RowsRead: len(rows),
	}

	for i, row := range rows {
		ref := rowRef(i + 1)

		record, issue := p.parseRow(ref, row, cols)
		if issue != nil {
			out.Issues = append(out.Issues, *issue)
			continue
		}
		out.Records = append(out.Records, *record)
	}

	p.logger.InfoContext(ctx, "parsing complete",
		"rows", out.RowsRead,
		"accepted", len(out.Records),
		"rejected", len(out.Issues),
	)

	return out, nil
}

// resolveColumns matches the configured aliases against the header row.
// For each logical field the first matching alias wins; a header satisfies
// an alias when it matches exactly or starts with the alias text, which
// tolerates exports that append the full question wording.
func (p *Parser) resolveColumns(header []string) columnMap {
	cols := columnMap{
		trainer:   -1,
		timestamp: -1,
		scores:    make(map[string]int),
		comments:  make(map[string]int),
	}

	record := func(logical string, idx int) {
		res := domain.ColumnResolution{Logical: logical}
		if idx >= 0 {
			res.Header = strings.TrimSpace(header[idx])
		}
		cols.resolved = append(cols.resolved, res)
	}

	cols.trainer = matchHeader(header, p.columns.Trainer)
	record("trainer", cols.trainer)

	for _, logical := range sortedKeys(p.columns.Scores) {
		idx := matchHeader(header, p.columns.Scores[logical])
		if idx >= 0 {
			cols.scores[logical] = idx
		}
		record(logical, idx)
	}

	for _, logical := range sortedKeys(p.columns.Comments) {
		idx := matchHeader(header, p.columns.Comments[logical])
		if idx >= 0 {
			cols.comments[logical] = idx
		}
		record(logical, idx)
	}

	if len(p.columns.Timestamp) > 0 {
		cols.timestamp = matchHeader(header, p.columns.Timestamp)
		record("timestamp", cols.timestamp)
	}

	return cols
}

// parseRow normalizes a single row into either a record or an issue,
// never both
func (p *Parser) parseRow(ref string, row tableRow, cols columnMap) (*domain.FeedbackRecord, *domain.ParseIssue) {
	if row.err != nil {
		return nil, &domain.ParseIssue{
			RowRef: ref,
			Reason: domain.IssueMalformedRow,
			Detail: row.err.Error(),
		}
	}

	trainer := cellAt(row.cells, cols.trainer)
	if trainer == "" {
		return nil, &domain.ParseIssue{
			RowRef: ref,
			Reason: domain.IssueMissingTrainer,
			Detail: "no trainer value in any configured column",
		}
	}

	scores := make(map[string]float64)
	for _, logical := range sortedKeys(cols.scores) {
		raw := cellAt(row.cells, cols.scores[logical])
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &domain.ParseIssue{
				RowRef: ref,
				Reason: domain.IssueInvalidScore,
				Detail: fmt.Sprintf("%s: non-numeric value %q", logical, raw),
			}
		}
		if value < p.scores.Min || value > p.scores.Max {
			return nil, &domain.ParseIssue{
				RowRef: ref,
				Reason: domain.IssueInvalidScore,
				Detail: fmt.Sprintf("%s: %g outside range [%g, %g]", logical, value, p.scores.Min, p.scores.Max),
			}
		}
		scores[logical] = value
	}

	if len(scores) == 0 {
		return nil, &domain.ParseIssue{
			RowRef: ref,
			Reason: domain.IssueInvalidScore,
			Detail: "no score values present",
		}
	}

	sum := 0.0
	for _, v := range scores {
		sum += v
	}

	record := &domain.FeedbackRecord{
		RowRef:         ref,
		Trainer:        trainer,
		Scores:         scores,
		CompositeScore: sum / float64(len(scores)),
	}

	for _, logical := range sortedKeys(cols.comments) {
		text := cellAt(row.cells, cols.comments[logical])
		if text == "" || text == "-" || strings.EqualFold(text, "nan") {
			continue
		}
		record.Comments = append(record.Comments, domain.RecordComment{
			Column: logical,
			Text:   text,
		})
	}

	if raw := cellAt(row.cells, cols.timestamp); raw != "" {
		if ts, err := time.Parse(p.tsLayout, raw); err == nil {
			record.Timestamp = &ts
		}
		// unparseable timestamps stay nil; the field is optional
	}

	return record, nil
}

// matchHeader returns the index of the first header satisfying any alias,
// walking aliases in configured order
func matchHeader(header []string, aliases []string) int {
	for _, alias := range aliases {
		for i, h := range header {
			trimmed := strings.TrimSpace(h)
			if trimmed == alias || strings.HasPrefix(trimmed, alias) {
				return i
			}
		}
	}
	return -1
}

// cellAt returns the trimmed cell value at idx, or "" when out of range
func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

// sortedKeys returns map keys in ascending order for deterministic traversal
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
