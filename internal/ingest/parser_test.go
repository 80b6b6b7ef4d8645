package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tfcli/internal/config"
	apperrors "tfcli/internal/errors"
	"tfcli/internal/shared/testutil"
	"tfcli/pkg/contracts/domain"
)

// testConfig returns a config with a small alias table so test fixtures
// stay readable
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Columns = config.ColumnConfig{
		Trainer: []string{"Trainer", "Trainer Email"},
		Scores: map[string][]string{
			"clarity": {"1.3"},
			"pace":    {"1.4"},
		},
		Comments: map[string][]string{
			"enjoyed": {"3.12"},
		},
		Timestamp: []string{"Creation Date"},
	}
	return cfg
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feedback.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParser_ParseFile(t *testing.T) {
	ctx := context.Background()

	t.Run("valid rows are normalized", func(t *testing.T) {
		path := writeCSV(t, `Trainer,1.3 How clear was the training?,1.4 How was the pace?,Creation Date,3.12 What did you enjoy?
alice@example.com,4,5,"Jan 30, 2026 3:15 PM",Great trainer and very helpful session overall
bob@example.com,3,,,-
`)
		parser := NewParser(testConfig(), nil)
		out, err := parser.ParseFile(ctx, path)
		require.NoError(t, err)

		require.Len(t, out.Records, 2)
		assert.Empty(t, out.Issues)
		assert.Equal(t, 2, out.RowsRead)

		alice := out.Records[0]
		assert.Equal(t, "R0001", alice.RowRef)
		assert.Equal(t, "alice@example.com", alice.Trainer)
		assert.Equal(t, map[string]float64{"clarity": 4, "pace": 5}, alice.Scores)
		assert.InDelta(t, 4.5, alice.CompositeScore, 1e-9)
		require.Len(t, alice.Comments, 1)
		assert.Equal(t, "enjoyed", alice.Comments[0].Column)
		require.NotNil(t, alice.Timestamp)
		assert.Equal(t, time.Date(2026, 1, 30, 15, 15, 0, 0, time.UTC), alice.Timestamp.UTC())

		bob := out.Records[1]
		assert.Equal(t, map[string]float64{"clarity": 3}, bob.Scores)
		assert.InDelta(t, 3.0, bob.CompositeScore, 1e-9)
		assert.Empty(t, bob.Comments, "dash placeholder comments are dropped")
		assert.Nil(t, bob.Timestamp)
	})

	t.Run("rejection reasons", func(t *testing.T) {
		tests := []struct {
			name   string
			row    string
			reason domain.IssueReason
		}{
			{"non-numeric score", "alice@example.com,N/A,,,", domain.IssueInvalidScore},
			{"score above range", "alice@example.com,6,,,", domain.IssueInvalidScore},
			{"score below range", "alice@example.com,0,,,", domain.IssueInvalidScore},
			{"no score values", "alice@example.com,,,,", domain.IssueInvalidScore},
			{"missing trainer", ",4,5,,", domain.IssueMissingTrainer},
			{"whitespace trainer", "   ,4,5,,", domain.IssueMissingTrainer},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				path := writeCSV(t, "Trainer,1.3,1.4,Creation Date,3.12\n"+tt.row+"\n")
				parser := NewParser(testConfig(), nil)
				out, err := parser.ParseFile(ctx, path)
				require.NoError(t, err)

				assert.Empty(t, out.Records)
				require.Len(t, out.Issues, 1)
				assert.Equal(t, tt.reason, out.Issues[0].Reason)
				assert.Equal(t, "R0001", out.Issues[0].RowRef)
			})
		}
	})

	t.Run("counts always sum to rows read", func(t *testing.T) {
		path := writeCSV(t, `Trainer,1.3,1.4,Creation Date,3.12
alice@example.com,4,5,,
bob@example.com,N/A,,,
,3,,,
carol@example.com,2,2,,
`)
		parser := NewParser(testConfig(), nil)
		out, err := parser.ParseFile(ctx, path)
		require.NoError(t, err)

		assert.Equal(t, 4, out.RowsRead)
		assert.Equal(t, out.RowsRead, len(out.Records)+len(out.Issues))
		require.Len(t, out.Issues, 2)
		assert.Equal(t, domain.IssueInvalidScore, out.Issues[0].Reason)
		assert.Equal(t, domain.IssueMissingTrainer, out.Issues[1].Reason)
	})

	t.Run("malformed row becomes an issue not an abort", func(t *testing.T) {
		path := writeCSV(t, "Trainer,1.3,1.4,Creation Date,3.12\nalice@example.com,4,5,,\nbob@example.com,ab\"cd,,,\n")
		parser := NewParser(testConfig(), nil)
		out, err := parser.ParseFile(ctx, path)
		require.NoError(t, err)

		assert.Len(t, out.Records, 1)
		require.Len(t, out.Issues, 1)
		assert.Equal(t, domain.IssueMalformedRow, out.Issues[0].Reason)
	})

	t.Run("header only input yields empty output", func(t *testing.T) {
		path := writeCSV(t, "Trainer,1.3,1.4,Creation Date,3.12\n")
		parser := NewParser(testConfig(), nil)
		out, err := parser.ParseFile(ctx, path)
		require.NoError(t, err)

		assert.Empty(t, out.Records)
		assert.Empty(t, out.Issues)
		assert.Equal(t, 0, out.RowsRead)
	})

	t.Run("missing input file is fatal", func(t *testing.T) {
		parser := NewParser(testConfig(), nil)
		out, err := parser.ParseFile(ctx, filepath.Join(t.TempDir(), "nope.csv"))
		require.Error(t, err)
		assert.Nil(t, out)
		assert.True(t, apperrors.IsFatal(err))
		assert.Equal(t, "INPUT_NOT_FOUND", apperrors.Code(err))
	})

	t.Run("unparseable timestamp leaves field nil", func(t *testing.T) {
		path := writeCSV(t, "Trainer,1.3,1.4,Creation Date,3.12\nalice@example.com,4,,not a date,\n")
		parser := NewParser(testConfig(), nil)
		out, err := parser.ParseFile(ctx, path)
		require.NoError(t, err)

		require.Len(t, out.Records, 1)
		assert.Nil(t, out.Records[0].Timestamp)
	})
}

func TestParser_ColumnResolution(t *testing.T) {
	ctx := context.Background()

	t.Run("first matching alias wins", func(t *testing.T) {
		path := writeCSV(t, "Trainer Email,Trainer,1.3\nignored,alice@example.com,4\n")
		parser := NewParser(testConfig(), nil)
		out, err := parser.ParseFile(ctx, path)
		require.NoError(t, err)

		// "Trainer" is the first configured alias and prefix-matches the
		// "Trainer Email" header, so column 0 resolves
		require.Len(t, out.Records, 1)
		assert.Equal(t, "ignored", out.Records[0].Trainer)
	})

	t.Run("resolution report covers every logical column", func(t *testing.T) {
		path := writeCSV(t, "Trainer,1.3 How clear was the training?\nalice@example.com,4\n")
		parser := NewParser(testConfig(), nil)
		out, err := parser.ParseFile(ctx, path)
		require.NoError(t, err)

		resolved := make(map[string]string)
		for _, res := range out.Columns {
			resolved[res.Logical] = res.Header
		}
		assert.Equal(t, "Trainer", resolved["trainer"])
		assert.Equal(t, "1.3 How clear was the training?", resolved["clarity"])
		assert.Equal(t, "", resolved["pace"], "unmatched column reported with empty header")
		assert.Contains(t, resolved, "enjoyed")
		assert.Contains(t, resolved, "timestamp")
	})

	t.Run("resolution is logged", func(t *testing.T) {
		logger, handler := testutil.NewTestLogger(t)
		path := writeCSV(t, "Trainer,1.3\nalice@example.com,4\n")
		parser := NewParser(testConfig(), logger)
		_, err := parser.ParseFile(ctx, path)
		require.NoError(t, err)

		assert.True(t, handler.ContainsMessage("parsing complete"))
		assert.True(t, handler.ContainsAttr("accepted", int64(1)))
	})
}

func TestMatchHeader(t *testing.T) {
	header := []string{"Trainer Email", " 1.3 Clarity ", "Notes"}

	tests := []struct {
		name    string
		aliases []string
		want    int
	}{
		{"exact match", []string{"Notes"}, 2},
		{"prefix match", []string{"1.3"}, 1},
		{"alias order decides", []string{"Notes", "Trainer"}, 2},
		{"no match", []string{"Score"}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchHeader(header, tt.aliases))
		})
	}
}
