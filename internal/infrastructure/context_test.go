package infrastructure

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunIDContext(t *testing.T) {
	t.Run("generated run ids are unique uuids", func(t *testing.T) {
		first := GenerateRunID()
		second := GenerateRunID()

		assert.NotEqual(t, first, second)
		_, err := uuid.Parse(first)
		require.NoError(t, err)
	})

	t.Run("round trips through context", func(t *testing.T) {
		ctx := WithRunID(context.Background(), "run-42")
		assert.Equal(t, "run-42", GetRunID(ctx))
	})

	t.Run("absent run id yields empty string", func(t *testing.T) {
		assert.Equal(t, "", GetRunID(context.Background()))
	})

	t.Run("context with generated run id", func(t *testing.T) {
		ctx := ContextWithRunID(context.Background())
		id := GetRunID(ctx)
		require.NotEmpty(t, id)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	})
}

func TestLoggerWithContext(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	ctx := WithRunID(context.Background(), "run-7")
	logger := WithComponent(LoggerWithContext(ctx), "analyzer")
	logger.Info("report written")

	out := buf.String()
	assert.Contains(t, out, "report written")
	assert.Contains(t, out, "run_id=run-7")
	assert.Contains(t, out, "component=analyzer")
}

func TestLoggerWithContext_NoRunID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	LoggerWithContext(context.Background()).Info("plain")
	assert.NotContains(t, buf.String(), "run_id")
}
