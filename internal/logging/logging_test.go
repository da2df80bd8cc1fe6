package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithPath(t *testing.T) {
	t.Run("stderr by default", func(t *testing.T) {
		result := NewLoggerWithPath(Config{Level: "debug"})
		assert.False(t, result.UsingFile)
		assert.False(t, result.FallbackUsed)
		assert.Equal(t, zerolog.DebugLevel, result.Logger.GetLevel())
		require.NoError(t, result.Close())
	})

	t.Run("invalid level defaults to info", func(t *testing.T) {
		result := NewLoggerWithPath(Config{Level: "chatty"})
		assert.Equal(t, zerolog.InfoLevel, result.Logger.GetLevel())
	})

	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "zerodesign.log")
		result := NewLoggerWithPath(Config{Level: "info", Output: OutputFile, File: path})
		require.True(t, result.UsingFile)
		assert.Equal(t, path, result.FilePath)

		result.Logger.Info().Msg("hello")
		require.NoError(t, result.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "hello")
	})

	t.Run("unwritable file falls back to stderr", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

		result := NewLoggerWithPath(Config{Output: OutputFile, File: filepath.Join(blocker, "a.log")})
		assert.False(t, result.UsingFile)
		assert.True(t, result.FallbackUsed)
		assert.NotEmpty(t, result.FallbackReason)
	})
}

func TestFromContext(t *testing.T) {
	t.Run("nil context is safe", func(t *testing.T) {
		//nolint:staticcheck // exercising the nil guard
		l := FromContext(nil)
		require.NotNil(t, l)
	})

	t.Run("attached logger carries trace id", func(t *testing.T) {
		var buf bytes.Buffer
		base := zerolog.New(&buf)
		ctx := base.WithContext(context.Background())
		ctx = ContextWithTraceID(ctx, "trace-123")

		FromContext(ctx).Info().Msg("x")
		assert.Contains(t, buf.String(), `"trace_id":"trace-123"`)
	})
}

func TestTraceIDs(t *testing.T) {
	id := NewTraceID()
	_, err := ulid.Parse(id)
	require.NoError(t, err)

	assert.NotEqual(t, id, NewTraceID())

	ctx := ContextWithTraceID(context.Background(), id)
	assert.Equal(t, id, GetOrGenerateTraceID(ctx))
	assert.NotEmpty(t, GetOrGenerateTraceID(context.Background()))
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	l := ComponentLogger(zerolog.New(&buf), "refdata")
	l.Info().Msg("x")
	assert.Contains(t, buf.String(), `"component":"refdata"`)
}

func TestPrintHelpers(t *testing.T) {
	var buf bytes.Buffer
	PrintLogPathMessage(&buf, "/tmp/z.log")
	PrintFallbackWarning(&buf, "denied")
	assert.Contains(t, buf.String(), "/tmp/z.log")
	assert.Contains(t, buf.String(), "denied")
}
