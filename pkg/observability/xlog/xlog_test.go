package xlog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xlockkit/pkg/context/xctx"
	"github.com/omeyang/xlockkit/pkg/observability/xlog"
)

func testCleanup(t *testing.T, cleanup func() error) {
	t.Helper()
	t.Cleanup(func() {
		if err := cleanup(); err != nil {
			t.Errorf("cleanup: %v", err)
		}
	})
}

func TestLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().
		SetOutput(&buf).
		SetLevel(xlog.LevelDebug).
		Build()
	require.NoError(t, err)
	testCleanup(t, cleanup)

	ctx := context.Background()
	logger.Debug(ctx, "debug msg")
	logger.Info(ctx, "info msg", slog.Int("n", 1))
	logger.Warn(ctx, "warn msg")
	logger.Error(ctx, "error msg", xlog.Err(errors.New("boom")))

	out := buf.String()
	assert.Contains(t, out, "debug msg")
	assert.Contains(t, out, "info msg")
	assert.Contains(t, out, "n=1")
	assert.Contains(t, out, "warn msg")
	assert.Contains(t, out, "error=boom")
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().SetOutput(&buf).SetLevel(xlog.LevelWarn).Build()
	require.NoError(t, err)
	testCleanup(t, cleanup)

	ctx := context.Background()
	logger.Info(ctx, "hidden")
	logger.Warn(ctx, "shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	assert.False(t, logger.Enabled(ctx, xlog.LevelInfo))
	logger.SetLevel(xlog.LevelDebug)
	assert.Equal(t, xlog.LevelDebug, logger.GetLevel())
	logger.Info(ctx, "now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestLogger_WithSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().SetOutput(&buf).SetLevel(xlog.LevelWarn).Build()
	require.NoError(t, err)
	testCleanup(t, cleanup)

	child := logger.With(xlog.Component("engine"))
	assert.Same(t, logger, logger.With())

	child.Info(context.Background(), "dropped")
	logger.SetLevel(xlog.LevelInfo)
	child.Info(context.Background(), "kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "component=engine")
}

func TestLogger_JSONEnrich(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().SetOutput(&buf).SetFormat("JSON").Build()
	require.NoError(t, err)
	testCleanup(t, cleanup)

	ctx, err := xctx.WithCorrelationID(context.Background(), "c-1")
	require.NoError(t, err)
	ctx, err = xctx.WithLockKey(ctx, "order:42")
	require.NoError(t, err)

	logger.Info(ctx, "hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "c-1", rec[xctx.KeyCorrelationID])
	assert.Equal(t, "order:42", rec[xctx.KeyLockKey])
}

func TestLogger_EnrichDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().SetOutput(&buf).SetEnrich(false).Build()
	require.NoError(t, err)
	testCleanup(t, cleanup)

	ctx, err := xctx.WithLockKey(context.Background(), "k")
	require.NoError(t, err)
	logger.Info(ctx, "plain")
	assert.NotContains(t, buf.String(), xctx.KeyLockKey)
}

func TestLogger_NilContext(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().SetOutput(&buf).Build()
	require.NoError(t, err)
	testCleanup(t, cleanup)

	assert.NotPanics(t, func() {
		//nolint:staticcheck // 验证 nil ctx 容错
		logger.Info(nil, "nil ctx")
	})
	assert.Contains(t, buf.String(), "nil ctx")
}

func TestLogger_AddSource(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().SetOutput(&buf).SetAddSource(true).Build()
	require.NoError(t, err)
	testCleanup(t, cleanup)

	logger.Info(context.Background(), "where")
	assert.Contains(t, buf.String(), "xlog_test.go")
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name string
		b    *xlog.Builder
	}{
		{"nil output", xlog.New().SetOutput(nil)},
		{"bad level", xlog.New().SetLevelString("verbose")},
		{"bad format", xlog.New().SetFormat("xml")},
		{"empty rotation", xlog.New().SetRotation(" ", xlog.RotationConfig{})},
		{"missing dir", xlog.New().SetRotation(filepath.Join(t.TempDir(), "nope", "a.log"), xlog.RotationConfig{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, cleanup, err := tt.b.Build()
			assert.Error(t, err)
			assert.Nil(t, logger)
			assert.Nil(t, cleanup)
		})
	}
}

func TestBuilder_FirstErrorWins(t *testing.T) {
	_, _, err := xlog.New().SetFormat("xml").SetLevelString("bogus").Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format")
}

func TestBuilder_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, cleanup, err := xlog.New().SetRotation(path, xlog.RotationConfig{MaxSizeMB: 1}).Build()
	require.NoError(t, err)

	logger.Info(context.Background(), "to file")
	require.NoError(t, cleanup())
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    xlog.Level
		wantErr bool
	}{
		{"debug", xlog.LevelDebug, false},
		{" INFO ", xlog.LevelInfo, false},
		{"", xlog.LevelInfo, false},
		{"warning", xlog.LevelWarn, false},
		{"Error", xlog.LevelError, false},
		{"trace", xlog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := xlog.ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevel_TextRoundTrip(t *testing.T) {
	var l xlog.Level
	require.NoError(t, l.UnmarshalText([]byte("warn")))
	assert.Equal(t, xlog.LevelWarn, l)
	assert.Equal(t, "WARN", l.String())
	assert.Error(t, l.UnmarshalText([]byte("loud")))
	assert.Equal(t, xlog.LevelWarn, l)
}

func TestErr_Nil(t *testing.T) {
	a := xlog.Err(nil)
	assert.Equal(t, xlog.KeyError, a.Key)
	assert.Empty(t, a.Value.String())
}

func TestNop(t *testing.T) {
	n := xlog.Nop()
	ctx := context.Background()
	n.Debug(ctx, "x")
	n.Info(ctx, "x")
	n.Warn(ctx, "x")
	n.Error(ctx, "x")
	n.SetLevel(xlog.LevelDebug)
	assert.False(t, n.Enabled(ctx, xlog.LevelError))
	assert.NotNil(t, n.With(slog.String("a", "b")))
	assert.True(t, n.GetLevel() > xlog.LevelError)
}

func TestNewEnrichHandler_Nil(t *testing.T) {
	h, err := xlog.NewEnrichHandler(nil)
	assert.Nil(t, h)
	assert.ErrorIs(t, err, xlog.ErrNilHandler)
}

func TestEnrichHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	h, err := xlog.NewEnrichHandler(slog.NewTextHandler(&buf, nil))
	require.NoError(t, err)

	ctx, err := xctx.WithLockKey(context.Background(), "k1")
	require.NoError(t, err)
	slog.New(h.WithAttrs([]slog.Attr{slog.String("a", "1")}).WithGroup("g")).InfoContext(ctx, "grouped", "x", 2)

	out := buf.String()
	assert.True(t, strings.Contains(out, "a=1"))
	assert.Contains(t, out, "g.x=2")
	assert.Contains(t, out, "g.lock_key=k1")
}
