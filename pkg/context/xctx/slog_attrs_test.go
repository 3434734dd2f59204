package xctx_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xlockkit/pkg/context/xctx"
)

func TestLogAttrs(t *testing.T) {
	assert.Nil(t, xctx.LogAttrs(context.Background()))

	var nilCtx context.Context
	assert.Nil(t, xctx.LogAttrs(nilCtx))

	ctx, err := xctx.WithCorrelationID(context.Background(), "cid")
	require.NoError(t, err)
	assert.Equal(t, []slog.Attr{slog.String(xctx.KeyCorrelationID, "cid")}, xctx.LogAttrs(ctx))

	ctx, err = xctx.WithLockKey(ctx, "file:/tmp/x")
	require.NoError(t, err)
	assert.Equal(t, []slog.Attr{
		slog.String(xctx.KeyCorrelationID, "cid"),
		slog.String(xctx.KeyLockKey, "file:/tmp/x"),
	}, xctx.LogAttrs(ctx))
}

func TestAppendLogAttrsKeepsPrefix(t *testing.T) {
	ctx, err := xctx.WithLockKey(context.Background(), "k")
	require.NoError(t, err)

	attrs := []slog.Attr{slog.Int("n", 1)}
	attrs = xctx.AppendLogAttrs(attrs, ctx)
	require.Len(t, attrs, 2)
	assert.Equal(t, "n", attrs[0].Key)
	assert.Equal(t, xctx.KeyLockKey, attrs[1].Key)

	var nilCtx context.Context
	assert.Len(t, xctx.AppendLogAttrs(attrs, nilCtx), 2)
}

func BenchmarkAppendLogAttrs(b *testing.B) {
	ctx, _ := xctx.WithCorrelationID(context.Background(), "cid")
	ctx, _ = xctx.WithLockKey(ctx, "key")
	buf := make([]slog.Attr, 0, 4)
	for b.Loop() {
		buf = xctx.AppendLogAttrs(buf[:0], ctx)
	}
}
