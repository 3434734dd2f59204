package xctx

import (
	"context"
	"log/slog"
)

// AppendLogAttrs 将 context 中的非空字段追加到 attrs。
// 传入预分配切片可避免热路径上的额外分配。
func AppendLogAttrs(attrs []slog.Attr, ctx context.Context) []slog.Attr {
	if ctx == nil {
		return attrs
	}
	if v := CorrelationID(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyCorrelationID, v))
	}
	if v := LockKey(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyLockKey, v))
	}
	return attrs
}

// LogAttrs 从 context 提取日志属性，全部为空时返回 nil。
func LogAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	attrs := AppendLogAttrs(make([]slog.Attr, 0, logFieldCount), ctx)
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
