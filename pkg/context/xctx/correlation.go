package xctx

import (
	"context"

	"github.com/google/uuid"
)

// WithCorrelationID 将关联标识注入 context。
//
// 如果 ctx 为 nil，返回 ErrNilContext。
func WithCorrelationID(ctx context.Context, id string) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return context.WithValue(ctx, keyCorrelationID, id), nil
}

// CorrelationID 从 context 提取关联标识，不存在返回空字符串。
func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(keyCorrelationID).(string); ok {
		return v
	}
	return ""
}

// RequireCorrelationID 从 context 获取关联标识，不存在则返回 ErrMissingCorrelationID。
func RequireCorrelationID(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", ErrNilContext
	}
	v := CorrelationID(ctx)
	if v == "" {
		return "", ErrMissingCorrelationID
	}
	return v, nil
}

// EnsureCorrelationID 确保 context 中存在关联标识。
//
// 已存在时原样返回（不验证/不纠正），否则生成新的 UUID 并注入。
// 返回值中的 string 为最终生效的关联标识。
func EnsureCorrelationID(ctx context.Context) (context.Context, string, error) {
	if ctx == nil {
		return nil, "", ErrNilContext
	}
	if v := CorrelationID(ctx); v != "" {
		return ctx, v, nil
	}
	id := NewCorrelationID()
	return context.WithValue(ctx, keyCorrelationID, id), id, nil
}

// NewCorrelationID 生成新的关联标识（UUID v4 字符串）。
func NewCorrelationID() string {
	return uuid.NewString()
}
