package xctx

import "errors"

// contextKey 包私有类型，避免与其他包的 context key 冲突。
type contextKey string

const (
	keyCorrelationID = contextKey("xctx:correlation_id")
	keyLockKey       = contextKey("xctx:lock_key")
)

// 日志属性 Key 常量。
const (
	KeyCorrelationID = "correlation_id"
	KeyLockKey       = "lock_key"

	// logFieldCount 字段数量（用于 slog 属性预分配）
	logFieldCount = 2
)

var (
	// ErrNilContext 表示传入的 context 为 nil。
	ErrNilContext = errors.New("xctx: nil context")

	// ErrMissingCorrelationID correlation_id 缺失
	ErrMissingCorrelationID = errors.New("xctx: missing correlation_id")

	// ErrMissingLockKey lock_key 缺失
	ErrMissingLockKey = errors.New("xctx: missing lock_key")
)
