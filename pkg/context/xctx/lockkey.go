package xctx

import "context"

// WithLockKey 记录当前 context 所在的锁 key。
//
// 由 xkeylock 在调用工作单元前注入；批量获取时为最内层（最近一次获取）的 key。
func WithLockKey(ctx context.Context, key string) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return context.WithValue(ctx, keyLockKey, key), nil
}

// LockKey 从 context 提取锁 key，不存在返回空字符串。
func LockKey(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(keyLockKey).(string); ok {
		return v
	}
	return ""
}

// RequireLockKey 从 context 获取锁 key，不存在则返回 ErrMissingLockKey。
func RequireLockKey(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", ErrNilContext
	}
	v := LockKey(ctx)
	if v == "" {
		return "", ErrMissingLockKey
	}
	return v, nil
}
