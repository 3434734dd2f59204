package xkeylock

import (
	"context"
	"fmt"
)

// Do 在 key 的锁内执行 fn 并等待结果。
// ctx 结束时 Do 立即返回 ctx.Err()；若 fn 已开始，它仍会执行到结束。
func Do[T any](ctx context.Context, l Locker, key string, fn func(ctx context.Context) (T, error), opts ...AcquireOption) (T, error) {
	var zero T
	if fn == nil {
		return zero, ErrNilWork
	}
	fut, err := l.Acquire(ctx, key, wrap(fn), opts...)
	if err != nil {
		return zero, err
	}
	return await[T](ctx, fut)
}

// DoMany 与 Do 相同，按顺序持有 keys 中的全部 key。
func DoMany[T any](ctx context.Context, l Locker, keys []string, fn func(ctx context.Context) (T, error), opts ...AcquireOption) (T, error) {
	var zero T
	if fn == nil {
		return zero, ErrNilWork
	}
	fut, err := l.AcquireMany(ctx, keys, wrap(fn), opts...)
	if err != nil {
		return zero, err
	}
	return await[T](ctx, fut)
}

func wrap[T any](fn func(ctx context.Context) (T, error)) Func {
	return func(ctx context.Context) (any, error) {
		return fn(ctx)
	}
}

func await[T any](ctx context.Context, fut Future) (T, error) {
	var zero T
	v, err := fut.Wait(ctx)
	if err != nil || v == nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("xkeylock: unexpected result type %T", v)
	}
	return t, nil
}
