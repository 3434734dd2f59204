package xkeylock

import (
	"context"
	"fmt"
)

func (l *keyLockImpl) AcquireMany(ctx context.Context, keys []string, w Work, opts ...AcquireOption) (Future, error) {
	p := l.opts.promiseFactory()
	if err := l.acquireMany(ctx, keys, w, promiseBridge(p), opts); err != nil {
		return nil, err
	}
	return p, nil
}

func (l *keyLockImpl) AcquireManyFunc(ctx context.Context, keys []string, w Work, cb Callback, opts ...AcquireOption) error {
	if cb == nil {
		return ErrNilCallback
	}
	return l.acquireMany(ctx, keys, w, callbackBridge(cb), opts)
}

// acquireMany 从内向外构造获取链：每一环在持有 keys[i] 时获取 keys[i+1]，
// 最内层执行 work，结果沿链逐层返回。
func (l *keyLockImpl) acquireMany(ctx context.Context, keys []string, work Work, b *bridge, opts []AcquireOption) error {
	if err := l.checkArgs(ctx, work); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k == "" {
			return ErrInvalidKey
		}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, k)
		}
		seen[k] = struct{}{}
	}

	if len(keys) == 0 {
		l.dispatch(&waiter{
			l:      l,
			ctx:    ctx,
			work:   work,
			bridge: b,
			state:  stateRunning,
		})
		return nil
	}

	chain := work
	for i := len(keys) - 1; i >= 1; i-- {
		key, inner := keys[i], chain
		chain = TaskFunc(func(ctx context.Context, done DoneFunc) {
			if err := l.acquire(ctx, key, inner, callbackBridge(Callback(done)), opts); err != nil {
				done(nil, err)
			}
		})
	}
	return l.acquire(ctx, keys[0], chain, b, opts)
}
