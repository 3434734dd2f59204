package xkeylock

import (
	"context"
	"sync"
)

//go:generate mockgen -source=future.go -destination=mock_future_test.go -package=xkeylock

// Future 一次获取的最终结果。
type Future interface {
	// Done 在结果可用时关闭。
	Done() <-chan struct{}

	// Wait 等待结果。ctx 结束时返回 ctx.Err()，不影响本次获取本身。
	Wait(ctx context.Context) (any, error)
}

// Promise 可由引擎结算的 Future。引擎对每个 Promise 只调用一次 Resolve 或 Reject。
type Promise interface {
	Future
	Resolve(value any)
	Reject(err error)
}

// PromiseFactory 创建 Promise。
type PromiseFactory func() Promise

type promise struct {
	done  chan struct{}
	once  sync.Once
	value any
	err   error
}

var _ Promise = (*promise)(nil)

// NewPromise 返回基于 channel 的默认 Promise，首次结算生效。
func NewPromise() Promise {
	return &promise{done: make(chan struct{})}
}

func (p *promise) Done() <-chan struct{} { return p.done }

func (p *promise) Wait(ctx context.Context) (any, error) {
	select {
	case <-p.done:
		return p.value, p.err
	default:
	}
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *promise) Resolve(value any) {
	p.once.Do(func() {
		p.value = value
		close(p.done)
	})
}

func (p *promise) Reject(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}
