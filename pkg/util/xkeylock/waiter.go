package xkeylock

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type waiterState uint8

const (
	stateQueued waiterState = iota
	stateRunning
	stateSettled
)

// waiter 一次获取请求。state/timer/stopCtx 受所在分片锁保护。
type waiter struct {
	l      *keyLockImpl
	key    string
	ctx    context.Context
	work   Work
	bridge *bridge
	token  string
	seq    uint64

	// locked 为 false 表示可重入执行或无 key 执行，完成时不释放。
	locked bool

	state      waiterState
	timer      *time.Timer
	stopCtx    func() bool
	enqueuedAt time.Time
	startedAt  time.Time
	span       trace.Span

	mu       sync.Mutex
	inRun    bool
	finished bool

	doneOnce atomic.Bool
	value    any
	err      error
}

// disarm 停止超时与取消守卫。调用方持有分片锁。
func (w *waiter) disarm() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.stopCtx != nil {
		w.stopCtx()
		w.stopCtx = nil
	}
}

// complete 是交给工作单元的 DoneFunc。
// Run 尚未返回时只做标记，由 runOne 接着结算；否则在当前 goroutine 结算并继续派发。
func (w *waiter) complete(value any, err error) {
	if !w.doneOnce.CompareAndSwap(false, true) {
		w.l.logger.Warn(w.ctx, "xkeylock: done called more than once", slog.String("key", w.key))
		return
	}
	w.value, w.err = value, err

	w.mu.Lock()
	if w.inRun {
		w.finished = true
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()
	w.l.dispatch(w.l.finish(w))
}
