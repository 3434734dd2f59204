package xkeylock

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xlockkit/pkg/context/xctx"
	"github.com/omeyang/xlockkit/pkg/observability/xlog"
)

// keyLockImpl 是 Locker 的分片实现。
type keyLockImpl struct {
	shards   []shard
	mask     uint64
	opts     options
	closed   atomic.Bool
	keyCount atomic.Int64
	seq      atomic.Uint64

	logger  xlog.Logger
	metrics *metrics
	tracer  trace.Tracer
}

type shard struct {
	mu     sync.Mutex
	states map[string]*lockState
}

// lockState 一个 key 的锁状态，不存在即空闲。
type lockState struct {
	queue  []*waiter
	holder *waiter
	token  string
}

var _ Locker = (*keyLockImpl)(nil)

func newKeyLockImpl(o options) (*keyLockImpl, error) {
	shards := make([]shard, o.shardCount)
	for i := range shards {
		shards[i].states = make(map[string]*lockState)
	}
	l := &keyLockImpl{
		shards: shards,
		mask:   o.shardMask,
		opts:   o,
		logger: o.logger,
		tracer: getTracer(o.tracerProvider),
	}
	m, err := newMetrics(o.meterProvider, l.Len)
	if err != nil {
		return nil, fmt.Errorf("xkeylock: init metrics: %w", err)
	}
	l.metrics = m
	return l, nil
}

func (l *keyLockImpl) getShard(key string) *shard {
	return &l.shards[xxhash.Sum64String(key)&l.mask]
}

// reserveKey 为新 key 占用计数。调用方持有分片锁。
func (l *keyLockImpl) reserveKey() error {
	if l.opts.maxKeys <= 0 {
		l.keyCount.Add(1)
		return nil
	}
	// CAS 严格限制 key 数量，避免跨分片并发突破上限。
	for {
		cur := l.keyCount.Load()
		if cur >= int64(l.opts.maxKeys) {
			return ErrMaxKeysExceeded
		}
		if l.keyCount.CompareAndSwap(cur, cur+1) {
			return nil
		}
	}
}

func (l *keyLockImpl) Acquire(ctx context.Context, key string, w Work, opts ...AcquireOption) (Future, error) {
	p := l.opts.promiseFactory()
	if err := l.acquire(ctx, key, w, promiseBridge(p), opts); err != nil {
		return nil, err
	}
	return p, nil
}

func (l *keyLockImpl) AcquireFunc(ctx context.Context, key string, w Work, cb Callback, opts ...AcquireOption) error {
	if cb == nil {
		return ErrNilCallback
	}
	return l.acquire(ctx, key, w, callbackBridge(cb), opts)
}

func (l *keyLockImpl) checkArgs(ctx context.Context, w Work) error {
	if ctx == nil {
		panic("xkeylock: nil Context")
	}
	if isNilWork(w) {
		return ErrNilWork
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.closed.Load() {
		return ErrClosed
	}
	return nil
}

func (l *keyLockImpl) acquire(ctx context.Context, key string, work Work, b *bridge, opts []AcquireOption) error {
	if err := l.checkArgs(ctx, work); err != nil {
		return err
	}
	if key == "" {
		return ErrInvalidKey
	}
	ao := l.opts.acquireOptions(opts)

	token := xctx.CorrelationID(ctx)
	if l.opts.reentrant && token == "" {
		var err error
		if ctx, token, err = xctx.EnsureCorrelationID(ctx); err != nil {
			return err
		}
	}
	ctx, err := xctx.WithLockKey(ctx, key)
	if err != nil {
		return err
	}
	seq := l.seq.Add(1)
	ctx, span := startSpan(ctx, l.tracer, key, seq)

	w := &waiter{
		l:      l,
		key:    key,
		ctx:    ctx,
		work:   work,
		bridge: b,
		token:  token,
		seq:    seq,
		span:   span,
	}

	s := l.getShard(key)
	s.mu.Lock()
	if l.closed.Load() {
		s.mu.Unlock()
		endSpan(span, ErrClosed)
		return ErrClosed
	}

	st, ok := s.states[key]
	if !ok {
		if err := l.reserveKey(); err != nil {
			s.mu.Unlock()
			endSpan(span, err)
			return err
		}
		st = &lockState{holder: w, token: token}
		s.states[key] = st
		w.locked = true
		w.state = stateRunning
		s.mu.Unlock()

		l.metrics.recordAcquire(ctx, outcomeImmediate)
		l.dispatch(w)
		return nil
	}

	if l.opts.reentrant && token != "" && token == st.token {
		w.state = stateRunning
		s.mu.Unlock()

		l.metrics.recordAcquire(ctx, outcomeReentrant)
		l.dispatch(w)
		return nil
	}

	if len(st.queue) >= ao.maxPending {
		s.mu.Unlock()

		l.metrics.recordAcquire(ctx, outcomeOverflow)
		l.logger.Debug(ctx, "xkeylock: queue overflow", slog.String("key", key), slog.Int("max_pending", ao.maxPending))
		l.deliver(w, nil, fmt.Errorf("%w: key %q", ErrQueueOverflow, key))
		return nil
	}

	w.state = stateQueued
	w.enqueuedAt = time.Now()
	if ao.skipQueue {
		st.queue = slices.Insert(st.queue, 0, w)
	} else {
		st.queue = append(st.queue, w)
	}
	if ao.timeout > 0 {
		w.timer = time.AfterFunc(ao.timeout, func() {
			l.evict(w, fmt.Errorf("%w: key %q after %s", ErrTimeout, key, ao.timeout), reasonTimeout)
		})
	}
	if ctx.Done() != nil {
		w.stopCtx = context.AfterFunc(ctx, func() {
			l.evict(w, ctx.Err(), reasonCanceled)
		})
	}
	s.mu.Unlock()

	l.metrics.recordAcquire(ctx, outcomeQueued)
	return nil
}

// evict 把仍在排队的等待者标记为已结算并交付 err。
// 已结算的等待者留在队列中，由 release 跳过。
func (l *keyLockImpl) evict(w *waiter, err error, reason string) {
	s := l.getShard(w.key)
	s.mu.Lock()
	if w.state != stateQueued {
		s.mu.Unlock()
		return
	}
	w.state = stateSettled
	w.disarm()
	s.mu.Unlock()

	l.metrics.recordEviction(w.ctx, reason)
	l.logger.Debug(w.ctx, "xkeylock: waiter evicted", slog.String("key", w.key), slog.String("reason", reason))
	l.deliver(w, nil, err)
}

// dispatch 依次执行 w 以及它同步完成后接手的后续等待者。
func (l *keyLockImpl) dispatch(w *waiter) {
	for w != nil {
		w = l.runOne(w)
	}
}

// runOne 执行 w。若 w 在 Run 返回前已完成，结算并返回下一个要执行的等待者。
func (l *keyLockImpl) runOne(w *waiter) *waiter {
	w.startedAt = time.Now()
	if !w.enqueuedAt.IsZero() {
		l.metrics.recordWait(w.ctx, w.startedAt.Sub(w.enqueuedAt))
	}

	w.mu.Lock()
	w.inRun = true
	w.mu.Unlock()

	l.invoke(w)

	w.mu.Lock()
	w.inRun = false
	finished := w.finished
	w.mu.Unlock()

	if finished {
		return l.finish(w)
	}
	return nil
}

func (l *keyLockImpl) invoke(w *waiter) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrWorkPanic, r)
			l.logger.Error(w.ctx, "xkeylock: work panicked", slog.String("key", w.key), xlog.Err(err))
			w.complete(nil, err)
		}
	}()
	w.work.Run(w.ctx, w.complete)
}

// finish 释放 w 持有的 key，交付结果，返回接手的等待者。
func (l *keyLockImpl) finish(w *waiter) *waiter {
	var next *waiter
	if w.locked {
		next = l.release(w.key)
		l.metrics.recordHold(w.ctx, time.Since(w.startedAt))
	}
	l.deliver(w, w.value, w.err)
	return next
}

// release 清除持有者，把第一个仍在排队的等待者安装为持有者并返回；
// 没有时删除 key。
func (l *keyLockImpl) release(key string) *waiter {
	s := l.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[key]
	if !ok {
		return nil
	}
	st.holder = nil
	st.token = ""
	for len(st.queue) > 0 {
		next := st.queue[0]
		st.queue[0] = nil
		st.queue = st.queue[1:]
		if next.state != stateQueued {
			continue
		}
		next.state = stateRunning
		next.locked = true
		next.disarm()
		st.holder = next
		st.token = next.token
		return next
	}
	delete(s.states, key)
	l.keyCount.Add(-1)
	return nil
}

// deliver 交付结果并结束 span。回调 panic 被恢复，避免中断派发循环。
func (l *keyLockImpl) deliver(w *waiter, value any, err error) {
	defer endSpan(w.span, err)
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error(w.ctx, "xkeylock: callback panicked", slog.String("key", w.key), slog.Any("panic", r))
		}
	}()
	w.bridge.settle(value, err)
}

func (l *keyLockImpl) IsBusy(key string) bool {
	s := l.getShard(key)
	s.mu.Lock()
	_, ok := s.states[key]
	s.mu.Unlock()
	return ok
}

func (l *keyLockImpl) Busy() bool {
	return l.keyCount.Load() > 0
}

func (l *keyLockImpl) Len() int {
	return int(l.keyCount.Load())
}

func (l *keyLockImpl) Keys() []string {
	keys := make([]string, 0, l.Len())
	for i := range l.shards {
		s := &l.shards[i]
		s.mu.Lock()
		for k := range s.states {
			keys = append(keys, k)
		}
		s.mu.Unlock()
	}
	return keys
}

func (l *keyLockImpl) Pending(key string) int {
	s := l.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[key]
	if !ok {
		return 0
	}
	n := 0
	for _, w := range st.queue {
		if w.state == stateQueued {
			n++
		}
	}
	return n
}

// Close 拒绝新的获取请求，以 ErrClosed 结算所有排队中的等待者。
// 正在执行的工作不受影响，完成后照常释放。重复调用返回 ErrClosed。
func (l *keyLockImpl) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	var evicted []*waiter
	for i := range l.shards {
		s := &l.shards[i]
		s.mu.Lock()
		for _, st := range s.states {
			for _, w := range st.queue {
				if w.state == stateQueued {
					w.state = stateSettled
					w.disarm()
					evicted = append(evicted, w)
				}
			}
		}
		s.mu.Unlock()
	}
	for _, w := range evicted {
		l.metrics.recordEviction(w.ctx, reasonClosed)
		l.deliver(w, nil, ErrClosed)
	}
	l.metrics.unregister()
	return nil
}
