package xkeylock

import (
	"context"
	"io"
)

// Locker 提供基于 key 的进程内异步互斥。所有方法都是并发安全的。
//
// ctx 不得为 nil，否则 panic。ctx 已结束时同步返回 ctx.Err()；
// 排队期间被取消时，等待者以 ctx.Err() 结算。已开始的工作不会被中断。
type Locker interface {
	io.Closer

	// Acquire 在 key 的锁内执行 w，结果通过返回的 Future 交付。
	// 参数错误与 [ErrClosed]、[ErrMaxKeysExceeded] 同步返回；
	// 溢出、超时、取消与工作本身的错误通过 Future 交付。
	Acquire(ctx context.Context, key string, w Work, opts ...AcquireOption) (Future, error)

	// AcquireFunc 与 Acquire 相同，结果交付给 cb。cb 在释放 key 之后、
	// 下一个等待者开始之前调用。
	AcquireFunc(ctx context.Context, key string, w Work, cb Callback, opts ...AcquireOption) error

	// AcquireMany 按顺序嵌套获取 keys 后执行 w。keys 为空时直接执行 w。
	// 重复 key 同步返回 [ErrDuplicateKey]。
	AcquireMany(ctx context.Context, keys []string, w Work, opts ...AcquireOption) (Future, error)

	// AcquireManyFunc 与 AcquireMany 相同，结果交付给 cb。
	AcquireManyFunc(ctx context.Context, keys []string, w Work, cb Callback, opts ...AcquireOption) error

	// IsBusy 报告 key 是否被持有或有人等待。
	IsBusy(key string) bool

	// Busy 报告是否存在任何被持有或等待中的 key。
	Busy() bool

	// Len 返回当前活跃的 key 数量（单次原子读取，瞬时快照）。
	Len() int

	// Keys 返回当前活跃的 key 列表，仅用于调试。
	// 返回值是快照，不保证跨分片原子性。
	Keys() []string

	// Pending 返回 key 下仍在排队的等待者数量。
	// 已超时或已取消的等待者不计入，但在持有者释放前仍占用 maxPending 名额，
	// 因此 Pending 为 0 时新的获取仍可能收到 ErrQueueOverflow。
	Pending(key string) int
}

// New 创建一个新的 Locker 实例。
// 配置无效时返回错误（如分片数不是 2 的幂）。
func New(opts ...Option) (Locker, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return newKeyLockImpl(o)
}
