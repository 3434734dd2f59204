package xkeylock

import "errors"

// 同步返回的错误。
var (
	// ErrNilWork 工作单元为 nil。
	ErrNilWork = errors.New("xkeylock: nil work")

	// ErrInvalidKey key 为空字符串。
	ErrInvalidKey = errors.New("xkeylock: invalid key")

	// ErrNilCallback AcquireFunc 的回调为 nil。
	ErrNilCallback = errors.New("xkeylock: nil callback")

	// ErrClosed Locker 已关闭。Close 后的获取请求同步返回此错误，
	// 关闭时仍在排队的等待者以此错误结算。
	ErrClosed = errors.New("xkeylock: closed")

	// ErrMaxKeysExceeded 已达到最大 key 数量限制。
	ErrMaxKeysExceeded = errors.New("xkeylock: max keys exceeded")

	// ErrDuplicateKey 批量获取的 key 列表存在重复。
	ErrDuplicateKey = errors.New("xkeylock: duplicate key in batch")

	// ErrInvalidShardCount 分片数不是正的 2 的幂或超过上限。
	ErrInvalidShardCount = errors.New("xkeylock: invalid shard count")
)

// 通过回调或 Future 交付的错误。
var (
	// ErrQueueOverflow 等待队列已满。
	ErrQueueOverflow = errors.New("xkeylock: too many pending tasks in queue")

	// ErrTimeout 排队超时。
	ErrTimeout = errors.New("xkeylock: async-lock timed out in queue")

	// ErrWorkPanic 工作单元 panic，原始值包含在错误信息中。
	ErrWorkPanic = errors.New("xkeylock: work panicked")
)
