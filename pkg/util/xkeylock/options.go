package xkeylock

import (
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xlockkit/pkg/observability/xlog"
)

const (
	defaultShardCount = 32
	maxShardCount     = 1 << 16 // 65536

	// DefaultMaxPending 每个 key 默认允许的最大排队数。
	DefaultMaxPending = 1000

	// UnlimitedPending 不限制排队数。
	UnlimitedPending = math.MaxInt

	// NoTimeout 传给 WithTimeout 时显式关闭本次获取的排队超时，忽略引擎默认值。
	NoTimeout time.Duration = -1
)

// Option 定义 Locker 可选配置。
type Option func(*options)

type options struct {
	defaultTimeout time.Duration
	maxPending     int
	reentrant      bool
	promiseFactory PromiseFactory
	maxKeys        int
	shardCount     int
	shardMask      uint64 // validate() 计算，供 getShard 使用
	logger         xlog.Logger
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
}

func defaultOptions() options {
	return options{
		maxPending: DefaultMaxPending,
		shardCount: defaultShardCount,
	}
}

// WithDefaultTimeout 设置默认排队超时。d <= 0 表示不超时（默认）。
func WithDefaultTimeout(d time.Duration) Option {
	if d < 0 {
		d = 0
	}
	return func(o *options) {
		o.defaultTimeout = d
	}
}

// WithDefaultMaxPending 设置每个 key 默认的最大排队数。n <= 0 时使用 DefaultMaxPending。
func WithDefaultMaxPending(n int) Option {
	if n <= 0 {
		n = DefaultMaxPending
	}
	return func(o *options) {
		o.maxPending = n
	}
}

// WithReentrant 开启可重入：调用方 context 携带的 correlation ID 与当前持有者一致时直接执行。
// 调用方没有 correlation ID 时引擎会生成一个并注入工作单元的 context。
func WithReentrant(enable bool) Option {
	return func(o *options) {
		o.reentrant = enable
	}
}

// WithPromiseFactory 替换 Acquire/AcquireMany 使用的 Promise 实现。nil 表示默认实现。
func WithPromiseFactory(f PromiseFactory) Option {
	return func(o *options) {
		o.promiseFactory = f
	}
}

// WithMaxKeys 设置最大 key 数量。
// 达到上限时，需要创建新 key 的获取请求返回 [ErrMaxKeysExceeded]。
// n <= 0 表示不限制（默认）。
func WithMaxKeys(n int) Option {
	if n < 0 {
		n = 0
	}
	return func(o *options) {
		o.maxKeys = n
	}
}

// WithShardCount 设置分片数量。
// n 必须为正整数且为 2 的幂，上限 65536，否则 New 返回错误。默认 32。
func WithShardCount(n int) Option {
	return func(o *options) {
		o.shardCount = n
	}
}

// WithLogger 设置日志记录器，默认不输出。
func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMeterProvider 启用 OpenTelemetry 指标。
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = mp
	}
}

// WithTracerProvider 设置 TracerProvider，nil 时使用全局 provider。
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

func (o *options) validate() error {
	sc := o.shardCount
	if sc <= 0 || sc > maxShardCount || sc&(sc-1) != 0 {
		return fmt.Errorf("%w: must be a positive power of 2 (max %d), got %d",
			ErrInvalidShardCount, maxShardCount, sc)
	}
	o.shardMask = uint64(sc - 1)
	if o.promiseFactory == nil {
		o.promiseFactory = NewPromise
	}
	if o.logger == nil {
		o.logger = xlog.Nop()
	}
	return nil
}

// AcquireOption 单次获取的配置。
type AcquireOption func(*acquireOptions)

type acquireOptions struct {
	timeout    time.Duration
	skipQueue  bool
	maxPending int
}

// WithTimeout 设置本次获取的排队超时。
// 0 沿用引擎默认值，[NoTimeout] 显式关闭。超时只作用于排队阶段，不中断已开始的工作。
func WithTimeout(d time.Duration) AcquireOption {
	return func(o *acquireOptions) {
		switch {
		case d > 0:
			o.timeout = d
		case d < 0:
			o.timeout = 0
		}
	}
}

// WithSkipQueue 插入队首。仍在当前持有者之后执行。
func WithSkipQueue() AcquireOption {
	return func(o *acquireOptions) {
		o.skipQueue = true
	}
}

// WithMaxPending 设置本次获取可接受的最大排队数，n <= 0 沿用引擎默认值。
// 计数包含已超时或已取消、尚未被释放流程跳过的等待者，见 Locker.Pending。
func WithMaxPending(n int) AcquireOption {
	return func(o *acquireOptions) {
		if n > 0 {
			o.maxPending = n
		}
	}
}

func (o *options) acquireOptions(opts []AcquireOption) acquireOptions {
	ao := acquireOptions{
		timeout:    o.defaultTimeout,
		maxPending: o.maxPending,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&ao)
		}
	}
	return ao
}
