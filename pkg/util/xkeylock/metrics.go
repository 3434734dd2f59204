package xkeylock

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// 指标不携带 key 标签，避免业务 key 造成高基数。
const (
	metricNameAcquireTotal  = "xkeylock.acquire.total"
	metricNameEvictionTotal = "xkeylock.eviction.total"
	metricNameWaitDuration  = "xkeylock.wait.duration"
	metricNameHoldDuration  = "xkeylock.hold.duration"
	metricNameKeys          = "xkeylock.keys"
)

// 获取结果
const (
	outcomeImmediate = "immediate"
	outcomeReentrant = "reentrant"
	outcomeQueued    = "queued"
	outcomeOverflow  = "overflow"
)

// 驱逐原因
const (
	reasonTimeout  = "timeout"
	reasonCanceled = "canceled"
	reasonClosed   = "closed"
)

var durationBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// metrics nil 接收者安全，未配置 MeterProvider 时为 nil。
type metrics struct {
	acquireTotal  metric.Int64Counter
	evictionTotal metric.Int64Counter
	waitDuration  metric.Float64Histogram
	holdDuration  metric.Float64Histogram
	registration  metric.Registration
}

func newMetrics(mp metric.MeterProvider, keys func() int) (*metrics, error) {
	if mp == nil {
		return nil, nil
	}
	meter := mp.Meter(tracerName, metric.WithInstrumentationVersion(instrumentationVersion))

	m := &metrics{}
	var err error
	if m.acquireTotal, err = meter.Int64Counter(metricNameAcquireTotal,
		metric.WithDescription("获取请求次数"), metric.WithUnit("{acquire}")); err != nil {
		return nil, err
	}
	if m.evictionTotal, err = meter.Int64Counter(metricNameEvictionTotal,
		metric.WithDescription("排队中被驱逐的等待者数"), metric.WithUnit("{waiter}")); err != nil {
		return nil, err
	}
	if m.waitDuration, err = meter.Float64Histogram(metricNameWaitDuration,
		metric.WithDescription("排队耗时"), metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...)); err != nil {
		return nil, err
	}
	if m.holdDuration, err = meter.Float64Histogram(metricNameHoldDuration,
		metric.WithDescription("持有耗时"), metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...)); err != nil {
		return nil, err
	}
	gauge, err := meter.Int64ObservableGauge(metricNameKeys,
		metric.WithDescription("活跃 key 数"), metric.WithUnit("{key}"))
	if err != nil {
		return nil, err
	}
	if m.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(gauge, int64(keys()))
		return nil
	}, gauge); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *metrics) recordAcquire(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.acquireTotal.Add(context.WithoutCancel(ctx), 1,
		metric.WithAttributes(attribute.String(attrOutcome, outcome)))
}

func (m *metrics) recordEviction(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.evictionTotal.Add(context.WithoutCancel(ctx), 1,
		metric.WithAttributes(attribute.String(attrReason, reason)))
}

func (m *metrics) recordWait(ctx context.Context, d time.Duration) {
	if m == nil {
		return
	}
	m.waitDuration.Record(context.WithoutCancel(ctx), d.Seconds())
}

func (m *metrics) recordHold(ctx context.Context, d time.Duration) {
	if m == nil {
		return
	}
	m.holdDuration.Record(context.WithoutCancel(ctx), d.Seconds())
}

func (m *metrics) unregister() {
	if m == nil || m.registration == nil {
		return
	}
	_ = m.registration.Unregister() //nolint:errcheck // 关闭路径无可恢复处理
}
