package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xlockkit/pkg/config/xconf"
	"github.com/omeyang/xlockkit/pkg/lifecycle/xrun"
	"github.com/omeyang/xlockkit/pkg/observability/xlog"
	"github.com/omeyang/xlockkit/pkg/util/xkeylock"
)

type workload struct {
	keys      int
	workers   int
	tasks     int
	hold      time.Duration
	skipRatio float64
	batch     bool
	reentrant bool
}

type summary struct {
	elapsed    time.Duration
	submitted  int64
	completed  int64
	failed     int64
	timeouts   int64
	overflows  int64
	canceled   int64
	violations int64
}

// counters 并发累计的统计
type counters struct {
	submitted, completed, failed, timeouts, overflows, canceled, violations atomic.Int64
}

func (c *counters) record(err error) {
	switch {
	case err == nil:
		c.completed.Add(1)
	case errors.Is(err, xkeylock.ErrTimeout):
		c.timeouts.Add(1)
	case errors.Is(err, xkeylock.ErrQueueOverflow):
		c.overflows.Add(1)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, xkeylock.ErrClosed):
		c.canceled.Add(1)
	default:
		c.failed.Add(1)
	}
}

func cmdSimulate(ctx context.Context, cmd *cli.Command) error {
	w, err := workloadFromFlags(cmd)
	if err != nil {
		return err
	}
	cfg, src, err := loadEngineConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Bool("watch") && src == nil {
		return usagef("--watch requires --config")
	}
	logger, cleanup, err := buildLogger(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	var (
		mp     *sdkmetric.MeterProvider
		reader *sdkmetric.ManualReader
	)
	if cmd.Bool("metrics") {
		reader = sdkmetric.NewManualReader()
		mp = sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer func() { _ = mp.Shutdown(context.WithoutCancel(ctx)) }()
	}

	s := &simulator{
		cmd:    cmd,
		w:      w,
		logger: logger,
		mp:     mp,
	}
	s.cfg.Store(&cfg)

	var violations int64
	if cmd.Bool("watch") {
		violations, err = s.watch(ctx, src, cmd.Duration("interval"))
	} else {
		violations, err = s.round(ctx, 1)
	}
	if err != nil {
		return err
	}
	if reader != nil {
		if err := dumpMetrics(context.WithoutCancel(ctx), cmd.Root().Writer, reader); err != nil {
			return err
		}
	}
	if violations > 0 {
		logger.Error(ctx, "mutual exclusion violated", slog.Int64("violations", violations))
		return &exitError{code: 1}
	}
	return nil
}

type simulator struct {
	cmd    *cli.Command
	w      workload
	cfg    atomic.Pointer[xkeylock.Config]
	logger xlog.Logger
	mp     *sdkmetric.MeterProvider
}

// round 以当前配置新建引擎执行一轮负载，返回互斥违例数。
func (s *simulator) round(ctx context.Context, n int) (int64, error) {
	cfg := *s.cfg.Load()
	if s.w.reentrant {
		cfg.Reentrant = true
	}
	opts := append(cfg.Options(), xkeylock.WithLogger(s.logger))
	if s.mp != nil {
		opts = append(opts, xkeylock.WithMeterProvider(s.mp))
	}
	l, err := xkeylock.New(opts...)
	if err != nil {
		return 0, err
	}
	defer func() { _ = l.Close() }()

	sum, err := runWorkload(ctx, l, s.w)
	if err != nil {
		return 0, err
	}
	printSummary(s.cmd, n, sum)
	return sum.violations, nil
}

// watch 持续执行多轮直到 ctx 结束；配置文件变更后下一轮使用新配置。
func (s *simulator) watch(ctx context.Context, src xconf.Config, interval time.Duration) (int64, error) {
	watcher, err := xconf.Watch(src, func(c xconf.Config, err error) {
		if err != nil {
			s.logger.Warn(ctx, "config reload failed", xlog.Err(err))
			return
		}
		next, err := xkeylock.LoadConfig(c, configSection)
		if err != nil {
			s.logger.Warn(ctx, "invalid config ignored", xlog.Err(err))
			return
		}
		applyFlagOverrides(s.cmd, &next)
		s.cfg.Store(&next)
		s.logger.Info(ctx, "config reloaded", slog.Uint64("revision", c.Revision()))
	})
	if err != nil {
		return 0, err
	}

	var (
		violations atomic.Int64
		n          int
	)
	err = xrun.Run(ctx, []xrun.Option{
		xrun.WithName("simulate"),
		xrun.WithLogger(s.logger),
		xrun.WithoutSignalHandler(),
	},
		watcher.Run,
		xrun.Ticker(interval, true, func(ctx context.Context) error {
			n++
			v, err := s.round(ctx, n)
			if err != nil && ctx.Err() == nil {
				return err
			}
			violations.Add(v)
			return nil
		}),
	)
	return violations.Load(), err
}

// runWorkload 由 w.workers 个提交者共提交 w.tasks 个任务，
// 任务内检查同一 key 是否存在重叠执行。
func runWorkload(ctx context.Context, l xkeylock.Locker, w workload) (summary, error) {
	keys := make([]string, w.keys)
	for i := range keys {
		keys[i] = "sim:" + strconv.Itoa(i)
	}
	active := make([]atomic.Int32, w.keys)

	var c counters
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for worker := range w.workers {
		g.Go(func() error {
			for task := worker; task < w.tasks; task += w.workers {
				if gctx.Err() != nil {
					return nil
				}
				idx := task % w.keys
				held := []int{idx}
				if w.batch {
					// 相邻 key 按下标升序获取，保证全局顺序一致
					held = []int{min(idx, (idx+1)%w.keys), max(idx, (idx+1)%w.keys)}
				}
				err := submit(gctx, l, w, keys, held, active, &c)
				c.submitted.Add(1)
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary{}, err
	}
	return summary{
		elapsed:    time.Since(start),
		submitted:  c.submitted.Load(),
		completed:  c.completed.Load(),
		failed:     c.failed.Load(),
		timeouts:   c.timeouts.Load(),
		overflows:  c.overflows.Load(),
		canceled:   c.canceled.Load(),
		violations: c.violations.Load(),
	}, nil
}

// submit 提交一个任务并等待结果。只有同步错误（参数、关闭）才返回 error。
func submit(ctx context.Context, l xkeylock.Locker, w workload, keys []string, held []int,
	active []atomic.Int32, c *counters) error {
	var opts []xkeylock.AcquireOption
	if w.skipRatio > 0 && rand.Float64() < w.skipRatio { //nolint:gosec // 负载模拟无需密码学随机
		opts = append(opts, xkeylock.WithSkipQueue())
	}

	work := xkeylock.Func(func(ctx context.Context) (any, error) {
		for _, i := range held {
			if active[i].Add(1) > 1 {
				c.violations.Add(1)
			}
		}
		defer func() {
			for _, i := range held {
				active[i].Add(-1)
			}
		}()
		if w.reentrant {
			// 同一 correlation ID 下的嵌套获取立即执行
			if _, err := xkeylock.Do(ctx, l, keys[held[0]], func(context.Context) (struct{}, error) {
				return struct{}{}, nil
			}); err != nil {
				return nil, err
			}
		}
		if w.hold > 0 {
			time.Sleep(w.hold)
		}
		return nil, nil
	})

	names := make([]string, len(held))
	for i, idx := range held {
		names[i] = keys[idx]
	}
	fut, err := l.AcquireMany(ctx, names, work, opts...)
	if err != nil {
		if errors.Is(err, ctx.Err()) || errors.Is(err, xkeylock.ErrClosed) {
			c.record(err)
			return nil
		}
		return err
	}
	_, err = fut.Wait(context.WithoutCancel(ctx))
	c.record(err)
	return nil
}

// dumpMetrics 输出采集到的指标，按名称排序。
func dumpMetrics(ctx context.Context, out io.Writer, reader *sdkmetric.ManualReader) error {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return err
	}
	var lines []string
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			lines = append(lines, formatMetric(m)...)
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

func formatMetric(m metricdata.Metrics) []string {
	var lines []string
	switch data := m.Data.(type) {
	case metricdata.Sum[int64]:
		for _, dp := range data.DataPoints {
			lines = append(lines, fmt.Sprintf("%s%s %d", m.Name, formatAttrs(dp.Attributes.ToSlice()), dp.Value))
		}
	case metricdata.Gauge[int64]:
		for _, dp := range data.DataPoints {
			lines = append(lines, fmt.Sprintf("%s %d", m.Name, dp.Value))
		}
	case metricdata.Histogram[float64]:
		for _, dp := range data.DataPoints {
			lines = append(lines, fmt.Sprintf("%s count=%d sum=%.6fs", m.Name, dp.Count, dp.Sum))
		}
	}
	return lines
}

func formatAttrs(kvs []attribute.KeyValue) string {
	if len(kvs) == 0 {
		return ""
	}
	s := "{"
	for i, kv := range kvs {
		if i > 0 {
			s += ","
		}
		s += string(kv.Key) + "=" + kv.Value.Emit()
	}
	return s + "}"
}
