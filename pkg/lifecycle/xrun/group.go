package xrun

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xlockkit/pkg/observability/xlog"
)

// Group 并发运行任务并协调关闭。Go 可并发调用，Wait 只应调用一次。
type Group struct {
	eg       *errgroup.Group
	ctx      context.Context
	causeCtx context.Context
	cancel   context.CancelCauseFunc
	opts     *groupOptions
}

// NewGroup 创建 Group，返回的 context 在任一任务出错或 Cancel 时取消。
func NewGroup(ctx context.Context, opts ...Option) (*Group, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	causeCtx, cancel := context.WithCancelCause(ctx)
	eg, egCtx := errgroup.WithContext(causeCtx)
	return &Group{eg: eg, ctx: egCtx, causeCtx: causeCtx, cancel: cancel, opts: o}, egCtx
}

// Go 以 name 启动任务，退出时记录日志。
func (g *Group) Go(name string, fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		attrs := []slog.Attr{slog.String("group", g.opts.name), slog.String("task", name)}
		g.opts.logger.Debug(g.ctx, "task starting", attrs...)
		err := fn(g.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			g.opts.logger.Warn(g.ctx, "task exited with error", append(attrs, xlog.Err(err))...)
		} else {
			g.opts.logger.Debug(g.ctx, "task stopped", attrs...)
		}
		return err
	})
}

// Wait 等待全部任务结束，返回第一个错误。
// 由 Cancel 或信号触发的关闭返回其 cause；父 context 取消或超时返回 nil。
func (g *Group) Wait() error {
	defer g.cancel(nil)

	err := g.eg.Wait()
	cause := context.Cause(g.causeCtx)
	explicit := g.causeCtx.Err() != nil && cause != nil &&
		!errors.Is(cause, context.Canceled) && !errors.Is(cause, context.DeadlineExceeded)

	switch {
	case errors.Is(err, context.Canceled) && g.causeCtx.Err() != nil:
		if explicit {
			return cause
		}
		return nil
	case err == nil && explicit:
		return cause
	}
	return err
}

// Cancel 以 cause 取消全部任务。
func (g *Group) Cancel(cause error) {
	g.cancel(cause)
}

// Run 运行 tasks 直到全部返回、任一出错、ctx 取消或收到信号。
func Run(ctx context.Context, opts []Option, tasks ...func(ctx context.Context) error) error {
	g, _ := NewGroup(ctx, opts...)

	stop := make(chan struct{})
	var sigDone chan struct{}
	if !g.opts.noSignal {
		sigs := g.opts.signals
		if len(sigs) == 0 {
			sigs = DefaultSignals()
		}
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, sigs...)
		sigDone = make(chan struct{})
		go func() {
			defer close(sigDone)
			defer signal.Stop(ch)
			select {
			case sig := <-ch:
				g.opts.logger.Info(g.ctx, "signal received", slog.String("signal", sig.String()))
				g.Cancel(&SignalError{Signal: sig})
			case <-stop:
			}
		}()
	}

	for i, task := range tasks {
		g.Go("task-"+strconv.Itoa(i), task)
	}
	err := g.Wait()
	close(stop)
	if sigDone != nil {
		<-sigDone
	}
	return err
}

// Ticker 返回按 interval 周期执行 fn 的任务，immediate 为 true 时先执行一次。
// fn 返回错误时任务结束并返回该错误。
func Ticker(interval time.Duration, immediate bool, fn func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if interval <= 0 {
			return ErrInvalidInterval
		}
		if fn == nil {
			return ErrNilFunc
		}
		if immediate {
			if err := fn(ctx); err != nil {
				return err
			}
		}
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
				if err := fn(ctx); err != nil {
					return err
				}
			}
		}
	}
}
