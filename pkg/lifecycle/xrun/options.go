package xrun

import (
	"os"
	"syscall"

	"github.com/omeyang/xlockkit/pkg/observability/xlog"
)

// Option 配置 Group。
type Option func(*groupOptions)

type groupOptions struct {
	name     string
	logger   xlog.Logger
	signals  []os.Signal
	noSignal bool
}

func defaultOptions() *groupOptions {
	return &groupOptions{
		name:   "xrun",
		logger: xlog.Nop(),
	}
}

// DefaultSignals 默认监听的信号。
func DefaultSignals() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM}
}

// WithName 设置日志中的 group 名称，空字符串忽略。
func WithName(name string) Option {
	return func(o *groupOptions) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger 设置日志记录器，nil 忽略。
func WithLogger(l xlog.Logger) Option {
	return func(o *groupOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSignals 设置 Run 监听的信号，空列表使用 DefaultSignals。
func WithSignals(sigs ...os.Signal) Option {
	return func(o *groupOptions) {
		o.signals = sigs
	}
}

// WithoutSignalHandler 禁用 Run 的信号监听。
func WithoutSignalHandler() Option {
	return func(o *groupOptions) {
		o.noSignal = true
	}
}
