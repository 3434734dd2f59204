package main

import (
	"context"
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/urfave/cli/v3"

	"github.com/omeyang/xlockkit/pkg/config/xconf"
	"github.com/omeyang/xlockkit/pkg/observability/xlog"
	"github.com/omeyang/xlockkit/pkg/util/xkeylock"
)

func createSimulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "运行合成负载并校验互斥",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "keys", Usage: "key 数量", Value: 8},
			&cli.IntFlag{Name: "workers", Usage: "并发提交者数量", Value: 16},
			&cli.IntFlag{Name: "tasks", Usage: "每轮任务总数", Value: 1000},
			&cli.DurationFlag{Name: "hold", Usage: "每个任务持有锁的时长", Value: 2 * time.Millisecond},
			&cli.DurationFlag{Name: "timeout", Usage: "排队超时，覆盖配置文件"},
			&cli.IntFlag{Name: "max-pending", Usage: "每个 key 最大排队数，覆盖配置文件"},
			&cli.FloatFlag{Name: "skip-ratio", Usage: "插队请求比例 [0,1]"},
			&cli.BoolFlag{Name: "batch", Usage: "每个任务同时持有相邻两个 key"},
			&cli.BoolFlag{Name: "reentrant", Usage: "开启可重入，任务内嵌套获取同一 key"},
			&cli.BoolFlag{Name: "watch", Usage: "持续运行，配置文件变更后以新配置继续"},
			&cli.DurationFlag{Name: "interval", Usage: "--watch 模式下两轮之间的间隔", Value: time.Second},
			&cli.BoolFlag{Name: "metrics", Usage: "输出 OpenTelemetry 指标"},
		},
		Action: cmdSimulate,
	}
}

func createConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "输出生效的引擎配置（YAML）",
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, _, err := loadEngineConfig(cmd)
			if err != nil {
				return err
			}
			out, err := yaml.Parser().Marshal(map[string]any{
				configSection: map[string]any{
					"timeout":     cfg.Timeout.String(),
					"max_pending": cfg.MaxPending,
					"reentrant":   cfg.Reentrant,
					"shard_count": cfg.ShardCount,
					"max_keys":    cfg.MaxKeys,
				},
			})
			if err != nil {
				return err
			}
			_, err = cmd.Root().Writer.Write(out)
			return err
		},
	}
}

// loadEngineConfig 读取配置文件并以命令行参数覆盖。
// 未指定配置文件时返回默认配置，xconf.Config 为 nil。
func loadEngineConfig(cmd *cli.Command) (xkeylock.Config, xconf.Config, error) {
	var src xconf.Config
	if path := cmd.String("config"); path != "" {
		var err error
		if src, err = xconf.New(path); err != nil {
			return xkeylock.Config{}, nil, err
		}
	}
	cfg, err := xkeylock.LoadConfig(src, configSection)
	if err != nil {
		return xkeylock.Config{}, nil, err
	}
	applyFlagOverrides(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return xkeylock.Config{}, nil, usagef("%v", err)
	}
	return cfg, src, nil
}

func applyFlagOverrides(cmd *cli.Command, cfg *xkeylock.Config) {
	if cmd.IsSet("timeout") {
		cfg.Timeout = cmd.Duration("timeout")
	}
	if cmd.IsSet("max-pending") {
		cfg.MaxPending = cmd.Int("max-pending")
	}
	if cmd.IsSet("reentrant") {
		cfg.Reentrant = cmd.Bool("reentrant")
	}
}

// buildLogger 按全局参数构建日志。
func buildLogger(cmd *cli.Command) (xlog.LoggerWithLevel, func() error, error) {
	b := xlog.New().
		SetOutput(cmd.Root().ErrWriter).
		SetLevelString(cmd.String("log-level")).
		SetFormat(cmd.String("log-format"))
	if path := cmd.String("log-file"); path != "" {
		b = b.SetRotation(path, xlog.RotationConfig{})
	}
	logger, cleanup, err := b.Build()
	if err != nil {
		return nil, nil, usagef("%v", err)
	}
	return logger, cleanup, nil
}

func workloadFromFlags(cmd *cli.Command) (workload, error) {
	w := workload{
		keys:      cmd.Int("keys"),
		workers:   cmd.Int("workers"),
		tasks:     cmd.Int("tasks"),
		hold:      cmd.Duration("hold"),
		skipRatio: cmd.Float("skip-ratio"),
		batch:     cmd.Bool("batch"),
		reentrant: cmd.Bool("reentrant"),
	}
	switch {
	case w.keys <= 0:
		return w, usagef("--keys must be positive, got %d", w.keys)
	case w.workers <= 0:
		return w, usagef("--workers must be positive, got %d", w.workers)
	case w.tasks <= 0:
		return w, usagef("--tasks must be positive, got %d", w.tasks)
	case w.hold < 0:
		return w, usagef("--hold must not be negative, got %s", w.hold)
	case w.skipRatio < 0 || w.skipRatio > 1:
		return w, usagef("--skip-ratio must be within [0,1], got %v", w.skipRatio)
	case w.batch && w.keys < 2:
		return w, usagef("--batch needs at least 2 keys")
	}
	return w, nil
}

func printSummary(cmd *cli.Command, round int, s summary) {
	out := cmd.Root().Writer
	fmt.Fprintf(out, "round %d: elapsed=%s submitted=%d completed=%d failed=%d timeouts=%d overflows=%d canceled=%d violations=%d\n",
		round, s.elapsed.Round(time.Millisecond), s.submitted, s.completed, s.failed, s.timeouts, s.overflows, s.canceled, s.violations)
}
