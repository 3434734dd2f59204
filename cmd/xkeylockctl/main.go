// xkeylockctl 是 xkeylock 引擎的命令行工具，用于在合成负载下验证配置与观察行为。
//
// 用法:
//
//	xkeylockctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config      配置文件路径（YAML/JSON，读取 keylock 节点）
//	--log-level       日志级别 (debug/info/warn/error，默认 info)
//	--log-format      日志格式 (text/json，默认 text)
//	--log-file        日志文件路径（按大小轮转），默认 stderr
//
// 命令:
//
//	simulate          运行合成负载，校验同一 key 下无重叠执行并输出统计
//	config            输出生效的引擎配置
//
// 退出码:
//
//	0: 执行成功
//	1: 执行失败或 simulate 检测到互斥违例
//	2: 参数错误
//
// 示例:
//
//	xkeylockctl simulate --keys 4 --tasks 2000 --hold 1ms
//	xkeylockctl -c keylock.yaml simulate --watch --metrics
//	xkeylockctl -c keylock.yaml config
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

// configSection 配置文件中引擎参数所在节点。
const configSection = "keylock"

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// exitError 命令已完成输出，只需设置退出码。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit code %d", e.code) }

// usageError 参数错误，退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// createApp 创建 CLI 应用。
func createApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xkeylockctl",
		Usage:     "xkeylock 引擎负载模拟与配置检查",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径（YAML/JSON）",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "日志级别 (debug/info/warn/error)",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "日志格式 (text/json)",
				Value: "text",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "日志文件路径，按大小轮转",
			},
		},
		Commands: []*cli.Command{
			createSimulateCommand(),
			createConfigCommand(),
		},
		// 禁止 urfave/cli 直接调用 os.Exit，由 run() 统一映射退出码。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(stderr, err)
			}
		},
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := createApp(stdout, stderr).Run(ctx, args)
	if err == nil {
		return 0
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
		return 2
	}
	// 框架产生的参数错误（未知 flag、非法取值、未知命令）同样返回 2，
	// 详情已由 flag 解析器或 ExitErrHandler 输出。
	if isCLIUsageError(err) {
		fmt.Fprintln(stderr, err)
		return 2
	}
	fmt.Fprintf(stderr, "错误: %v\n", err)
	return 1
}

func isCLIUsageError(err error) bool {
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		return true
	}
	msg := err.Error()
	for _, marker := range []string{
		"flag provided but not defined",
		"invalid value",
		"No help topic for",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
