// Package xrun 基于 errgroup 管理一组长期运行的任务。
//
// 任一任务返回错误、父 context 取消或收到系统信号时，其余任务都会收到取消信号。
// 信号退出时 Wait 返回 *SignalError，可用 errors.Is(err, ErrSignal) 判断。
//
//	err := xrun.Run(ctx, []xrun.Option{xrun.WithLogger(logger)},
//		watcher.Run,
//		xrun.Ticker(time.Second, true, runRound),
//	)
package xrun
