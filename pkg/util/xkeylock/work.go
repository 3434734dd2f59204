package xkeylock

import (
	"context"
	"fmt"
)

// DoneFunc 工作单元的完成通知。每个工作单元只有第一次调用生效。
type DoneFunc func(value any, err error)

// Callback 接收一次获取的最终结果，每次获取恰好调用一次。
type Callback func(value any, err error)

// Work 在锁内执行的工作单元。
//
// Run 由派发 goroutine 同步调用，实现可以同步或异步地调用 done。
// done 之前锁一直被持有。
type Work interface {
	Run(ctx context.Context, done DoneFunc)
}

// Func 返回结果的工作单元，在独立 goroutine 中执行。
// 返回值若实现了 [Future]，引擎等待它结算并以其结果作为本次工作的结果。
type Func func(ctx context.Context) (any, error)

// Run 实现 Work。
func (f Func) Run(ctx context.Context, done DoneFunc) {
	go func() {
		done(f.call(ctx))
	}()
}

// call 执行 f 并等待其返回的 Future。两处的 panic 都转为 ErrWorkPanic。
func (f Func) call(ctx context.Context) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("%w: %v", ErrWorkPanic, r)
		}
	}()
	v, err = f(ctx)
	if fut, ok := v.(Future); ok && err == nil {
		return fut.Wait(context.WithoutCancel(ctx))
	}
	return v, err
}

// TaskFunc 接收完成通知的工作单元，在派发 goroutine 中同步调用。
type TaskFunc func(ctx context.Context, done DoneFunc)

// Run 实现 Work。
func (f TaskFunc) Run(ctx context.Context, done DoneFunc) {
	f(ctx, done)
}

func isNilWork(w Work) bool {
	switch f := w.(type) {
	case nil:
		return true
	case Func:
		return f == nil
	case TaskFunc:
		return f == nil
	}
	return false
}
