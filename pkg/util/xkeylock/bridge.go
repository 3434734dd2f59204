package xkeylock

import "sync/atomic"

// bridge 把一次获取的结果交付给回调或 Promise，至多一次。
type bridge struct {
	settled atomic.Bool
	cb      Callback
	promise Promise
}

func callbackBridge(cb Callback) *bridge {
	return &bridge{cb: cb}
}

func promiseBridge(p Promise) *bridge {
	return &bridge{promise: p}
}

// settle 返回 false 表示已经交付过。
func (b *bridge) settle(value any, err error) bool {
	if !b.settled.CompareAndSwap(false, true) {
		return false
	}
	switch {
	case b.promise == nil:
		b.cb(value, err)
	case err != nil:
		b.promise.Reject(err)
	default:
		b.promise.Resolve(value)
	}
	return true
}
