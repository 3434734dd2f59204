// Package xkeylock 提供基于 key 的进程内异步互斥。
//
// 调用方以任意字符串 key（"user:42"、"file:/tmp/x"）申请对某个资源的独占访问，
// 并提交一个工作单元。引擎保证同一 key 下任一时刻至多一个工作单元在执行，
// 其余按到达顺序排队。Acquire 从不阻塞调用方：结果通过回调或 [Future] 交付。
//
// # 获取流程
//
//  1. key 空闲：立即安装为持有者并执行。
//  2. 开启可重入且调用方 context 的 correlation ID 与持有者一致：立即执行，不排队、不重复加锁。
//  3. 队列长度已达 maxPending：交付 [ErrQueueOverflow]。
//  4. 否则入队（[WithSkipQueue] 时插入队首），按需启动超时与 ctx 取消守卫。
//
// 持有者完成后先释放 key（把下一个存活的等待者安装为持有者，或删除该 key），
// 再交付结果，最后执行下一个等待者。后续执行由显式循环驱动，
// 同步完成的长链不会增长调用栈。
//
// # 工作单元
//
//   - [Func]：返回 (value, error)，在独立 goroutine 中执行；返回值若为 [Future] 则等待其结果
//   - [TaskFunc]：接收 [DoneFunc]，在派发 goroutine 中同步调用，done 只生效一次
//
// 两种形式中的 panic 都会被恢复并以 [ErrWorkPanic] 交付。
//
// # 批量获取
//
// [Locker.AcquireMany] 按列表顺序嵌套获取：keys[0] 最外层、持有最久。
// 不同调用点以不一致的顺序批量获取可能死锁，顺序由调用方保证。
//
// # 并发模型
//
// 注册表按 xxhash 分片（默认 32），每个分片一把互斥锁。
// 持有分片锁期间从不调用用户代码。
//
// # 可观测性
//
// [WithLogger] 注入 xlog.Logger；[WithMeterProvider] 与 [WithTracerProvider]
// 启用 OpenTelemetry 指标与 span。指标不携带 key 标签。
package xkeylock
