// Package context 提供上下文相关的子包。
//
// 子包列表：
//   - xctx: correlation ID 与锁 key 的注入/提取，以及供 xlog 使用的日志属性
//
// 所有上下文信息通过 context.Context 传递，不使用全局变量。
package context
