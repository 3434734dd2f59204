// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 扩展，支持 lumberjack 文件轮转
//
// 指标与追踪直接使用 OpenTelemetry API，由 xkeylock 通过
// WithMeterProvider / WithTracerProvider 注入。
//
// 设计原则：
//   - 自动从 context 中提取 correlation ID 与锁 key 注入日志
//   - 支持动态级别控制
package observability
