// Package xctx 提供锁调用链上下文的存取能力。
//
// # 核心功能
//
// 关联标识（Correlation ID）- 标识"逻辑调用方"：
//   - correlation_id : 调用链关联标识，xkeylock 用它判断可重入获取
//
// 锁信息（Lock）- 标识当前上下文持有的 key：
//   - lock_key : 工作单元执行时所在的锁 key
//
// # 命名约定
//
//	WithXxx(ctx, value)    - 注入：将 value 写入 context
//	Xxx(ctx)               - 读取：从 context 读取值，缺失时返回零值
//	RequireXxx(ctx)        - 强制读取：值必须存在，缺失时返回错误
//	EnsureXxx(ctx)         - 确保存在：若已存在则返回，否则自动生成
//
// # 关联标识与可重入
//
// 调用方可以在请求入口通过 [WithCorrelationID] 写入自己的关联标识（如网关下发的请求 ID），
// 也可以使用 [EnsureCorrelationID] 自动生成 UUID。xkeylock 在启用可重入模式时，
// 比较调用方 context 中的关联标识与 key 当前持有者的关联标识，相同则视为同一逻辑调用方。
//
// xctx 是纯粹的存取层，不对字段值做格式校验。
//
// # 日志集成
//
// [LogAttrs] / [AppendLogAttrs] 把非空字段转换为 slog.Attr，供 xlog 的 EnrichHandler 使用。
package xctx
