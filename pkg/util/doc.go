// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xkeylock: 基于 key 的进程内异步互斥，支持排队超时、插队、可重入与批量获取
package util
