// Package xconf 基于 koanf 的配置加载与热更新。
//
// 支持 YAML 与 JSON 两种格式，文件格式按扩展名识别：
//
//	cfg, err := xconf.New("/etc/xkeylock/keylock.yaml")
//	if err != nil {
//		return err
//	}
//	var c keylockConfig
//	if err := cfg.Unmarshal("keylock", &c); err != nil {
//		return err
//	}
//
// [Watcher] 监视配置文件所在目录，文件写入、创建或 rename 后经防抖重新加载，
// 并通过回调通知调用方。监视生命周期由 context 控制。
package xconf
