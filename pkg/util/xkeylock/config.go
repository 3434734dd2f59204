package xkeylock

import (
	"fmt"
	"time"

	"github.com/omeyang/xlockkit/pkg/config/xconf"
)

// Config 可从配置文件加载的引擎参数。
//
//	keylock:
//	  timeout: 2s
//	  max_pending: 500
//	  reentrant: true
//	  shard_count: 64
//	  max_keys: 100000
type Config struct {
	Timeout    time.Duration `koanf:"timeout" json:"timeout"`
	MaxPending int           `koanf:"max_pending" json:"max_pending"`
	Reentrant  bool          `koanf:"reentrant" json:"reentrant"`
	ShardCount int           `koanf:"shard_count" json:"shard_count"`
	MaxKeys    int           `koanf:"max_keys" json:"max_keys"`
}

// DefaultConfig 返回与 New() 默认值一致的配置。
func DefaultConfig() Config {
	return Config{
		MaxPending: DefaultMaxPending,
		ShardCount: defaultShardCount,
	}
}

// Validate 校验配置。
func (c Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("xkeylock: negative timeout %s", c.Timeout)
	}
	if c.MaxPending < 0 {
		return fmt.Errorf("xkeylock: negative max_pending %d", c.MaxPending)
	}
	if c.MaxKeys < 0 {
		return fmt.Errorf("xkeylock: negative max_keys %d", c.MaxKeys)
	}
	o := options{shardCount: c.ShardCount}
	if c.ShardCount == 0 {
		o.shardCount = defaultShardCount
	}
	return o.validate()
}

// Options 转换为 New 的选项，零值字段保持默认。
func (c Config) Options() []Option {
	opts := []Option{
		WithDefaultTimeout(c.Timeout),
		WithDefaultMaxPending(c.MaxPending),
		WithReentrant(c.Reentrant),
		WithMaxKeys(c.MaxKeys),
	}
	if c.ShardCount > 0 {
		opts = append(opts, WithShardCount(c.ShardCount))
	}
	return opts
}

// LoadConfig 从 cfg 的 path 节点加载配置，缺失字段取 DefaultConfig 的值。
func LoadConfig(cfg xconf.Config, path string) (Config, error) {
	c := DefaultConfig()
	if cfg == nil {
		return c, nil
	}
	if err := cfg.Unmarshal(path, &c); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
