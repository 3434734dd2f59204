package xkeylock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xlockkit/pkg/config/xconf"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := xconf.NewFromBytes([]byte(`
keylock:
  timeout: 250ms
  max_pending: 8
  reentrant: true
  shard_count: 64
`), xconf.FormatYAML)
	require.NoError(t, err)

	c, err := LoadConfig(cfg, "keylock")
	require.NoError(t, err)
	assert.Equal(t, Config{
		Timeout:    250 * time.Millisecond,
		MaxPending: 8,
		Reentrant:  true,
		ShardCount: 64,
	}, c)

	l, err := New(c.Options()...)
	require.NoError(t, err)
	impl, ok := l.(*keyLockImpl)
	require.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, impl.opts.defaultTimeout)
	assert.Equal(t, 8, impl.opts.maxPending)
	assert.True(t, impl.opts.reentrant)
	assert.Len(t, impl.shards, 64)
	require.NoError(t, l.Close())
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := xconf.NewFromBytes([]byte(`{"keylock":{"reentrant":true}}`), xconf.FormatJSON)
	require.NoError(t, err)

	c, err := LoadConfig(cfg, "keylock")
	require.NoError(t, err)
	want := DefaultConfig()
	want.Reentrant = true
	assert.Equal(t, want, c)

	c, err = LoadConfig(nil, "keylock")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"shard count": `{"keylock":{"shard_count":3}}`,
		"timeout":     `{"keylock":{"timeout":"-1s"}}`,
		"max pending": `{"keylock":{"max_pending":-2}}`,
		"max keys":    `{"keylock":{"max_keys":-2}}`,
		"type":        `{"keylock":{"max_pending":"lots"}}`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := xconf.NewFromBytes([]byte(data), xconf.FormatJSON)
			require.NoError(t, err)
			_, err = LoadConfig(cfg, "keylock")
			assert.Error(t, err)
		})
	}
}

func TestConfig_OptionsZeroValues(t *testing.T) {
	l, err := New(Config{}.Options()...)
	require.NoError(t, err)
	impl := l.(*keyLockImpl)
	assert.Equal(t, DefaultMaxPending, impl.opts.maxPending)
	assert.Len(t, impl.shards, defaultShardCount)
	assert.Zero(t, impl.opts.defaultTimeout)
	require.NoError(t, l.Close())
}
