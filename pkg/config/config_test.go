package config

import (
	"log/slog"
	"testing"
	"time"

	errs "github.com/DIvanCode/rwlock/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func Test_Parse(t *testing.T) {
	cfg, err := Parse([]byte(`
impl: std
timeout: 3s
scenarios:
  - many_readers_one_writer
trace:
  enabled: true
  backend: zap
  level: info
metrics:
  enabled: true
listen: 127.0.0.1:9090
verbosity: 1
`))
	require.NoError(t, err)

	assert.Equal(t, ImplStd, cfg.Impl)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"many_readers_one_writer"}, cfg.Scenarios)
	assert.True(t, cfg.Trace.Enabled)
	assert.Equal(t, BackendZap, cfg.Trace.Backend)
	assert.Equal(t, 4096, cfg.Trace.BufferSize)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:9090", cfg.Listen)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())

	level, err := cfg.Trace.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func Test_Parse_Invalid(t *testing.T) {
	for name, doc := range map[string]string{
		"unknown_field": "workers: 3",
		"impl":          "impl: spin",
		"timeout":       "timeout: 0s",
		"backend":       "trace: {backend: logrus}",
		"level":         "trace: {level: loud}",
		"verbosity":     "verbosity: -1",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.ErrorIs(t, err, errs.ErrInvalidConfig)
		})
	}
}

func Test_YAML_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Scenarios = []string{"single_thread_init"}

	data, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "timeout: 10s")

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, parsed)
}
