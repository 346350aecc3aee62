package config

import (
	"fmt"
	"log/slog"
	"time"

	errs "github.com/DIvanCode/rwlock/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	ImplWriterBiased = "writer_biased"
	ImplStd          = "std"

	BackendSlog = "slog"
	BackendZap  = "zap"
)

type Config struct {
	Impl      string        `yaml:"impl" mapstructure:"impl"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Scenarios []string      `yaml:"scenarios" mapstructure:"scenarios"`
	Trace     TraceConfig   `yaml:"trace" mapstructure:"trace"`
	Metrics   MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	Listen    string        `yaml:"listen" mapstructure:"listen"`
	// 0 = info, 1 = debug.
	Verbosity int           `yaml:"verbosity" mapstructure:"verbosity"`
}

type TraceConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Backend string `yaml:"backend" mapstructure:"backend"`
	Level   string `yaml:"level" mapstructure:"level"`
	// Events kept in memory for the /trace endpoint.
	BufferSize int `yaml:"buffer_size" mapstructure:"buffer_size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

func Default() Config {
	return Config{
		Impl:    ImplWriterBiased,
		Timeout: 10 * time.Second,
		Trace: TraceConfig{
			Backend:    BackendSlog,
			Level:      "debug",
			BufferSize: 4096,
		},
		Listen: ":8080",
	}
}

// Parse reads a YAML document on top of Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Impl {
	case ImplWriterBiased, ImplStd:
	default:
		return fmt.Errorf("%w: unknown impl %q", errs.ErrInvalidConfig, c.Impl)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", errs.ErrInvalidConfig)
	}

	switch c.Trace.Backend {
	case BackendSlog, BackendZap:
	default:
		return fmt.Errorf("%w: unknown trace backend %q", errs.ErrInvalidConfig, c.Trace.Backend)
	}

	if _, err := c.Trace.SlogLevel(); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err)
	}

	if c.Verbosity < 0 {
		return fmt.Errorf("%w: verbosity must not be negative", errs.ErrInvalidConfig)
	}

	return nil
}

func (c TraceConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, err
	}
	return level, nil
}

// LogLevel is the level of the harness logger.
func (c Config) LogLevel() slog.Level {
	if c.Verbosity > 0 {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
