package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/DIvanCode/rwlock/pkg/config"
	errs "github.com/DIvanCode/rwlock/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// loadConfig layers the configuration: defaults, then the YAML file, then
// RWLOCK_* environment variables, then command line flags.
func loadConfig(path string, flags *pflag.FlagSet) (config.Config, error) {
	base := config.Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if base, err = config.Parse(data); err != nil {
			return config.Config{}, err
		}
	}

	v := viper.New()
	setDefaults(v, base)

	v.SetEnvPrefix("rwlock")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, flag := range map[string]string{
		"impl":      "impl",
		"timeout":   "timeout",
		"listen":    "listen",
		"verbosity": "verbose",
	} {
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return config.Config{}, err
			}
		}
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return config.Config{}, fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg config.Config) {
	v.SetDefault("impl", cfg.Impl)
	v.SetDefault("timeout", cfg.Timeout)
	v.SetDefault("scenarios", cfg.Scenarios)
	v.SetDefault("trace.enabled", cfg.Trace.Enabled)
	v.SetDefault("trace.backend", cfg.Trace.Backend)
	v.SetDefault("trace.level", cfg.Trace.Level)
	v.SetDefault("trace.buffer_size", cfg.Trace.BufferSize)
	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("listen", cfg.Listen)
	v.SetDefault("verbosity", cfg.Verbosity)
}
