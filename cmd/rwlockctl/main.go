package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DIvanCode/rwlock/pkg/config"
	"github.com/spf13/cobra"
)

var (
	cfg config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "rwlockctl",
	Short:         "Writer-biased reader/writer lock test harness",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}

		if cfg, err = loadConfig(path, cmd.Flags()); err != nil {
			return err
		}

		level := cfg.LogLevel()
		if cfg.Trace.Enabled && cfg.Trace.Backend == config.BackendSlog {
			if traceLevel, err := cfg.Trace.SlogLevel(); err == nil && traceLevel < level {
				level = traceLevel
			}
		}
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return nil
	},
}

func init() {
	defaults := config.Default()

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to a YAML config file")
	flags.String("impl", defaults.Impl, "Lock implementation: writer_biased or std")
	flags.Duration("timeout", defaults.Timeout, "Timeout of a single scenario")
	flags.CountP("verbose", "v", "Verbosity (repeatable)")

	rootCmd.AddCommand(runCmd, listCmd, serveCmd, configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if log == nil {
			log = slog.New(slog.NewTextHandler(os.Stderr, nil))
		}
		log.Error("rwlockctl failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
