package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/DIvanCode/rwlock/internal/api/handler"
	"github.com/DIvanCode/rwlock/internal/tester"
	"github.com/DIvanCode/rwlock/pkg/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve scenario runs, traces and metrics over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLocks(cfg, log, true)
		if err != nil {
			return err
		}
		defer l.sync()

		tr := tester.New(log, l.newLock, cfg.Timeout, clockwork.NewRealClock())

		var gatherer prometheus.Gatherer
		if l.registry != nil {
			gatherer = l.registry
		}

		mux := chi.NewRouter()
		mux.Use(middleware.Recoverer)
		handler.NewHandler(log, tr, l.recorder, gatherer).Register(mux)

		srv := &http.Server{
			Addr:              cfg.Listen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			log.Info("listening", slog.String("addr", cfg.Listen))
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			log.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringP("listen", "l", config.Default().Listen, "Address to listen on")
}
