package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	web "artcor/internal/adapters/http"
	"artcor/internal/adapters/storage"
	"artcor/internal/config"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromContext(cmd.Context())
			if addr != "" {
				cfg.ListenAddr = addr
			}
			return withSession(cmd.Context(), func(s *session) error {
				return serveRun(cmd.Context(), s)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides listenAddr)")
	return cmd
}

func serveRun(ctx context.Context, s *session) error {
	cfg := s.cfg
	opts, err := httpOptions(cfg, s.registry)
	if err != nil {
		return err
	}
	handler := web.NewMux(s.tracker, opts)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server_starting",
			zap.String("version", version),
			zap.String("addr", cfg.ListenAddr),
			zap.String("env", cfg.Env),
			zap.String("backend", cfg.Backend),
			zap.Int("schema", storage.LatestSchemaVersion()),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	zap.L().Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// httpOptions maps the runtime config onto the HTTP surface.
func httpOptions(cfg *config.Config, reg *prometheus.Registry) (web.Options, error) {
	var csrfKey []byte
	if cfg.CSRFKey != "" {
		key, err := cfg.CSRFKeyBytes()
		if err != nil {
			return web.Options{}, err
		}
		csrfKey = key
	}
	return web.Options{
		StaticDir:          cfg.StaticDir,
		CSRFKey:            csrfKey,
		SecureCookies:      !cfg.IsDevelopment(),
		TrustedOrigins:     cfg.TrustedOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		SlowRequestMs:      cfg.SlowRequestMs,
		Tutorial:           cfg.Tutorial,
		Registerer:         reg,
		Gatherer:           reg,
	}, nil
}
