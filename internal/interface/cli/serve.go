package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/YoshitsuguKoike/kindred/internal/app/config"
	"github.com/YoshitsuguKoike/kindred/internal/infrastructure/di"
	"github.com/YoshitsuguKoike/kindred/internal/interface/web"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = 5 * time.Minute
)

func newServeCmd() *cobra.Command {
	var (
		addr    string
		maxIdle time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = globalConfig.ListenAddr()
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, globalConfig, globalLogger, addr, maxIdle)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default listen_addr)")
	cmd.Flags().DurationVar(&maxIdle, "session-idle", 12*time.Hour, "drop page state of sessions idle this long")
	return cmd
}

// runServe serves until ctx is cancelled, then shuts down gracefully
func runServe(ctx context.Context, cfg config.Config, logger *zap.Logger, addr string, maxIdle time.Duration) error {
	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	defer container.Close()

	secure := strings.HasPrefix(cfg.PublicURL(), "https://") && !cfg.DevMode()
	sessions := web.NewSessionStore(cfg.SessionCookie(), secure, container.NewWorkspace)
	server, err := web.NewServer(web.Options{
		Sessions: sessions,
		Logger:   logger.Named("http"),
		DevMode:  cfg.DevMode(),
	})
	if err != nil {
		return fmt.Errorf("failed to build web server: %w", err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      web.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening",
			zap.String("addr", addr),
			zap.String("storage", container.StorageName()),
			zap.String("auth", cfg.AuthProvider()),
			zap.Bool("dev_mode", cfg.DevMode()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := sessions.Sweep(maxIdle); n > 0 {
					logger.Debug("swept idle sessions", zap.Int("count", n))
				}
			}
		}
	})

	return g.Wait()
}
