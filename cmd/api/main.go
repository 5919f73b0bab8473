package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"page-hits/internal/config"
	hhttp "page-hits/internal/handler/http"
	"page-hits/internal/infra/adapter/persistence/memory"
	"page-hits/internal/observability/logging"
	"page-hits/internal/observability/metrics"
	"page-hits/internal/observability/tracing"
	pageUC "page-hits/internal/usecase/page"
)

const serviceName = "page-hits"

func main() {
	logger := initLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// initLogger initializes the structured logger and installs it as the default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// Components holds the wired application graph.
type Components struct {
	Handler  http.Handler
	Registry *metrics.Registry
	Repo     *memory.PageRepo
}

// setupServer wires store, metrics, tracer, use case and router.
func setupServer(logger *slog.Logger, cfg config.ServerConfig) (*Components, error) {
	repo := memory.NewPageRepo()

	reg := metrics.NewRegistry(metrics.Config{PageLabelLimit: cfg.PageLabelLimit})
	if err := reg.RegisterPageCount(repo.Count); err != nil {
		return nil, fmt.Errorf("register pages gauge: %w", err)
	}

	svc := &pageUC.Service{Repo: repo, Metrics: reg}
	tracer := tracing.NewTracer(logger, reg)

	trustedProxies, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	handler := hhttp.NewRouter(hhttp.RouterConfig{
		MaxBodyBytes:        cfg.MaxBodyBytes,
		WriteRateLimitRPS:   cfg.WriteRateLimitRPS,
		WriteRateLimitBurst: cfg.WriteRateLimitBurst,
		TrustedProxies:      trustedProxies,
	}, svc, reg, tracer)

	if cfg.WriteRateLimitRPS > 0 {
		logger.Info("write rate limit enabled",
			slog.Float64("rps", cfg.WriteRateLimitRPS),
			slog.Int("burst", cfg.WriteRateLimitBurst))
		if len(trustedProxies) > 0 {
			logger.Info("rate limiting: trusted proxy mode enabled",
				slog.Int("trusted_proxies_count", len(trustedProxies)))
		} else {
			logger.Info("rate limiting: using RemoteAddr (proxy headers ignored)")
		}
	}

	return &Components{Handler: handler, Registry: reg, Repo: repo}, nil
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, logger *slog.Logger, cfg config.ServerConfig) error {
	tp := tracing.NewProvider(serviceName, cfg.Version)

	components, err := setupServer(logger, cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout, // Prevent Slowloris attacks
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		// 親 ctx は既にキャンセル済みなので新しい ctx でタイムアウトを設定
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown: %w", err))
		}
		if err := tp.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
