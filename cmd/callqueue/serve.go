package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"k8s.io/utils/clock"

	"github.com/notifyhub/callqueue/internal/alert"
	"github.com/notifyhub/callqueue/internal/api"
	"github.com/notifyhub/callqueue/internal/config"
	"github.com/notifyhub/callqueue/internal/db"
	"github.com/notifyhub/callqueue/internal/metrics"
	"github.com/notifyhub/callqueue/internal/provider"
	"github.com/notifyhub/callqueue/internal/queue"
	"github.com/notifyhub/callqueue/internal/ratelimiter"
	"github.com/notifyhub/callqueue/internal/repository"
	"github.com/notifyhub/callqueue/internal/service"
	"github.com/notifyhub/callqueue/internal/view"
	"github.com/notifyhub/callqueue/internal/worker"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the queue poller, alerter and control API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, logger)
		},
	}
}

// newLogger returns the production logger, or the development one when
// LOG_LEVEL=debug.
func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zc.Build()
}

// app is the fully wired daemon.
type app struct {
	handler    http.Handler
	poller     *worker.Poller
	alerter    *alert.Alerter
	closeStore func()
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	// ---- settings store ----
	repo, closeStore, err := openSettingsStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	settings, err := repository.LoadSettings(ctx, repo)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if !settings.Configured() {
		logger.Warn("no api key configured, polling is paused until one is set")
	}

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	state := queue.NewState(settings)
	prov := provider.NewHTTPQueueProvider(cfg.QueueAPIURL, cfg.ProviderTimeout)

	player, err := alert.NewPlayer(cfg.PlayerCommand, cfg.SoundFile, os.Stdout)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("alert player: %w", err)
	}
	vibrator, err := alert.NewVibrator(cfg.VibrateCommand)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("vibrator: %w", err)
	}
	alerter := alert.New(player, vibrator, alert.Timings{
		SoundTimeout:      cfg.AlertSoundTimeout,
		Vibration:         cfg.VibrationDuration,
		TestSoundTimeout:  cfg.TestSoundTimeout,
		TestVibrationTime: cfg.TestVibrationLimit,
	}, logger.Named("alert"), m.AlertHook())

	// ---- poller ----
	onPoll, onItems := m.PollerHooks()
	poller := worker.NewPoller(
		state, prov, alerter,
		ratelimiter.New(cfg.RefreshRate, cfg.RefreshBurst),
		clock.RealClock{}, cfg.PollInterval,
		logger.Named("poller"),
		worker.Hooks{OnPoll: onPoll, OnItems: onItems},
	)

	svc := service.NewQueueService(
		state, prov, alerter, poller, repo,
		view.NewRenderer(clock.RealClock{}, nil),
		logger, m.AckHook(),
	)

	return &app{
		handler:    api.NewRouter(svc, reg, logger),
		poller:     poller,
		alerter:    alerter,
		closeStore: closeStore,
	}, nil
}

// openSettingsStore picks PostgreSQL for a postgres:// URL and a local SQLite
// file otherwise. Migrations are applied before the store is returned.
func openSettingsStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.SettingsRepository, func(), error) {
	if cfg.UsesPostgres() {
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := db.MigratePostgres(cfg.DatabaseURL); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
		logger.Info("settings store ready", zap.String("driver", "postgres"))
		return repository.NewPgSettingsRepository(pool), pool.Close, nil
	}

	conn, err := db.OpenSQLite(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open settings store: %w", err)
	}
	logger.Info("settings store ready", zap.String("driver", "sqlite"), zap.String("path", cfg.DatabaseURL))
	return repository.NewSQLiteSettingsRepository(conn), func() { _ = conn.Close() }, nil
}

func runServe(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.closeStore()

	// Context for the poller; cancelled on shutdown signal.
	pollCtx, cancelPoll := context.WithCancel(context.Background())
	defer cancelPoll()
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		a.poller.Run(pollCtx)
	}()

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      a.handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serveErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	// 1. Stop accepting new HTTP requests.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// 2. Stop polling and wait for in-flight polls.
	cancelPoll()
	<-pollDone

	// 3. Silence the device and release the player.
	a.alerter.Stop()
	a.alerter.Wait()

	logger.Info("server stopped cleanly")
	return runErr
}
