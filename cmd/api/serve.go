package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"baby-health-tracker/internal/adapters/notify/mqtt"
	pg "baby-health-tracker/internal/adapters/storage/postgres"
	"baby-health-tracker/internal/adapters/supabase"
	"baby-health-tracker/internal/config"
	"baby-health-tracker/internal/platform/kv"
	"baby-health-tracker/internal/platform/logger"
	"baby-health-tracker/internal/router"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Levanta la API HTTP y el barrido de recordatorios",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := router.Options{
		StorageBackend: cfg.Storage.Backend,
		PublicBaseURL:  cfg.Server.PublicBaseURL,
		Log:            log,
	}

	if cfg.Supabase.Configured() {
		client, err := supabase.NewClient(supabase.Config{
			URL:        cfg.Supabase.URL,
			AnonKey:    cfg.Supabase.AnonKey,
			ServiceKey: cfg.Supabase.ServiceKey,
			Timeout:    cfg.Supabase.TimeoutDuration(),
		})
		if err != nil {
			return fmt.Errorf("supabase client: %w", err)
		}
		opts.Verifier = supabase.NewVerifier(client)
		opts.Gateway = client
		opts.Tables = client
	} else {
		log.Warn("supabase not configured, dev auth via X-Debug-User-ID")
	}

	if cfg.Storage.Backend == router.BackendPostgres {
		db, err := openPostgres(ctx, cfg.Storage.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		opts.DB = db
	}

	store, closeKV, err := openKV(ctx, cfg.KV)
	if err != nil {
		return err
	}
	defer closeKV()
	opts.KV = store

	if cfg.MQTT.Broker != "" {
		pub, err := mqtt.NewPublisher(mqtt.Config{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
		}, log.Named("mqtt"))
		if err != nil {
			return err
		}
		defer pub.Close()
		opts.Publisher = pub
	}

	app := router.New(opts)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.Handler,
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.String("storage", app.Backend),
			zap.String("kv", cfg.KV.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(sctx)
	})
	g.Go(func() error {
		return app.Reminders.Run(gctx, cfg.Reminders.IntervalDuration())
	})

	return g.Wait()
}

func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := pg.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pg.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func openKV(ctx context.Context, cfg config.KVConfig) (kv.Store, func(), error) {
	switch cfg.Backend {
	case "redis":
		s := kv.NewRedisStore(kv.NewRedisClient(kv.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}))
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return s, func() { _ = s.Close() }, nil
	case "sqlite":
		s, err := kv.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return kv.NewMemoryStore(), func() {}, nil
	}
}
