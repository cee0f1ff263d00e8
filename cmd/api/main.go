package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wholesale_portal_backend/internal/adapters/storage"
	"wholesale_portal_backend/internal/branding"
	"wholesale_portal_backend/internal/broadcast"
	"wholesale_portal_backend/internal/email"
	apphttp "wholesale_portal_backend/internal/http"
	"wholesale_portal_backend/internal/http/router"
	"wholesale_portal_backend/migrations"
	"wholesale_portal_backend/platform/config"
	"wholesale_portal_backend/platform/db"
	"wholesale_portal_backend/platform/logger"
	"wholesale_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	brand, err := branding.Load(cfg.GetBrandingFile())
	if err != nil {
		log.Error("failed to load branding profile", "error", err)
		panic("failed to load branding profile: " + err.Error())
	}
	log.Info("branding profile loaded", "brand", brand.BrandName)

	// The broadcast history log is the only database consumer; everything
	// else works without a pool.
	var pool *pgxpool.Pool
	if cfg.IsDatabaseEnabled() {
		if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
			return db.RunMigrations(ctx, cfg, migrations.FS, ".")
		}); err != nil {
			log.Error("failed to run database migrations", "error", err)
			panic("failed to run database migrations: " + err.Error())
		}
		log.Info("database migrations complete")

		if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
			p, err := db.NewPool(ctx, cfg)
			if err != nil {
				return err
			}
			pool = p
			return nil
		}); err != nil {
			log.Error("failed to connect to database", "error", err)
			panic("failed to connect to database: " + err.Error())
		}
		defer pool.Close()
		log.Info("database connection established")
	} else {
		log.Warn("DATABASE_URL not configured; broadcast history disabled")
	}

	var rdb *redis.Client
	if cfg.IsRedisEnabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable; collage cache disabled", "error", err)
			rdb = nil
		} else {
			defer func() { _ = rdb.Close() }()
			log.Info("redis connection established", "addr", cfg.GetRedisAddr())
		}
	} else {
		log.Warn("REDIS_ADDR not configured; collage cache disabled")
	}

	var archive storage.ArchiveService
	if cfg.IsMinIOEnabled() {
		svc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		ensureBucket(ctx, log, svc, "flyers", cfg.GetMinioBucketFlyers())
		ensureBucket(ctx, log, svc, "collages", cfg.GetMinioBucketCollages())
		archive = svc
		log.Info("storage service initialized",
			"flyersBucket", cfg.GetMinioBucketFlyers(),
			"collagesBucket", cfg.GetMinioBucketCollages(),
		)
	} else {
		log.Warn("MINIO_ENDPOINT not configured; flyer archiving disabled")
	}

	var mailer email.Sender
	if cfg.IsEmailEnabled() {
		mailer = email.NewSMTPSender(
			cfg.GetSMTPHost(),
			cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(),
			cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(),
			cfg.GetEmailFromName(),
		)
		log.Info("email sender initialized", "host", cfg.GetSMTPHost())
	} else {
		log.Warn("SMTP not configured; flyer email disabled")
	}

	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	broadcastModule := broadcast.NewModule(cfg, brand, pool, rdb, archive, mailer, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Modules: []apphttp.Module{broadcastModule},
	}
	if pool != nil {
		app.Health = pool
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, svc storage.ArchiveService, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return svc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
