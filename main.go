package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/msomdec/jobboard/internal/config"
	"github.com/msomdec/jobboard/internal/domain"
	"github.com/msomdec/jobboard/internal/handler"
	"github.com/msomdec/jobboard/internal/repository/redis"
	"github.com/msomdec/jobboard/internal/repository/s3"
	"github.com/msomdec/jobboard/internal/repository/sqlite"
	"github.com/msomdec/jobboard/internal/service"
)

const counterSweepInterval = 10 * time.Minute

func main() {
	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	counters, closeCounters, err := newCounterStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to set up rate-limit counters", "error", err)
		os.Exit(1)
	}
	defer closeCounters()

	files, err := newFileStore(ctx, cfg, db)
	if err != nil {
		slog.Error("failed to set up file store", "error", err)
		os.Exit(1)
	}

	authService := service.NewAuthService(db.Users(), files, cfg.BcryptCost)
	services := handler.Services{
		Auth:         authService,
		Profile:      service.NewProfileService(db.Users(), cfg.BcryptCost),
		Media:        service.NewMediaService(db.Users(), files),
		Jobs:         service.NewJobService(db.Jobs(), db.Comments()),
		Admin:        service.NewAdminService(db.Users(), db.Jobs(), files, cfg.BcryptCost),
		JobCreate:    service.NewRateLimiter(counters, "content", cfg.JobCreateLimit, cfg.JobCreateWindow),
		DB:           db,
		CookieSecure: cfg.CookieSecure,
		StaticDir:    cfg.StaticDir,
	}

	if cfg.AdminEmail != "" {
		switch err := authService.PromoteAdmin(ctx, cfg.AdminEmail); {
		case errors.Is(err, domain.ErrNotFound):
			slog.Warn("admin account not registered yet", "email", cfg.AdminEmail)
		case err != nil:
			slog.Error("failed to promote admin", "error", err)
			os.Exit(1)
		default:
			slog.Info("admin promoted", "email", cfg.AdminEmail)
		}
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, services)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: handler.Chain(mux,
			handler.RequestID,
			handler.RequestLogger,
			handler.Recover,
			handler.SecurityHeaders,
			handler.CORS(cfg.AllowedOrigins),
		),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// newCounterStore picks Redis when configured so that limits hold across
// instances, and process memory otherwise.
func newCounterStore(ctx context.Context, cfg *config.Config) (domain.CounterStore, func(), error) {
	if cfg.RedisAddr == "" {
		mem := service.NewMemoryCounter()
		go mem.Run(ctx, counterSweepInterval)
		slog.Info("rate-limit counters in memory")
		return mem, func() {}, nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, err
	}
	slog.Info("rate-limit counters in redis", "addr", cfg.RedisAddr)
	return redis.NewCounterStore(client), func() { client.Close() }, nil
}

func newFileStore(ctx context.Context, cfg *config.Config, db *sqlite.DB) (domain.FileStore, error) {
	if cfg.FileStore != config.FileStoreS3 {
		return db.FileStore(), nil
	}
	store, err := s3.New(ctx, s3.Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("file store on s3", "bucket", cfg.S3Bucket)
	return store, nil
}
