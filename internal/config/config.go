package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type FileStoreKind string

const (
	FileStoreSQLite FileStoreKind = "sqlite"
	FileStoreS3     FileStoreKind = "s3"
)

type Config struct {
	Port         string
	DatabasePath string
	BcryptCost   int
	// CookieSecure defaults to true; disable only for local development.
	CookieSecure   bool
	AllowedOrigins []string
	StaticDir      string
	AdminEmail     string

	JobCreateLimit  int
	JobCreateWindow time.Duration

	// RedisAddr switches rate-limit counters from process memory to Redis.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	FileStore   FileStoreKind
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// Load reads an optional .env file and then the environment. Every malformed
// value is reported.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var l loader
	cfg := &Config{
		Port:            l.getEnv("PORT", "8080"),
		DatabasePath:    l.getEnv("DATABASE_PATH", "jobboard.db"),
		BcryptCost:      l.getIntEnv("BCRYPT_COST", 12),
		CookieSecure:    l.getBoolEnv("COOKIE_SECURE", true),
		AllowedOrigins:  splitCSV(l.getEnv("CORS_ALLOWED_ORIGINS", "")),
		StaticDir:       l.getEnv("STATIC_DIR", ""),
		AdminEmail:      l.getEnv("ADMIN_EMAIL", ""),
		JobCreateLimit:  l.getIntEnv("JOB_CREATE_LIMIT", 1),
		JobCreateWindow: l.getDurationEnv("JOB_CREATE_WINDOW", 90*time.Minute),
		RedisAddr:       l.getEnv("REDIS_ADDR", ""),
		RedisPassword:   l.getEnv("REDIS_PASSWORD", ""),
		RedisDB:         l.getIntEnv("REDIS_DB", 0),
		FileStore:       FileStoreKind(l.getEnv("FILE_STORE", string(FileStoreSQLite))),
		S3Bucket:        l.getEnv("S3_BUCKET", ""),
		S3Region:        l.getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:      l.getEnv("S3_ENDPOINT", ""),
		S3AccessKey:     l.getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:     l.getEnv("S3_SECRET_KEY", ""),
	}

	if cfg.BcryptCost < 4 || cfg.BcryptCost > 14 {
		l.fail("BCRYPT_COST must be between 4 and 14, got %d", cfg.BcryptCost)
	}
	if cfg.JobCreateLimit < 1 {
		l.fail("JOB_CREATE_LIMIT must be at least 1, got %d", cfg.JobCreateLimit)
	}
	if cfg.JobCreateWindow <= 0 {
		l.fail("JOB_CREATE_WINDOW must be positive, got %s", cfg.JobCreateWindow)
	}
	switch cfg.FileStore {
	case FileStoreSQLite:
	case FileStoreS3:
		if cfg.S3Bucket == "" {
			l.fail("S3_BUCKET is required when FILE_STORE=s3")
		}
	default:
		l.fail("FILE_STORE must be sqlite or s3, got %q", cfg.FileStore)
	}

	if err := errors.Join(l.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

type loader struct {
	errs []error
}

func (l *loader) fail(format string, args ...any) {
	l.errs = append(l.errs, fmt.Errorf(format, args...))
}

func (l *loader) getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func (l *loader) getIntEnv(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		l.fail("invalid %s: %w", key, err)
		return fallback
	}
	return parsed
}

func (l *loader) getDurationEnv(key string, fallback time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		l.fail("invalid %s: %w", key, err)
		return fallback
	}
	return parsed
}

func (l *loader) getBoolEnv(key string, fallback bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		l.fail("invalid %s: %w", key, err)
		return fallback
	}
	return parsed
}

func splitCSV(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
