package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort                = "8080"
	defaultLogLevel            = "info"
	defaultDatabaseURL         = "artfolio.db"
	defaultJWTSecret           = "change-me-jwt-secret"
	defaultJWTTTL              = "72h"
	defaultStorageDriver       = "local"
	defaultStorageLocalDir     = "./uploads"
	defaultStoragePublicURL    = "/static"
	defaultMaxUploadSize       = "10485760"
	defaultMinioBucket         = "artfolio"
	defaultStatsCacheTTL       = "30s"
	defaultBriefMinLength      = "10"
	defaultAllowDuplicateOrder = "true"
	defaultShutdownTimeout     = "10s"
)

type Config struct {
	AppEnv      string
	Port        string
	LogLevel    string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	CORSAllowedOrigins []string

	Storage     StorageConfig
	Redis       RedisConfig
	Marketplace MarketplaceConfig

	StatsCacheTTL   time.Duration
	ShutdownTimeout time.Duration
}

type StorageConfig struct {
	Driver        string
	LocalDir      string
	PublicURL     string
	MaxUploadSize int64
	Minio         MinioConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// RedisConfig is optional; an empty Addr disables Redis entirely.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (r RedisConfig) Enabled() bool { return strings.TrimSpace(r.Addr) != "" }

type MarketplaceConfig struct {
	CommissionBriefMinLength int
	OrderAllowDuplicates     bool
}

// Load reads the optional env files and then the process environment.
// Missing env files are not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else {
		for _, f := range envFiles {
			if f == "" {
				continue
			}
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("load env file %s: %w", f, err)
			}
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)
	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.LogLevel = strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.StatsCacheTTL, err = parseDurationEnv("STATS_CACHE_TTL", defaultStatsCacheTTL); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return nil, err
	}

	cfg.Storage = StorageConfig{
		Driver:    strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", defaultStorageDriver))),
		LocalDir:  strings.TrimSpace(getEnv("STORAGE_LOCAL_DIR", defaultStorageLocalDir)),
		PublicURL: strings.TrimRight(strings.TrimSpace(getEnv("STORAGE_PUBLIC_URL", defaultStoragePublicURL)), "/"),
		Minio: MinioConfig{
			Endpoint:  strings.TrimSpace(os.Getenv("MINIO_ENDPOINT")),
			AccessKey: strings.TrimSpace(os.Getenv("MINIO_ACCESS_KEY")),
			SecretKey: strings.TrimSpace(os.Getenv("MINIO_SECRET_KEY")),
			Bucket:    strings.TrimSpace(getEnv("MINIO_BUCKET", defaultMinioBucket)),
			UseSSL:    parseBoolEnv("MINIO_USE_SSL", "false"),
			PublicURL: strings.TrimRight(strings.TrimSpace(os.Getenv("MINIO_PUBLIC_URL")), "/"),
		},
	}
	if cfg.Storage.MaxUploadSize, err = parseInt64Env("MAX_UPLOAD_SIZE", defaultMaxUploadSize); err != nil {
		return nil, err
	}

	cfg.Redis = RedisConfig{
		Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
	redisDB, err := parseInt64Env("REDIS_DB", "0")
	if err != nil {
		return nil, err
	}
	cfg.Redis.DB = int(redisDB)

	briefMin, err := parseInt64Env("COMMISSION_BRIEF_MIN_LENGTH", defaultBriefMinLength)
	if err != nil {
		return nil, err
	}
	cfg.Marketplace = MarketplaceConfig{
		CommissionBriefMinLength: int(briefMin),
		OrderAllowDuplicates:     parseBoolEnv("ORDER_ALLOW_DUPLICATES", defaultAllowDuplicateOrder),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool { return isProdLike(c.AppEnv) }

func (c *Config) Addr() string { return ":" + c.Port }

func validateConfig(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.StatsCacheTTL < 0 {
		return fmt.Errorf("STATS_CACHE_TTL must be >= 0")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	if cfg.Storage.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be > 0")
	}
	if cfg.Marketplace.CommissionBriefMinLength < 0 {
		return fmt.Errorf("COMMISSION_BRIEF_MIN_LENGTH must be >= 0")
	}

	switch cfg.Storage.Driver {
	case "local":
		if cfg.Storage.LocalDir == "" {
			return fmt.Errorf("STORAGE_LOCAL_DIR must not be empty")
		}
	case "minio":
		m := cfg.Storage.Minio
		if m.Endpoint == "" || m.AccessKey == "" || m.SecretKey == "" {
			return fmt.Errorf("MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required for STORAGE_DRIVER=minio")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of: local, minio")
	}

	if isProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseInt64Env(name, fallback string) (int64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
