package config

import (
	"strings"
	"time"

	"github.com/formadoc/FormaSign/internal/env"
)

type Config struct {
	Port        string
	ENV         string
	DB          DatabaseConfig
	Minio       MinioConfig
	Mirror      MirrorConfig
	RateLimiter RateLimiterConfig
	Auth        AuthConfig
}

type RateLimiterConfig struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}

type AuthConfig struct {
	JWT_SECRET string
}

type DatabaseConfig struct {
	DB_HOST      string
	DB_PORT      string
	DB_DATABASE  string
	DB_USERNAME  string
	DB_PASSWORD  string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  string
}

type MinioConfig struct {
	ENDPOINT   string
	ACCESS_KEY string
	SECRET_KEY string
	USE_SSL    bool

	// Base URL that object keys are publicly reachable under. Defaults to the
	// endpoint itself when empty.
	PUBLIC_URL string

	// Primary signature bucket plus the legacy bucket still holding seals
	// uploaded before the storage migration.
	BUCKET             string
	LEGACY_SEAL_BUCKET string
}

type MirrorConfig struct {
	// Path of the local sqlite file used as the durable URL mirror.
	PATH string
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.ENV, "production")
}

func GetConfig() Config {
	rateLimitTimeFrame, err := time.ParseDuration(env.GetString("RATE_LIMIT_TIME_FRAME", "1m"))
	if err != nil {
		rateLimitTimeFrame = 60 * time.Second
	}

	return Config{
		Port: env.GetString("PORT", "8080"),
		ENV:  env.GetString("ENV", "development"),
		DB: DatabaseConfig{
			DB_HOST:      env.GetString("DB_HOST", "127.0.0.1"),
			DB_PORT:      env.GetString("DB_PORT", "5432"),
			DB_USERNAME:  env.GetString("DB_USERNAME", "root"),
			DB_PASSWORD:  env.GetString("DB_PASSWORD", ""),
			DB_DATABASE:  env.GetString("DB_DATABASE", "formasign"),
			MaxOpenConns: env.GetInt("DB_MAX_OPEN_CONNS", 30),
			MaxIdleConns: env.GetInt("DB_MAX_IDLE_CONNS", 30),
			MaxIdleTime:  env.GetString("DB_MAX_IDLE_TIME", "15m"),
		},
		Minio: MinioConfig{
			ENDPOINT:           env.GetString("MINIO_ENDPOINT", "127.0.0.1:9000"),
			ACCESS_KEY:         env.GetString("MINIO_ACCESS_KEY", ""),
			SECRET_KEY:         env.GetString("MINIO_SECRET_KEY", ""),
			USE_SSL:            env.GetBool("MINIO_USE_SSL", false),
			PUBLIC_URL:         env.GetString("MINIO_PUBLIC_URL", ""),
			BUCKET:             env.GetString("MINIO_BUCKET", "signatures"),
			LEGACY_SEAL_BUCKET: env.GetString("MINIO_LEGACY_SEAL_BUCKET", "organization-seals"),
		},
		Mirror: MirrorConfig{
			PATH: env.GetString("MIRROR_PATH", "formasign-mirror.db"),
		},
		// By default if not specified, we allow 5000 requests per minute on all routes
		RateLimiter: RateLimiterConfig{
			RequestsPerTimeFrame: env.GetInt("RATE_LIMIT_REQUESTS_PER_TIME_FRAME", 5000),
			TimeFrame:            rateLimitTimeFrame,
			Enabled:              env.GetBool("RATE_LIMIT_ENABLED", true),
		},
		Auth: AuthConfig{
			JWT_SECRET: env.GetString("AUTH_JWT_SECRET", ""),
		},
	}
}
