package app

import (
	"fmt"
	"time"

	"github.com/yungbote/gamehub-backend/internal/data/db"
	"github.com/yungbote/gamehub-backend/internal/observability"
	"github.com/yungbote/gamehub-backend/internal/platform/envutil"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
)

// Service names one of the binaries built from this module.
type Service string

const (
	ServiceAssets   Service = "assets"
	ServiceAccounts Service = "accounts"
	ServiceWorld    Service = "world"
)

func (s Service) DefaultPort() int {
	switch s {
	case ServiceAccounts:
		return 3002
	case ServiceWorld:
		return 3003
	default:
		return 3001
	}
}

const (
	StorageDriverLocal = "local"
	StorageDriverGCS   = "gcs"
)

type Config struct {
	Service    Service
	Port       int
	BaseURL    string
	CORSOrigin string

	DB db.Config

	UploadsRoot         string
	StorageDriver       string
	GCSBucket           string
	GCSPublicBaseURL    string
	ObjectStorageMode   string
	StorageEmulatorHost string
	AssetPolicyFile     string
	OrphanSweepCron     string
	OrphanGrace         time.Duration

	JWTSecret     string
	JWTTTL        time.Duration
	AdminUsername string
	AdminPassword string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AssetServiceURL     string
	AssetServiceTimeout time.Duration

	Otel observability.OtelConfig
}

func LoadConfig(service Service, log *logger.Logger) Config {
	port := envutil.Int("PORT", service.DefaultPort(), log)
	return Config{
		Service:    service,
		Port:       port,
		BaseURL:    envutil.String("BASE_URL", fmt.Sprintf("http://localhost:%d", port), log),
		CORSOrigin: envutil.String("CORS_ORIGIN", "*", log),

		DB: db.Config{
			Driver:     envutil.String("DB_DRIVER", db.DriverPostgres, log),
			Host:       envutil.String("DB_HOST", "localhost", log),
			Port:       envutil.Int("DB_PORT", 5432, log),
			User:       envutil.String("DB_USER", "postgres", log),
			Password:   envutil.String("DB_PASSWORD", "", log),
			Name:       envutil.String("DB_NAME", "gamehub", log),
			SSLMode:    envutil.String("DB_SSLMODE", "disable", log),
			SQLitePath: envutil.String("SQLITE_PATH", "gamehub.db", log),
		},

		UploadsRoot:         envutil.String("UPLOADS_ROOT", "uploads", log),
		StorageDriver:       envutil.String("STORAGE_DRIVER", StorageDriverLocal, log),
		GCSBucket:           envutil.String("GCS_BUCKET_NAME", "", log),
		GCSPublicBaseURL:    envutil.String("GCS_PUBLIC_BASE_URL", "", log),
		ObjectStorageMode:   envutil.String("OBJECT_STORAGE_MODE", "", log),
		StorageEmulatorHost: envutil.String("STORAGE_EMULATOR_HOST", "", log),
		AssetPolicyFile:     envutil.String("ASSET_POLICY_FILE", "", log),
		OrphanSweepCron:     envutil.String("ORPHAN_SWEEP_CRON", "", log),
		OrphanGrace:         envutil.Duration("ORPHAN_GRACE", time.Hour, log),

		JWTSecret:     envutil.String("JWT_SECRET", "", log),
		JWTTTL:        envutil.Duration("JWT_TTL", 2*time.Hour, log),
		AdminUsername: envutil.String("ADMIN_USERNAME", "", log),
		AdminPassword: envutil.String("ADMIN_PASSWORD", "", log),

		RedisAddr:     envutil.String("REDIS_ADDR", "", log),
		RedisPassword: envutil.String("REDIS_PASSWORD", "", log),
		RedisDB:       envutil.Int("REDIS_DB", 0, log),

		AssetServiceURL:     envutil.String("ASSET_SERVICE_URL", "", log),
		AssetServiceTimeout: envutil.Duration("ASSET_SERVICE_TIMEOUT", 5*time.Second, log),

		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "gamehub-"+string(service), log),
			Environment: envutil.String("APP_ENV", "development", log),
			Version:     envutil.String("APP_VERSION", "dev", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log)),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1, log),
		},
	}
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
