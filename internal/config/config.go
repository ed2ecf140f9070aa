package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"
)

const (
	defaultMongoURI = "mongodb://localhost:27017"

	StorageDriverLocal = "local"
	StorageDriverMinIO = "minio"

	CleanupModeSync  = "sync"
	CleanupModeAsync = "async"
)

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App     AppConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Storage StorageConfig
	MinIO   MinIOConfig
	Upload  UploadConfig
	Worker  WorkerConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
}

type MongoConfig struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

type RedisConfig struct {
	Host         string
	Password     string
	DB           int
	CacheEnabled bool
	CacheTTL     time.Duration
}

type StorageConfig struct {
	Driver       string // local, minio
	BasePath     string // thư mục gốc cho local driver
	PublicPrefix string // route prefix phục vụ file đã upload
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string // minioadmin
	SecretKey string // minioadmin
	Bucket    string // blog
	UseSSL    bool   // false for local
}

type UploadConfig struct {
	MaxSize      string
	MaxDimension int // px, 0 = không resize
	maxSizeBytes int64
}

// MaxSizeBytes trả về giới hạn upload đã parse (bytes)
func (u UploadConfig) MaxSizeBytes() int64 {
	return u.maxSizeBytes
}

type WorkerConfig struct {
	CleanupMode     string // sync, async
	OrphanSweepCron string
	Concurrency     int
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Blog API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Mongo: MongoConfig{
			URI:            getEnv("MONGO_URI", defaultMongoURI),
			Database:       getEnv("MONGO_DATABASE", "blog"),
			Collection:     getEnv("MONGO_COLLECTION", "posts"),
			ConnectTimeout: getEnvDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
			MaxRetries:     getEnvInt("MONGO_MAX_RETRIES", 5),
			RetryDelay:     getEnvDuration("MONGO_RETRY_DELAY", time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost:6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			CacheEnabled: getEnvBool("CACHE_ENABLED", true),
			CacheTTL:     getEnvDuration("CACHE_TTL", 15*time.Minute),
		},
		Storage: StorageConfig{
			Driver:       strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverLocal)),
			BasePath:     getEnv("STORAGE_BASE_PATH", "uploads"),
			PublicPrefix: getEnv("STORAGE_PUBLIC_PREFIX", "/uploads"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "blog"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Upload: UploadConfig{
			MaxSize:      getEnv("UPLOAD_MAX_SIZE", "5MB"),
			MaxDimension: getEnvInt("UPLOAD_MAX_DIMENSION", 1600),
		},
		Worker: WorkerConfig{
			CleanupMode:     strings.ToLower(getEnv("BLOB_CLEANUP_MODE", CleanupModeSync)),
			OrphanSweepCron: getEnv("ORPHAN_SWEEP_CRON", "0 3 * * *"),
			Concurrency:     getEnvInt("WORKER_CONCURRENCY", 5),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverLocal:
		if c.Storage.BasePath == "" {
			return fmt.Errorf("STORAGE_BASE_PATH is required for the local storage driver")
		}
	case StorageDriverMinIO:
		if c.MinIO.Bucket == "" {
			return fmt.Errorf("MINIO_BUCKET is required for the minio storage driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (expected local or minio)", c.Storage.Driver)
	}

	switch c.Worker.CleanupMode {
	case CleanupModeSync, CleanupModeAsync:
	default:
		return fmt.Errorf("unknown BLOB_CLEANUP_MODE %q (expected sync or async)", c.Worker.CleanupMode)
	}

	size, err := units.FromHumanSize(c.Upload.MaxSize)
	if err != nil {
		return fmt.Errorf("invalid UPLOAD_MAX_SIZE: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("UPLOAD_MAX_SIZE must be positive")
	}
	c.Upload.maxSizeBytes = size

	if c.Mongo.MaxRetries < 1 {
		c.Mongo.MaxRetries = 1
	}

	// Production environment không được dùng default credentials
	if c.App.Environment == "production" {
		if c.Mongo.URI == defaultMongoURI {
			return fmt.Errorf("MONGO_URI must be set in production")
		}
		if c.Storage.Driver == StorageDriverMinIO && c.MinIO.SecretKey == "minioadmin" {
			return fmt.Errorf("MINIO_SECRET_KEY must be set in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
