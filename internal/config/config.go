package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Snapshot  SnapshotConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	MinIO     MinIOConfig
	RateLimit RateLimitConfig
	LogLevel  string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
	SendBuffer      int
}

type SnapshotConfig struct {
	// Backend is one of file, redis, mongo, minio, memory.
	Backend   string
	Path      string
	RedisKey  string
	ObjectKey string
	SaveDelay time.Duration
}

type MongoDBConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

var backends = map[string]bool{"file": true, "redis": true, "mongo": true, "minio": true, "memory": true}

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3001")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.SetDefault("WS_SEND_BUFFER", 256)
	v.SetDefault("SNAPSHOT_BACKEND", "file")
	v.SetDefault("SNAPSHOT_PATH", "documents.json")
	v.SetDefault("SNAPSHOT_REDIS_KEY", "collab:documents")
	v.SetDefault("SNAPSHOT_OBJECT_KEY", "documents.json")
	v.SetDefault("SAVE_DEBOUNCE_MS", 5000)
	v.SetDefault("MONGODB_DATABASE", "collab")
	v.SetDefault("MONGODB_COLLECTION", "documents")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MINIO_BUCKET", "collab")
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("RATE_LIMIT_USE_REDIS", false)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			Host:            v.GetString("HOST"),
			ReadTimeout:     30 * time.Second,
			ShutdownTimeout: seconds(v.GetInt("SHUTDOWN_TIMEOUT_SECONDS"), 10),
			SendBuffer:      positive(v.GetInt("WS_SEND_BUFFER"), 256),
		},
		Snapshot: SnapshotConfig{
			Backend:   strings.ToLower(strings.TrimSpace(v.GetString("SNAPSHOT_BACKEND"))),
			Path:      v.GetString("SNAPSHOT_PATH"),
			RedisKey:  v.GetString("SNAPSHOT_REDIS_KEY"),
			ObjectKey: v.GetString("SNAPSHOT_OBJECT_KEY"),
			SaveDelay: time.Duration(positive(v.GetInt("SAVE_DEBOUNCE_MS"), 5000)) * time.Millisecond,
		},
		MongoDB: MongoDBConfig{
			URI:        v.GetString("MONGODB_URI"),
			Database:   v.GetString("MONGODB_DATABASE"),
			Collection: v.GetString("MONGODB_COLLECTION"),
			Timeout:    seconds(v.GetInt("MONGODB_TIMEOUT"), 10),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         positive(v.GetInt("RATE_LIMIT_BURST"), 40),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: positive(v.GetInt("RATE_LIMIT_WINDOW_SECONDS"), 1),
		},
		LogLevel: v.GetString("LOG_LEVEL"),
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "3001"
	}
	if !backends[cfg.Snapshot.Backend] {
		cfg.Snapshot.Backend = "file"
	}
	if cfg.RateLimit.RPS <= 0 {
		cfg.RateLimit.RPS = 20
	}

	return cfg, nil
}

func positive(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func seconds(v, def int) time.Duration {
	return time.Duration(positive(v, def)) * time.Second
}
