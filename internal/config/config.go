package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config represents the complete service configuration
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Database    DatabaseConfig `toml:"database"`
	Redis       RedisConfig    `toml:"redis"`
	Storage     StorageConfig  `toml:"storage"`
	Auth        AuthConfig     `toml:"auth"`
	Queue       QueueConfig    `toml:"queue"`
	Log         LogConfig      `toml:"log"`
}

type ServerConfig struct {
	Port            string   `toml:"port"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	CORSOrigins     []string `toml:"cors_origins"`
}

type DatabaseConfig struct {
	URL             string   `toml:"url"`
	MaxConns        int32    `toml:"max_conns"`
	MinConns        int32    `toml:"min_conns"`
	MaxConnLifetime Duration `toml:"max_conn_lifetime"`
	AutoMigrate     bool     `toml:"auto_migrate"`
}

// RedisConfig is shared by the cache and the contract queue
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type StorageConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	UseSSL    bool   `toml:"use_ssl"`
}

type AuthConfig struct {
	JWTSecret       string   `toml:"jwt_secret"`
	JWKSURL         string   `toml:"jwks_url"`
	AccessTokenTTL  Duration `toml:"access_token_ttl"`
	RefreshTokenTTL Duration `toml:"refresh_token_ttl"`
	Issuer          string   `toml:"issuer"`
}

type QueueConfig struct {
	Concurrency int `toml:"concurrency"`
}

type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Duration decodes TOML strings such as "15m" into a time.Duration
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Default returns the configuration used for local development
func Default() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port:            "8080",
			ShutdownTimeout: Duration{10 * time.Second},
			CORSOrigins:     []string{"*"},
		},
		Database: DatabaseConfig{
			MaxConns:        10,
			MinConns:        2,
			MaxConnLifetime: Duration{time.Hour},
			AutoMigrate:     true,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Storage: StorageConfig{
			Endpoint:  "localhost:9000",
			AccessKey: "minioadmin",
			SecretKey: "minioadmin",
			Bucket:    "stagebook",
		},
		Auth: AuthConfig{
			AccessTokenTTL:  Duration{15 * time.Minute},
			RefreshTokenTTL: Duration{7 * 24 * time.Hour},
			Issuer:          "stagebook",
		},
		Queue: QueueConfig{Concurrency: 5},
		Log:   LogConfig{Level: "info"},
	}
}

// Load builds the configuration: defaults, then the optional TOML file named by
// CONFIG_FILE, then environment variables (a .env file is read first if present).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile decodes a TOML file on top of cfg
func LoadFile(path string, cfg *Config) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Environment, "APP_ENV")
	setString(&cfg.Server.Port, "PORT")
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}

	setString(&cfg.Database.URL, "DATABASE_URL")
	if v, ok := lookupInt("DB_MAX_CONNS"); ok {
		cfg.Database.MaxConns = int32(v)
	}
	if v, ok := lookupInt("DB_MIN_CONNS"); ok {
		cfg.Database.MinConns = int32(v)
	}
	setBool(&cfg.Database.AutoMigrate, "DB_AUTO_MIGRATE")

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	if v, ok := lookupInt("REDIS_DB"); ok {
		cfg.Redis.DB = v
	}

	setString(&cfg.Storage.Endpoint, "MINIO_ENDPOINT")
	setString(&cfg.Storage.AccessKey, "MINIO_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "MINIO_SECRET_KEY")
	setString(&cfg.Storage.Bucket, "MINIO_BUCKET")
	setBool(&cfg.Storage.UseSSL, "MINIO_USE_SSL")

	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Auth.JWKSURL, "JWKS_URL")
	setString(&cfg.Auth.Issuer, "JWT_ISSUER")
	setDuration(&cfg.Auth.AccessTokenTTL, "ACCESS_TOKEN_TTL")
	setDuration(&cfg.Auth.RefreshTokenTTL, "REFRESH_TOKEN_TTL")

	if v, ok := lookupInt("QUEUE_CONCURRENCY"); ok {
		cfg.Queue.Concurrency = v
	}

	setString(&cfg.Log.Level, "LOG_LEVEL")
	setBool(&cfg.Log.Development, "LOG_DEVELOPMENT")
}

// Validate checks the settings the service cannot start without
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.Auth.JWTSecret == "" && c.Auth.JWKSURL == "" {
		return errors.New("JWT_SECRET or JWKS_URL is required")
	}
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	if c.Queue.Concurrency <= 0 {
		return errors.New("queue concurrency must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func lookupInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
