package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/stagebook")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.True(t, cfg.Storage.UseSSL)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL.Duration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "stagebook", cfg.Storage.Bucket)
}

func TestLoad_TOMLFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stagebook.toml")
	content := `
environment = "production"

[server]
port = "7000"
shutdown_timeout = "30s"

[database]
url = "postgres://file/stagebook"
max_conns = 25

[auth]
jwt_secret = "` + testSecret + `"
refresh_token_ttl = "48h"

[queue]
concurrency = 12
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "7100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "7100", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout.Duration)
	assert.Equal(t, "postgres://file/stagebook", cfg.Database.URL)
	assert.Equal(t, int32(25), cfg.Database.MaxConns)
	assert.Equal(t, 48*time.Hour, cfg.Auth.RefreshTokenTTL.Duration)
	assert.Equal(t, 12, cfg.Queue.Concurrency)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.EqualError(t, cfg.Validate(), "DATABASE_URL is required")

	cfg.Database.URL = "postgres://localhost/stagebook"
	assert.EqualError(t, cfg.Validate(), "JWT_SECRET or JWKS_URL is required")

	cfg.Auth.JWTSecret = "short"
	assert.EqualError(t, cfg.Validate(), "JWT_SECRET must be at least 32 characters")

	cfg.Auth.JWTSecret = ""
	cfg.Auth.JWKSURL = "https://issuer.example/.well-known/jwks.json"
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile_Missing(t *testing.T) {
	err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"), Default())
	assert.Error(t, err)
}
