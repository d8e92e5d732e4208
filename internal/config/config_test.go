package config_test

import (
	"os"
	"path/filepath"
	"registration/internal/config"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_YAMLWithDefaults(t *testing.T) {
	path := writeFile(t, "config.yml", `
environment: production
http:
  addr: ":9090"
antiForgery:
  secret: yaml-secret
worker:
  maxAttempts: 4
`)

	cfg, err := config.Load(path, "")
	require.NoError(t, err)
	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, ":9090", cfg.HTTP.Addr)
	require.Equal(t, 10*time.Second, cfg.HTTP.RequestTimeout)
	require.Equal(t, "yaml-secret", cfg.AntiForgery.Secret)
	require.Equal(t, 2*time.Hour, cfg.AntiForgery.TTL)
	require.Equal(t, "argon2id", cfg.Password.Algorithm)
	require.Equal(t, "accounts.registered", cfg.Redis.Channel)
	require.Equal(t, 4, cfg.Worker.MaxAttempts)
	require.Equal(t, 10, cfg.Worker.MaxWorkers)
}

func TestLoad_EnvFileOverridesYAML(t *testing.T) {
	path := writeFile(t, "config.yml", "antiForgery:\n  secret: yaml-secret\n")
	envPath := writeFile(t, ".env", "ANTI_FORGERY_SECRET=env-secret\nPASSWORD_ALGORITHM=bcrypt\n")
	t.Cleanup(func() {
		_ = os.Unsetenv("ANTI_FORGERY_SECRET")
		_ = os.Unsetenv("PASSWORD_ALGORITHM")
	})

	cfg, err := config.Load(path, envPath)
	require.NoError(t, err)
	require.Equal(t, "env-secret", cfg.AntiForgery.Secret)
	require.Equal(t, "bcrypt", cfg.Password.Algorithm)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	path := writeFile(t, "config.yml", "antiForgery:\n  secret: s\n")

	_, err := config.Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}

func TestLoad_SecretRequired(t *testing.T) {
	path := writeFile(t, "config.yml", "environment: development\n")

	_, err := config.Load(path, "")
	require.Error(t, err)
}
