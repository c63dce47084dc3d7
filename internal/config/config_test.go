package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"teamboard/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
env: test
server:
  port: "8080"
  cors_origins:
    - http://example.com
database:
  host: db.internal
  port: "5433"
  user: app
  password: secret
  name: teamboard
  max_open_conns: 7
nats:
  url: nats://nats:4222
`

func writeConfig(t *testing.T, env, content string) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "config."+env+".yaml"), []byte(content), 0o600)
	require.NoError(t, err)
	return dir
}

func TestLoadFrom(t *testing.T) {
	t.Run("ReadsFile", func(t *testing.T) {
		dir := writeConfig(t, "test", testConfig)

		cfg, err := config.LoadFrom("test", dir)
		require.NoError(t, err)

		assert.Equal(t, "test", cfg.Env)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, []string{"http://example.com"}, cfg.Server.CORSOrigins)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, "5433", cfg.Database.Port)
		assert.Equal(t, "app", cfg.Database.User)
		assert.Equal(t, "secret", cfg.Database.Password)
		assert.Equal(t, 7, cfg.Database.MaxOpenConns)
		assert.Equal(t, "nats://nats:4222", cfg.NATS.URL)
	})

	t.Run("AppliesDefaults", func(t *testing.T) {
		dir := writeConfig(t, "test", testConfig)

		cfg, err := config.LoadFrom("test", dir)
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, "teamboard", cfg.NATS.SubjectPrefix)
		assert.Equal(t, 15, cfg.Server.ReadTimeout)
	})

	t.Run("EnvOverridesFile", func(t *testing.T) {
		dir := writeConfig(t, "test", testConfig)
		t.Setenv("DB_PASSWORD", "from-env")
		t.Setenv("DATABASE_HOST", "env-host")
		t.Setenv("HTTP_PORT", "9999")

		cfg, err := config.LoadFrom("test", dir)
		require.NoError(t, err)

		assert.Equal(t, "from-env", cfg.Database.Password)
		assert.Equal(t, "env-host", cfg.Database.Host)
		assert.Equal(t, "9999", cfg.Server.Port)
	})

	t.Run("MissingFileUsesEnv", func(t *testing.T) {
		t.Setenv("DATABASE_HOST", "localhost")
		t.Setenv("DB_USER", "postgres")
		t.Setenv("DB_PASSWORD", "postgres")
		t.Setenv("DATABASE_NAME", "teamboard")

		cfg, err := config.LoadFrom("nowhere", t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "nowhere", cfg.Env)
		assert.Equal(t, "3000", cfg.Server.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.False(t, cfg.IsDevelopment())
	})

	t.Run("MissingDatabaseSettings", func(t *testing.T) {
		dir := writeConfig(t, "test", "server:\n  port: \"8080\"\n")

		_, err := config.LoadFrom("test", dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config")
	})
}
