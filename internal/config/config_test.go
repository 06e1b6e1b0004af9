package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, BackendFile, cfg.Snapshot.Backend)
	assert.Equal(t, "snapshots", cfg.Snapshot.Dir)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 3, cfg.Database.MaxRetryAttempts)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Duration(0), cfg.Redis.TTL)
}

func TestLoad_SampleFile(t *testing.T) {
	cfg, err := Load("config.yaml")

	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Snapshot.Backend)
	assert.Equal(t, "beanbags:snapshot:", cfg.Redis.KeyPrefix)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server_port: 9090
snapshot_backend: redis
redis_ttl: 1h
db_conn_max_lifetime: 30s
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, BackendRedis, cfg.Snapshot.Backend)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, 30*time.Second, cfg.Database.ConnMaxLifetime)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "server_port: 9090\nlog_level: warn\n")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("SNAPSHOT_BACKEND", "mysql")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, BackendMySQL, cfg.Snapshot.Backend)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad lifetime", content: "db_conn_max_lifetime: forever\n"},
		{name: "bad ttl", content: "redis_ttl: soon\n"},
		{name: "unknown backend", content: "snapshot_backend: tape\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, BackendFile, cfg.Snapshot.Backend)
}

func TestLoad_MalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, "server_port: [unterminated\n"))
	assert.Error(t, err)
}
