package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/tilepath/internal/geo"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pathserver.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadPathServerMissingFile(t *testing.T) {
	cfg, err := LoadPathServer(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPathServer(), cfg)
}

func TestLoadPathServerOverrides(t *testing.T) {
	path := writeConfig(t, `
port: 9090
log_level: debug
search:
  cutoff: 5s
  avoid_wilderness: true
  workers: 8
  wilderness:
    areas:
      - {x: 10, y: 20, width: 5, height: 6, plane: 0}
data:
  transport_source: database
database:
  host: db
`)

	cfg, err := LoadPathServer(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.BindAddress)
	assert.Equal(t, 5*time.Second, cfg.Search.Cutoff)
	assert.True(t, cfg.Search.AvoidWilderness)
	assert.False(t, cfg.Search.DisableWilderness)
	assert.Equal(t, 8, cfg.Search.Workers)
	assert.Equal(t, 250*time.Millisecond, cfg.Search.StreamInterval)
	require.NotNil(t, cfg.Search.Wilderness)
	assert.Equal(t, []geo.Area{{X: 10, Y: 20, Width: 5, Height: 6}}, cfg.Search.Wilderness.Areas)
	assert.Equal(t, SourceDatabase, cfg.Data.TransportSource)
	assert.Equal(t, "postgres://tilepath:tilepath@db:5432/tilepath?sslmode=disable", cfg.Database.DSN())

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadPathServerInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad yaml", "port: [", "parsing config"},
		{"port", "port: 70000", "port 70000"},
		{"workers", "search: {workers: 0}", "search.workers"},
		{"source", "data: {transport_source: s3}", "data.transport_source"},
		{"log level", "log_level: loud", "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPathServer(writeConfig(t, tt.body))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv(EnvPath, "")
	assert.Equal(t, DefaultPath, Path())

	t.Setenv(EnvPath, "/etc/tilepath.yaml")
	assert.Equal(t, "/etc/tilepath.yaml", Path())
}
