package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "NOTION_TOKEN", "NOTION_DATABASE_ID", "NOTION_BASE_URL", "MYSQL_DSN", "REDIS_ADDR", "REDIS_PASSWORD", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("Should read the yaml file", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t, `
port: "8080"
notion:
  token: secret
  database_id: db-1
  timeout: 5s
  paginate: true
  debug: true
mysql_dsn: "user:pass@tcp(127.0.0.1:3306)/notionsync?parseTime=true"
redis:
  addr: 127.0.0.1:6379
  batch_ttl: 1h
log:
  level: debug
`)

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "secret", cfg.Notion.Token)
		assert.Equal(t, 5*time.Second, cfg.Notion.Timeout)
		assert.True(t, cfg.Notion.Paginate)
		assert.True(t, cfg.Notion.Debug)
		assert.Equal(t, time.Hour, cfg.Redis.BatchTTL)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "https://api.notion.com/v1", cfg.Notion.BaseURL)
	})

	t.Run("Should let the environment override the file", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t, "notion:\n  token: from-file\n  database_id: db-1\n")
		t.Setenv("NOTION_TOKEN", "from-env")
		t.Setenv("PORT", "9000")

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Notion.Token)
		assert.Equal(t, "9000", cfg.Port)
	})

	t.Run("Should work from the environment alone", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("NOTION_TOKEN", "secret")
		t.Setenv("NOTION_DATABASE_ID", "db-1")

		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

		require.NoError(t, err)
		assert.Equal(t, "3000", cfg.Port)
		assert.Equal(t, 24*time.Hour, cfg.Redis.BatchTTL)
	})

	t.Run("Should require the token and database id", func(t *testing.T) {
		clearEnv(t)

		_, err := LoadConfig("")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Token")
		assert.Contains(t, err.Error(), "DatabaseID")
	})

	t.Run("Should reject an unknown log level", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("NOTION_TOKEN", "secret")
		t.Setenv("NOTION_DATABASE_ID", "db-1")
		t.Setenv("LOG_LEVEL", "loud")

		_, err := LoadConfig("")

		assert.ErrorContains(t, err, "Level")
	})

	t.Run("Should report malformed yaml", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t, "notion: [")

		_, err := LoadConfig(path)

		assert.ErrorContains(t, err, "parse config file")
	})
}
