package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv は設定に影響する環境変数を空にする
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"SERVER_HOST", "PORT", "DOCUMENT_ROOT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

// TestConfigLoad はデフォルト設定の読み込みをテストする
func TestConfigLoad(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 80, cfg.Server.Port)
	assert.Equal(t, 128, cfg.Server.Backlog)
	assert.Equal(t, 0, cfg.Server.MaxConnections)
	assert.Zero(t, cfg.Server.ReadTimeout)
	assert.Zero(t, cfg.Server.WriteTimeout)
	assert.Equal(t, "./html_docs", cfg.Docs.Root)
	assert.Equal(t, "index.html", cfg.Docs.Index)
	assert.False(t, cfg.Docs.Confine)
	assert.Equal(t, 256, cfg.Request.MaxLine)
	assert.False(t, cfg.Response.StrictErrors)
	assert.Empty(t, cfg.Admin.Address)
}

// TestConfigLoadEnv は環境変数による上書きをテストする
func TestConfigLoadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("PORT", "8080")
	t.Setenv("DOCUMENT_ROOT", "/srv/www")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.ServerAddress())
	assert.Equal(t, "/srv/www", cfg.Docs.Root)
}

// TestConfigLoadEnvInvalidPort は数値でないポートが無視されることをテストする
func TestConfigLoadEnvInvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "http")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Server.Port)
}

// TestConfigLoadFile はYAMLファイルからの読み込みをテストする
func TestConfigLoadFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "hakobiya.yaml")
	content := `
server:
  port: 8081
  max_connections: 64
  read_timeout: 10s
docs:
  root: ./public
  confine: true
response:
  strict_errors: true
log:
  format: json
  debug: true
admin:
  address: 127.0.0.1:9090
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, 64, cfg.Server.MaxConnections)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	// ファイルにない項目はデフォルト値
	assert.Equal(t, 128, cfg.Server.Backlog)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "./public", cfg.Docs.Root)
	assert.True(t, cfg.Docs.Confine)
	assert.True(t, cfg.Response.StrictErrors)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Log.Debug)
	assert.Equal(t, "127.0.0.1:9090", cfg.Admin.Address)
}

func TestConfigLoadFileErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("server: [1, 2"), 0o644))
	_, err = LoadFile(broken)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("server:\n  port: 70000\n"), 0o644))
	_, err = LoadFile(invalid)
	assert.Error(t, err)
}

// TestConfigValidation は設定の検証をテストする
func TestConfigValidation(t *testing.T) {
	testCases := []struct {
		name      string
		mutate    func(c *Config)
		expectErr bool
	}{
		{"正常な設定", func(c *Config) {}, false},
		{"ランダムポート", func(c *Config) { c.Server.Port = 0 }, false},
		{"無効なポート番号", func(c *Config) { c.Server.Port = 65536 }, true},
		{"負のポート番号", func(c *Config) { c.Server.Port = -1 }, true},
		{"無効なバックログ", func(c *Config) { c.Server.Backlog = 0 }, true},
		{"負の最大接続数", func(c *Config) { c.Server.MaxConnections = -1 }, true},
		{"負のタイムアウト", func(c *Config) { c.Server.ReadTimeout = -time.Second }, true},
		{"空のドキュメントルート", func(c *Config) { c.Docs.Root = "" }, true},
		{"スラッシュを含むインデックス", func(c *Config) { c.Docs.Index = "a/index.html" }, true},
		{"短すぎる行長", func(c *Config) { c.Request.MaxLine = 1 }, true},
		{"不明なログフォーマット", func(c *Config) { c.Log.Format = "xml" }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
