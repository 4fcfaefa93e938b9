package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Docs     DocsConfig     `yaml:"docs"`
	Request  RequestConfig  `yaml:"request"`
	Response ResponseConfig `yaml:"response"`
	Log      LogConfig      `yaml:"log"`
	Admin    AdminConfig    `yaml:"admin"`
}

// ServerConfig はリスナーの設定
type ServerConfig struct {
	Host    string `yaml:"host"`    // リッスンするホスト
	Port    int    `yaml:"port"`    // リッスンするポート番号
	Backlog int    `yaml:"backlog"` // listen(2) の受付キュー長
	Name    string `yaml:"name"`    // Server ヘッダーの値

	// 同時に処理する接続数の上限 (0 は無制限)
	MaxConnections int `yaml:"max_connections"`

	// タイムアウト設定 (0 は無効)
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // 読み込みタイムアウト
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // 書き込みタイムアウト
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // 終了時に処理中の接続を待つ時間
}

// DocsConfig はドキュメントルートの設定
type DocsConfig struct {
	Root  string `yaml:"root"`  // ドキュメントルート
	Index string `yaml:"index"` // ディレクトリ要求時に返すファイル名

	// true の場合、ドキュメントルート外へのパスを拒否する
	Confine bool `yaml:"confine"`
}

// RequestConfig はリクエスト読み込みの設定
type RequestConfig struct {
	MaxLine int `yaml:"max_line"` // 1行あたりのバッファサイズ
}

// ResponseConfig はレスポンス書き込みの設定
type ResponseConfig struct {
	// true の場合、エラーページにステータス行とヘッダーを付ける
	StrictErrors bool `yaml:"strict_errors"`
}

// LogConfig はログ出力の設定
type LogConfig struct {
	Level  string `yaml:"level"`  // panic, fatal, error, warn, info, debug, trace
	Format string `yaml:"format"` // text または json
	Debug  bool   `yaml:"debug"`  // リクエスト・レスポンス内容をダンプする
}

// AdminConfig は管理用HTTPエンドポイントの設定
type AdminConfig struct {
	Address string `yaml:"address"` // 空文字の場合は起動しない
}

// Default はデフォルト設定を返す
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            80,
			Backlog:         128,
			Name:            "Hakobiya",
			MaxConnections:  0,
			ReadTimeout:     0,
			WriteTimeout:    0,
			ShutdownTimeout: 5 * time.Second,
		},
		Docs: DocsConfig{
			Root:  "./html_docs",
			Index: "index.html",
		},
		Request: RequestConfig{
			MaxLine: 256,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load は設定を読み込む
// デフォルト値を環境変数で上書きする
func Load() (*Config, error) {
	cfg := Default()
	cfg.applyEnv()

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// LoadFile はYAMLファイルから設定を読み込む
// ファイルにない項目はデフォルト値のまま、環境変数はファイルより優先される
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("設定ファイルの解析に失敗 %s: %w", path, err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	// サーバー設定の検証
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("無効なポート番号: %d", c.Server.Port)
	}
	if c.Server.Backlog <= 0 {
		return fmt.Errorf("無効なバックログ: %d", c.Server.Backlog)
	}
	if c.Server.MaxConnections < 0 {
		return fmt.Errorf("無効な最大接続数: %d", c.Server.MaxConnections)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("タイムアウトに負の値は指定できません")
	}

	if c.Docs.Root == "" {
		return fmt.Errorf("ドキュメントルートが設定されていません")
	}
	if c.Docs.Index == "" || strings.ContainsRune(c.Docs.Index, '/') {
		return fmt.Errorf("無効なインデックスファイル名: %q", c.Docs.Index)
	}

	// 改行を1行に収めるため最低2バイト必要
	if c.Request.MaxLine < 2 {
		return fmt.Errorf("無効な最大行長: %d", c.Request.MaxLine)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("無効なログフォーマット: %q", c.Log.Format)
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// applyEnv は環境変数で設定を上書きする
func (c *Config) applyEnv() {
	c.Server.Host = getEnvOrDefault("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvAsIntOrDefault("PORT", c.Server.Port)
	c.Docs.Root = getEnvOrDefault("DOCUMENT_ROOT", c.Docs.Root)
	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}
