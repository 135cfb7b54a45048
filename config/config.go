// Package config はアプリケーション設定を管理します。
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config はアプリケーション全体の設定を保持します。
type Config struct {
	// データディレクトリのパス
	DataDir string `env:"TENDERBOOK_DATA_DIR" envDefault:"./data"`

	// HTTPサーバーのポート
	Port string `env:"TENDERBOOK_SERVER_PORT" envDefault:"8080"`

	// ログレベル (debug, info, warn, error)
	LogLevel string `env:"TENDERBOOK_LOG_LEVEL" envDefault:"info"`

	// ログ形式 (text, json)
	LogFormat string `env:"TENDERBOOK_LOG_FORMAT" envDefault:"text"`

	// 同名工程の共有フィールドの食い違いを拒否するかどうか
	StrictGrouping bool `env:"TENDERBOOK_STRICT_GROUPING" envDefault:"false"`

	// 写真URLの接頭辞（空の場合は相対パス）
	PhotoURLPrefix string `env:"TENDERBOOK_PHOTO_URL_PREFIX"`

	// 待機できる変更操作の数
	WriteBacklog int `env:"TENDERBOOK_WRITE_BACKLOG" envDefault:"64"`

	ReadTimeout  time.Duration `env:"TENDERBOOK_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"TENDERBOOK_WRITE_TIMEOUT" envDefault:"30s"`
}

// NewConfig は環境変数から設定を読み込み、Configインスタンスを生成します。
func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は設定値を検証します。
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	if c.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %q", c.LogFormat)
	}
	if c.WriteBacklog < 0 {
		return fmt.Errorf("write backlog must not be negative: %d", c.WriteBacklog)
	}
	return nil
}

// ParseLogLevel はログレベルの文字列をslog.Levelに変換します。
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level: %q", s)
}
