// Package logging はlogrusロガーを設定から組み立てる
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"hakobiya/internal/config"
)

// New は設定に従ってロガーを作成する
// Debug が有効な場合はレベル指定にかかわらずdebugで出力する
func New(cfg config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("ログレベルの解析に失敗: %w", err)
	}
	if cfg.Debug && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger, nil
}

// Discard は出力を捨てるロガーを返す (テスト用)
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
