package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"hakobiya/internal/config"
	"hakobiya/internal/logging"
	"hakobiya/internal/server"
)

func main() {
	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		logrus.Fatalf("ロガーの作成に失敗しました: %v", err)
	}

	// サーバーを作成
	srv := server.New(cfg, logger)

	// サーバーを起動
	if err := srv.Start(context.Background()); err != nil {
		logger.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}
