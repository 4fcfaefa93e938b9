// Package main はHakobiyaサーバーコマンドの実装です
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"hakobiya/internal/admin"
	"hakobiya/internal/config"
	"hakobiya/internal/logging"
	"hakobiya/internal/server"
)

func main() {
	// コマンドラインオプション
	var (
		configPath = flag.String("config", "", "設定ファイル (YAML)")
		host       = flag.String("host", "", "サーバーのホスト (デフォルト: 0.0.0.0)")
		port       = flag.Int("port", -1, "サーバーのポート (デフォルト: 80)")
		root       = flag.String("root", "", "ドキュメントルート (デフォルト: ./html_docs)")
		maxConns   = flag.Int("max-connections", -1, "同時接続数の上限 (0 は無制限)")
		confine    = flag.Bool("confine", false, "ドキュメントルート外へのアクセスを拒否する")
		strict     = flag.Bool("strict-errors", false, "エラーページにステータス行とヘッダーを付ける")
		adminAddr  = flag.String("admin", "", "管理用エンドポイントのアドレス (例: 127.0.0.1:9090)")
		debug      = flag.Bool("debug", false, "リクエスト・レスポンスの内容をログに出力する")
		help       = flag.Bool("help", false, "ヘルプを表示")
	)

	flag.Parse()

	// ヘルプ表示
	if *help {
		fmt.Println("Hakobiya")
		fmt.Println()
		fmt.Println("使用方法:")
		fmt.Println("  server [オプション]")
		fmt.Println()
		fmt.Println("オプション:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	// 設定を読み込む
	cfg, err := loadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// コマンドラインオプションで設定を上書き
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port >= 0 {
		cfg.Server.Port = *port
	}
	if *root != "" {
		cfg.Docs.Root = *root
	}
	if *maxConns >= 0 {
		cfg.Server.MaxConnections = *maxConns
	}
	if *confine {
		cfg.Docs.Confine = true
	}
	if *strict {
		cfg.Response.StrictErrors = true
	}
	if *adminAddr != "" {
		cfg.Admin.Address = *adminAddr
	}
	if *debug {
		cfg.Log.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("設定が無効です: %v", err)
	}

	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		logrus.Fatalf("ロガーの作成に失敗しました: %v", err)
	}

	srv := server.New(cfg, logger)

	// 管理用サーバーを別ゴルーチンで起動
	var adminSrv *admin.Server
	if cfg.Admin.Address != "" {
		adminSrv = admin.New(cfg, srv, logger)
		go func() {
			if err := adminSrv.Run(); err != nil {
				logger.WithError(err).Error("管理用サーバーが停止しました")
			}
		}()
	}

	// サーバーを起動
	logger.Infof("Hakobiya サーバーを起動します: %s", cfg.ServerAddress())
	err = srv.Start(context.Background())

	if adminSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if shutdownErr := adminSrv.Shutdown(ctx); shutdownErr != nil {
			logger.WithError(shutdownErr).Warn("管理用サーバーの停止に失敗")
		}
		cancel()
	}

	if err != nil {
		logger.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}

// loadConfig は設定ファイルが指定されていればそれを、なければデフォルト設定を読み込む
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}
