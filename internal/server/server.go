package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"hakobiya/internal/config"
	"hakobiya/internal/docroot"
)

// acceptRetryDelay は受け付けに失敗した後に再試行するまでの待ち時間
const acceptRetryDelay = 10 * time.Millisecond

// ErrNotListening はListen前にServeが呼ばれたことを表す
var ErrNotListening = errors.New("server is not listening")

// Server は静的ファイルサーバーを管理する構造体
type Server struct {
	config   *config.Config
	log      *logrus.Logger
	resolver *docroot.Resolver
	stats    *Stats

	// 同時接続数の上限 (nilは無制限)
	gate *semaphore.Weighted

	mu        sync.Mutex
	listener  net.Listener
	serveDone chan struct{}
	cancel    context.CancelFunc

	// 処理中のワーカー
	wg sync.WaitGroup
}

// New は新しいServerインスタンスを作成する
func New(cfg *config.Config, log *logrus.Logger) *Server {
	s := &Server{
		config:   cfg,
		log:      log,
		resolver: docroot.NewResolver(cfg.Docs),
		stats:    newStats(),
	}
	if cfg.Server.MaxConnections > 0 {
		s.gate = semaphore.NewWeighted(int64(cfg.Server.MaxConnections))
	}
	return s
}

// Listen はソケットを作成してリッスンを開始する
func (s *Server) Listen() error {
	ln, err := listen(s.config.ServerAddress(), s.config.Server.Backlog)
	if err != nil {
		return fmt.Errorf("リスナーの起動に失敗: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"addr":    ln.Addr().String(),
		"root":    s.resolver.Root(),
		"backlog": s.config.Server.Backlog,
	}).Info("クライアントの接続を待っています")
	if s.config.Docs.Confine {
		s.log.Info("ドキュメントルート外へのアクセスを拒否します")
	} else {
		s.log.Warn("パスの正規化を行いません。ドキュメントルート外のファイルも配信されます")
	}
	return nil
}

// Addr はリッスンしているアドレスを返す
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stats は集計値を返す
func (s *Server) Stats() Snapshot {
	return s.stats.Snapshot()
}

// Serve は接続を受け付け、1接続毎にワーカーを起動する。
// リスナーが閉じられるまで戻らない。
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	ln := s.listener
	if ln == nil {
		s.mu.Unlock()
		return ErrNotListening
	}
	done := make(chan struct{})
	s.serveDone = done
	s.cancel = cancel
	s.mu.Unlock()
	defer close(done)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.WithError(err).Warn("接続の受け付けに失敗")
			time.Sleep(acceptRetryDelay)
			continue
		}
		s.log.WithField("remote", conn.RemoteAddr().String()).Debug("client connected")

		if s.gate != nil {
			if err := s.gate.Acquire(ctx, 1); err != nil {
				conn.Close()
				return nil
			}
		}

		s.wg.Add(1)
		go s.handle(conn)
	}
}

// handle はワーカーを実行する
func (s *Server) handle(conn net.Conn) {
	defer s.wg.Done()
	if s.gate != nil {
		defer s.gate.Release(1)
	}

	s.stats.connOpened()
	defer s.stats.connClosed()

	status := s.newWorker(conn).run()
	s.stats.record(status)
}

// Start はサーバーを起動する
// コンテキストのキャンセルかシグナルを受けるとシャットダウンする
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	// 受け付けループを別ゴルーチンで起動
	serveCh := make(chan error, 1)
	go func() {
		serveCh <- s.Serve(ctx)
	}()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// コンテキストかシグナルを待つ
	select {
	case <-ctx.Done():
		s.log.Info("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		s.log.Infof("シグナルを受信しました: %v", sig)
	case err := <-serveCh:
		if err != nil {
			return err
		}
	}

	// グレースフルシャットダウン
	return s.Shutdown()
}

// Shutdown はリスナーを閉じ、処理中の接続が終わるのを待つ
func (s *Server) Shutdown() error {
	s.log.Info("サーバーをシャットダウンしています...")

	s.mu.Lock()
	ln, done, cancel := s.listener, s.serveDone, s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if ln != nil {
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			return fmt.Errorf("リスナーのクローズに失敗: %w", err)
		}
	}

	finished := make(chan struct{})
	go func() {
		if done != nil {
			<-done
		}
		s.wg.Wait()
		close(finished)
	}()

	timeout := s.config.Server.ShutdownTimeout
	if timeout <= 0 {
		<-finished
	} else {
		select {
		case <-finished:
		case <-time.After(timeout):
			return fmt.Errorf("処理中の接続の終了待ちがタイムアウトしました (%v)", timeout)
		}
	}

	s.log.Info("サーバーが正常にシャットダウンされました")
	return nil
}
