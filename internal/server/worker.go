package server

import (
	"bufio"
	"errors"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"hakobiya/internal/docroot"
	"hakobiya/internal/request"
	"hakobiya/internal/response"
)

// connState は接続ワーカーの状態
type connState string

const (
	stateStart      connState = "start"
	stateParsing    connState = "parsing_request"
	stateResponding connState = "responding"
	stateClosed     connState = "closed"
)

// worker は1つの接続を最初から最後まで処理する
type worker struct {
	conn     net.Conn
	reader   *bufio.Reader
	parser   *request.Parser
	resolver *docroot.Resolver
	writer   *response.Writer

	readTimeout  time.Duration
	writeTimeout time.Duration

	log   *logrus.Entry
	state connState
}

// newWorker は接続に対するworkerを作成する
func (s *Server) newWorker(conn net.Conn) *worker {
	log := s.log.WithFields(logrus.Fields{
		"conn_id": uuid.NewString(),
		"remote":  conn.RemoteAddr().String(),
	})

	return &worker{
		conn:     conn,
		reader:   bufio.NewReaderSize(conn, s.config.Request.MaxLine),
		parser:   request.NewParser(s.config.Request.MaxLine, log),
		resolver: s.resolver,
		writer: response.NewWriter(conn, response.Options{
			ServerName:   s.config.Server.Name,
			StrictErrors: s.config.Response.StrictErrors,
		}, log),
		readTimeout:  s.config.Server.ReadTimeout,
		writeTimeout: s.config.Server.WriteTimeout,
		log:          log,
		state:        stateStart,
	}
}

// run はリクエストを1つ処理して接続を閉じる
// 送ったレスポンスのStatusを返す
func (w *worker) run() response.Status {
	defer w.close()

	w.log.Debug("接続を受け付けました")

	return w.serve()
}

// serve はリクエスト解析からレスポンス送信までを行う
func (w *worker) serve() response.Status {
	w.transition(stateParsing)
	w.setDeadline(w.conn.SetReadDeadline, w.readTimeout)

	req, err := w.parser.Parse(w.reader)

	w.transition(stateResponding)
	w.setDeadline(w.conn.SetWriteDeadline, w.writeTimeout)

	switch {
	case err == nil:
	case errors.Is(err, request.ErrBadRequest):
		w.log.WithError(err).Info("不正なリクエスト")
		return w.respondError(response.StatusBadRequest)
	case errors.Is(err, request.ErrNotImplemented):
		w.access(req, response.StatusNotImplemented)
		return w.respondError(response.StatusNotImplemented)
	default:
		w.log.WithError(err).Error("リクエストの処理に失敗")
		return w.respondError(response.StatusInternalError)
	}

	path, err := w.resolver.Resolve(req.Target)
	if err != nil {
		w.log.WithError(err).Info("リソースが見つかりません")
		w.access(req, response.StatusNotFound)
		return w.respondError(response.StatusNotFound)
	}
	w.log.Debugf("path: %s", path)

	status := w.writer.File(path)
	w.access(req, status)
	return status
}

func (w *worker) respondError(status response.Status) response.Status {
	w.writer.Error(status)
	return status
}

// access はアクセスログを出力する
func (w *worker) access(req *request.Request, status response.Status) {
	w.log.WithFields(logrus.Fields{
		"method": req.Method,
		"target": req.Target,
		"status": status.Code(),
	}).Info("request")
}

// close は接続を閉じる。どの経路でも必ず呼ばれる
func (w *worker) close() {
	if err := w.conn.Close(); err != nil {
		w.log.WithError(err).Debug("接続のクローズに失敗")
	}
	w.transition(stateClosed)
}

func (w *worker) transition(next connState) {
	w.log.Debugf("state: %s -> %s", w.state, next)
	w.state = next
}

// setDeadline はタイムアウトが設定されている場合に期限を設定する
func (w *worker) setDeadline(set func(time.Time) error, timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	if err := set(time.Now().Add(timeout)); err != nil {
		w.log.WithError(err).Debug("期限の設定に失敗")
	}
}
