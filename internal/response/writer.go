package response

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// chunkSize はファイル本体を転送する際のバッファサイズ
const chunkSize = 1024

// Options はWriterの設定
type Options struct {
	ServerName   string // Server ヘッダーの値
	StrictErrors bool   // エラーページにステータス行とヘッダーを付ける
}

// Writer は1つの接続へレスポンスを書き込む
//
// 書き込みの失敗はログに記録するだけで呼び出し元には返さない。
type Writer struct {
	dst  io.Writer
	opts Options
	log  *logrus.Entry
}

// NewWriter は新しいWriterを作成する
func NewWriter(dst io.Writer, opts Options, log *logrus.Entry) *Writer {
	return &Writer{
		dst:  dst,
		opts: opts,
		log:  log,
	}
}

// File はpathのファイルを200レスポンスとして送る。
//
// ファイルを開けない場合は404、メタデータを取得できない場合は500のページを送る。
// 実際に送ったレスポンスのStatusを返す。
func (w *Writer) File(path string) Status {
	f, err := os.Open(path)
	if err != nil {
		w.log.WithError(err).Warnf("ファイルを開けません: %s", path)
		w.Error(StatusNotFound)
		return StatusNotFound
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		w.log.WithError(err).Errorf("ファイル情報の取得に失敗: %s", path)
		w.Error(StatusInternalError)
		return StatusInternalError
	}
	// インデックスファイル名のディレクトリなど
	if !info.Mode().IsRegular() {
		w.log.Warnf("通常ファイルではありません: %s", path)
		w.Error(StatusNotFound)
		return StatusNotFound
	}

	header := w.header(StatusOK, info.Size())
	w.log.Debugf("header: %s", header)

	if _, err := io.WriteString(w.dst, header); err != nil {
		w.log.WithError(err).Error("ヘッダーの送信に失敗")
		return StatusOK
	}

	n, err := io.CopyBuffer(w.dst, f, make([]byte, chunkSize))
	if err != nil {
		w.log.WithError(err).Errorf("本体の送信に失敗 (%d/%d バイト)", n, info.Size())
		return StatusOK
	}
	if n != info.Size() {
		w.log.Warnf("送信サイズがContent-Lengthと一致しません: %d != %d", n, info.Size())
	}
	w.log.Debugf("本体を送信: %d バイト", n)

	return StatusOK
}

// Error はステータスに対応するエラーページを送る
// StrictErrors が無効な場合はページ本体のみを送る
func (w *Writer) Error(s Status) {
	page := Page(s)

	var buf bytes.Buffer
	if w.opts.StrictErrors {
		buf.WriteString(w.header(s, int64(len(page))))
	}
	buf.Write(page)

	w.log.Debugf("%s", buf.Bytes())

	if _, err := w.dst.Write(buf.Bytes()); err != nil {
		w.log.WithError(err).Errorf("%d ページの送信に失敗", s.Code())
	}
}

// header はステータス行とヘッダーを組み立てる
func (w *Writer) header(s Status, contentLength int64) string {
	return fmt.Sprintf("HTTP/1.0 %d %s\r\n"+
		"Server: %s\r\n"+
		"Content-Type: text/html\r\n"+
		"Connection: Close\r\n"+
		"Content-Length: %d\r\n"+
		"\r\n",
		s.Code(), s,
		w.opts.ServerName,
		contentLength,
	)
}
