package request

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	// ErrBadRequest はリクエスト行を読めなかったことを表す (400)
	ErrBadRequest = errors.New("bad request")

	// ErrNotImplemented はGET以外のメソッドを受け取ったことを表す (501)
	ErrNotImplemented = errors.New("method not implemented")
)

// MethodGet は唯一サポートするメソッド
const MethodGet = "GET"

// Request はリクエスト行から取り出した内容
type Request struct {
	Method  string // メソッド (受け取ったままの表記)
	Target  string // リクエストターゲット (クエリ文字列を含みうる)
	RawLine string // リクエスト行そのもの
}

// Parser はリクエスト行とヘッダーを読み込む
type Parser struct {
	maxLine int
	log     *logrus.Entry
}

// NewParser は新しいParserを作成する
func NewParser(maxLine int, log *logrus.Entry) *Parser {
	return &Parser{
		maxLine: maxLine,
		log:     log,
	}
}

// Parse はリクエストを1つ読み込む。
//
// GET の場合はヘッダーを読み捨ててRequestを返す。
// GET 以外の場合もヘッダーを読み捨て、RequestとErrNotImplementedを返す。
// リクエスト行が読めない場合はErrBadRequestを返し、それ以上は読まない。
func (p *Parser) Parse(r io.ByteReader) (*Request, error) {
	line, err := ReadLine(r, p.maxLine)
	if err != nil {
		return nil, fmt.Errorf("%w: リクエスト行: %w", ErrBadRequest, err)
	}
	if line == "" {
		return nil, fmt.Errorf("%w: 空のリクエスト行", ErrBadRequest)
	}

	method, rest := cutToken(line)
	p.log.Debugf("request method: %s", method)

	req := &Request{
		Method:  method,
		RawLine: line,
	}

	if !strings.EqualFold(method, MethodGet) {
		p.log.Warnf("未対応のメソッド [%s]", method)
		p.drainHeaders(r)
		return req, fmt.Errorf("%w: %s", ErrNotImplemented, method)
	}

	req.Target, _ = cutToken(strings.TrimLeftFunc(rest, isSpace))
	p.log.Debugf("url: %s", req.Target)

	p.drainHeaders(r)

	return req, nil
}

// drainHeaders は空行まで、または読み込みに失敗するまでヘッダー行を読み捨てる
func (p *Parser) drainHeaders(r io.ByteReader) {
	for {
		line, err := ReadLine(r, p.maxLine)
		if err != nil {
			p.log.WithError(err).Debug("ヘッダーの読み込みを終了")
			return
		}
		p.log.Debugf("read: %s", line)
		if line == "" {
			return
		}
	}
}

// cutToken は先頭から空白までをトークンとして切り出し、残りを返す
func cutToken(s string) (token, rest string) {
	if i := strings.IndexFunc(s, isSpace); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

// isSpace はCロケールのisspaceと同じ文字集合を判定する
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
