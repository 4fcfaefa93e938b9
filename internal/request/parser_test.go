package request

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hakobiya/internal/logging"
)

func newTestParser() *Parser {
	return NewParser(256, logging.Discard().WithField("test", true))
}

func TestParse_Get(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		method string
		target string
	}{
		{"基本形", "GET /index.html HTTP/1.0\r\nHost: localhost\r\nUser-Agent: test\r\n\r\n", "GET", "/index.html"},
		{"小文字のメソッド", "get /a.html HTTP/1.0\r\n\r\n", "get", "/a.html"},
		{"クエリ付き", "GET /page.html?x=1 HTTP/1.0\r\n\r\n", "GET", "/page.html?x=1"},
		{"複数の空白", "GET \t  /b.html   HTTP/1.0\n\n", "GET", "/b.html"},
		{"バージョンなし", "GET /\r\n\r\n", "GET", "/"},
		{"ターゲットなし", "GET\r\n\r\n", "GET", ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req, err := newTestParser().Parse(bufio.NewReader(strings.NewReader(c.input)))
			require.NoError(t, err)
			assert.Equal(t, c.method, req.Method)
			assert.Equal(t, c.target, req.Target)
		})
	}
}

func TestParse_StopsAtBlankLine(t *testing.T) {
	input := "GET / HTTP/1.0\r\nHost: a\r\n\r\nleftover"
	r := bufio.NewReader(strings.NewReader(input))

	_, err := newTestParser().Parse(r)
	require.NoError(t, err)

	// 空行より後ろは読まれていない
	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "leftover", string(rest))
}

func TestParse_HeadersUntilClose(t *testing.T) {
	// 空行が来ないまま相手が閉じてもGETとして扱う
	input := "GET /x.html HTTP/1.0\r\nHost: a\r\n"

	req, err := newTestParser().Parse(bufio.NewReader(strings.NewReader(input)))
	require.NoError(t, err)
	assert.Equal(t, "/x.html", req.Target)
}

func TestParse_NotImplemented(t *testing.T) {
	methods := []string{"POST", "HEAD", "PUT", "GETX", "BREW"}

	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			input := method + " /index.html HTTP/1.0\r\nContent-Length: 3\r\n\r\nabc"
			r := bufio.NewReader(strings.NewReader(input))

			req, err := newTestParser().Parse(r)
			assert.ErrorIs(t, err, ErrNotImplemented)
			require.NotNil(t, req)
			assert.Equal(t, method, req.Method)

			// ヘッダーは読み捨て済み、ボディは読まない
			rest, _ := io.ReadAll(r)
			assert.Equal(t, "abc", string(rest))
		})
	}
}

func TestParse_BadRequest(t *testing.T) {
	cases := map[string]string{
		"即座に切断":    "",
		"空のリクエスト行": "\r\n",
		"終端なし":     "GET / HTTP/1.0",
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			req, err := newTestParser().Parse(bufio.NewReader(strings.NewReader(input)))
			assert.ErrorIs(t, err, ErrBadRequest)
			assert.Nil(t, req)
		})
	}
}

func TestParse_LeadingSpace(t *testing.T) {
	// 先頭が空白の場合メソッドは空になり501
	_, err := newTestParser().Parse(bufio.NewReader(strings.NewReader(" GET / HTTP/1.0\r\n\r\n")))
	assert.ErrorIs(t, err, ErrNotImplemented)
}
