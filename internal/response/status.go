package response

import "net/http"

// Status は1つの接続に対して返すレスポンスの種類
type Status int

// Status の定数定義
const (
	StatusOK             Status = iota // ファイル本体を返す
	StatusBadRequest                   // 400
	StatusNotFound                     // 404
	StatusInternalError                // 500
	StatusNotImplemented               // 501
)

// Statuses は全てのStatusを定義順に並べたもの
var Statuses = []Status{
	StatusOK,
	StatusBadRequest,
	StatusNotFound,
	StatusInternalError,
	StatusNotImplemented,
}

// Code はHTTPステータスコードを返す
func (s Status) Code() int {
	switch s {
	case StatusOK:
		return http.StatusOK
	case StatusBadRequest:
		return http.StatusBadRequest
	case StatusNotFound:
		return http.StatusNotFound
	case StatusNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// String はステータス行に使う理由句を返す
func (s Status) String() string {
	return http.StatusText(s.Code())
}
