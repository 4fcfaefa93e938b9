package request

import (
	"errors"
	"fmt"
	"io"
)

// ErrPeerClosed は行の終端を読む前に相手が接続を閉じたことを表す
var ErrPeerClosed = errors.New("client closed connection")

// ReadLine は r から1行を読み込む。
//
// '\r' は読み飛ばし、'\n' で行を終える (どちらも結果に含めない)。
// maxLen-1 バイト溜まった時点で終端がなくてもその内容を返す。残りは次の行として読まれる。
// 終端より前にEOFまたは読み込みエラーが起きた場合、読んだ内容は捨ててエラーを返す。
func ReadLine(r io.ByteReader, maxLen int) (string, error) {
	buf := make([]byte, 0, maxLen)

	for len(buf) < maxLen-1 {
		c, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", ErrPeerClosed
			}
			return "", fmt.Errorf("行の読み込みに失敗: %w", err)
		}

		switch c {
		case '\r':
			continue
		case '\n':
			return string(buf), nil
		}
		buf = append(buf, c)
	}

	return string(buf), nil
}
