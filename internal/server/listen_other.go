//go:build !linux

package server

import (
	"fmt"
	"net"
)

// listen はIPv4でリッスンする
// このプラットフォームではバックログはOSの既定値になる
func listen(addr string, backlog int) (net.Listener, error) {
	ln, err := net.Listen("tcp4", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return ln, nil
}
