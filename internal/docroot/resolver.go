// Package docroot はリクエストターゲットをドキュメントルート配下のファイルパスに変換する
package docroot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hakobiya/internal/config"
)

var (
	// ErrNotFound はターゲットに対応するファイルが存在しないことを表す (404)
	ErrNotFound = errors.New("resource not found")

	// ErrOutsideRoot はターゲットがドキュメントルートの外を指していることを表す
	// Confine が有効な場合のみ返る
	ErrOutsideRoot = errors.New("resource outside document root")
)

// Resolver はターゲットからファイルパスを求める
type Resolver struct {
	root    string
	index   string
	confine bool
}

// NewResolver は新しいResolverを作成する
func NewResolver(cfg config.DocsConfig) *Resolver {
	return &Resolver{
		root:    cfg.Root,
		index:   cfg.Index,
		confine: cfg.Confine,
	}
}

// Root はドキュメントルートを返す
func (r *Resolver) Root() string {
	return r.root
}

// Resolve はターゲットをファイルパスに変換する。
//
// '?' 以降は捨て、ドキュメントルートの後ろに連結する。
// 結果がディレクトリの場合はインデックスファイル名を付け足す (存在確認はしない)。
// パスの正規化は行わないため、Confine が無効なら ".." でルートの外に出られる。
func (r *Resolver) Resolve(target string) (string, error) {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		target = target[:i]
	}

	path := r.root + "/" + strings.TrimPrefix(target, "/")

	if r.confine {
		if err := r.checkConfined(path); err != nil {
			return "", err
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	if info.IsDir() {
		if !strings.HasSuffix(path, "/") {
			path += "/"
		}
		path += r.index
	}

	return path, nil
}

// checkConfined はパスがドキュメントルート配下にあるか確認する
func (r *Resolver) checkConfined(path string) error {
	rel, err := filepath.Rel(filepath.Clean(r.root), filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutsideRoot, err)
	}
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return nil
}
