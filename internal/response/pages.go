package response

import (
	"embed"
	"fmt"
	"log"
)

//go:embed pages/*.html
var pagesFS embed.FS

// pages はステータス毎のエラーページ
var pages = loadPages()

// loadPages は埋め込みエラーページを読み込む
func loadPages() map[Status][]byte {
	result := make(map[Status][]byte)
	for _, s := range Statuses {
		if s == StatusOK {
			continue
		}
		data, err := pagesFS.ReadFile(fmt.Sprintf("pages/%d.html", s.Code()))
		if err != nil {
			log.Fatalf("埋め込みエラーページの読み込みに失敗: %v", err)
		}
		result[s] = data
	}
	return result
}

// Page はステータスに対応するエラーページを返す
// StatusOK などページを持たないステータスには500のページを返す
func Page(s Status) []byte {
	if page, ok := pages[s]; ok {
		return page
	}
	return pages[StatusInternalError]
}
