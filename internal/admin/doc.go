// Package admin は運用向けのHTTPエンドポイントを提供します。
//
// 責務:
//   - ヘルスチェック
//   - 接続数・ステータス別レスポンス数などの集計値の公開
//
// 仕様:
//   - gin を使用
//   - admin.address が空の場合は起動しない
//   - 静的ファイル配信とは別のリスナーで動作する
package admin
