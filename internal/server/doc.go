// Package server は静的ファイルを配信するHTTP/1.0サーバーを管理します。
//
// このパッケージは、リスナーの起動、接続の受け付け、
// 接続毎のワーカーによるリクエスト処理を担当します。
//
// 責務:
//   - IPv4ソケットの作成・バインド・リッスン (バックログ指定)
//   - 接続の受け付けとワーカーへの割り当て
//   - リクエスト解析 → パス解決 → レスポンス送信 の実行
//   - どの経路でも接続を必ず閉じる
//   - 処理結果の集計
//
// 仕様:
//   - 1接続につき1ゴルーチン、ワーカー間で可変な状態は共有しない
//   - 同時接続数は既定で無制限 (max_connections で上限を設定可能)
//   - 1接続で処理するリクエストは1つ (keep-aliveなし)
//   - 1つの接続の失敗はリスナーに影響しない
//   - SIGINT/SIGTERM でグレースフルシャットダウン
package server
