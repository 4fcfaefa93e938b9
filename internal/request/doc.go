// Package request は接続から届くHTTP/1.0リクエストを読み取る。
//
// # 責務
//   - 上限付きバッファでの1行読み込み (CRLF / LF 終端)
//   - リクエスト行からメソッドとターゲットを取り出す
//   - 後続のヘッダー行を読み捨てる
//
// # 仕様
//   - 解釈するメソッドは GET のみ (大文字小文字は区別しない)
//   - それ以外のメソッドはヘッダーを読み捨てた上で ErrNotImplemented を返す
//   - リクエスト行が読めない・空の場合は ErrBadRequest を返す
//   - ヘッダーの値やプロトコルバージョンは参照しない
package request
