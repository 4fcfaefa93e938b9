package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hakobiya/internal/config"
	"hakobiya/internal/server"
)

// StatsSource は集計値を提供する
type StatsSource interface {
	Stats() server.Snapshot
}

// HealthResponse はヘルスチェックのレスポンス
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusResponse はステータス取得のレスポンス
type StatusResponse struct {
	Status    string           `json:"status"`
	Server    ServerInfo       `json:"server"`
	Uptime    string           `json:"uptime"`
	Accepted  int64            `json:"accepted"`
	Active    int64            `json:"active"`
	Responses map[string]int64 `json:"responses"`
	Timestamp time.Time        `json:"timestamp"`
}

// ServerInfo は配信サーバーの設定情報
type ServerInfo struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	DocumentRoot   string `json:"document_root"`
	Confine        bool   `json:"confine"`
	MaxConnections int    `json:"max_connections"`
}

// Handler は管理エンドポイントの実装
type Handler struct {
	config *config.Config
	stats  StatsSource
}

// HealthCheck はヘルスチェックエンドポイントの実装
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	})
}

// GetStatus はサーバー状態取得エンドポイントの実装
func (h *Handler) GetStatus(c *gin.Context) {
	snap := h.stats.Stats()

	// JSONのキーは文字列なのでステータスコードを変換
	responses := make(map[string]int64, len(snap.Responses))
	for code, count := range snap.Responses {
		responses[strconv.Itoa(code)] = count
	}

	c.JSON(http.StatusOK, StatusResponse{
		Status: "running",
		Server: ServerInfo{
			Host:           h.config.Server.Host,
			Port:           h.config.Server.Port,
			DocumentRoot:   h.config.Docs.Root,
			Confine:        h.config.Docs.Confine,
			MaxConnections: h.config.Server.MaxConnections,
		},
		Uptime:    snap.Uptime.Truncate(time.Second).String(),
		Accepted:  snap.Accepted,
		Active:    snap.Active,
		Responses: responses,
		Timestamp: time.Now(),
	})
}
