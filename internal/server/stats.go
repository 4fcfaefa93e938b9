package server

import (
	"sync/atomic"
	"time"

	"hakobiya/internal/response"
)

// Stats は接続とレスポンスの集計
type Stats struct {
	started   time.Time
	accepted  atomic.Int64
	active    atomic.Int64
	responses [len(statusIndex)]atomic.Int64
}

// statusIndex はresponses配列の添字
var statusIndex = [...]response.Status{
	response.StatusOK,
	response.StatusBadRequest,
	response.StatusNotFound,
	response.StatusInternalError,
	response.StatusNotImplemented,
}

// Snapshot はある時点の集計値
type Snapshot struct {
	Started   time.Time     `json:"started"`
	Uptime    time.Duration `json:"uptime"`
	Accepted  int64         `json:"accepted"`
	Active    int64         `json:"active"`
	Responses map[int]int64 `json:"responses"` // HTTPステータスコード毎の件数
}

func newStats() *Stats {
	return &Stats{started: time.Now()}
}

func (s *Stats) connOpened() {
	s.accepted.Add(1)
	s.active.Add(1)
}

func (s *Stats) connClosed() {
	s.active.Add(-1)
}

func (s *Stats) record(status response.Status) {
	for i, st := range statusIndex {
		if st == status {
			s.responses[i].Add(1)
			return
		}
	}
}

// Snapshot は現在の集計値を返す
func (s *Stats) Snapshot() Snapshot {
	snap := Snapshot{
		Started:   s.started,
		Uptime:    time.Since(s.started),
		Accepted:  s.accepted.Load(),
		Active:    s.active.Load(),
		Responses: make(map[int]int64, len(statusIndex)),
	}
	for i, st := range statusIndex {
		snap.Responses[st.Code()] = s.responses[i].Load()
	}
	return snap
}
