// Package view は描画側へ渡すダッシュボードの投影を定義する。
// ここにある型は値のコピーだけを持ち、描画側が書き換えても内部状態には影響しない。
package view

import (
	"time"

	"github.com/pyama86/incident-dashboard/domain/entity"
)

type Snapshot struct {
	GeneratedAt   time.Time
	Connection    entity.ConnectionState
	Counters      entity.Counters
	AllTimeTotal  int
	Feed          []entity.WorkItem
	Logs          []entity.LogRecord
	History       History
	Health        entity.SystemHealth
	Banner        *entity.Banner
	Notifications []entity.Notification
}

type History struct {
	Records []entity.HistoryRecord
	Query   string
	// Total is the size of the last fetched snapshot before filtering.
	Total int
	// Err is set when the latest fetch failed; Records still hold the previous snapshot.
	Err string
}

const (
	EmptyFeedMessage    = "Waiting for incidents to process..."
	EmptyHistoryMessage = "No processing history yet"
)

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// OrNA returns "N/A" for empty strings.
func OrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
