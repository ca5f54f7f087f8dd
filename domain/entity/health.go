package entity

import "time"

type DatabaseMode string

const (
	DatabaseModePostgres DatabaseMode = "postgres"
	DatabaseModeMemory   DatabaseMode = "memory"
	DatabaseModeUnknown  DatabaseMode = "unknown"
)

// HealthReport は /api/health のレスポンス
type HealthReport struct {
	Status            string       `json:"status"`
	DatabaseMode      DatabaseMode `json:"database_mode"`
	ActiveConnections int          `json:"active_connections"`
}

type SystemHealth struct {
	DatabaseMode DatabaseMode
	APIHealthy   bool
	LastCheck    time.Time
}

type BannerKind string

const (
	BannerKindWarning BannerKind = "warning"
	BannerKindSuccess BannerKind = "success"
)

// Banner は画面上部に1つだけ出るシステム状態メッセージ
type Banner struct {
	Kind       BannerKind
	Message    string
	Persistent bool
}
