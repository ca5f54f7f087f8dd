package repository

import (
	"context"

	"github.com/pyama86/incident-dashboard/domain/entity"
)

type HealthRepository interface {
	Health(context.Context) (*entity.HealthReport, error)
}

type HistoryRepository interface {
	History(context.Context, int) ([]entity.HistoryRecord, error)
}

type StatisticsRepository interface {
	Statistics(context.Context) (*entity.Statistics, error)
}

type ExecutionLogRepository interface {
	ExecutionLogs(context.Context, int) ([]entity.ExecutionLog, error)
}

type Repository interface {
	HealthRepository
	HistoryRepository
	StatisticsRepository
	ExecutionLogRepository
}

// BannerNotifier はバナーの切り替わりを外部へ転送する
type BannerNotifier interface {
	NotifyBanner(entity.Banner)
}
