package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/pyama86/incident-dashboard/clock"
	"github.com/pyama86/incident-dashboard/domain/entity"
	"github.com/pyama86/incident-dashboard/domain/repository"
)

const (
	successBannerTTL = 10 * time.Second

	memoryModeBanner       = "⚠️ Running in In-Memory Mode: Database connection unavailable. Data will not persist after restart."
	databaseRestoredBanner = "✓ Database Connected: System is now using PostgreSQL. Data will persist."
)

// HealthMonitor はバックエンドの死活とストレージモードを監視し、
// モードが切り替わったときだけバナーを出す
type HealthMonitor struct {
	ctx           context.Context
	loop          *Dispatcher
	repository    repository.HealthRepository
	activity      *ActivityLog
	notifications *NotificationCenter
	notifier      repository.BannerNotifier

	health      entity.SystemHealth
	banner      *entity.Banner
	bannerTimer *clock.Timer
}

func NewHealthMonitor(
	ctx context.Context,
	loop *Dispatcher,
	repo repository.HealthRepository,
	activity *ActivityLog,
	notifications *NotificationCenter,
	notifier repository.BannerNotifier,
) *HealthMonitor {
	return &HealthMonitor{
		ctx:           ctx,
		loop:          loop,
		repository:    repo,
		activity:      activity,
		notifications: notifications,
		notifier:      notifier,
		health: entity.SystemHealth{
			DatabaseMode: entity.DatabaseModeUnknown,
			APIHealthy:   true,
		},
	}
}

func (h *HealthMonitor) Health() entity.SystemHealth { return h.health }

// Banner returns a copy of the visible banner, or nil.
func (h *HealthMonitor) Banner() *entity.Banner {
	if h.banner == nil {
		return nil
	}
	b := *h.banner
	return &b
}

func (h *HealthMonitor) Check() {
	h.loop.Go(func() {
		report, err := h.repository.Health(h.ctx)
		h.loop.Post(func() { h.apply(report, err) })
	})
}

func (h *HealthMonitor) apply(report *entity.HealthReport, err error) {
	if err != nil {
		slog.Error("health check failed", slog.Any("err", err))
		h.health.APIHealthy = false
		h.activity.Add(entity.LogLevelError, "Health check failed: %s", err)
		h.notifications.Show(
			entity.NotificationKindError,
			"API Connection Error",
			"Unable to reach the backend API. Please check if the server is running.",
			healthFailureTTL,
		)
		return
	}
	h.health.APIHealthy = true
	h.health.LastCheck = h.loop.Now()

	mode := report.DatabaseMode
	if mode == "" {
		return
	}
	prev := h.health.DatabaseMode
	h.health.DatabaseMode = mode

	switch {
	case mode == entity.DatabaseModeMemory && prev != entity.DatabaseModeMemory:
		h.showBanner(entity.Banner{
			Kind:       entity.BannerKindWarning,
			Message:    memoryModeBanner,
			Persistent: true,
		})
		h.activity.Add(entity.LogLevelWarning, "System is using in-memory storage. Data will not persist.")
	case mode == entity.DatabaseModePostgres && prev == entity.DatabaseModeMemory:
		h.showBanner(entity.Banner{
			Kind:    entity.BannerKindSuccess,
			Message: databaseRestoredBanner,
		})
		h.activity.Add(entity.LogLevelSuccess, "Database connection restored.")
	}
}

// showBanner replaces the visible banner. A pending auto-hide of the previous
// banner is cancelled.
func (h *HealthMonitor) showBanner(b entity.Banner) {
	h.stopBannerTimer()
	h.banner = &b
	if !b.Persistent {
		shown := h.banner
		h.bannerTimer = h.loop.After(successBannerTTL, func() {
			if h.banner == shown {
				h.banner = nil
				h.bannerTimer = nil
			}
		})
	}
	if h.notifier != nil {
		h.notifier.NotifyBanner(b)
	}
}

func (h *HealthMonitor) DismissBanner() {
	h.stopBannerTimer()
	h.banner = nil
}

func (h *HealthMonitor) stopBannerTimer() {
	if h.bannerTimer != nil {
		h.bannerTimer.Stop()
		h.bannerTimer = nil
	}
}
