package handler

import (
	"fmt"
	"log/slog"

	"github.com/pyama86/incident-dashboard/clock"
	"github.com/pyama86/incident-dashboard/domain/entity"
	"github.com/pyama86/incident-dashboard/domain/store"
)

// ActivityLog は画面のログコンソールに出すレコードを積む
type ActivityLog struct {
	store *store.LogStore
	clock clock.Clock
}

func NewActivityLog(logs *store.LogStore, clk clock.Clock) *ActivityLog {
	return &ActivityLog{store: logs, clock: clk}
}

func (a *ActivityLog) Add(level entity.LogLevel, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	a.store.Add(level, message, a.clock.Now())
	slog.Debug("activity", slog.String("level", string(level)), slog.String("message", message))
}

func (a *ActivityLog) Records() []entity.LogRecord {
	return a.store.Records()
}

func (a *ActivityLog) Clear() {
	a.store.Clear()
}
