package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/pyama86/incident-dashboard/clock"
	"github.com/pyama86/incident-dashboard/domain/entity"
	"github.com/pyama86/incident-dashboard/domain/repository"
)

// HistorySync は処理履歴のスナップショットを定期的に取り直す。
// 取得に失敗しても直前のスナップショットは消さない
type HistorySync struct {
	ctx           context.Context
	loop          *Dispatcher
	repository    repository.HistoryRepository
	activity      *ActivityLog
	notifications *NotificationCenter

	limit int
	delay time.Duration

	records []entity.HistoryRecord
	query   string
	err     error

	deferred    *clock.Timer
	deferredGen int
}

func NewHistorySync(
	ctx context.Context,
	loop *Dispatcher,
	repo repository.HistoryRepository,
	activity *ActivityLog,
	notifications *NotificationCenter,
	limit int,
	delay time.Duration,
) *HistorySync {
	return &HistorySync{
		ctx:           ctx,
		loop:          loop,
		repository:    repo,
		activity:      activity,
		notifications: notifications,
		limit:         limit,
		delay:         delay,
	}
}

// Refresh fetches the latest snapshot off the loop and replaces the current one.
func (h *HistorySync) Refresh() {
	h.loop.Go(func() {
		records, err := h.repository.History(h.ctx, h.limit)
		h.loop.Post(func() { h.apply(records, err) })
	})
}

func (h *HistorySync) apply(records []entity.HistoryRecord, err error) {
	if err != nil {
		slog.Error("failed to load history", slog.Any("err", err))
		h.err = err
		h.activity.Add(entity.LogLevelError, "Failed to load processing history")
		h.notifications.Show(
			entity.NotificationKindError,
			"History Load Failed",
			"Unable to load incident processing history. The data may be temporarily unavailable.",
			historyFailureTTL,
		)
		return
	}
	h.err = nil
	h.records = records
}

// RefreshLater schedules a refresh after the configured delay. Calls made
// before it fires push it back so a burst of terminal events costs one fetch.
func (h *HistorySync) RefreshLater() {
	if h.deferred != nil {
		h.deferred.Stop()
	}
	h.deferredGen++
	gen := h.deferredGen
	h.deferred = h.loop.After(h.delay, func() {
		if gen != h.deferredGen {
			return
		}
		h.deferred = nil
		h.Refresh()
	})
}

func (h *HistorySync) SetFilter(query string) { h.query = query }

func (h *HistorySync) Query() string { return h.query }

func (h *HistorySync) Err() error { return h.err }

func (h *HistorySync) Total() int { return len(h.records) }

// Filtered returns the records matching the current filter, in server order.
func (h *HistorySync) Filtered() []entity.HistoryRecord {
	out := make([]entity.HistoryRecord, 0, len(h.records))
	for _, r := range h.records {
		if r.Matches(h.query) {
			out = append(out, r)
		}
	}
	return out
}
