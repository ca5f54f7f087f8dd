package handler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pyama86/incident-dashboard/domain/entity"
	"github.com/pyama86/incident-dashboard/domain/store"
)

type EventHandler struct {
	loop     *Dispatcher
	feed     *store.LiveFeed
	stats    *StatsAggregator
	history  *HistorySync
	activity *ActivityLog
}

func NewEventHandler(loop *Dispatcher, feed *store.LiveFeed, stats *StatsAggregator, history *HistorySync, activity *ActivityLog) *EventHandler {
	return &EventHandler{
		loop:     loop,
		feed:     feed,
		stats:    stats,
		history:  history,
		activity: activity,
	}
}

// HandleMessage parses one stream frame and applies it. Malformed frames are
// dropped with an error record.
func (h *EventHandler) HandleMessage(raw []byte) {
	env, err := entity.ParseEnvelope(raw)
	if err == nil {
		err = h.Handle(env)
	}
	if err != nil {
		slog.Warn("dropped stream message", slog.Any("err", err))
		h.activity.Add(entity.LogLevelError, "Dropped malformed stream message")
	}
}

func (h *EventHandler) Handle(env *entity.Envelope) error {
	at := env.Time(h.loop.Now())

	switch env.Type {
	case entity.EventTypeExecutionStarted:
		var ev entity.ExecutionStarted
		if err := env.Decode(&ev); err != nil {
			return err
		}
		h.executionStarted(&ev)
	case entity.EventTypeIncidentProcessing:
		var ev entity.IncidentProcessing
		if err := env.Decode(&ev); err != nil {
			return err
		}
		h.incidentProcessing(&ev, at)
	case entity.EventTypeRuleMatched:
		var ev entity.RuleMatched
		if err := env.Decode(&ev); err != nil {
			return err
		}
		h.ruleMatched(&ev, at)
	case entity.EventTypeIncidentResolved:
		var ev entity.IncidentResolved
		if err := env.Decode(&ev); err != nil {
			return err
		}
		h.incidentResolved(&ev, at)
	case entity.EventTypeIncidentSkipped:
		var ev entity.IncidentSkipped
		if err := env.Decode(&ev); err != nil {
			return err
		}
		h.incidentSkipped(&ev, at)
	case entity.EventTypeErrorOccurred:
		var ev entity.ErrorOccurred
		if err := env.Decode(&ev); err != nil {
			return err
		}
		h.errorOccurred(&ev, at)
	case entity.EventTypeExecutionCompleted:
		var ev entity.ExecutionCompleted
		if err := env.Decode(&ev); err != nil {
			return err
		}
		h.executionCompleted(&ev)
	default:
		slog.Debug("ignored stream event", slog.String("type", string(env.Type)))
	}
	return nil
}

func (h *EventHandler) executionStarted(ev *entity.ExecutionStarted) {
	h.stats.StartExecution(ev.TotalIncidents)
	h.activity.Add(entity.LogLevelInfo, "Execution started: %d incidents to process", ev.TotalIncidents)
}

func (h *EventHandler) incidentProcessing(ev *entity.IncidentProcessing, at time.Time) {
	h.feed.Upsert(entity.WorkItem{
		IncidentNumber: ev.IncidentNumber,
		Description:    ev.ShortDescription,
		Status:         entity.WorkStatusProcessing,
		CreatedAt:      at,
		UpdatedAt:      at,
	})
	h.activity.Add(entity.LogLevelInfo, "Processing %s: %s", ev.IncidentNumber, ev.ShortDescription)
}

func (h *EventHandler) ruleMatched(ev *entity.RuleMatched, at time.Time) {
	note := "Resolving..."
	if ev.Rule != nil && ev.Rule.ClosureNote != "" {
		note = ev.Rule.ClosureNote
	}
	h.feed.Update(ev.IncidentNumber, func(item *entity.WorkItem) {
		item.Note = fmt.Sprintf("Matched rule - %s", note)
		item.UpdatedAt = at
	})
	h.activity.Add(entity.LogLevelSuccess, "Rule matched for %s", ev.IncidentNumber)
}

func (h *EventHandler) incidentResolved(ev *entity.IncidentResolved, at time.Time) {
	h.finish(ev.IncidentNumber, entity.WorkStatusSuccess, "Successfully resolved", at)
	h.stats.Resolved()
	h.activity.Add(entity.LogLevelSuccess, "✓ Resolved %s", ev.IncidentNumber)
	h.history.RefreshLater()
}

func (h *EventHandler) incidentSkipped(ev *entity.IncidentSkipped, at time.Time) {
	h.finish(ev.IncidentNumber, entity.WorkStatusSkipped, ev.Reason, at)
	h.stats.Skipped()
	h.activity.Add(entity.LogLevelWarning, "⊘ Skipped %s: %s", ev.IncidentNumber, ev.Reason)
	h.history.RefreshLater()
}

func (h *EventHandler) errorOccurred(ev *entity.ErrorOccurred, at time.Time) {
	h.finish(ev.IncidentNumber, entity.WorkStatusError, ev.Error, at)
	h.stats.Failed()
	h.activity.Add(entity.LogLevelError, "✕ Error on %s: %s", ev.IncidentNumber, ev.Error)
	h.history.RefreshLater()
}

func (h *EventHandler) executionCompleted(ev *entity.ExecutionCompleted) {
	h.stats.CompleteExecution()
	h.activity.Add(entity.LogLevelInfo, "Execution completed - Success: %d, Failed: %d, Skipped: %d",
		ev.Stats.Success, ev.Stats.Failed, ev.Stats.Skipped)
}

// finish は終端状態へ移す。フィードから既に押し出されていても何もしない
func (h *EventHandler) finish(incidentNumber string, status entity.WorkStatus, note string, at time.Time) {
	h.feed.Update(incidentNumber, func(item *entity.WorkItem) {
		item.Status = status
		item.Note = note
		item.UpdatedAt = at
	})
}
