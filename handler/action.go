package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pyama86/incident-dashboard/domain/entity"
)

const (
	ActionClearFeed           = "clear_feed"
	ActionClearLogs           = "clear_logs"
	ActionRefreshHistory      = "refresh_history"
	ActionFilterHistory       = "filter_history"
	ActionDismissBanner       = "dismiss_banner"
	ActionDismissNotification = "dismiss_notification"
)

// Action は画面からの操作1件。Value は filter の文字列や通知 ID に使う
type Action struct {
	ID    string
	Value string
}

func (d *Dashboard) HandleAction(a Action) error {
	switch a.ID {
	case ActionClearFeed:
		d.feed.Clear()
		d.activity.Add(entity.LogLevelInfo, "Live feed cleared")
	case ActionClearLogs:
		d.activity.Clear()
		d.activity.Add(entity.LogLevelInfo, "Logs cleared")
	case ActionRefreshHistory:
		d.history.Refresh()
		d.stats.Load()
		d.activity.Add(entity.LogLevelInfo, "History refreshed")
	case ActionFilterHistory:
		d.history.SetFilter(a.Value)
	case ActionDismissBanner:
		d.health.DismissBanner()
	case ActionDismissNotification:
		d.notifications.Dismiss(a.Value)
	default:
		return fmt.Errorf("unknown action %q", a.ID)
	}
	return nil
}

// ParseAction reads one line typed into the terminal.
//
//	c / clear        clear the live feed
//	l / logs         clear the log console
//	r / refresh      refresh history and statistics
//	/<text>          filter history, "/" alone clears the filter
//	b / banner       dismiss the banner
//	d <n|id>         dismiss the n-th notification (1-origin) or the one with id
//
// Notification indexes are resolved against the notifications passed in.
func ParseAction(line string, notifications []entity.Notification) (Action, bool) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "/") {
		return Action{ID: ActionFilterHistory, Value: strings.TrimSpace(line[1:])}, true
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Action{}, false
	}
	switch strings.ToLower(fields[0]) {
	case "c", "clear":
		return Action{ID: ActionClearFeed}, true
	case "l", "logs":
		return Action{ID: ActionClearLogs}, true
	case "r", "refresh":
		return Action{ID: ActionRefreshHistory}, true
	case "b", "banner":
		return Action{ID: ActionDismissBanner}, true
	case "d", "dismiss":
		if len(fields) < 2 {
			return Action{}, false
		}
		if n, err := strconv.Atoi(fields[1]); err == nil {
			if n < 1 || n > len(notifications) {
				return Action{}, false
			}
			return Action{ID: ActionDismissNotification, Value: notifications[n-1].ID}, true
		}
		return Action{ID: ActionDismissNotification, Value: fields[1]}, true
	}
	return Action{}, false
}
