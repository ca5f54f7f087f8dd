package terminal

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/pyama86/incident-dashboard/domain/entity"
)

// Theme は ANSI 256 色で表したダッシュボードの配色
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	Header     lipgloss.Color
	Border     lipgloss.Color

	Success    lipgloss.Color
	Processing lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Info       lipgloss.Color
}

var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("242"),
	Header:     lipgloss.Color("75"),
	Border:     lipgloss.Color("238"),
	Success:    lipgloss.Color("114"),
	Processing: lipgloss.Color("75"),
	Warning:    lipgloss.Color("221"),
	Error:      lipgloss.Color("203"),
	Info:       lipgloss.Color("250"),
}

func (t Theme) WorkStatusColor(status entity.WorkStatus) lipgloss.Color {
	switch status {
	case entity.WorkStatusSuccess:
		return t.Success
	case entity.WorkStatusSkipped:
		return t.Warning
	case entity.WorkStatusError:
		return t.Error
	case entity.WorkStatusProcessing:
		return t.Processing
	}
	return t.FaintText
}

// HistoryStatusColor maps the server's history status strings.
func (t Theme) HistoryStatusColor(status string) lipgloss.Color {
	switch status {
	case "success", "resolved":
		return t.Success
	case "skipped":
		return t.Warning
	case "failed", "error":
		return t.Error
	}
	return t.Info
}

func (t Theme) LogLevelColor(level entity.LogLevel) lipgloss.Color {
	switch level {
	case entity.LogLevelSuccess:
		return t.Success
	case entity.LogLevelWarning:
		return t.Warning
	case entity.LogLevelError:
		return t.Error
	}
	return t.Info
}

func (t Theme) NotificationColor(kind entity.NotificationKind) lipgloss.Color {
	switch kind {
	case entity.NotificationKindSuccess:
		return t.Success
	case entity.NotificationKindWarning:
		return t.Warning
	case entity.NotificationKindError:
		return t.Error
	}
	return t.Info
}
