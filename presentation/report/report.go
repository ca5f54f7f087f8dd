// Package report はバックエンドの状態を1回分のレポートにまとめる
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pyama86/incident-dashboard/domain/entity"
	"github.com/pyama86/incident-dashboard/presentation/view"
	"github.com/russross/blackfriday/v2"
)

type Input struct {
	GeneratedAt time.Time
	Health      *entity.HealthReport
	HealthErr   error
	Statistics  *entity.Statistics
	History     []entity.HistoryRecord
	Logs        []entity.ExecutionLog
	Filter      string
}

// Markdown renders the report as markdown.
func Markdown(in Input) string {
	return fmt.Sprintf(`
# Incident Handler Report

Generated at %s

## System Health

%s

## Statistics

%s

## Processing History

%s

## Execution Logs

%s
`, in.GeneratedAt.Format(time.RFC3339), healthSection(in), statisticsSection(in.Statistics), historySection(in.History, in.Filter), logsSection(in.Logs))
}

// HTML renders the markdown report and strips anything unsafe from the result.
func HTML(in Input) string {
	unsafe := blackfriday.Run([]byte(Markdown(in)))
	return string(bluemonday.UGCPolicy().SanitizeBytes(unsafe))
}

func healthSection(in Input) string {
	if in.HealthErr != nil {
		return fmt.Sprintf("API unreachable: %s", cell(in.HealthErr.Error()))
	}
	if in.Health == nil {
		return "N/A"
	}
	mode := in.Health.DatabaseMode
	if mode == "" {
		mode = entity.DatabaseModeUnknown
	}
	lines := []string{
		fmt.Sprintf("- Status: %s", view.OrNA(in.Health.Status)),
		fmt.Sprintf("- Storage: %s", mode),
		fmt.Sprintf("- Active connections: %d", in.Health.ActiveConnections),
	}
	if mode == entity.DatabaseModeMemory {
		lines = append(lines, "", "> Running in In-Memory Mode. Data will not persist after restart.")
	}
	return strings.Join(lines, "\n")
}

func statisticsSection(s *entity.Statistics) string {
	if s == nil || s.Today == nil {
		return "Statistics temporarily unavailable"
	}
	allTime := "N/A"
	if s.AllTime != nil {
		allTime = fmt.Sprint(s.AllTime.Total)
	}
	return fmt.Sprintf(`| Today | Success | Skipped | Failed | All time |
|---|---|---|---|---|
| %d | %d | %d | %d | %s |`, s.Today.Total, s.Today.Success, s.Today.Skipped, s.Today.Failed, allTime)
}

func historySection(records []entity.HistoryRecord, filter string) string {
	var b strings.Builder
	if filter != "" {
		fmt.Fprintf(&b, "Filter: `%s`\n\n", strings.ReplaceAll(filter, "`", ""))
	}
	matched := 0
	for _, r := range records {
		if !r.Matches(filter) {
			continue
		}
		if matched == 0 {
			b.WriteString("| Incident | Description | Status | Action | Processed at |\n|---|---|---|---|---|\n")
		}
		matched++
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			cell(view.OrNA(r.IncidentNumber)),
			cell(view.Truncate(view.OrNA(r.ShortDescription), 60)),
			cell(r.Status),
			cell(view.OrNA(r.ActionTaken)),
			cell(view.OrNA(r.ProcessedAt)),
		)
	}
	if matched == 0 {
		b.WriteString(view.EmptyHistoryMessage)
	}
	return strings.TrimRight(b.String(), "\n")
}

func logsSection(logs []entity.ExecutionLog) string {
	if len(logs) == 0 {
		return "No execution logs"
	}
	lines := make([]string, 0, len(logs))
	for _, l := range logs {
		line := fmt.Sprintf("- `%s` %s", cell(l.Timestamp), cell(l.EventType))
		if l.IncidentNumber != "" {
			line += " " + cell(l.IncidentNumber)
		}
		if l.Message != "" {
			line += ": " + cell(l.Message)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// cell はテーブルを崩す文字を潰す
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "`", "'")
	return strings.Join(strings.Fields(s), " ")
}
