// Package terminal はダッシュボードのスナップショットを端末に描く
package terminal

import (
	"fmt"
	"html"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pyama86/incident-dashboard/domain/entity"
	"github.com/pyama86/incident-dashboard/presentation/view"
)

const (
	clearScreen = "\x1b[H\x1b[2J"

	defaultWidth   = 100
	feedRows       = 10
	historyRows    = 10
	logRows        = 12
	descriptionLen = 60
)

type Renderer struct {
	mu     sync.Mutex
	out    io.Writer
	theme  Theme
	width  int
	policy *bluemonday.Policy
}

func NewRenderer(out io.Writer, width int) *Renderer {
	if width <= 0 {
		width = defaultWidth
	}
	return &Renderer{
		out:    out,
		theme:  DefaultTheme,
		width:  width,
		policy: bluemonday.StrictPolicy(),
	}
}

// Render redraws the whole screen.
func (r *Renderer) Render(s view.Snapshot) {
	frame := r.Frame(s)

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = io.WriteString(r.out, clearScreen+frame)
}

// Frame returns the rendered screen without terminal control sequences.
func (r *Renderer) Frame(s view.Snapshot) string {
	sections := []string{r.header(s)}
	if s.Banner != nil {
		sections = append(sections, r.banner(s.Banner))
	}
	if len(s.Notifications) > 0 {
		sections = append(sections, r.notifications(s.Notifications))
	}
	sections = append(sections,
		r.counters(s.Counters, s.AllTimeTotal),
		r.feed(s.Feed),
		r.history(s.History),
		r.logs(s.Logs),
		r.help(),
	)
	return strings.Join(sections, "\n\n") + "\n"
}

// text は API やストリーム由来の文字列からマークアップを落とす
func (r *Renderer) text(s string) string {
	return html.UnescapeString(r.policy.Sanitize(s))
}

func (r *Renderer) title(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(r.theme.Header).Render(s)
}

func (r *Renderer) faint(s string) string {
	return lipgloss.NewStyle().Foreground(r.theme.FaintText).Render(s)
}

func (r *Renderer) header(s view.Snapshot) string {
	dot := r.theme.Error
	switch s.Connection {
	case entity.ConnectionStateConnected:
		dot = r.theme.Success
	case entity.ConnectionStateConnecting:
		dot = r.theme.Warning
	}
	status := lipgloss.NewStyle().Foreground(dot).Render("● " + s.Connection.String())

	api := "API ok"
	if !s.Health.APIHealthy {
		api = lipgloss.NewStyle().Foreground(r.theme.Error).Render("API unreachable")
	}
	mode := "storage " + string(s.Health.DatabaseMode)

	line := fmt.Sprintf("%s  %s  %s  %s", r.title("Incident Handler Dashboard"), status, api, r.faint(mode))
	return lipgloss.NewStyle().
		Width(r.width).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(r.theme.Border).
		Render(line)
}

func (r *Renderer) banner(b *entity.Banner) string {
	color := r.theme.Success
	if b.Kind == entity.BannerKindWarning {
		color = r.theme.Warning
	}
	return lipgloss.NewStyle().
		Width(r.width-2).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Foreground(color).
		Render(b.Message + r.faint("  [b] dismiss"))
}

func (r *Renderer) notifications(ns []entity.Notification) string {
	lines := make([]string, 0, len(ns))
	for i, n := range ns {
		style := lipgloss.NewStyle().Foreground(r.theme.NotificationColor(n.Kind))
		if n.Leaving {
			style = style.Faint(true)
		}
		lines = append(lines, style.Render(fmt.Sprintf("[%d] %s: %s", i+1, n.Title, n.Body)))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) counters(c entity.Counters, allTime int) string {
	cell := func(label string, n int, color lipgloss.Color) string {
		return lipgloss.NewStyle().
			Width(18).
			Foreground(color).
			Render(fmt.Sprintf("%s %d", label, n))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		cell("Success", c.Success, r.theme.Success),
		cell("Processing", c.Processing, r.theme.Processing),
		cell("Skipped", c.Skipped, r.theme.Warning),
		cell("Failed", c.Failed, r.theme.Error),
		r.faint(fmt.Sprintf("All time %d", allTime)),
	)
}

func (r *Renderer) feed(items []entity.WorkItem) string {
	lines := []string{r.title("Live Feed")}
	if len(items) == 0 {
		lines = append(lines, r.faint(view.EmptyFeedMessage))
		return strings.Join(lines, "\n")
	}
	for i, item := range items {
		if i == feedRows {
			lines = append(lines, r.faint(fmt.Sprintf("... %d more", len(items)-feedRows)))
			break
		}
		status := lipgloss.NewStyle().
			Width(11).
			Foreground(r.theme.WorkStatusColor(item.Status)).
			Render(string(item.Status))
		row := fmt.Sprintf("%s %s %-14s %s",
			r.faint(clockTime(item.UpdatedAt)),
			status,
			r.text(item.IncidentNumber),
			view.Truncate(r.text(item.Description), descriptionLen),
		)
		if item.Note != "" {
			row += r.faint("  " + view.Truncate(r.text(item.Note), descriptionLen))
		}
		lines = append(lines, lipgloss.NewStyle().MaxWidth(r.width).Render(row))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) history(h view.History) string {
	heading := "Processing History"
	if h.Query != "" {
		heading += fmt.Sprintf(" (filter %q: %d of %d)", h.Query, len(h.Records), h.Total)
	}
	lines := []string{r.title(heading)}

	if h.Err != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(r.theme.Error).Render("Unable to Load History: "+h.Err))
		lines = append(lines, r.faint("[r] retry"))
	}
	if len(h.Records) == 0 {
		if h.Err == "" {
			lines = append(lines, r.faint(view.EmptyHistoryMessage))
		}
		return strings.Join(lines, "\n")
	}

	for i, rec := range h.Records {
		if i == historyRows {
			lines = append(lines, r.faint(fmt.Sprintf("... %d more", len(h.Records)-historyRows)))
			break
		}
		status := lipgloss.NewStyle().
			Width(9).
			Foreground(r.theme.HistoryStatusColor(rec.Status)).
			Render(rec.Status)
		row := fmt.Sprintf("%-14s %s %-20s %s  %s",
			view.OrNA(r.text(rec.IncidentNumber)),
			status,
			view.Truncate(view.OrNA(r.text(rec.ActionTaken)), 20),
			view.Truncate(view.OrNA(r.text(rec.ShortDescription)), descriptionLen),
			r.faint(view.OrNA(rec.ProcessedAt)),
		)
		lines = append(lines, lipgloss.NewStyle().MaxWidth(r.width).Render(row))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) logs(records []entity.LogRecord) string {
	lines := []string{r.title("Logs")}
	for i, rec := range records {
		if i == logRows {
			break
		}
		msg := lipgloss.NewStyle().Foreground(r.theme.LogLevelColor(rec.Level)).Render(r.text(rec.Message))
		lines = append(lines, fmt.Sprintf("%s %s", r.faint("["+clockTime(rec.Timestamp)+"]"), msg))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) help() string {
	return r.faint("[c] clear feed  [l] clear logs  [r] refresh  [/text] filter  [d n] dismiss  [q] quit")
}

func clockTime(t time.Time) string {
	if t.IsZero() {
		return "--:--:--"
	}
	return t.Format("15:04:05")
}
