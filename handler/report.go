package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/pyama86/incident-dashboard/domain/repository"
	"github.com/pyama86/incident-dashboard/presentation/report"
)

type ReportOptions struct {
	HTML     bool
	Filter   string
	LogLimit int
}

// Report は各 API を1回ずつ叩いてレポートを w に書く
func Report(ctx context.Context, configPath string, opts ReportOptions, w io.Writer) error {
	cfg, err := repository.NewConfigRepository(configPath)
	if err != nil {
		return err
	}
	repo := repository.NewAPIRepository(cfg.BaseURL, cfg.RequestTimeout)
	in := CollectReport(ctx, repo, cfg.HistoryLimit, opts.LogLimit)
	in.GeneratedAt = time.Now()
	in.Filter = opts.Filter

	out := report.Markdown(in)
	if opts.HTML {
		out = report.HTML(in)
	}
	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// CollectReport fetches every snapshot in parallel. Only a health failure is
// kept on the result; the other sections fall back to their empty rendering.
func CollectReport(ctx context.Context, repo repository.Repository, historyLimit, logLimit int) report.Input {
	var in report.Input
	var wg sync.WaitGroup

	wg.Add(4)
	go func() {
		defer wg.Done()
		in.Health, in.HealthErr = repo.Health(ctx)
	}()
	go func() {
		defer wg.Done()
		stats, err := repo.Statistics(ctx)
		if err != nil {
			slog.Warn("Statistics temporarily unavailable", slog.Any("err", err))
			return
		}
		in.Statistics = stats
	}()
	go func() {
		defer wg.Done()
		history, err := repo.History(ctx, historyLimit)
		if err != nil {
			slog.Error("failed to load history", slog.Any("err", err))
			return
		}
		in.History = history
	}()
	go func() {
		defer wg.Done()
		if logLimit <= 0 {
			return
		}
		logs, err := repo.ExecutionLogs(ctx, logLimit)
		if err != nil {
			slog.Error("failed to load execution logs", slog.Any("err", err))
			return
		}
		in.Logs = logs
	}()
	wg.Wait()
	return in
}
