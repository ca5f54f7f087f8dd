package handler

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pyama86/incident-dashboard/domain/repository"
	"github.com/pyama86/incident-dashboard/presentation/terminal"
	"github.com/slack-go/slack"
)

// Handle は設定を読み込んで端末ダッシュボードを起動し、ctx が終わるか q が入力されるまで動かす
func Handle(ctx context.Context, configPath string) error {
	cfg, err := repository.NewConfigRepository(configPath)
	if err != nil {
		return err
	}

	streamURL, err := cfg.StreamURL()
	if err != nil {
		return err
	}

	opts := NewOptions(cfg)
	opts.Repository = repository.NewAPIRepository(cfg.BaseURL, cfg.RequestTimeout)
	opts.Dialer = repository.NewWebSocketDialer(cfg.RequestTimeout)
	opts.StreamURL = streamURL
	opts.Renderer = terminal.NewRenderer(os.Stdout, 0)

	var slackRepository *repository.SlackRepository
	if cfg.SlackEnabled() {
		slackRepository = repository.NewSlackRepository(slack.New(cfg.Slack.Token), cfg.Slack.Channel, cfg.Slack.Mention)
		opts.BannerNotifier = slackRepository
		slog.Info("mirroring banners to slack", slog.String("channel", cfg.Slack.Channel))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	dashboard := NewDashboard(ctx, opts)
	dashboard.Start()
	go dashboard.ReadCommands(os.Stdin, cancel)

	slog.Info("dashboard started", slog.String("base_url", cfg.BaseURL), slog.String("stream", streamURL))
	err = dashboard.Run(ctx)
	if slackRepository != nil {
		slackRepository.Wait()
	}
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("dashboard stopped: %w", err)
	}
	return nil
}

// ReadCommands turns each input line into an action until r is exhausted.
// "q" calls quit.
func (d *Dashboard) ReadCommands(r io.Reader, quit func()) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "q" || line == "quit" {
			quit()
			return
		}
		d.loop.Post(func() {
			a, ok := ParseAction(line, d.notifications.Active())
			if !ok {
				slog.Warn("unknown command", slog.String("command", line))
				return
			}
			if err := d.HandleAction(a); err != nil {
				slog.Warn("failed to handle action", slog.String("action", a.ID), slog.Any("err", err))
			}
		})
	}
	if err := scanner.Err(); err != nil {
		slog.Error("failed to read commands", slog.Any("err", err))
	}
}
