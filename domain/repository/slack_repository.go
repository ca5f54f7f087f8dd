package repository

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Songmu/retry"
	"github.com/pyama86/incident-dashboard/domain/entity"
	"github.com/pyama86/incident-dashboard/presentation/blocks"
	"github.com/slack-go/slack"
)

// SlackRepository はバナーの切り替わりを Slack チャンネルへ転送する
type SlackRepository struct {
	client    *slack.Client
	channelID string
	mention   string
	interval  time.Duration
	wg        sync.WaitGroup
}

func NewSlackRepository(client *slack.Client, channelID, mention string) *SlackRepository {
	return &SlackRepository{
		client:    client,
		channelID: channelID,
		mention:   mention,
		interval:  3 * time.Second,
	}
}

func (h *SlackRepository) NotifyBanner(banner entity.Banner) {
	text := banner.Message
	// 警告の時だけメンションを付ける
	if banner.Kind == entity.BannerKindWarning {
		text = blocks.AddNotification(text, h.mention)
	}
	h.PostMessage(
		h.channelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionBlocks(blocks.Banner(banner)...),
	)
}

// PostMessage はバックグラウンドでリトライしながら投稿する
func (h *SlackRepository) PostMessage(channelID string, opts ...slack.MsgOption) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		err := retry.Retry(10, h.interval, func() error {
			_, _, err := h.client.PostMessage(channelID, opts...)
			if err != nil {
				slog.Warn("PostMessage", slog.Any("channelID", channelID), slog.Any("err", err))
			}
			return err
		})
		if err != nil {
			slog.Error("Failed to PostMessage", slog.Any("err", err))
		}
	}()
}

// Wait blocks until every background post has finished.
func (h *SlackRepository) Wait() {
	h.wg.Wait()
}
