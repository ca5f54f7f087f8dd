package blocks

import (
	"github.com/pyama86/incident-dashboard/domain/entity"
	"github.com/slack-go/slack"
)

var bannerHeader = map[entity.BannerKind]string{
	entity.BannerKindWarning: ":warning: *ストレージモード警告*",
	entity.BannerKindSuccess: ":white_check_mark: *データベース復旧*",
}

func Banner(banner entity.Banner) []slack.Block {
	header, ok := bannerHeader[banner.Kind]
	if !ok {
		header = ":information_source: *システム通知*"
	}

	return []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(
				"mrkdwn",
				header,
				false,
				false,
			),
			nil,
			nil,
		),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(
				"plain_text",
				banner.Message,
				false,
				false,
			),
			nil,
			nil,
		),
	}
}
