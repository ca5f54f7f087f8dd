package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

func NewConfigRepository(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	v.SetEnvPrefix("dashboard")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("base_url", "http://localhost:8000")
	v.SetDefault("ws_path", "/ws")
	v.SetDefault("reconnect_interval", 5*time.Second)
	v.SetDefault("health_interval", 60*time.Second)
	v.SetDefault("history_interval", 30*time.Second)
	v.SetDefault("history_limit", 100)
	v.SetDefault("history_refresh_delay", time.Second)
	v.SetDefault("feed_capacity", 50)
	v.SetDefault("log_capacity", 100)
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("slack.channel", "")
	v.SetDefault("slack.mention", "none")

	// 設定ファイルが無ければデフォルトと環境変数だけで動かす
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config error: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config error: %w", err)
	}
	c.Slack.Token = os.Getenv("SLACK_BOT_TOKEN")

	valid := validator.New()
	if err := valid.Struct(c); err != nil {
		return nil, fmt.Errorf("validate config error: %w", err)
	}

	return &c, nil
}

type Config struct {
	BaseURL             string        `mapstructure:"base_url" validate:"required,url"`
	WSPath              string        `mapstructure:"ws_path" validate:"required,startswith=/"`
	ReconnectInterval   time.Duration `mapstructure:"reconnect_interval" validate:"gt=0"`
	HealthInterval      time.Duration `mapstructure:"health_interval" validate:"gt=0"`
	HistoryInterval     time.Duration `mapstructure:"history_interval" validate:"gt=0"`
	HistoryLimit        int           `mapstructure:"history_limit" validate:"gt=0,lte=1000"`
	HistoryRefreshDelay time.Duration `mapstructure:"history_refresh_delay" validate:"gt=0"`
	FeedCapacity        int           `mapstructure:"feed_capacity" validate:"gt=0"`
	LogCapacity         int           `mapstructure:"log_capacity" validate:"gt=0"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	Slack               SlackConfig   `mapstructure:"slack"`
}

type SlackConfig struct {
	Channel string `mapstructure:"channel"`
	// 警告バナーを転送するときのメンション。here, channel, none
	Mention string `mapstructure:"mention" validate:"oneof=here channel none"`
	Token   string `mapstructure:"-"`
}

// SlackEnabled reports whether banner transitions should be mirrored to Slack.
func (c *Config) SlackEnabled() bool {
	return c.Slack.Channel != "" && c.Slack.Token != ""
}

// StreamURL は base_url の scheme を ws/wss に読み替えたストリームの URL を返す
func (c *Config) StreamURL() (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base_url %s: %w", c.BaseURL, err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported base_url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + c.WSPath
	return u.String(), nil
}
