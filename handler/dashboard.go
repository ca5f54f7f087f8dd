package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/pyama86/incident-dashboard/clock"
	"github.com/pyama86/incident-dashboard/domain/repository"
	"github.com/pyama86/incident-dashboard/domain/store"
	"github.com/pyama86/incident-dashboard/presentation/view"
)

// Renderer は loop 上からスナップショットを受け取って描画する
type Renderer interface {
	Render(view.Snapshot)
}

type Options struct {
	Repository     repository.Repository
	Dialer         repository.StreamDialer
	StreamURL      string
	Clock          clock.Clock
	Renderer       Renderer
	BannerNotifier repository.BannerNotifier

	FeedCapacity        int
	LogCapacity         int
	HistoryLimit        int
	ReconnectInterval   time.Duration
	HealthInterval      time.Duration
	HistoryInterval     time.Duration
	HistoryRefreshDelay time.Duration
}

// NewOptions copies the tunables from cfg. Collaborators are left for the caller.
func NewOptions(cfg *repository.Config) Options {
	return Options{
		FeedCapacity:        cfg.FeedCapacity,
		LogCapacity:         cfg.LogCapacity,
		HistoryLimit:        cfg.HistoryLimit,
		ReconnectInterval:   cfg.ReconnectInterval,
		HealthInterval:      cfg.HealthInterval,
		HistoryInterval:     cfg.HistoryInterval,
		HistoryRefreshDelay: cfg.HistoryRefreshDelay,
	}
}

func (o *Options) setDefaults() {
	if o.Clock == nil {
		o.Clock = clock.Real()
	}
	if o.FeedCapacity <= 0 {
		o.FeedCapacity = store.DefaultFeedCapacity
	}
	if o.LogCapacity <= 0 {
		o.LogCapacity = store.DefaultLogCapacity
	}
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = 100
	}
	if o.ReconnectInterval <= 0 {
		o.ReconnectInterval = DefaultReconnectInterval
	}
	if o.HealthInterval <= 0 {
		o.HealthInterval = time.Minute
	}
	if o.HistoryInterval <= 0 {
		o.HistoryInterval = 30 * time.Second
	}
	if o.HistoryRefreshDelay <= 0 {
		o.HistoryRefreshDelay = time.Second
	}
}

// Dashboard はストリームと HTTP スナップショットを1つの画面状態にまとめる
type Dashboard struct {
	ctx      context.Context
	opts     Options
	loop     *Dispatcher
	renderer Renderer

	feed          *store.LiveFeed
	activity      *ActivityLog
	notifications *NotificationCenter
	stats         *StatsAggregator
	health        *HealthMonitor
	history       *HistorySync
	events        *EventHandler
	conn          *ConnectionManager
}

func NewDashboard(ctx context.Context, opts Options) *Dashboard {
	opts.setDefaults()

	loop := NewDispatcher(opts.Clock)
	d := &Dashboard{
		ctx:      ctx,
		opts:     opts,
		loop:     loop,
		renderer: opts.Renderer,
		feed:     store.NewLiveFeed(opts.FeedCapacity),
		activity: NewActivityLog(store.NewLogStore(opts.LogCapacity), opts.Clock),
	}
	d.notifications = NewNotificationCenter(loop)
	d.stats = NewStatsAggregator(ctx, loop, opts.Repository)
	d.health = NewHealthMonitor(ctx, loop, opts.Repository, d.activity, d.notifications, opts.BannerNotifier)
	d.history = NewHistorySync(ctx, loop, opts.Repository, d.activity, d.notifications, opts.HistoryLimit, opts.HistoryRefreshDelay)
	d.events = NewEventHandler(loop, d.feed, d.stats, d.history, d.activity)
	d.conn = NewConnectionManager(ctx, loop, opts.Dialer, opts.StreamURL, opts.ReconnectInterval, d.activity, d.events.HandleMessage)

	loop.OnIdle(d.render)
	return d
}

// Start queues the startup fetches, the first connection attempt and the
// periodic polls.
func (d *Dashboard) Start() {
	d.notifications.Start()
	d.loop.Post(func() {
		d.health.Check()
		d.conn.Connect()
		d.history.Refresh()
		d.stats.Load()

		d.loop.Every(d.ctx, d.opts.HealthInterval, d.health.Check)
		d.loop.Every(d.ctx, d.opts.HistoryInterval, d.history.Refresh)
	})
}

// Run drives the loop until ctx is done, then closes the stream.
func (d *Dashboard) Run(ctx context.Context) error {
	err := d.loop.Run(ctx)
	d.Close()
	return err
}

func (d *Dashboard) Close() {
	d.conn.Close()
	d.notifications.Stop()
}

// Dispatch queues a user action.
func (d *Dashboard) Dispatch(a Action) {
	d.loop.Post(func() {
		if err := d.HandleAction(a); err != nil {
			slog.Warn("failed to handle action", slog.String("action", a.ID), slog.Any("err", err))
		}
	})
}

func (d *Dashboard) Snapshot() view.Snapshot {
	history := view.History{
		Records: d.history.Filtered(),
		Query:   d.history.Query(),
		Total:   d.history.Total(),
	}
	if err := d.history.Err(); err != nil {
		history.Err = err.Error()
	}

	return view.Snapshot{
		GeneratedAt:   d.loop.Now(),
		Connection:    d.conn.State(),
		Counters:      d.stats.Counters(),
		AllTimeTotal:  d.stats.AllTimeTotal(),
		Feed:          d.feed.Items(),
		Logs:          d.activity.Records(),
		History:       history,
		Health:        d.health.Health(),
		Banner:        d.health.Banner(),
		Notifications: d.notifications.Active(),
	}
}

func (d *Dashboard) render() {
	if d.renderer != nil {
		d.renderer.Render(d.Snapshot())
	}
}
