package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/pyama86/incident-dashboard/clock"
	"github.com/pyama86/incident-dashboard/domain/entity"
	"github.com/pyama86/incident-dashboard/domain/repository"
)

const DefaultReconnectInterval = 5 * time.Second

// ConnectionManager はイベントストリームへの接続を1本だけ維持する。
// 切断されたら固定間隔で張り直す
type ConnectionManager struct {
	ctx       context.Context
	loop      *Dispatcher
	dialer    repository.StreamDialer
	url       string
	interval  time.Duration
	activity  *ActivityLog
	onMessage func([]byte)

	state     entity.ConnectionState
	conn      repository.StreamConn
	gen       int
	reconnect *clock.Timer
	closed    bool
}

func NewConnectionManager(
	ctx context.Context,
	loop *Dispatcher,
	dialer repository.StreamDialer,
	url string,
	interval time.Duration,
	activity *ActivityLog,
	onMessage func([]byte),
) *ConnectionManager {
	if interval <= 0 {
		interval = DefaultReconnectInterval
	}
	return &ConnectionManager{
		ctx:       ctx,
		loop:      loop,
		dialer:    dialer,
		url:       url,
		interval:  interval,
		activity:  activity,
		onMessage: onMessage,
	}
}

func (c *ConnectionManager) State() entity.ConnectionState { return c.state }

// Connect dials the stream unless a connection is open or in progress.
func (c *ConnectionManager) Connect() {
	if c.closed || c.state != entity.ConnectionStateDisconnected {
		return
	}
	c.state = entity.ConnectionStateConnecting
	c.gen++
	gen := c.gen

	slog.Info("connecting to stream", slog.String("url", c.url))
	c.loop.Go(func() {
		conn, err := c.dialer.Dial(c.ctx, c.url)
		c.loop.Post(func() { c.opened(gen, conn, err) })
	})
}

func (c *ConnectionManager) opened(gen int, conn repository.StreamConn, err error) {
	if gen != c.gen || c.closed {
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		slog.Warn("failed to connect to stream", slog.Any("err", err))
		c.closedBy(gen, err)
		return
	}

	c.conn = conn
	c.state = entity.ConnectionStateConnected
	c.cancelReconnect()
	slog.Info("connected to stream", slog.String("url", c.url))
	c.activity.Add(entity.LogLevelInfo, "Connected to incident handler stream")

	go c.read(gen, conn)
}

// read は接続ごとに1本だけ動く。受信順に loop へ積む
func (c *ConnectionManager) read(gen int, conn repository.StreamConn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.loop.Post(func() { c.closedBy(gen, err) })
			return
		}
		c.loop.Post(func() {
			if gen == c.gen && !c.closed {
				c.onMessage(data)
			}
		})
	}
}

func (c *ConnectionManager) closedBy(gen int, err error) {
	if gen != c.gen || c.closed {
		return
	}

	if c.state != entity.ConnectionStateDisconnected {
		if c.state == entity.ConnectionStateConnected && !repository.IsNormalClose(err) {
			slog.Error("stream connection error", slog.Any("err", err))
			c.activity.Add(entity.LogLevelError, "WebSocket connection error")
		}
		if c.conn != nil {
			_ = c.conn.Close()
			c.conn = nil
		}
		c.state = entity.ConnectionStateDisconnected
		slog.Warn("disconnected from stream", slog.Any("err", err))
		c.activity.Add(entity.LogLevelWarning, "Disconnected from stream. Attempting to reconnect...")
	}
	c.scheduleReconnect()
}

// scheduleReconnect arms the one-shot reconnect timer. A timer already pending is kept.
func (c *ConnectionManager) scheduleReconnect() {
	if c.reconnect != nil {
		return
	}
	var t *clock.Timer
	t = c.loop.After(c.interval, func() {
		if c.reconnect != t {
			return
		}
		c.reconnect = nil
		c.Connect()
	})
	c.reconnect = t
}

func (c *ConnectionManager) cancelReconnect() {
	if c.reconnect != nil {
		c.reconnect.Stop()
		c.reconnect = nil
	}
}

// Close drops the connection without scheduling a reconnect.
func (c *ConnectionManager) Close() {
	c.closed = true
	c.cancelReconnect()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.state = entity.ConnectionStateDisconnected
}
