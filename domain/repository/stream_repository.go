package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// StreamConn は1本の双方向接続。*websocket.Conn がそのまま満たす
type StreamConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

type StreamDialer interface {
	Dial(ctx context.Context, url string) (StreamConn, error)
}

type WebSocketDialer struct {
	dialer *websocket.Dialer
}

func NewWebSocketDialer(handshakeTimeout time.Duration) *WebSocketDialer {
	return &WebSocketDialer{
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: handshakeTimeout,
		},
	}
}

func (d *WebSocketDialer) Dial(ctx context.Context, url string) (StreamConn, error) {
	conn, resp, err := d.dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to dial %s: HTTP %d: %w", url, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	return conn, nil
}

// IsNormalClose reports whether err is a graceful close from the peer.
func IsNormalClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
