package handler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	ttlcache "github.com/jellydator/ttlcache/v3"
	"github.com/pyama86/incident-dashboard/domain/entity"
)

const (
	notificationExitDelay = 300 * time.Millisecond

	healthFailureTTL  = 15 * time.Second
	historyFailureTTL = 8 * time.Second
)

// NotificationCenter はトースト通知を管理する。
// 自動で消える通知の期限は ttlcache に持たせ、期限切れは Dismiss と同じ経路で退場させる
type NotificationCenter struct {
	loop  *Dispatcher
	cache *ttlcache.Cache[string, struct{}]
	items []*entity.Notification

	mu      sync.Mutex
	running bool
}

func NewNotificationCenter(loop *Dispatcher) *NotificationCenter {
	c := &NotificationCenter{
		loop: loop,
		cache: ttlcache.New[string, struct{}](
			ttlcache.WithDisableTouchOnHit[string, struct{}](),
		),
	}
	c.cache.OnEviction(func(ctx context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, struct{}]) {
		// 手動で閉じた場合は Delete 経由で来るので無視する
		if reason != ttlcache.EvictionReasonExpired {
			return
		}
		id := item.Key()
		c.loop.Post(func() { c.Dismiss(id) })
	})
	return c
}

// Start runs the expiry loop until Stop is called.
func (c *NotificationCenter) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true
	go c.cache.Start()
}

// Stop ends the expiry loop. Stop before Start is a no-op.
func (c *NotificationCenter) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.running = false
	c.cache.Stop()
}

// Show adds a notification and returns its id. A non-positive ttl keeps it
// until dismissed.
func (c *NotificationCenter) Show(kind entity.NotificationKind, title, body string, ttl time.Duration) string {
	n := &entity.Notification{
		ID:    uuid.NewString(),
		Kind:  kind,
		Title: title,
		Body:  body,
		TTL:   ttl,
	}
	c.items = append(c.items, n)
	if ttl > 0 {
		c.cache.Set(n.ID, struct{}{}, ttl)
	}
	return n.ID
}

// Dismiss starts the exit of a notification. It is removed once the exit
// delay has passed. Unknown or already leaving ids are ignored.
func (c *NotificationCenter) Dismiss(id string) bool {
	n := c.find(id)
	if n == nil || n.Leaving {
		return false
	}
	n.Leaving = true
	c.cache.Delete(id)
	c.loop.After(notificationExitDelay, func() { c.purge(id) })
	return true
}

// Active returns the notifications still on screen, oldest first.
func (c *NotificationCenter) Active() []entity.Notification {
	out := make([]entity.Notification, 0, len(c.items))
	for _, n := range c.items {
		out = append(out, *n)
	}
	return out
}

func (c *NotificationCenter) find(id string) *entity.Notification {
	for _, n := range c.items {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (c *NotificationCenter) purge(id string) {
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}
