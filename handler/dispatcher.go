package handler

import (
	"context"
	"sync"
	"time"

	"github.com/pyama86/incident-dashboard/clock"
)

// Dispatcher は状態を変更する処理をすべて1本のループで順番に実行する。
// ストリームの受信、タイマー、HTTP の結果、ユーザー操作はどれも Post で積まれる。
type Dispatcher struct {
	clock clock.Clock

	mu      sync.Mutex
	pending []func()
	wake    chan struct{}

	// Go で起動した短命な goroutine。Settle が完了を待つ
	inflight sync.WaitGroup

	idle func()
}

func NewDispatcher(clk clock.Clock) *Dispatcher {
	return &Dispatcher{
		clock: clk,
		wake:  make(chan struct{}, 1),
	}
}

func (d *Dispatcher) Clock() clock.Clock { return d.clock }

func (d *Dispatcher) Now() time.Time { return d.clock.Now() }

// OnIdle registers f to run on the loop after every drained batch.
func (d *Dispatcher) OnIdle(f func()) { d.idle = f }

// Post queues f to run on the loop. Safe to call from any goroutine.
func (d *Dispatcher) Post(f func()) {
	d.mu.Lock()
	d.pending = append(d.pending, f)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// After runs f on the loop once delay has elapsed.
func (d *Dispatcher) After(delay time.Duration, f func()) *clock.Timer {
	return d.clock.AfterFunc(delay, func() { d.Post(f) })
}

// Every runs f on the loop at a fixed interval until ctx is done.
// 次の tick はタイマーのコールバック内で張る
func (d *Dispatcher) Every(ctx context.Context, interval time.Duration, f func()) {
	var tick func()
	tick = func() {
		if ctx.Err() != nil {
			return
		}
		d.clock.AfterFunc(interval, tick)
		d.Post(func() {
			if ctx.Err() == nil {
				f()
			}
		})
	}
	d.clock.AfterFunc(interval, tick)
}

// Go runs f off the loop. f reports back by calling Post.
func (d *Dispatcher) Go(f func()) {
	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		f()
	}()
}

func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.wake:
			d.Drain()
		}
	}
}

// Drain runs everything queued so far, including work queued while draining.
// Returns false when nothing was queued.
func (d *Dispatcher) Drain() bool {
	ran := false
	for {
		d.mu.Lock()
		batch := d.pending
		d.pending = nil
		d.mu.Unlock()

		if len(batch) == 0 {
			break
		}
		for _, f := range batch {
			f()
		}
		ran = true
	}
	if ran && d.idle != nil {
		d.idle()
	}
	return ran
}

// Settle drains the queue until no goroutine started with Go is running and
// nothing is left to run. Used instead of Run when driving the loop by hand.
func (d *Dispatcher) Settle() {
	for {
		d.inflight.Wait()
		if !d.Drain() {
			return
		}
	}
}
