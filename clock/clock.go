// Package clock は時刻とタイマーを差し替え可能にする。
// 本番では Real()、テストでは Fake() を使う。
package clock

import "time"

type Clock interface {
	Now() time.Time
	// AfterFunc waits for d and then calls f. If d <= 0, f runs immediately.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer is a pending AfterFunc call.
type Timer struct {
	stopFunc  func() bool
	resetFunc func(time.Duration) bool
}

// Stop prevents the Timer from firing. Returns false if it already fired or was stopped.
func (t *Timer) Stop() bool { return t.stopFunc() }

// Reset reschedules the Timer to fire after d. Returns true if it was still pending.
func (t *Timer) Reset(d time.Duration) bool { return t.resetFunc(d) }
