package handler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pyama86/incident-dashboard/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_RunsInOrder(t *testing.T) {
	d := NewDispatcher(clock.Fake(testEpoch))
	idle := 0
	d.OnIdle(func() { idle++ })

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		d.Post(func() {
			got = append(got, i)
			if i == 4 {
				d.Post(func() { got = append(got, 5) })
			}
		})
	}
	assert.True(t, d.Drain())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, got)
	assert.Equal(t, 1, idle)

	assert.False(t, d.Drain())
	assert.Equal(t, 1, idle)
}

func TestDispatcher_SettleWaitsForGo(t *testing.T) {
	d := NewDispatcher(clock.Fake(testEpoch))
	var result string
	d.Go(func() {
		time.Sleep(10 * time.Millisecond)
		d.Post(func() {
			d.Go(func() {
				d.Post(func() { result = "done" })
			})
		})
	})
	d.Settle()
	assert.Equal(t, "done", result)
}

func TestDispatcher_AfterAndEvery(t *testing.T) {
	fake := clock.Fake(testEpoch)
	d := NewDispatcher(fake)
	ctx, cancel := context.WithCancel(context.Background())

	ticks := 0
	d.Every(ctx, time.Second, func() { ticks++ })
	fired := false
	d.After(1500*time.Millisecond, func() { fired = true })

	for i := 0; i < 3; i++ {
		fake.Advance(time.Second)
		d.Settle()
	}
	assert.Equal(t, 3, ticks)
	assert.True(t, fired)

	cancel()
	fake.Advance(time.Second)
	d.Settle()
	fake.Advance(time.Second)
	d.Settle()
	assert.Equal(t, 3, ticks)
}

func TestDispatcher_Run(t *testing.T) {
	d := NewDispatcher(clock.Real())
	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	var runErr error
	go func() {
		defer wg.Done()
		runErr = d.Run(ctx)
	}()

	done := make(chan struct{})
	d.Post(func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("posted work was not run")
	}

	cancel()
	wg.Wait()
	require.ErrorIs(t, runErr, context.Canceled)
}
