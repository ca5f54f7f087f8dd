// Package store はダッシュボードが保持する上限付きのコレクションを提供する。
// どれもイベントループ上からのみ触る前提で、ロックは持たない。
package store

// RingBuffer is a fixed-capacity list ordered newest first. Pushing into a
// full buffer overwrites the oldest entry.
type RingBuffer[T any] struct {
	buf   []T
	start int
	size  int
}

func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer[T]{buf: make([]T, capacity)}
}

// Push inserts v at the front. When the buffer was full the oldest entry is
// returned with evicted set to true.
func (r *RingBuffer[T]) Push(v T) (old T, evicted bool) {
	c := len(r.buf)
	r.start = (r.start - 1 + c) % c
	if r.size == c {
		old, evicted = r.buf[r.start], true
	} else {
		r.size++
	}
	r.buf[r.start] = v
	return old, evicted
}

// Items returns a copy of the entries, newest first.
func (r *RingBuffer[T]) Items() []T {
	items := make([]T, r.size)
	for i := range items {
		items[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return items
}

func (r *RingBuffer[T]) Len() int { return r.size }

func (r *RingBuffer[T]) Clear() {
	var zero T
	for i := range r.buf {
		r.buf[i] = zero
	}
	r.start, r.size = 0, 0
}
