// Package observe provides small observable state holders used to connect
// the service layer to the terminal UI.
package observe

import (
	"context"
	"sync"
)

// Observable is a read-only view of a stream of values with a current value.
type Observable[T any] interface {
	Get() T
	Subscribe(ctx context.Context) <-chan T
}

// Value holds a single value and notifies subscribers when it changes.
type Value[T any] struct {
	mu   sync.Mutex
	v    T
	subs map[chan T]struct{}
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{v: initial, subs: make(map[chan T]struct{})}
}

func (o *Value[T]) Get() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.v
}

// Set stores v and delivers it to every subscriber.
func (o *Value[T]) Set(v T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.v = v
	for ch := range o.subs {
		offer(ch, v)
	}
}

// Update atomically replaces the value with fn(current) and returns it.
func (o *Value[T]) Update(fn func(T) T) T {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.v = fn(o.v)
	for ch := range o.subs {
		offer(ch, o.v)
	}
	return o.v
}

// Subscribe returns a channel that receives the current value immediately and
// every later value. A subscriber that falls behind only sees the newest
// value. The channel is closed when ctx is done.
func (o *Value[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)
	o.mu.Lock()
	ch <- o.v
	o.subs[ch] = struct{}{}
	o.mu.Unlock()

	go func() {
		<-ctx.Done()
		o.mu.Lock()
		delete(o.subs, ch)
		close(ch)
		o.mu.Unlock()
	}()
	return ch
}

// Subscribers reports the number of live subscriptions.
func (o *Value[T]) Subscribers() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.subs)
}

// offer replaces any unread value in ch with v. Callers hold the lock that
// guards every send on ch.
func offer[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}
