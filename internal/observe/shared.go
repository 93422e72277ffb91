package observe

import (
	"context"
	"sync"
	"time"
)

// Source produces values for a Shared stream until ctx is done.
type Source[T any] func(ctx context.Context, emit func(T))

// Shared runs one upstream Source on behalf of any number of subscribers.
//
// The upstream starts with the first subscriber. Subscribers joining a warm
// stream receive the latest value immediately. After the last subscriber
// leaves the upstream keeps running for the grace window, so a quick
// re-subscribe reuses it; once the window expires the upstream is cancelled
// and the cached value is reset to the zero value.
type Shared[T any] struct {
	source Source[T]
	grace  time.Duration

	mu     sync.Mutex
	value  T
	warm   bool
	subs   map[chan T]struct{}
	run    uint64 // identifies the current upstream run
	cancel context.CancelFunc
	idle   uint64 // identifies the pending eviction
	timer  *time.Timer
	closed bool
	done   chan struct{}
}

func NewShared[T any](grace time.Duration, source Source[T]) *Shared[T] {
	return &Shared[T]{
		source: source,
		grace:  grace,
		subs:   make(map[chan T]struct{}),
		done:   make(chan struct{}),
	}
}

// Get returns the cached value, or the zero value while the stream is cold.
func (s *Shared[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Warm reports whether the upstream has emitted since it last started.
func (s *Shared[T]) Warm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warm
}

// Active reports whether the upstream is running.
func (s *Shared[T]) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Subscribe attaches a subscriber until ctx is done or the stream is closed.
func (s *Shared[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch
	}
	s.idle++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel == nil {
		s.start()
	}
	if s.warm {
		ch <- s.value
	}
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-s.done:
		}
		s.unsubscribe(ch)
	}()
	return ch
}

// Close cancels the upstream and closes every subscriber channel.
func (s *Shared[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
	s.stop()
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
}

// start must be called with s.mu held.
func (s *Shared[T]) start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.run++
	run := s.run
	go s.source(ctx, func(v T) { s.emit(run, v) })
}

// stop must be called with s.mu held.
func (s *Shared[T]) stop() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	var zero T
	s.value = zero
	s.warm = false
}

func (s *Shared[T]) emit(run uint64, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run != s.run || s.cancel == nil {
		return
	}
	s.value = v
	s.warm = true
	for ch := range s.subs {
		offer(ch, v)
	}
}

func (s *Shared[T]) unsubscribe(ch chan T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[ch]; !ok {
		return
	}
	delete(s.subs, ch)
	close(ch)

	if len(s.subs) > 0 || s.cancel == nil {
		return
	}
	s.idle++
	idle := s.idle
	if s.grace <= 0 {
		s.stop()
		return
	}
	s.timer = time.AfterFunc(s.grace, func() { s.evict(idle) })
}

func (s *Shared[T]) evict(idle uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idle != s.idle || len(s.subs) > 0 {
		return
	}
	s.stop()
}
