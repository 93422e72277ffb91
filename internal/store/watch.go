package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/sadopc/calendar/internal/day"
)

// WatchAll is a live query over every task, newest id first. The current
// result is sent immediately and again after every table change. The channel
// holds at most one pending result; an unread result is replaced by a newer
// one. It is closed when ctx is done or the store is closed.
func (s *Store) WatchAll(ctx context.Context) <-chan Result {
	return s.watch(ctx, "all", s.ListAll)
}

// WatchDate is a live query over the tasks due exactly on d.
func (s *Store) WatchDate(ctx context.Context, d day.Date) <-chan Result {
	return s.watch(ctx, "date:"+d.String(), func(ctx context.Context) ([]Task, error) {
		return s.ListForDate(ctx, d)
	})
}

func (s *Store) watch(ctx context.Context, key string, query func(context.Context) ([]Task, error)) <-chan Result {
	out := make(chan Result, 1)
	changed, stop := s.changes.subscribe()

	go func() {
		defer close(out)
		defer stop()

		for {
			// Watchers of the same query at the same table version share
			// one execution. The shared run must not die with whichever
			// watcher started it.
			flight := fmt.Sprintf("%s@%d", key, s.version.Load())
			v, err, _ := s.loads.Do(flight, func() (any, error) {
				return query(context.WithoutCancel(ctx))
			})
			if ctx.Err() != nil {
				return
			}
			res := Result{Err: err}
			if err == nil {
				res.Tasks, _ = v.([]Task)
			}
			sendLatest(out, res)

			select {
			case <-ctx.Done():
				return
			case _, ok := <-changed:
				if !ok {
					return
				}
			}
		}
	}()
	return out
}

// sendLatest replaces any unread value in out. Only the watch goroutine
// sends on out, so the send below never blocks.
func sendLatest(out chan Result, r Result) {
	select {
	case <-out:
	default:
	}
	out <- r
}

// notifier fans table-change signals out to live queries. Each subscriber
// has a one-slot buffer so bursts of writes collapse into a single re-run
// and a slow reader never blocks a writer.
type notifier struct {
	mu     sync.Mutex
	subs   map[chan struct{}]struct{}
	closed bool
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[chan struct{}]struct{})}
}

func (n *notifier) subscribe() (<-chan struct{}, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan struct{}, 1)
	if n.closed {
		close(ch)
		return ch, func() {}
	}
	n.subs[ch] = struct{}{}
	return ch, func() { n.unsubscribe(ch) }
}

func (n *notifier) unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.subs[ch]; ok {
		delete(n.subs, ch)
		close(ch)
	}
}

func (n *notifier) publish() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (n *notifier) close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	for ch := range n.subs {
		close(ch)
		delete(n.subs, ch)
	}
}

func (n *notifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}
