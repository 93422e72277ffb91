// Package service holds the screen state of the calendar and turns user
// intents into store operations.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sadopc/calendar/internal/calendar"
	"github.com/sadopc/calendar/internal/day"
	"github.com/sadopc/calendar/internal/observe"
	"github.com/sadopc/calendar/internal/store"
)

// DefaultGraceWindow is how long derived task streams stay alive after the
// last subscriber leaves.
const DefaultGraceWindow = 5 * time.Second

var ErrBlankDescription = errors.New("task description is empty")

// TaskStore is the subset of *store.Store the service needs.
type TaskStore interface {
	WatchAll(ctx context.Context) <-chan store.Result
	WatchDate(ctx context.Context, d day.Date) <-chan store.Result
	Insert(ctx context.Context, t store.Task) (store.Task, error)
	Update(ctx context.Context, t store.Task) error
	Delete(ctx context.Context, t store.Task) error
	DeleteAll(ctx context.Context) error
}

type ViewMode int

const (
	List ViewMode = iota
	CompactList
	Grid
)

func (m ViewMode) String() string {
	switch m {
	case CompactList:
		return "Compact"
	case Grid:
		return "Grid"
	default:
		return "List"
	}
}

// Next returns the mode after m, wrapping from Grid back to List.
func (m ViewMode) Next() ViewMode {
	return (m + 1) % 3
}

// DateTasks is the task list for one selected date.
type DateTasks struct {
	Date  day.Date
	Tasks []store.Task
}

type Options struct {
	// Today is the initial selected date. Zero means day.Today().
	Today       day.Date
	GraceWindow time.Duration
	Logger      *log.Logger
}

type Service struct {
	store TaskStore
	log   *log.Logger

	selected *observe.Value[day.Date]
	mode     *observe.Value[ViewMode]
	lastErr  *observe.Value[error]
	forDate  *observe.Shared[DateTasks]
	all      *observe.Shared[[]store.Task]

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	queue   []func(context.Context)
	wake    chan struct{}
	stopped chan struct{}
	closed  bool
}

func New(st TaskStore, opts Options) *Service {
	if opts.Today.IsZero() {
		opts.Today = day.Today()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		store:    st,
		log:      opts.Logger,
		selected: observe.NewValue(opts.Today),
		mode:     observe.NewValue(List),
		lastErr:  observe.NewValue[error](nil),
		ctx:      ctx,
		cancel:   cancel,
		wake:     make(chan struct{}, 1),
		stopped:  make(chan struct{}),
	}
	s.forDate = observe.NewShared(opts.GraceWindow, s.watchSelectedDate)
	s.all = observe.NewShared(opts.GraceWindow, s.watchAll)

	go s.writer()
	return s
}

func (s *Service) SelectedDate() observe.Observable[day.Date] { return s.selected }
func (s *Service) ViewMode() observe.Observable[ViewMode]     { return s.mode }
func (s *Service) LastError() observe.Observable[error]       { return s.lastErr }

// TasksForSelectedDate follows the selected date: whenever it changes the
// previous date's query is dropped and the new date's tasks are emitted.
func (s *Service) TasksForSelectedDate() *observe.Shared[DateTasks] { return s.forDate }

func (s *Service) AllTasks() *observe.Shared[[]store.Task] { return s.all }

func (s *Service) watchSelectedDate(ctx context.Context, emit func(DateTasks)) {
	type tagged struct {
		gen  uint64
		date day.Date
		res  store.Result
	}

	var (
		gen    uint64
		cancel context.CancelFunc = func() {}
	)
	defer func() { cancel() }()

	results := make(chan tagged)
	dates := s.selected.Subscribe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-dates:
			if !ok {
				return
			}
			cancel()
			var wctx context.Context
			wctx, cancel = context.WithCancel(ctx)
			gen++
			g := gen
			ch := s.store.WatchDate(wctx, d)
			go func() {
				for r := range ch {
					select {
					case results <- tagged{gen: g, date: d, res: r}:
					case <-wctx.Done():
						return
					}
				}
			}()
		case r := <-results:
			if r.gen != gen {
				continue
			}
			if r.res.Err != nil {
				s.fail(fmt.Errorf("load tasks for %s: %w", r.date, r.res.Err))
				continue
			}
			emit(DateTasks{Date: r.date, Tasks: r.res.Tasks})
		}
	}
}

func (s *Service) watchAll(ctx context.Context, emit func([]store.Task)) {
	for r := range s.store.WatchAll(ctx) {
		if r.Err != nil {
			s.fail(fmt.Errorf("load tasks: %w", r.Err))
			continue
		}
		emit(r.Tasks)
	}
}

// ============================================================
// Intents
// ============================================================

func (s *Service) SelectDate(d day.Date) {
	s.enqueue(func(context.Context) {
		s.log.Debug("select date", "date", d)
		s.selected.Set(d)
	})
}

// MoveSelection shifts the selected date by days relative to whatever it is
// when the intent is applied.
func (s *Service) MoveSelection(days int) {
	s.enqueue(func(context.Context) {
		s.selected.Update(func(d day.Date) day.Date { return d.AddDays(days) })
	})
}

func (s *Service) NextMonth() {
	s.enqueue(func(context.Context) {
		s.selected.Update(calendar.NextMonth)
	})
}

func (s *Service) PreviousMonth() {
	s.enqueue(func(context.Context) {
		s.selected.Update(calendar.PrevMonth)
	})
}

func (s *Service) SetViewMode(m ViewMode) {
	s.enqueue(func(context.Context) { s.mode.Set(m) })
}

func (s *Service) CycleViewMode() {
	s.enqueue(func(context.Context) {
		s.mode.Update(func(m ViewMode) ViewMode { return m.Next() })
	})
}

func (s *Service) AddTask(description string, due day.Date) {
	s.enqueue(func(ctx context.Context) {
		description := strings.TrimSpace(description)
		if description == "" {
			s.fail(fmt.Errorf("add task: %w", ErrBlankDescription))
			return
		}
		t, err := s.store.Insert(ctx, store.Task{Description: description, DueDate: due})
		if err != nil {
			s.fail(err)
			return
		}
		s.log.Info("task added", "id", t.ID, "due", t.DueDate)
	})
}

func (s *Service) UpdateTask(t store.Task) {
	s.enqueue(func(ctx context.Context) {
		if !t.Persisted() {
			s.fail(fmt.Errorf("update task: %w", store.ErrNotFound))
			return
		}
		if err := s.store.Update(ctx, t); err != nil {
			s.fail(err)
			return
		}
		s.log.Info("task updated", "id", t.ID)
	})
}

// ToggleTaskCompletion writes back t with its completion flag negated.
func (s *Service) ToggleTaskCompletion(t store.Task) {
	t.Completed = !t.Completed
	s.enqueue(func(ctx context.Context) {
		if err := s.store.Update(ctx, t); err != nil {
			s.fail(err)
			return
		}
		s.log.Debug("task toggled", "id", t.ID, "completed", t.Completed)
	})
}

func (s *Service) DeleteTask(t store.Task) {
	s.enqueue(func(ctx context.Context) {
		if err := s.store.Delete(ctx, t); err != nil {
			s.fail(err)
			return
		}
		s.log.Info("task deleted", "id", t.ID)
	})
}

func (s *Service) DeleteAllTasks() {
	s.enqueue(func(ctx context.Context) {
		if err := s.store.DeleteAll(ctx); err != nil {
			s.fail(err)
			return
		}
		s.log.Info("all tasks deleted")
	})
}

func (s *Service) ClearError() {
	s.lastErr.Set(nil)
}

// Sync blocks until every intent submitted before it has been applied.
func (s *Service) Sync(ctx context.Context) error {
	done := make(chan struct{})
	if !s.enqueue(func(context.Context) { close(done) }) {
		return errors.New("service closed")
	}
	select {
	case <-done:
		return nil
	case <-s.stopped:
		return errors.New("service closed")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the writer, dropping intents not yet applied, and cancels all
// upstream queries.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.queue = nil
	s.mu.Unlock()

	s.cancel()
	<-s.stopped
	s.forDate.Close()
	s.all.Close()
}

func (s *Service) fail(err error) {
	s.log.Error("store operation failed", "err", err)
	s.lastErr.Set(err)
}

func (s *Service) enqueue(job func(context.Context)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.queue = append(s.queue, job)
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return true
}

// writer applies queued intents one at a time in submission order.
func (s *Service) writer() {
	defer close(s.stopped)
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.wake:
		}
		for {
			s.mu.Lock()
			if len(s.queue) == 0 || s.closed {
				s.mu.Unlock()
				break
			}
			job := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()
			job(s.ctx)
		}
	}
}
