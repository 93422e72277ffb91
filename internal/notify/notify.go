// Package notify keeps the set of notification channels the application
// declares. Channels are registered at startup; nothing is delivered
// through them yet.
package notify

import (
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
)

type Importance int

const (
	ImportanceMin Importance = iota
	ImportanceLow
	ImportanceDefault
	ImportanceHigh
)

func (i Importance) String() string {
	switch i {
	case ImportanceMin:
		return "min"
	case ImportanceLow:
		return "low"
	case ImportanceHigh:
		return "high"
	default:
		return "default"
	}
}

const TaskReminderChannelID = "task_reminder_channel"

type Channel struct {
	ID          string
	Name        string
	Description string
	Importance  Importance
	Vibration   bool
}

// TaskReminderChannel is the channel reserved for task reminders.
func TaskReminderChannel() Channel {
	return Channel{
		ID:          TaskReminderChannelID,
		Name:        "Task reminders",
		Description: "Calendar task reminders",
		Importance:  ImportanceHigh,
		Vibration:   true,
	}
}

var ErrEmptyID = errors.New("notification channel id is empty")

type Registry struct {
	mu       sync.RWMutex
	channels map[string]Channel
	log      *log.Logger
}

func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Registry{channels: make(map[string]Channel), log: logger}
}

// Register adds c, replacing any channel with the same id.
func (r *Registry) Register(c Channel) error {
	if c.ID == "" {
		return ErrEmptyID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels[c.ID] = c
	r.log.Debug("notification channel registered", "id", c.ID, "importance", c.Importance, "vibration", c.Vibration)
	return nil
}

func (r *Registry) Channel(id string) (Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.channels[id]
	return c, ok
}

// Channels returns all registered channels ordered by id.
func (r *Registry) Channels() []Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Channel, 0, len(r.channels))
	for _, c := range r.channels {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
