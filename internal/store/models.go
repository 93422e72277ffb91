package store

import (
	"errors"

	"github.com/sadopc/calendar/internal/day"
)

// ErrNotFound is returned when a mutation targets a task id that is not stored.
var ErrNotFound = errors.New("task not found")

// Task is a to-do item due on a calendar date. ID 0 means not yet persisted.
type Task struct {
	ID          int64
	Description string
	Completed   bool
	DueDate     day.Date
}

// Persisted reports whether the task has been assigned an id by the store.
func (t Task) Persisted() bool {
	return t.ID != 0
}

type Setting struct {
	Key   string
	Value string
}

// Setting keys.
const (
	SettingWeekStart  = "week_start"  // monday, sunday
	SettingDateFormat = "date_format" // dmy, iso
)

// Result is one emission of a live query.
type Result struct {
	Tasks []Task
	Err   error
}
