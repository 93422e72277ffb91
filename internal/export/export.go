// Package export writes the task list to CSV or JSON files.
package export

import (
	"fmt"
	"path/filepath"

	"github.com/sadopc/calendar/internal/day"
	"github.com/sadopc/calendar/internal/store"
)

type Format int

const (
	CSV Format = iota
	JSON
)

func (f Format) String() string {
	if f == JSON {
		return "JSON"
	}
	return "CSV"
}

func (f Format) ext() string {
	if f == JSON {
		return "json"
	}
	return "csv"
}

// FileName returns calendar-export-YYYY-MM-DD.<ext> inside dir.
func FileName(dir string, f Format, on day.Date) string {
	return filepath.Join(dir, fmt.Sprintf("calendar-export-%s.%s", on, f.ext()))
}

// Write exports tasks in format f to path.
func Write(tasks []store.Task, f Format, path string) error {
	if f == JSON {
		return ToJSON(tasks, path)
	}
	return ToCSV(tasks, path)
}
