package tui

import (
	"time"

	"github.com/sadopc/calendar/internal/calendar"
	"github.com/sadopc/calendar/internal/day"
	"github.com/sadopc/calendar/internal/service"
	"github.com/sadopc/calendar/internal/store"
)

// viewState represents the currently active tab.
type viewState int

const (
	viewCalendar viewState = iota
	viewOverview
	viewSettings
)

var viewNames = []string{"Calendar", "Overview", "Settings"}

// --- Messages ---

type selectedDateMsg day.Date

type viewModeMsg service.ViewMode

type lastErrorMsg struct {
	err error
}

type dateTasksMsg service.DateTasks

type allTasksMsg []store.Task

type todayMsg day.Date

type settingsDataMsg struct {
	settings []store.Setting
}

type settingsSavedMsg struct{}

// navigateMsg asks the app to show the screen for route.
type navigateMsg struct {
	route string
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Preferences ---

const (
	layoutDMY = "02/01/2006"
	layoutISO = day.Layout
)

// prefs are the display settings read from the settings table.
type prefs struct {
	weekStart  time.Weekday
	dateLayout string
}

func defaultPrefs() prefs {
	return prefs{weekStart: time.Monday, dateLayout: layoutDMY}
}

func prefsFromSettings(settings []store.Setting) prefs {
	p := defaultPrefs()
	for _, s := range settings {
		switch s.Key {
		case store.SettingWeekStart:
			p.weekStart = calendar.ParseWeekStart(s.Value)
		case store.SettingDateFormat:
			if s.Value == "iso" {
				p.dateLayout = layoutISO
			}
		}
	}
	return p
}

func (p prefs) formatDate(d day.Date) string {
	return d.Format(p.dateLayout)
}

// --- Helpers ---

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	return max(cursor, 0)
}
