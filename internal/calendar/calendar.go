// Package calendar lays out a month as a fixed 6x7 grid.
package calendar

import (
	"time"

	"github.com/sadopc/calendar/internal/day"
)

const (
	Rows = 6
	Cols = 7
)

// Cell is one slot of the month grid. Cells outside the month have
// InMonth false and a zero Date.
type Cell struct {
	Date     day.Date
	InMonth  bool
	Selected bool
	Today    bool
}

type Grid struct {
	Month    day.Date // first day of the displayed month
	Weekdays [Cols]time.Weekday
	Cells    [Rows][Cols]Cell
}

// BuildGrid lays out the month containing month. The first column is
// weekStart; day 1 lands in the column of its weekday and the remaining
// days fill the rows in order.
func BuildGrid(month, selected, today day.Date, weekStart time.Weekday) Grid {
	first := month.FirstOfMonth()
	g := Grid{Month: first, Weekdays: Weekdays(weekStart)}

	offset := Offset(first, weekStart)
	n := first.DaysInMonth()
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			d := r*Cols + c - offset + 1
			if d < 1 || d > n {
				continue
			}
			date := day.New(first.Year, first.Month, d)
			g.Cells[r][c] = Cell{
				Date:     date,
				InMonth:  true,
				Selected: date == selected,
				Today:    date == today,
			}
		}
	}
	return g
}

// Offset is the number of empty cells before day 1 of first's month.
func Offset(first day.Date, weekStart time.Weekday) int {
	index := weekdayIndex(first.FirstOfMonth().Weekday(), weekStart)
	return (index - 1 + Cols) % Cols
}

// weekdayIndex is the 1-based position of wd in a week starting on weekStart.
func weekdayIndex(wd, weekStart time.Weekday) int {
	return (int(wd)-int(weekStart)+Cols)%Cols + 1
}

// Weekdays returns the column order for a week starting on weekStart.
func Weekdays(weekStart time.Weekday) [Cols]time.Weekday {
	var out [Cols]time.Weekday
	for i := range out {
		out[i] = time.Weekday((int(weekStart) + i) % Cols)
	}
	return out
}

// Find returns the grid position of d, or ok false when d is not in the month.
func (g Grid) Find(d day.Date) (row, col int, ok bool) {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if cell := g.Cells[r][c]; cell.InMonth && cell.Date == d {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

func PrevMonth(d day.Date) day.Date { return d.AddMonths(-1) }
func NextMonth(d day.Date) day.Date { return d.AddMonths(1) }

// ParseWeekStart maps the week_start setting to a weekday. Unknown values
// fall back to Monday.
func ParseWeekStart(s string) time.Weekday {
	if s == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

func WeekStartSetting(wd time.Weekday) string {
	if wd == time.Sunday {
		return "sunday"
	}
	return "monday"
}
