package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sadopc/calendar/internal/day"
)

const (
	routeCalendar = "calendar"
	routeDayBase  = "dailyTasks"
)

var ErrBadRoute = errors.New("invalid route")

type routeKind int

const (
	routeKindCalendar routeKind = iota
	routeKindDay
)

// Route identifies a screen. A day route whose epoch day could not be read
// carries the reason in Err and renders as an error screen.
type Route struct {
	Kind routeKind
	Date day.Date
	Err  error
}

func (r Route) String() string {
	if r.Kind == routeKindDay && r.Err == nil {
		return dayRoute(r.Date)
	}
	if r.Kind == routeKindDay {
		return routeDayBase + "/?"
	}
	return routeCalendar
}

// dayRoute returns the route of the daily task list for d.
func dayRoute(d day.Date) string {
	return fmt.Sprintf("%s/%d", routeDayBase, d.EpochDay())
}

// ParseRoute reads "calendar" or "dailyTasks/{epochDay}". Unknown routes are
// an error. A malformed day argument still yields a day route so the user
// lands on a screen that explains the problem.
func ParseRoute(s string) (Route, error) {
	if s == "" || s == routeCalendar {
		return Route{Kind: routeKindCalendar}, nil
	}

	base, arg, hasArg := strings.Cut(s, "/")
	if base != routeDayBase {
		return Route{Kind: routeKindCalendar}, fmt.Errorf("%w: %q", ErrBadRoute, s)
	}
	if !hasArg || arg == "" {
		err := fmt.Errorf("%w: missing date in %q", ErrBadRoute, s)
		return Route{Kind: routeKindDay, Err: err}, err
	}
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		err = fmt.Errorf("%w: date %q is not an epoch day", ErrBadRoute, arg)
		return Route{Kind: routeKindDay, Err: err}, err
	}
	return Route{Kind: routeKindDay, Date: day.FromEpochDay(n)}, nil
}
