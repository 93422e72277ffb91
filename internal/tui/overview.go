package tui

import (
	"fmt"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/calendar/internal/day"
	"github.com/sadopc/calendar/internal/service"
	"github.com/sadopc/calendar/internal/store"
)

// dayCount is the number of done and pending tasks due on one date.
type dayCount struct {
	done    int
	pending int
}

// monthCounts tallies all by due day within month. Index 0 is day 1.
func monthCounts(all []store.Task, month day.Date) []dayCount {
	counts := make([]dayCount, month.DaysInMonth())
	for _, t := range all {
		if !t.DueDate.SameMonth(month) {
			continue
		}
		c := &counts[t.DueDate.Day-1]
		if t.Completed {
			c.done++
		} else {
			c.pending++
		}
	}
	return counts
}

type overviewModel struct {
	svc    *service.Service
	width  int
	height int

	month day.Date
	all   []store.Task

	chart barchart.Model
}

func newOverviewModel(svc *service.Service) overviewModel {
	return overviewModel{
		svc:   svc,
		month: svc.SelectedDate().Get().FirstOfMonth(),
		chart: barchart.New(60, 12),
	}
}

func (o *overviewModel) setSize(w, h int) {
	o.width = w
	o.height = h
	o.buildChart()
}

func (o overviewModel) update(msg tea.Msg) (overviewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case allTasksMsg:
		o.all = msg
		o.buildChart()
		return o, nil

	case selectedDateMsg:
		if m := day.Date(msg).FirstOfMonth(); m != o.month {
			o.month = m
			o.buildChart()
		}
		return o, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.PrevMon):
			o.svc.PreviousMonth()
		case key.Matches(msg, keys.Right), key.Matches(msg, keys.NextMon):
			o.svc.NextMonth()
		}
	}
	return o, nil
}

func (o *overviewModel) buildChart() {
	chartWidth := max(o.width-8, 20)
	chartHeight := 12
	if o.height > 30 {
		chartHeight = 16
	}

	o.chart = barchart.New(chartWidth, chartHeight)

	doneStyle := lipgloss.NewStyle().Foreground(colorSuccess)
	pendingStyle := lipgloss.NewStyle().Foreground(colorWarning)

	var bars []barchart.BarData
	for i, c := range monthCounts(o.all, o.month) {
		values := []barchart.BarValue{
			{Name: "Done", Value: float64(c.done), Style: doneStyle},
			{Name: "Pending", Value: float64(c.pending), Style: pendingStyle},
		}
		bars = append(bars, barchart.BarData{
			Label:  fmt.Sprintf("%d", i+1),
			Values: values,
		})
	}

	o.chart.PushAll(bars)
	o.chart.Draw()
}

func (o overviewModel) totals() (done, pending int) {
	for _, c := range monthCounts(o.all, o.month) {
		done += c.done
		pending += c.pending
	}
	return done, pending
}

func (o overviewModel) view() string {
	w := o.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Overview"), "  ", mutedStyle.Render(o.month.Format("January 2006")),
	)

	done, pending := o.totals()
	legend := fmt.Sprintf("  %s %d done   %s %d pending",
		successStyle.Render("■"), done, warningStyle.Render("■"), pending)

	body := o.chart.View()
	if done+pending == 0 {
		body = mutedStyle.Render("  No tasks this month")
	}

	nav := mutedStyle.Render("  ←/→: month")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", legend, "", nav),
	)
}
