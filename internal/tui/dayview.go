package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/calendar/internal/service"
	"github.com/sadopc/calendar/internal/store"
)

// dayModel lists every task of one date. It reads the full task list and
// filters it, so it does not disturb the month screen's selected date.
type dayModel struct {
	svc    *service.Service
	width  int
	height int

	prefs  prefs
	route  Route
	all    []store.Task
	cursor int

	editor taskEditor
}

func newDayModel(svc *service.Service) dayModel {
	return dayModel{
		svc:    svc,
		prefs:  defaultPrefs(),
		editor: newTaskEditor(svc),
	}
}

func (d *dayModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dayModel) formActive() bool {
	return d.editor.active()
}

// open shows route, keeping the loaded task list.
func (d dayModel) open(r Route) dayModel {
	d.route = r
	d.cursor = 0
	d.editor = d.editor.close()
	return d
}

func (d dayModel) tasks() []store.Task {
	if d.route.Err != nil {
		return nil
	}
	return tasksOn(d.all, d.route.Date)
}

func (d dayModel) update(msg tea.Msg) (dayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case allTasksMsg:
		d.all = msg
		d.cursor = clampCursor(d.cursor, len(d.tasks()))
		return d, nil

	case tea.KeyMsg:
		if d.editor.active() {
			break
		}
		return d.updateKeys(msg)
	}

	if d.editor.active() {
		var cmd tea.Cmd
		d.editor, cmd = d.editor.update(msg)
		return d, cmd
	}
	return d, nil
}

func (d dayModel) updateKeys(msg tea.KeyMsg) (dayModel, tea.Cmd) {
	if key.Matches(msg, keys.Back) {
		return d, func() tea.Msg { return navigateMsg{route: routeCalendar} }
	}
	if d.route.Err != nil {
		return d, nil
	}

	tasks := d.tasks()
	var current *store.Task
	if d.cursor < len(tasks) {
		current = &tasks[d.cursor]
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(msg, keys.Down):
		if d.cursor < len(tasks)-1 {
			d.cursor++
		}
	case key.Matches(msg, keys.New):
		d.editor, cmd = d.editor.openCreate(d.route.Date)
	case key.Matches(msg, keys.Toggle):
		if current != nil {
			d.svc.ToggleTaskCompletion(*current)
		}
	case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
		if current != nil {
			d.editor, cmd = d.editor.openEdit(*current)
		}
	case key.Matches(msg, keys.Delete):
		if current != nil {
			d.editor, cmd = d.editor.openDelete(*current)
		}
	}
	return d, cmd
}

func (d dayModel) view() string {
	w := d.width - 4
	if d.editor.active() {
		return d.editor.view(w)
	}

	if d.route.Err != nil {
		content := lipgloss.JoinVertical(lipgloss.Left,
			errorStyle.Bold(true).Render("Invalid date"),
			"",
			mutedStyle.Render(d.route.Err.Error()),
			"",
			mutedStyle.Render("  esc: back to calendar"),
		)
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("All tasks for " + d.prefs.formatDate(d.route.Date))
	tasks := d.tasks()

	rows := []string{title, ""}
	if len(tasks) == 0 {
		rows = append(rows, mutedStyle.Render("No tasks for this day. Press n to add one."))
	}
	for i, t := range tasks {
		rows = append(rows, renderTaskRow(t, service.List, d.prefs, i == d.cursor, w-4))
	}
	rows = append(rows, "", mutedStyle.Render("  n: new  space: done/undone  e: edit  d: delete  esc: back"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
