package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/calendar/internal/calendar"
	"github.com/sadopc/calendar/internal/day"
	"github.com/sadopc/calendar/internal/service"
	"github.com/sadopc/calendar/internal/store"
)

// monthModel is the month grid with the task panel for the selected date.
type monthModel struct {
	svc    *service.Service
	width  int
	height int

	prefs    prefs
	today    day.Date
	selected day.Date
	mode     service.ViewMode
	loaded   service.DateTasks // latest task list, possibly for another date

	focusTasks bool
	cursor     int

	editor taskEditor
}

func newMonthModel(svc *service.Service, today day.Date) monthModel {
	return monthModel{
		svc:      svc,
		prefs:    defaultPrefs(),
		today:    today,
		selected: svc.SelectedDate().Get(),
		mode:     svc.ViewMode().Get(),
		editor:   newTaskEditor(svc),
	}
}

func (m *monthModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m monthModel) formActive() bool {
	return m.editor.active()
}

// tasks returns the loaded tasks if they belong to the selected date.
func (m monthModel) tasks() []store.Task {
	if m.loaded.Date != m.selected {
		return nil
	}
	return m.loaded.Tasks
}

func (m monthModel) visible() ([]store.Task, int) {
	return visibleTasks(m.mode, m.tasks())
}

func (m monthModel) current() (store.Task, bool) {
	shown, _ := m.visible()
	if !m.focusTasks || m.cursor >= len(shown) {
		return store.Task{}, false
	}
	return shown[m.cursor], true
}

func (m monthModel) update(msg tea.Msg) (monthModel, tea.Cmd) {
	switch msg := msg.(type) {
	case selectedDateMsg:
		if d := day.Date(msg); d != m.selected {
			m.selected = d
			m.cursor = 0
			if len(m.tasks()) == 0 {
				m.focusTasks = false
			}
		}
		return m, nil

	case viewModeMsg:
		m.mode = service.ViewMode(msg)
		shown, _ := m.visible()
		m.cursor = clampCursor(m.cursor, len(shown))
		return m, nil

	case dateTasksMsg:
		// The list may arrive before or after the date change it follows;
		// it is only shown once both agree.
		m.loaded = service.DateTasks(msg)
		shown, _ := m.visible()
		m.cursor = clampCursor(m.cursor, len(shown))
		if len(shown) == 0 && msg.Date == m.selected {
			m.focusTasks = false
		}
		return m, nil

	case todayMsg:
		m.today = day.Date(msg)
		return m, nil

	case tea.KeyMsg:
		if m.editor.active() {
			break
		}
		if m.focusTasks {
			return m.updateTasks(msg)
		}
		return m.updateGrid(msg)
	}

	if m.editor.active() {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m monthModel) updateGrid(msg tea.KeyMsg) (monthModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Left):
		m.svc.MoveSelection(-1)
	case key.Matches(msg, keys.Right):
		m.svc.MoveSelection(1)
	case key.Matches(msg, keys.Up):
		m.svc.MoveSelection(-7)
	case key.Matches(msg, keys.Down):
		m.svc.MoveSelection(7)
	case key.Matches(msg, keys.PrevMon):
		m.svc.PreviousMonth()
	case key.Matches(msg, keys.NextMon):
		m.svc.NextMonth()
	case key.Matches(msg, keys.Today):
		m.svc.SelectDate(m.today)
	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Tab):
		if shown, _ := m.visible(); len(shown) > 0 {
			m.focusTasks = true
			m.cursor = clampCursor(m.cursor, len(shown))
		}
	default:
		return m.updateCommon(msg)
	}
	return m, nil
}

func (m monthModel) updateTasks(msg tea.KeyMsg) (monthModel, tea.Cmd) {
	shown, _ := m.visible()
	switch {
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Tab):
		m.focusTasks = false
	case key.Matches(msg, keys.Up), key.Matches(msg, keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down), key.Matches(msg, keys.Right):
		if m.cursor < len(shown)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Toggle):
		if t, ok := m.current(); ok {
			m.svc.ToggleTaskCompletion(t)
		}
	case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
		if t, ok := m.current(); ok && canEdit(m.mode) {
			var cmd tea.Cmd
			m.editor, cmd = m.editor.openEdit(t)
			return m, cmd
		}
	case key.Matches(msg, keys.Delete):
		if t, ok := m.current(); ok && canEdit(m.mode) {
			var cmd tea.Cmd
			m.editor, cmd = m.editor.openDelete(t)
			return m, cmd
		}
	default:
		return m.updateCommon(msg)
	}
	return m, nil
}

// updateCommon handles keys that work whichever panel has focus.
func (m monthModel) updateCommon(msg tea.KeyMsg) (monthModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.New):
		var cmd tea.Cmd
		m.editor, cmd = m.editor.openCreate(m.selected)
		return m, cmd
	case key.Matches(msg, keys.Mode):
		m.svc.CycleViewMode()
	case key.Matches(msg, keys.More):
		if _, hidden := m.visible(); hidden > 0 {
			route := dayRoute(m.selected)
			return m, func() tea.Msg { return navigateMsg{route: route} }
		}
	}
	return m, nil
}

func (m monthModel) view() string {
	if m.editor.active() {
		return m.editor.view(m.width - 4)
	}

	grid := m.renderGrid()
	tasksWidth := m.width - lipgloss.Width(grid) - 2
	if tasksWidth < 36 {
		return lipgloss.JoinVertical(lipgloss.Left, grid, m.renderTasks(m.width-4))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, grid, " ", m.renderTasks(tasksWidth-4))
}

func (m monthModel) renderGrid() string {
	g := calendar.BuildGrid(m.selected, m.selected, m.today, m.prefs.weekStart)

	title := titleStyle.Render(m.selected.Format("January 2006"))
	nav := mutedStyle.Render("[ prev   ] next")

	var header []string
	for _, wd := range g.Weekdays {
		header = append(header, weekdayStyle.Render(wd.String()[:3]))
	}

	rows := []string{title + "  " + nav, "", lipgloss.JoinHorizontal(lipgloss.Top, header...)}
	for r := 0; r < calendar.Rows; r++ {
		var cells []string
		for c := 0; c < calendar.Cols; c++ {
			cells = append(cells, renderCell(g.Cells[r][c]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	style := panelStyle
	if !m.focusTasks {
		style = activePanelStyle
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderCell(c calendar.Cell) string {
	if !c.InMonth {
		return dayCellStyle.Render("")
	}
	label := fmt.Sprintf("%d", c.Date.Day)
	switch {
	case c.Selected:
		return selectedCellStyle.Render(label)
	case c.Today:
		return todayCellStyle.Render(label)
	}
	return dayCellStyle.Render(label)
}

func (m monthModel) renderTasks(width int) string {
	title := titleStyle.Render("Tasks for " + m.prefs.formatDate(m.selected))
	mode := highlightStyle.Render(m.mode.String())
	rows := []string{title + "  " + mode, ""}

	shown, hidden := m.visible()
	cursor := -1
	if m.focusTasks {
		cursor = m.cursor
	}

	switch {
	case len(shown) == 0:
		rows = append(rows, mutedStyle.Render("No tasks for this day. Press n to add one."))
	case m.mode == service.Grid:
		rows = append(rows, renderTaskCards(shown, cursor, width))
	default:
		for i, t := range shown {
			rows = append(rows, renderTaskRow(t, m.mode, m.prefs, i == cursor, width))
		}
	}
	if hidden > 0 {
		rows = append(rows, "", highlightStyle.Render("  "+showMoreLabel(len(m.tasks()))+" (m)"))
	}

	rows = append(rows, "", mutedStyle.Render("  "+m.hint()))

	style := panelStyle
	if m.focusTasks {
		style = activePanelStyle
	}
	return style.Width(width).Render(strings.Join(rows, "\n"))
}

func (m monthModel) hint() string {
	if !m.focusTasks {
		return "arrows: move  enter: tasks  n: new  v: view mode  t: today"
	}
	if !canEdit(m.mode) {
		return "space: done/undone  v: view mode  esc: calendar"
	}
	return "space: done/undone  e: edit  d: delete  v: view mode  esc: calendar"
}
