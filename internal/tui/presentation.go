package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/calendar/internal/day"
	"github.com/sadopc/calendar/internal/service"
	"github.com/sadopc/calendar/internal/store"
)

// previewLimit is how many tasks the list modes show before "show more".
const previewLimit = 3

// visibleTasks returns the tasks mode shows in the month screen and the
// number left out.
func visibleTasks(mode service.ViewMode, tasks []store.Task) ([]store.Task, int) {
	if mode == service.Grid || len(tasks) <= previewLimit {
		return tasks, 0
	}
	return tasks[:previewLimit], len(tasks) - previewLimit
}

// canEdit reports whether mode offers edit and delete. Compact mode only
// toggles completion.
func canEdit(mode service.ViewMode) bool {
	return mode != service.CompactList
}

func statusLabel(t store.Task) string {
	if t.Completed {
		return "Done"
	}
	return "Pending"
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func showMoreLabel(total int) string {
	return fmt.Sprintf("Show all %d tasks", total)
}

// tasksOn filters all down to the tasks due on d, keeping their order.
func tasksOn(all []store.Task, d day.Date) []store.Task {
	var out []store.Task
	for _, t := range all {
		if t.DueDate == d {
			out = append(out, t)
		}
	}
	return out
}

// renderTaskRow draws one row of the list modes.
func renderTaskRow(t store.Task, mode service.ViewMode, p prefs, selected bool, width int) string {
	cursor := "  "
	style := normalItemStyle
	if selected {
		cursor = "> "
		style = selectedItemStyle
	}

	desc := t.Description
	box := checkbox(t.Completed)
	if mode == service.CompactList {
		desc = truncate(desc, width-8)
		if t.Completed {
			return cursor + successStyle.Render(box) + " " + doneTextStyle.Render(desc)
		}
		return cursor + style.Render(box+" "+desc)
	}

	date := p.formatDate(t.DueDate)
	desc = truncate(desc, width-len(date)-10)
	text := style.Render(desc)
	if t.Completed {
		text = doneTextStyle.Render(desc)
		box = successStyle.Render(box)
	}
	return fmt.Sprintf("%s%s %s  %s", cursor, box, text, mutedStyle.Render(date))
}

// renderTaskCards lays out tasks as cards, as many per line as fit.
func renderTaskCards(tasks []store.Task, cursor, width int) string {
	perRow := max(1, width/(lipgloss.Width(cardStyle.Render(""))+1))
	var rows, line []string
	for i, t := range tasks {
		style := cardStyle
		if i == cursor {
			style = selectedCardStyle
		}
		status := warningStyle.Render(statusLabel(t))
		if t.Completed {
			status = successStyle.Render(statusLabel(t))
		}
		body := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(truncate(t.Description, 20)),
			status,
		)
		line = append(line, style.Render(body))
		if len(line) == perRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, line...))
			line = nil
		}
	}
	if len(line) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, line...))
	}
	return strings.Join(rows, "\n")
}
