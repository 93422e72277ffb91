package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/calendar/internal/day"
	"github.com/sadopc/calendar/internal/service"
	"github.com/sadopc/calendar/internal/store"
)

var errDescriptionRequired = errors.New("description is required")

type editorMode int

const (
	editorClosed editorMode = iota
	editorCreate
	editorEdit
	editorDelete
)

// taskEditor owns the create, edit and delete dialogs shared by the month
// and day screens.
type taskEditor struct {
	svc  *service.Service
	mode editorMode
	form *huh.Form

	target store.Task
	err    string

	// Form field pointers (survive value copies)
	description *string
	completed   *bool
	due         *string
	confirm     *bool
}

func newTaskEditor(svc *service.Service) taskEditor {
	desc, due := "", ""
	completed, confirm := false, false
	return taskEditor{
		svc:         svc,
		description: &desc,
		completed:   &completed,
		due:         &due,
		confirm:     &confirm,
	}
}

func (e taskEditor) active() bool {
	return e.mode != editorClosed
}

// openCreate starts a new task due on d.
func (e taskEditor) openCreate(d day.Date) (taskEditor, tea.Cmd) {
	e.mode = editorCreate
	e.target = store.Task{DueDate: d}
	*e.description = ""
	*e.completed = false
	*e.due = d.String()
	e.err = ""
	e.form = e.buildTaskForm()
	return e, e.form.Init()
}

func (e taskEditor) openEdit(t store.Task) (taskEditor, tea.Cmd) {
	e.mode = editorEdit
	e.target = t
	*e.description = t.Description
	*e.completed = t.Completed
	*e.due = t.DueDate.String()
	e.err = ""
	e.form = e.buildTaskForm()
	return e, e.form.Init()
}

func (e taskEditor) openDelete(t store.Task) (taskEditor, tea.Cmd) {
	e.mode = editorDelete
	e.target = t
	*e.confirm = false
	e.err = ""
	e.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", t.Description)).
				Description("This cannot be undone.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(e.confirm),
		),
	).WithShowHelp(true)
	return e, e.form.Init()
}

func (e taskEditor) buildTaskForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Description").
			Value(e.description).
			Validate(validateDescription),
	}
	// New tasks always start pending.
	if e.mode == editorEdit {
		fields = append(fields, huh.NewConfirm().
			Title("Completed").
			Affirmative("Yes").
			Negative("No").
			Value(e.completed))
	}
	fields = append(fields, huh.NewInput().
		Title("Due date").
		Placeholder(day.Layout).
		Value(e.due).
		Validate(validateDate))

	return huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true).WithShowErrors(true)
}

func validateDescription(s string) error {
	if strings.TrimSpace(s) == "" {
		return errDescriptionRequired
	}
	return nil
}

func validateDate(s string) error {
	if _, err := day.Parse(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use %s", day.Layout)
	}
	return nil
}

// values returns the task described by the form fields.
func (e taskEditor) values() (store.Task, error) {
	desc := strings.TrimSpace(*e.description)
	if desc == "" {
		return store.Task{}, errDescriptionRequired
	}
	due, err := day.Parse(strings.TrimSpace(*e.due))
	if err != nil {
		return store.Task{}, err
	}
	t := e.target
	t.Description = desc
	t.DueDate = due
	if e.mode == editorEdit {
		t.Completed = *e.completed
	}
	return t, nil
}

func (e taskEditor) close() taskEditor {
	e.mode = editorClosed
	e.form = nil
	e.err = ""
	return e
}

func (e taskEditor) update(msg tea.Msg) (taskEditor, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		return e.close(), nil
	}

	form, cmd := e.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		e.form = f
	}

	switch e.form.State {
	case huh.StateCompleted:
		return e.submit()
	case huh.StateAborted:
		return e.close(), nil
	}
	return e, cmd
}

// submit applies a completed dialog. A task form with invalid values stays
// open and shows the problem.
func (e taskEditor) submit() (taskEditor, tea.Cmd) {
	switch e.mode {
	case editorDelete:
		t := e.target
		confirmed := *e.confirm
		e = e.close()
		if !confirmed {
			return e, nil
		}
		e.svc.DeleteTask(t)
		return e, statusCmd(fmt.Sprintf("Deleted %q", t.Description))

	case editorCreate, editorEdit:
		t, err := e.values()
		if err != nil {
			e.err = err.Error()
			e.form = e.buildTaskForm()
			return e, e.form.Init()
		}
		if e.mode == editorCreate {
			e.svc.AddTask(t.Description, t.DueDate)
			return e.close(), statusCmd("Task added")
		}
		e.svc.UpdateTask(t)
		return e.close(), statusCmd("Task updated")
	}
	return e.close(), nil
}

func (e taskEditor) view(width int) string {
	title := "New Task"
	switch e.mode {
	case editorEdit:
		title = "Edit Task"
	case editorDelete:
		title = "Delete Task"
	}

	rows := []string{titleStyle.Render(title), ""}
	if e.err != "" {
		rows = append(rows, errorStyle.Render(e.err), "")
	}
	rows = append(rows, e.form.View())
	return activePanelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}
