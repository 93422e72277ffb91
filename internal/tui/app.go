package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/sadopc/calendar/internal/day"
	"github.com/sadopc/calendar/internal/export"
	"github.com/sadopc/calendar/internal/service"
	"github.com/sadopc/calendar/internal/store"
)

type Options struct {
	Logger *log.Logger
	// Route is the screen to open first. Empty means the calendar.
	Route string
}

// subscriptions are the service streams the app turns into messages.
type subscriptions struct {
	selected <-chan day.Date
	mode     <-chan service.ViewMode
	errs     <-chan error
	forDate  <-chan service.DateTasks
	all      <-chan []store.Task
}

// App is the root Bubble Tea model.
type App struct {
	svc    *service.Service
	store  *store.Store
	log    *log.Logger
	width  int
	height int

	activeView    viewState
	route         Route
	showHelp      bool
	exportPicking bool
	exportCursor  int

	subs  subscriptions
	today day.Date

	month    monthModel
	day      dayModel
	overview overviewModel
	settings settingsModel

	help      help.Model
	status    string
	statusErr bool
}

// NewApp builds the UI on top of svc. The service subscriptions live until
// ctx is done.
func NewApp(ctx context.Context, svc *service.Service, st *store.Store, opts Options) App {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	h := help.New()
	h.ShowAll = false

	today := day.Today()
	a := App{
		svc:        svc,
		store:      st,
		log:        opts.Logger,
		activeView: viewCalendar,
		today:      today,
		subs: subscriptions{
			selected: svc.SelectedDate().Subscribe(ctx),
			mode:     svc.ViewMode().Subscribe(ctx),
			errs:     svc.LastError().Subscribe(ctx),
			forDate:  svc.TasksForSelectedDate().Subscribe(ctx),
			all:      svc.AllTasks().Subscribe(ctx),
		},
		month:    newMonthModel(svc, today),
		day:      newDayModel(svc),
		overview: newOverviewModel(svc),
		settings: newSettingsModel(st),
		help:     h,
	}
	a.navigate(opts.Route)
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		listen(a.subs.selected, func(d day.Date) tea.Msg { return selectedDateMsg(d) }),
		listen(a.subs.mode, func(m service.ViewMode) tea.Msg { return viewModeMsg(m) }),
		listen(a.subs.errs, func(err error) tea.Msg { return lastErrorMsg{err: err} }),
		listen(a.subs.forDate, func(dt service.DateTasks) tea.Msg { return dateTasksMsg(dt) }),
		listen(a.subs.all, func(ts []store.Task) tea.Msg { return allTasksMsg(ts) }),
		a.settings.refresh(),
		tickCmd(),
	)
}

// listen waits for the next value on ch. The handler of the resulting message
// must call listen again to keep receiving.
func listen[T any](ch <-chan T, wrap func(T) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return nil
		}
		return wrap(v)
	}
}

// tickCmd refreshes the current date so the today marker rolls over at
// midnight.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return todayMsg(day.FromTime(t))
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.month.setSize(a.width, contentHeight)
		a.day.setSize(a.width, contentHeight)
		a.overview.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewCalendar
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewOverview
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		}

	case selectedDateMsg:
		a.month, _ = a.month.update(msg)
		a.overview, _ = a.overview.update(msg)
		return a, listen(a.subs.selected, func(d day.Date) tea.Msg { return selectedDateMsg(d) })

	case viewModeMsg:
		a.month, _ = a.month.update(msg)
		return a, listen(a.subs.mode, func(m service.ViewMode) tea.Msg { return viewModeMsg(m) })

	case dateTasksMsg:
		a.month, _ = a.month.update(msg)
		return a, listen(a.subs.forDate, func(dt service.DateTasks) tea.Msg { return dateTasksMsg(dt) })

	case allTasksMsg:
		a.day, _ = a.day.update(msg)
		a.overview, _ = a.overview.update(msg)
		return a, listen(a.subs.all, func(ts []store.Task) tea.Msg { return allTasksMsg(ts) })

	case lastErrorMsg:
		if msg.err != nil {
			a.status = msg.err.Error()
			a.statusErr = true
		}
		return a, listen(a.subs.errs, func(err error) tea.Msg { return lastErrorMsg{err: err} })

	case todayMsg:
		a.today = day.Date(msg)
		a.month, _ = a.month.update(msg)
		return a, tickCmd()

	case settingsDataMsg:
		p := prefsFromSettings(msg.settings)
		a.month.prefs = p
		a.day.prefs = p
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case navigateMsg:
		a.navigate(msg.route)
		return a, nil

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		if !msg.isError {
			a.svc.ClearError()
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// navigate switches the calendar tab to the screen named by route.
func (a *App) navigate(route string) {
	r, err := ParseRoute(route)
	if err != nil {
		a.log.Warn("bad route", "route", route, "err", err)
	}
	a.route = r
	a.activeView = viewCalendar
	if r.Kind == routeKindDay {
		a.day = a.day.open(r)
	}
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewCalendar:
		if a.route.Kind == routeKindDay {
			a.day, cmd = a.day.update(msg)
		} else {
			a.month, cmd = a.month.update(msg)
		}
	case viewOverview:
		a.overview, cmd = a.overview.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewCalendar:
		if a.route.Kind == routeKindDay {
			return a.day.formActive()
		}
		return a.month.formActive()
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewCalendar:
		if a.route.Kind == routeKindDay {
			content = a.day.view()
		} else {
			content = a.month.view()
		}
	case viewOverview:
		content = a.overview.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("calendar")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	today := mutedStyle.Render(" " + a.month.prefs.formatDate(a.today))

	left := footerStyle.Render(helpView)
	right := status + today

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []export.Format{export.CSV, export.JSON}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f.String()))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format export.Format) tea.Cmd {
	return func() tea.Msg {
		tasks, err := a.store.ListAll(context.Background())
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, err := os.UserHomeDir()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		path := export.FileName(home, format, day.Today())
		if err := export.Write(tasks, format, path); err != nil {
			return statusMsg{text: fmt.Sprintf("%s error: %v", format, err), isError: true}
		}
		a.log.Info("exported tasks", "format", format, "path", path, "count", len(tasks))
		return exportDoneMsg{path: path}
	}
}
