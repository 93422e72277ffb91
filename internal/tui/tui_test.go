package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/calendar/internal/day"
	"github.com/sadopc/calendar/internal/service"
	"github.com/sadopc/calendar/internal/store"
)

var march15 = day.New(2024, time.March, 15)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestService(t *testing.T) (*service.Service, *store.Store) {
	t.Helper()
	st := newTestStore(t)
	svc := service.New(st, service.Options{Today: march15, GraceWindow: time.Minute})
	t.Cleanup(svc.Close)
	return svc, st
}

func newTestApp(t *testing.T) (App, *store.Store) {
	t.Helper()
	svc, st := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	model, _ := NewApp(ctx, svc, st, Options{}).Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return model.(App), st
}

// flush waits for every queued service intent to be applied.
func flush(t *testing.T, svc *service.Service) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := svc.Sync(ctx); err != nil {
		t.Fatalf("sync: %v", err)
	}
}

func listTasks(t *testing.T, st *store.Store) []store.Task {
	t.Helper()
	tasks, err := st.ListAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return tasks
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func makeTasks(n int, d day.Date) []store.Task {
	tasks := make([]store.Task, n)
	for i := range tasks {
		tasks[i] = store.Task{ID: int64(n - i), Description: "task", DueDate: d}
	}
	return tasks
}

// ============================================================
// Routes
// ============================================================

func TestParseRoute(t *testing.T) {
	tests := []struct {
		in      string
		kind    routeKind
		date    day.Date
		wantErr bool
	}{
		{"", routeKindCalendar, day.Date{}, false},
		{"calendar", routeKindCalendar, day.Date{}, false},
		{"dailyTasks/19797", routeKindDay, march15, false},
		{"dailyTasks/0", routeKindDay, day.New(1970, time.January, 1), false},
		{"dailyTasks/-1", routeKindDay, day.New(1969, time.December, 31), false},
		{"dailyTasks/", routeKindDay, day.Date{}, true},
		{"dailyTasks", routeKindDay, day.Date{}, true},
		{"dailyTasks/tomorrow", routeKindDay, day.Date{}, true},
		{"settings/x", routeKindCalendar, day.Date{}, true},
	}
	for _, tt := range tests {
		r, err := ParseRoute(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRoute(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrBadRoute) {
			t.Errorf("ParseRoute(%q) err = %v, want ErrBadRoute", tt.in, err)
		}
		if r.Kind != tt.kind {
			t.Errorf("ParseRoute(%q) kind = %d, want %d", tt.in, r.Kind, tt.kind)
		}
		if r.Date != tt.date {
			t.Errorf("ParseRoute(%q) date = %s, want %s", tt.in, r.Date, tt.date)
		}
		if tt.wantErr && r.Kind == routeKindDay && r.Err == nil {
			t.Errorf("ParseRoute(%q) should carry the error for the day screen", tt.in)
		}
	}
}

func TestRouteRoundTrip(t *testing.T) {
	s := dayRoute(march15)
	if s != "dailyTasks/19797" {
		t.Fatalf("unexpected route %q", s)
	}
	r, err := ParseRoute(s)
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != s {
		t.Fatalf("String() = %q, want %q", r.String(), s)
	}
	if (Route{}).String() != "calendar" {
		t.Fatal("zero route should be the calendar")
	}
}

// ============================================================
// Presentation
// ============================================================

func TestVisibleTasks(t *testing.T) {
	five := makeTasks(5, march15)

	shown, hidden := visibleTasks(service.List, five)
	if len(shown) != 3 || hidden != 2 {
		t.Fatalf("list: shown=%d hidden=%d", len(shown), hidden)
	}
	if shown[0].ID != five[0].ID {
		t.Fatal("list should keep the store order")
	}

	shown, hidden = visibleTasks(service.CompactList, five)
	if len(shown) != 3 || hidden != 2 {
		t.Fatalf("compact: shown=%d hidden=%d", len(shown), hidden)
	}

	shown, hidden = visibleTasks(service.Grid, five)
	if len(shown) != 5 || hidden != 0 {
		t.Fatalf("grid: shown=%d hidden=%d", len(shown), hidden)
	}

	shown, hidden = visibleTasks(service.List, makeTasks(3, march15))
	if len(shown) != 3 || hidden != 0 {
		t.Fatalf("exactly three: shown=%d hidden=%d", len(shown), hidden)
	}

	shown, hidden = visibleTasks(service.List, nil)
	if len(shown) != 0 || hidden != 0 {
		t.Fatal("empty list should show nothing")
	}
}

func TestCanEdit(t *testing.T) {
	if !canEdit(service.List) || !canEdit(service.Grid) {
		t.Fatal("list and grid modes allow editing")
	}
	if canEdit(service.CompactList) {
		t.Fatal("compact mode is toggle-only")
	}
}

func TestLabels(t *testing.T) {
	if statusLabel(store.Task{Completed: true}) != "Done" {
		t.Fatal("completed task should be Done")
	}
	if statusLabel(store.Task{}) != "Pending" {
		t.Fatal("open task should be Pending")
	}
	if checkbox(true) != "[x]" || checkbox(false) != "[ ]" {
		t.Fatal("unexpected checkbox rendering")
	}
	if showMoreLabel(7) != "Show all 7 tasks" {
		t.Fatalf("unexpected label %q", showMoreLabel(7))
	}
}

func TestTasksOn(t *testing.T) {
	all := []store.Task{
		{ID: 4, DueDate: march15},
		{ID: 3, DueDate: march15.AddDays(1)},
		{ID: 2, DueDate: march15},
	}
	got := tasksOn(all, march15)
	if len(got) != 2 || got[0].ID != 4 || got[1].ID != 2 {
		t.Fatalf("unexpected filter result: %+v", got)
	}
	if tasksOn(all, march15.AddDays(5)) != nil {
		t.Fatal("no tasks expected")
	}
}

func TestRenderTaskRowShowsDate(t *testing.T) {
	task := store.Task{ID: 1, Description: "Buy milk", DueDate: march15}

	row := renderTaskRow(task, service.List, defaultPrefs(), false, 80)
	if !strings.Contains(row, "Buy milk") || !strings.Contains(row, "15/03/2024") {
		t.Fatalf("list row missing description or date: %q", row)
	}

	compact := renderTaskRow(task, service.CompactList, defaultPrefs(), false, 80)
	if strings.Contains(compact, "15/03/2024") {
		t.Fatalf("compact row should not show the date: %q", compact)
	}
}

func TestRenderTaskCards(t *testing.T) {
	tasks := []store.Task{
		{ID: 2, Description: "Pay rent", Completed: true, DueDate: march15},
		{ID: 1, Description: "Buy milk", DueDate: march15},
	}
	out := renderTaskCards(tasks, 0, 100)
	for _, want := range []string{"Pay rent", "Buy milk", "Done", "Pending"} {
		if !strings.Contains(out, want) {
			t.Fatalf("cards missing %q", want)
		}
	}
}

func TestPrefsFromSettings(t *testing.T) {
	p := prefsFromSettings(nil)
	if p.weekStart != time.Monday || p.formatDate(march15) != "15/03/2024" {
		t.Fatalf("unexpected defaults: %+v", p)
	}

	p = prefsFromSettings([]store.Setting{
		{Key: store.SettingWeekStart, Value: "sunday"},
		{Key: store.SettingDateFormat, Value: "iso"},
	})
	if p.weekStart != time.Sunday {
		t.Fatal("week should start on Sunday")
	}
	if p.formatDate(march15) != "2024-03-15" {
		t.Fatalf("expected ISO date, got %q", p.formatDate(march15))
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 6, "hello…"},
		{"héllo", 3, "hé…"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestClampCursor(t *testing.T) {
	if clampCursor(5, 3) != 2 || clampCursor(1, 3) != 1 || clampCursor(2, 0) != 0 {
		t.Fatal("unexpected clamp")
	}
}

func TestMonthCounts(t *testing.T) {
	all := []store.Task{
		{DueDate: march15, Completed: true},
		{DueDate: march15},
		{DueDate: march15},
		{DueDate: day.New(2024, time.March, 1), Completed: true},
		{DueDate: day.New(2024, time.April, 1)},
	}
	counts := monthCounts(all, march15)
	if len(counts) != 31 {
		t.Fatalf("expected 31 days, got %d", len(counts))
	}
	if counts[14] != (dayCount{done: 1, pending: 2}) {
		t.Fatalf("unexpected count for the 15th: %+v", counts[14])
	}
	if counts[0] != (dayCount{done: 1}) {
		t.Fatalf("unexpected count for the 1st: %+v", counts[0])
	}
}

// ============================================================
// Task editor
// ============================================================

func TestEditorBlankDescriptionStaysOpen(t *testing.T) {
	svc, st := newTestService(t)
	e := newTaskEditor(svc)
	e, _ = e.openCreate(march15)

	*e.description = "   "
	e, _ = e.submit()
	if !e.active() {
		t.Fatal("form should stay open after a blank description")
	}
	if e.err == "" {
		t.Fatal("form should explain the problem")
	}

	flush(t, svc)
	if n := len(listTasks(t, st)); n != 0 {
		t.Fatalf("nothing should be saved, got %d tasks", n)
	}
}

func TestEditorBadDateStaysOpen(t *testing.T) {
	svc, st := newTestService(t)
	e := newTaskEditor(svc)
	e, _ = e.openCreate(march15)

	*e.description = "Buy milk"
	*e.due = "15/03/2024"
	e, _ = e.submit()
	if !e.active() {
		t.Fatal("form should stay open after an invalid date")
	}
	flush(t, svc)
	if n := len(listTasks(t, st)); n != 0 {
		t.Fatalf("nothing should be saved, got %d tasks", n)
	}
}

func TestEditorCreate(t *testing.T) {
	svc, st := newTestService(t)
	e := newTaskEditor(svc)
	e, _ = e.openCreate(march15)
	if *e.due != "2024-03-15" {
		t.Fatalf("due date should default to the selected date, got %q", *e.due)
	}

	*e.description = "  Buy milk "
	e, cmd := e.submit()
	if e.active() {
		t.Fatal("form should close after submit")
	}
	if cmd == nil {
		t.Fatal("expected status command")
	}

	flush(t, svc)
	tasks := listTasks(t, st)
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Description != "Buy milk" || tasks[0].DueDate != march15 || tasks[0].Completed {
		t.Fatalf("unexpected task: %+v", tasks[0])
	}
}

func TestEditorEdit(t *testing.T) {
	svc, st := newTestService(t)
	task, _ := st.Insert(context.Background(), store.Task{Description: "draft", DueDate: march15})

	e := newTaskEditor(svc)
	e, _ = e.openEdit(task)
	if *e.description != "draft" || *e.due != "2024-03-15" || *e.completed {
		t.Fatal("form should be prefilled from the task")
	}

	*e.description = "final"
	*e.completed = true
	*e.due = "2024-03-20"
	e, _ = e.submit()
	if e.active() {
		t.Fatal("form should close")
	}

	flush(t, svc)
	got, err := st.GetTask(context.Background(), task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != "final" || !got.Completed || got.DueDate != day.New(2024, time.March, 20) {
		t.Fatalf("edit not applied: %+v", got)
	}
}

func TestEditorDelete(t *testing.T) {
	svc, st := newTestService(t)
	keep, _ := st.Insert(context.Background(), store.Task{Description: "keep", DueDate: march15})
	gone, _ := st.Insert(context.Background(), store.Task{Description: "gone", DueDate: march15})

	e := newTaskEditor(svc)

	// Declining keeps the task.
	e, _ = e.openDelete(keep)
	*e.confirm = false
	e, _ = e.submit()
	if e.active() {
		t.Fatal("dialog should close")
	}

	e, _ = e.openDelete(gone)
	*e.confirm = true
	e, _ = e.submit()

	flush(t, svc)
	tasks := listTasks(t, st)
	if len(tasks) != 1 || tasks[0].ID != keep.ID {
		t.Fatalf("expected only %q left, got %+v", keep.Description, tasks)
	}
}

func TestEditorEscCloses(t *testing.T) {
	svc, _ := newTestService(t)
	e := newTaskEditor(svc)
	e, _ = e.openCreate(march15)
	e, _ = e.update(tea.KeyMsg{Type: tea.KeyEsc})
	if e.active() {
		t.Fatal("esc should close the form")
	}
}

func TestValidators(t *testing.T) {
	if validateDescription(" ") == nil || validateDescription("x") != nil {
		t.Fatal("unexpected description validation")
	}
	if validateDate("2024-02-30") == nil || validateDate("2024-02-29") != nil {
		t.Fatal("unexpected date validation")
	}
}

// ============================================================
// Month screen
// ============================================================

func TestMonthIgnoresTasksOfOtherDate(t *testing.T) {
	svc, _ := newTestService(t)
	m := newMonthModel(svc, march15)

	other := march15.AddDays(1)
	m, _ = m.update(dateTasksMsg{Date: other, Tasks: makeTasks(2, other)})
	if len(m.tasks()) != 0 {
		t.Fatal("tasks of another date must not be shown")
	}

	// Once the selection catches up the list appears.
	m, _ = m.update(selectedDateMsg(other))
	if len(m.tasks()) != 2 {
		t.Fatalf("expected 2 tasks after selection, got %d", len(m.tasks()))
	}
}

func TestMonthShowMoreNavigates(t *testing.T) {
	svc, _ := newTestService(t)
	m := newMonthModel(svc, march15)
	m, _ = m.update(dateTasksMsg{Date: march15, Tasks: makeTasks(5, march15)})

	_, cmd := m.update(runeKey("m"))
	if cmd == nil {
		t.Fatal("show more should navigate")
	}
	msg, ok := cmd().(navigateMsg)
	if !ok || msg.route != "dailyTasks/19797" {
		t.Fatalf("unexpected message %#v", msg)
	}

	// Three or fewer tasks have nothing more to show.
	m, _ = m.update(dateTasksMsg{Date: march15, Tasks: makeTasks(3, march15)})
	if _, cmd := m.update(runeKey("m")); cmd != nil {
		t.Fatal("show more should do nothing without hidden tasks")
	}
}

func TestMonthCompactModeIsToggleOnly(t *testing.T) {
	svc, st := newTestService(t)
	task, _ := st.Insert(context.Background(), store.Task{Description: "flip", DueDate: march15})

	m := newMonthModel(svc, march15)
	m, _ = m.update(viewModeMsg(service.CompactList))
	m, _ = m.update(dateTasksMsg{Date: march15, Tasks: []store.Task{task}})
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.focusTasks {
		t.Fatal("enter should focus the task panel")
	}

	m, _ = m.update(runeKey("e"))
	if m.formActive() {
		t.Fatal("compact mode must not open the edit form")
	}
	m, _ = m.update(runeKey("d"))
	if m.formActive() {
		t.Fatal("compact mode must not open the delete dialog")
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeySpace})
	flush(t, svc)
	got, _ := st.GetTask(context.Background(), task.ID)
	if !got.Completed {
		t.Fatal("space should toggle completion")
	}
}

func TestMonthListModeEdits(t *testing.T) {
	svc, _ := newTestService(t)
	m := newMonthModel(svc, march15)
	m, _ = m.update(dateTasksMsg{Date: march15, Tasks: makeTasks(1, march15)})
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.update(runeKey("e"))
	if !m.formActive() || m.editor.mode != editorEdit {
		t.Fatal("list mode should open the edit form")
	}
}

func TestMonthArrowsMoveSelection(t *testing.T) {
	svc, _ := newTestService(t)
	m := newMonthModel(svc, march15)

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyRight})
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.update(runeKey("]"))
	flush(t, svc)
	if got := svc.SelectedDate().Get(); got != day.New(2024, time.April, 23) {
		t.Fatalf("expected 2024-04-23, got %s", got)
	}
}

func TestMonthNewUsesSelectedDate(t *testing.T) {
	svc, _ := newTestService(t)
	m := newMonthModel(svc, march15)
	m, _ = m.update(runeKey("n"))
	if !m.formActive() || m.editor.mode != editorCreate {
		t.Fatal("n should open the create form")
	}
	if *m.editor.due != "2024-03-15" {
		t.Fatalf("due date should default to the selected date, got %q", *m.editor.due)
	}
}

func TestMonthViewRenders(t *testing.T) {
	svc, _ := newTestService(t)
	m := newMonthModel(svc, march15)
	m.setSize(120, 36)
	m, _ = m.update(dateTasksMsg{Date: march15, Tasks: []store.Task{{ID: 1, Description: "Buy milk", DueDate: march15}}})

	out := m.view()
	for _, want := range []string{"March 2024", "Mon", "Sun", "31", "Buy milk", "Tasks for 15/03/2024"} {
		if !strings.Contains(out, want) {
			t.Fatalf("month view missing %q", want)
		}
	}

	m, _ = m.update(dateTasksMsg{Date: march15, Tasks: makeTasks(5, march15)})
	if !strings.Contains(m.view(), "Show all 5 tasks") {
		t.Fatal("month view should offer show more")
	}
}

// ============================================================
// Day screen
// ============================================================

func TestDayViewFiltersAllTasks(t *testing.T) {
	svc, _ := newTestService(t)
	d := newDayModel(svc)
	d.setSize(100, 30)
	r, _ := ParseRoute(dayRoute(march15))
	d = d.open(r)

	d, _ = d.update(allTasksMsg{
		{ID: 3, Description: "one", DueDate: march15},
		{ID: 2, Description: "elsewhere", DueDate: march15.AddDays(1)},
		{ID: 1, Description: "two", DueDate: march15},
	})
	if n := len(d.tasks()); n != 2 {
		t.Fatalf("expected 2 tasks, got %d", n)
	}
	out := d.view()
	if !strings.Contains(out, "one") || !strings.Contains(out, "two") || strings.Contains(out, "elsewhere") {
		t.Fatalf("unexpected day view: %q", out)
	}
}

func TestDayViewInvalidRoute(t *testing.T) {
	svc, _ := newTestService(t)
	d := newDayModel(svc)
	d.setSize(100, 30)
	r, err := ParseRoute("dailyTasks/abc")
	if err == nil {
		t.Fatal("expected error")
	}
	d = d.open(r)

	if !strings.Contains(d.view(), "Invalid date") {
		t.Fatal("day view should render an explicit error")
	}
	// Actions are disabled but esc still leads back.
	d, cmd := d.update(runeKey("n"))
	if d.formActive() || cmd != nil {
		t.Fatal("no actions on an invalid day")
	}
	_, cmd = d.update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should navigate back")
	}
	if msg, ok := cmd().(navigateMsg); !ok || msg.route != routeCalendar {
		t.Fatalf("unexpected message %#v", msg)
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app, _ := newTestApp(t)

	if app.activeView != viewCalendar {
		t.Fatal("default view should be calendar")
	}
	if app.route.Kind != routeKindCalendar {
		t.Fatal("default route should be calendar")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppStartRoute(t *testing.T) {
	svc, st := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := NewApp(ctx, svc, st, Options{Route: "dailyTasks/19797"})
	if app.route.Kind != routeKindDay || app.day.route.Date != march15 {
		t.Fatalf("unexpected start route %+v", app.route)
	}
}

func TestAppNavigate(t *testing.T) {
	app, _ := newTestApp(t)

	model, _ := app.Update(navigateMsg{route: dayRoute(march15)})
	app = model.(App)
	if app.route.Kind != routeKindDay {
		t.Fatal("should show the day screen")
	}
	if !strings.Contains(app.View(), "All tasks for 15/03/2024") {
		t.Fatal("day screen not rendered")
	}

	model, _ = app.Update(navigateMsg{route: "dailyTasks/x"})
	app = model.(App)
	if !strings.Contains(app.View(), "Invalid date") {
		t.Fatal("bad route should render the error screen")
	}

	model, _ = app.Update(navigateMsg{route: routeCalendar})
	app = model.(App)
	if app.route.Kind != routeKindCalendar {
		t.Fatal("should be back on the calendar")
	}
}

func TestAppViewStates(t *testing.T) {
	app, _ := newTestApp(t)

	views := []viewState{viewCalendar, viewOverview, viewSettings}
	for _, v := range views {
		app.activeView = v
		output := app.View()
		if output == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppTabKeys(t *testing.T) {
	app, _ := newTestApp(t)

	model, _ := app.Update(runeKey("2"))
	if model.(App).activeView != viewOverview {
		t.Fatal("2 should open the overview")
	}
	model, _ = model.(App).Update(runeKey("3"))
	if model.(App).activeView != viewSettings {
		t.Fatal("3 should open settings")
	}
	model, _ = model.(App).Update(runeKey("1"))
	if model.(App).activeView != viewCalendar {
		t.Fatal("1 should open the calendar")
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app, _ := newTestApp(t)

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	app, _ := newTestApp(t)
	app.width = 0
	if output := app.View(); output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app, _ := newTestApp(t)

	model, _ := app.Update(statusMsg{text: "test status"})
	if !strings.Contains(model.(App).renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppSurfacesServiceErrors(t *testing.T) {
	app, _ := newTestApp(t)

	model, cmd := app.Update(lastErrorMsg{err: store.ErrNotFound})
	app = model.(App)
	if !app.statusErr || !strings.Contains(app.status, "task not found") {
		t.Fatalf("error should be in the status bar, got %q", app.status)
	}
	if cmd == nil {
		t.Fatal("error subscription should be re-armed")
	}
}

func TestAppSettingsApplyToScreens(t *testing.T) {
	app, _ := newTestApp(t)

	model, _ := app.Update(settingsDataMsg{settings: []store.Setting{
		{Key: store.SettingWeekStart, Value: "sunday"},
		{Key: store.SettingDateFormat, Value: "iso"},
	}})
	app = model.(App)
	if app.month.prefs.weekStart != time.Sunday || app.day.prefs.dateLayout != layoutISO {
		t.Fatal("settings should reach the calendar screens")
	}
}

func TestAppTodayTick(t *testing.T) {
	app, _ := newTestApp(t)
	next := day.New(2030, time.January, 2)

	model, cmd := app.Update(todayMsg(next))
	app = model.(App)
	if app.today != next || app.month.today != next {
		t.Fatal("today should roll over")
	}
	if cmd == nil {
		t.Fatal("tick should be re-armed")
	}
}

func TestAppExportPicker(t *testing.T) {
	app, _ := newTestApp(t)

	model, _ := app.Update(runeKey("E"))
	app = model.(App)
	if !app.exportPicking {
		t.Fatal("E should open the export picker")
	}
	if !strings.Contains(app.View(), "Export Format") {
		t.Fatal("picker not rendered")
	}
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if model.(App).exportPicking {
		t.Fatal("esc should close the picker")
	}
}

func TestAppReceivesServiceStreams(t *testing.T) {
	app, st := newTestApp(t)
	st.Insert(context.Background(), store.Task{Description: "Buy milk", DueDate: march15})

	// Run the subscriptions the way the Bubble Tea runtime would.
	cmd := listen(app.subs.forDate, func(dt service.DateTasks) tea.Msg { return dateTasksMsg(dt) })
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		model, next := app.Update(cmd())
		app = model.(App)
		if len(app.month.tasks()) == 1 {
			return
		}
		cmd = next
	}
	t.Fatal("month screen never received the task")
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	bindings := keys.ShortHelp()
	if len(bindings) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test, they only need to render)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"dayCell", func() string { return dayCellStyle.Render("test") }},
		{"weekday", func() string { return weekdayStyle.Render("test") }},
		{"todayCell", func() string { return todayCellStyle.Render("test") }},
		{"selectedCell", func() string { return selectedCellStyle.Render("test") }},
		{"card", func() string { return cardStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"success", func() string { return successStyle.Render("test") }},
		{"warning", func() string { return warningStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"highlight", func() string { return highlightStyle.Render("test") }},
		{"doneText", func() string { return doneTextStyle.Render("test") }},
		{"header", func() string { return headerStyle.Render("test") }},
		{"footer", func() string { return footerStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
		{"normalItem", func() string { return normalItemStyle.Render("test") }},
	}

	for _, s := range styles {
		result := s.fn()
		if result == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}
