package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/calendar/internal/calendar"
	"github.com/sadopc/calendar/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	weekStart  *string
	dateFormat *string
}

func newSettingsModel(s *store.Store) settingsModel {
	ws, df := "", ""
	return settingsModel{
		store:      s,
		weekStart:  &ws,
		dateFormat: &df,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, err := s.store.GetAllSettings(context.Background())
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
		}
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.weekStart = s.getVal(store.SettingWeekStart, "monday")
	*s.dateFormat = s.getVal(store.SettingDateFormat, "dmy")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Week starts on").
				Options(
					huh.NewOption("Monday", calendar.WeekStartSetting(time.Monday)),
					huh.NewOption("Sunday", calendar.WeekStartSetting(time.Sunday)),
				).Value(s.weekStart),
			huh.NewSelect[string]().Title("Date format").
				Options(
					huh.NewOption("DD/MM/YYYY", "dmy"),
					huh.NewOption("YYYY-MM-DD", "iso"),
				).Value(s.dateFormat),
		).Title("Calendar"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.save(*s.weekStart, *s.dateFormat)
	}

	return s, cmd
}

// save writes the settings and reloads them so every screen picks them up.
func (s settingsModel) save(weekStart, dateFormat string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := s.store.SetSetting(ctx, store.SettingWeekStart, weekStart); err != nil {
			return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
		}
		if err := s.store.SetSetting(ctx, store.SettingDateFormat, dateFormat); err != nil {
			return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
		}
		settings, err := s.store.GetAllSettings(ctx)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
		}
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) getVal(k, fallback string) string {
	for _, setting := range s.settings {
		if setting.Key == k {
			return setting.Value
		}
	}
	return fallback
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(settingLabel(setting.Key))
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingLabel(k string) string {
	switch k {
	case store.SettingWeekStart:
		return "Week starts on"
	case store.SettingDateFormat:
		return "Date format"
	}
	return k
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.SettingWeekStart:
		switch v {
		case "monday":
			return "Monday"
		case "sunday":
			return "Sunday"
		}
	case store.SettingDateFormat:
		switch v {
		case "dmy":
			return "DD/MM/YYYY"
		case "iso":
			return "YYYY-MM-DD"
		}
	}
	return v
}
