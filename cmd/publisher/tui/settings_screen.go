package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/publication-manager/internal/service"
	"github.com/rs/zerolog"
)

const (
	settingsFocusType = iota
	settingsFocusURL
	settingsFocusUsername
	settingsFocusPassword
	settingsFieldCount
)

type closeSettingsMsg struct{}

// restartMsg asks the application to show reason and exit so that new
// connection settings take effect on the next start
type restartMsg struct {
	reason string
}

// settingsModel edits the stored connection profiles
type settingsModel struct {
	settings service.SettingsService
	log      zerolog.Logger
	timeout  time.Duration

	keys settingsKeyMap
	help help.Model

	types     OptionSelector
	url       textinput.Model
	username  textinput.Model
	password  textinput.Model
	isDefault bool
	focus     int

	err error
}

func newSettingsModel(opts Options) settingsModel {
	password := newInput("password", 200)
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return settingsModel{
		settings: opts.Settings,
		log:      opts.Log.With().Str("component", "settings_screen").Logger(),
		timeout:  opts.Timeout,
		keys:     newSettingsKeyMap(),
		help:     help.New(),
		url:      newInput("jdbc:postgresql://localhost:5432/publications", 300),
		username: newInput("user name", 100),
		password: password,
	}
}

func (m settingsModel) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.timeout)
}

// open reloads the connection types and preselects the current default
func (m settingsModel) open() (settingsModel, tea.Cmd) {
	ctx, cancel := m.context()
	defer cancel()

	m.err = nil
	m.focus = settingsFocusType

	types, err := m.settings.ListTypes(ctx)
	if err != nil {
		m.log.Error().Err(err).Msg("Failed to list connection types")
		m.err = err
		m.types = OptionSelector{Index: -1}
		m.fill("", "", "", false)
		return m, nil
	}

	m.types = OptionSelector{Options: types}
	if profile, _, err := m.settings.ResolveDefault(ctx); profile != nil {
		m.types.SelectValue(profile.Type)
	} else if err != nil {
		m.log.Debug().Err(err).Msg("No default connection to preselect")
	}
	if m.types.Index < 0 && len(types) > 0 {
		m.types.Index = 0
	}

	m.load(ctx)
	cmd := m.applyFocus()
	return m, cmd
}

// load fills the form with the profile of the selected type
func (m *settingsModel) load(ctx context.Context) {
	selected := m.types.Selected()
	if selected == "" {
		m.fill("", "", "", false)
		return
	}
	profile, err := m.settings.Load(ctx, selected)
	if err != nil {
		m.err = err
		m.fill("", "", "", false)
		return
	}
	m.fill(profile.URL, profile.Username, profile.Password, profile.IsDefault)
}

func (m *settingsModel) fill(url, username, password string, isDefault bool) {
	m.url.SetValue(url)
	m.username.SetValue(username)
	m.password.SetValue(password)
	m.isDefault = isDefault
}

// Update handles messages for the settings screen
func (m settingsModel) Update(msg tea.Msg) (settingsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Back):
		return m, func() tea.Msg { return closeSettingsMsg{} }

	case key.Matches(keyMsg, m.keys.Next):
		m.focus = (m.focus + 1) % settingsFieldCount
		cmd := m.applyFocus()
		return m, cmd

	case key.Matches(keyMsg, m.keys.Prev):
		m.focus = (m.focus - 1 + settingsFieldCount) % settingsFieldCount
		cmd := m.applyFocus()
		return m, cmd

	case key.Matches(keyMsg, m.keys.Apply):
		return m.apply()

	case key.Matches(keyMsg, m.keys.Default):
		return m.makeDefault()
	}

	var cmd tea.Cmd
	switch m.focus {
	case settingsFocusType:
		switch keyMsg.String() {
		case "left":
			m.types.Prev()
		case "right", " ":
			m.types.Next()
		default:
			return m, nil
		}
		m.err = nil
		ctx, cancel := m.context()
		defer cancel()
		m.load(ctx)
	case settingsFocusURL:
		m.url, cmd = m.url.Update(keyMsg)
	case settingsFocusUsername:
		m.username, cmd = m.username.Update(keyMsg)
	case settingsFocusPassword:
		m.password, cmd = m.password.Update(keyMsg)
	}
	return m, cmd
}

func (m settingsModel) apply() (settingsModel, tea.Cmd) {
	ctx, cancel := m.context()
	defer cancel()

	selected := m.types.Selected()
	err := m.settings.ApplyCredentials(ctx, selected, m.url.Value(), m.username.Value(), m.password.Value())
	if err != nil {
		m.err = err
		return m, nil
	}

	reason := fmt.Sprintf("Connection %q was updated.", selected)
	return m, func() tea.Msg { return restartMsg{reason: reason} }
}

func (m settingsModel) makeDefault() (settingsModel, tea.Cmd) {
	ctx, cancel := m.context()
	defer cancel()

	selected := m.types.Selected()
	if err := m.settings.MakeDefault(ctx, selected); err != nil {
		m.err = err
		return m, nil
	}

	reason := fmt.Sprintf("Connection %q is now the default.", selected)
	return m, func() tea.Msg { return restartMsg{reason: reason} }
}

func (m *settingsModel) applyFocus() tea.Cmd {
	m.url.Blur()
	m.username.Blur()
	m.password.Blur()
	switch m.focus {
	case settingsFocusURL:
		return m.url.Focus()
	case settingsFocusUsername:
		return m.username.Focus()
	case settingsFocusPassword:
		return m.password.Focus()
	}
	return nil
}

// View renders the settings screen
func (m settingsModel) View() string {
	label := func(focus int, text string) string {
		if m.focus == focus {
			return focusedLabelStyle.Render(text)
		}
		return labelStyle.Render(text)
	}

	defaultValue := mutedStyle.Render("no")
	if m.isDefault {
		defaultValue = successStyle.Render("yes")
	}

	rows := []string{
		label(settingsFocusType, "Connection") + m.types.View(m.focus == settingsFocusType),
		label(settingsFocusURL, "URL") + m.url.View(),
		label(settingsFocusUsername, "User") + m.username.View(),
		label(settingsFocusPassword, "Password") + m.password.View(),
		labelStyle.Render("Default") + defaultValue,
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Connection Settings"))
	b.WriteString("\n")
	b.WriteString(activeBoxStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Changes take effect after the application restarts."))
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(ErrorBox(m.err))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return b.String()
}
