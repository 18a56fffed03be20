package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/publication-manager/internal/service"
	"github.com/rs/zerolog"
)

// Options wires the terminal UI to the application services
type Options struct {
	// Session is nil when no default connection could be opened; the form
	// then only offers settings and quit.
	Session  *service.PublicationSession
	Settings service.SettingsService
	// Status is the connection line shown under the form
	Status  string
	Timeout time.Duration
	Log     zerolog.Logger
}

type appMode int

const (
	modeMain appMode = iota
	modeSettings
	modeRestart
)

// App is the root Bubbletea model switching between the publication form
// and the connection settings screen
type App struct {
	mode     appMode
	main     mainModel
	settings settingsModel
	notice   string
	log      zerolog.Logger
	width    int
	height   int
}

// NewApp creates the root model
func NewApp(opts Options) App {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return App{
		mode:     modeMain,
		main:     newMainModel(opts),
		settings: newSettingsModel(opts),
		log:      opts.Log.With().Str("component", "tui").Logger(),
	}
}

// RestartNotice is set when settings changed and the application exited so
// that they take effect on the next start
func (a App) RestartNotice() string {
	return a.notice
}

// Init initializes the model
func (a App) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		var cmd tea.Cmd
		a.main, cmd = a.main.Update(msg)
		return a, cmd

	case openSettingsMsg:
		a.mode = modeSettings
		var cmd tea.Cmd
		a.settings, cmd = a.settings.open()
		return a, cmd

	case closeSettingsMsg:
		a.mode = modeMain
		return a, nil

	case restartMsg:
		a.mode = modeRestart
		a.notice = msg.reason + " Restart the application to use the new connection settings."
		a.log.Info().Str("reason", msg.reason).Msg("Settings changed, restart required")
		return a, nil
	}

	var cmd tea.Cmd
	switch a.mode {
	case modeMain:
		a.main, cmd = a.main.Update(msg)
	case modeSettings:
		a.settings, cmd = a.settings.Update(msg)
	case modeRestart:
		if _, ok := msg.(tea.KeyMsg); ok {
			return a, tea.Quit
		}
	}
	return a, cmd
}

// View renders the UI
func (a App) View() string {
	switch a.mode {
	case modeSettings:
		return a.settings.View()
	case modeRestart:
		content := titleStyle.Render("Restart Required") + "\n\n" +
			warningStyle.Render(a.notice) + "\n\n" +
			helpStyle.Render(FormatKey("any key", "exit"))
		if a.width == 0 || a.height == 0 {
			return boxStyle.Render(content)
		}
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, boxStyle.Render(content))
	default:
		return a.main.View()
	}
}

// Run starts the terminal UI and blocks until it exits. It returns the
// restart notice when the user changed connection settings.
func Run(opts Options) (string, error) {
	p := tea.NewProgram(NewApp(opts), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	if app, ok := final.(App); ok {
		return app.RestartNotice(), nil
	}
	return "", nil
}
