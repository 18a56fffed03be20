package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/publication-manager/internal/mocks"
	"github.com/publication-manager/internal/models"
	"github.com/publication-manager/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyOf(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// send feeds msgs to the app and returns the last command
func send(t *testing.T, app App, msgs ...tea.Msg) (App, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var model tea.Model
		model, cmd = app.Update(msg)
		next, ok := model.(App)
		require.True(t, ok)
		app = next
	}
	return app, cmd
}

func newTestApp(t *testing.T) (App, *mocks.MockPublicationRepository, *mocks.MockSettingsService) {
	t.Helper()
	repo := mocks.NewMockPublicationRepository()
	repo.Seed(models.Publication{
		Title: "Existing Post", TypeID: 1, Tags: "go", URL: "existing_post",
		PublishedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Body: "Existing body",
	})

	session, err := service.NewPublicationSession(context.Background(), repo, zerolog.Nop())
	require.NoError(t, err)

	settings := mocks.NewMockSettingsService(
		models.ConnectionProfile{Type: "local", URL: "jdbc:postgresql://localhost:5432/publications", Username: "postgres", Password: "postgres", IsDefault: true},
		models.ConnectionProfile{Type: "remote", URL: "jdbc:postgresql://db.example.com:5432/publications", Username: "editor", Password: "secret"},
	)

	app := NewApp(Options{
		Session:  session,
		Settings: settings,
		Status:   "Connected to jdbc:postgresql://localhost:5432/publications as postgres",
		Log:      zerolog.Nop(),
	})
	return app, repo, settings
}

func TestApp_CreatePublication(t *testing.T) {
	app, repo, _ := newTestApp(t)

	app, _ = send(t, app, keyOf(tea.KeyCtrlN))
	require.Equal(t, service.StateCreating, app.main.session.State())

	app, _ = send(t, app,
		runes("Go Testing"),
		keyOf(tea.KeyTab), runes("go, testing"),
		keyOf(tea.KeyTab), keyOf(tea.KeySpace),
		keyOf(tea.KeyTab),
		keyOf(tea.KeyTab), runes("Table driven tests"),
		keyOf(tea.KeyTab), keyOf(tea.KeyRight),
	)

	draft := app.main.session.Draft()
	assert.Equal(t, "Go Testing", draft.Title)
	assert.Equal(t, "go_testing", draft.URL)
	assert.Equal(t, "go, testing", draft.Tags)
	assert.True(t, draft.Active)
	assert.Equal(t, "Table driven tests", draft.Body)
	assert.Equal(t, int64(1), draft.TypeID)

	app, _ = send(t, app, keyOf(tea.KeyCtrlS))
	require.NoError(t, app.main.err)
	assert.Equal(t, service.StateInitial, app.main.session.State())
	assert.Equal(t, savedNotice, app.main.notice)
	assert.Equal(t, 1, repo.CreateCalls)
	assert.Len(t, app.main.titles.Items(), 2)
	assert.Contains(t, app.View(), savedNotice)
}

func TestApp_SaveShowsValidationErrors(t *testing.T) {
	app, repo, _ := newTestApp(t)

	app, _ = send(t, app, keyOf(tea.KeyCtrlN), keyOf(tea.KeyCtrlS))

	var verrs models.ValidationErrors
	require.True(t, errors.As(app.main.err, &verrs))
	assert.Equal(t, service.StateCreating, app.main.session.State())
	assert.Zero(t, repo.CreateCalls)
	assert.Contains(t, app.View(), "Please fix the following")
}

func TestApp_ViewAndCancel(t *testing.T) {
	app, _, _ := newTestApp(t)

	app, _ = send(t, app, keyOf(tea.KeyEnter))
	require.NoError(t, app.main.err)
	assert.Equal(t, service.StateViewing, app.main.session.State())
	assert.Contains(t, app.View(), "02/01/2024")

	// typing while viewing never reaches the draft
	app, _ = send(t, app, runes("x"))
	assert.Equal(t, "Existing Post", app.main.session.Draft().Title)

	app, _ = send(t, app, keyOf(tea.KeyCtrlE))
	assert.Equal(t, service.StateEditing, app.main.session.State())
	assert.Equal(t, "Existing Post", app.main.title.Value())

	app, _ = send(t, app, keyOf(tea.KeyEsc))
	assert.Equal(t, service.StateInitial, app.main.session.State())
	assert.Equal(t, models.Draft{}, app.main.session.Draft())
}

func TestApp_DisabledWithoutSession(t *testing.T) {
	settings := mocks.NewMockSettingsService(models.ConnectionProfile{Type: "local", URL: "jdbc:postgresql://h/d"})
	app := NewApp(Options{Settings: settings, Status: "No connection has been set as default", Log: zerolog.Nop()})

	app, cmd := send(t, app, keyOf(tea.KeyCtrlN))
	assert.Nil(t, cmd)
	assert.Equal(t, modeMain, app.mode)
	assert.Contains(t, app.View(), "No connection has been set as default")

	app, cmd = send(t, app, keyOf(tea.KeyCtrlO))
	require.NotNil(t, cmd)
	app, _ = send(t, app, cmd())
	assert.Equal(t, modeSettings, app.mode)
	assert.Equal(t, "local", app.settings.types.Selected())
}

func TestApp_SettingsMakeDefaultRequiresRestart(t *testing.T) {
	app, _, settings := newTestApp(t)

	app, cmd := send(t, app, keyOf(tea.KeyCtrlO))
	require.NotNil(t, cmd)
	app, _ = send(t, app, cmd())
	require.Equal(t, modeSettings, app.mode)
	assert.Equal(t, "local", app.settings.types.Selected())
	assert.True(t, app.settings.isDefault)

	app, _ = send(t, app, keyOf(tea.KeyRight))
	assert.Equal(t, "remote", app.settings.types.Selected())
	assert.Equal(t, "editor", app.settings.username.Value())
	assert.False(t, app.settings.isDefault)

	app, cmd = send(t, app, keyOf(tea.KeyCtrlD))
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"remote"}, settings.Defaulted)

	app, _ = send(t, app, cmd())
	assert.Equal(t, modeRestart, app.mode)
	assert.True(t, strings.Contains(app.RestartNotice(), "remote"))

	_, cmd = send(t, app, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_SettingsApplyValidationStaysOpen(t *testing.T) {
	app, _, settings := newTestApp(t)
	settings.ApplyError = models.ValidationErrors{{Field: "password", Message: "password is required"}}

	app, cmd := send(t, app, keyOf(tea.KeyCtrlO))
	app, _ = send(t, app, cmd())
	app, cmd = send(t, app, keyOf(tea.KeyCtrlS))

	assert.Nil(t, cmd)
	assert.Equal(t, modeSettings, app.mode)
	assert.Contains(t, app.View(), "password is required")

	app, cmd = send(t, app, keyOf(tea.KeyEsc))
	require.NotNil(t, cmd)
	app, _ = send(t, app, cmd())
	assert.Equal(t, modeMain, app.mode)
}

func TestOptionSelector(t *testing.T) {
	sel := OptionSelector{Options: []string{"a", "b", "c"}, Index: -1}
	assert.Equal(t, "", sel.Selected())

	sel.Next()
	assert.Equal(t, "a", sel.Selected())
	sel.Prev()
	assert.Equal(t, "c", sel.Selected())
	sel.Next()
	assert.Equal(t, "a", sel.Selected())

	sel.SelectValue("b")
	assert.Equal(t, 1, sel.Index)
	sel.SelectValue("z")
	assert.Equal(t, -1, sel.Index)

	sel.Index = -1
	sel.Prev()
	assert.Equal(t, "c", sel.Selected())
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation",
			err:  models.ValidationErrors{{Field: "title", Message: "publication title is required"}, {Field: "body", Message: "publication text is required"}},
			want: "Please fix the following:\n• publication title is required\n• publication text is required",
		},
		{
			name: "duplicate",
			err:  &models.DuplicateTitleError{Title: "Go"},
			want: `A publication titled "Go" already exists. Choose another title.`,
		},
		{
			name: "persistence",
			err:  &models.PersistenceError{Op: "create publication", Err: errors.New("timeout")},
			want: "Could not create publication: timeout\nYour changes were kept, try again.",
		},
		{
			name: "other",
			err:  &models.SelectionRequiredError{Action: "viewing"},
			want: "select a publication from the list before viewing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeError(tt.err))
		})
	}
}
