package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/publication-manager/internal/service"
)

type mainKeyMap struct {
	New      key.Binding
	View     key.Binding
	Edit     key.Binding
	Save     key.Binding
	Cancel   key.Binding
	Settings key.Binding
	Next     key.Binding
	Prev     key.Binding
	Quit     key.Binding
}

func newMainKeyMap() mainKeyMap {
	return mainKeyMap{
		New:      key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new")),
		View:     key.NewBinding(key.WithKeys("enter", "ctrl+r"), key.WithHelp("enter", "view")),
		Edit:     key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "edit")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Settings: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "settings")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// sync enables exactly the bindings the screen allows. Without a session
// only settings and quit stay available.
func (k *mainKeyMap) sync(screen *service.Screen) {
	allows := func(a service.Action) bool { return screen != nil && screen.Allows(a) }
	drafting := allows(service.ActionSave)

	k.New.SetEnabled(allows(service.ActionNew))
	k.View.SetEnabled(allows(service.ActionView))
	k.Edit.SetEnabled(allows(service.ActionEdit))
	k.Save.SetEnabled(allows(service.ActionSave))
	k.Cancel.SetEnabled(allows(service.ActionCancel))
	k.Settings.SetEnabled(screen == nil || screen.Allows(service.ActionSettings))
	k.Next.SetEnabled(drafting)
	k.Prev.SetEnabled(drafting)
}

func (k mainKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.View, k.Edit, k.Save, k.Cancel, k.Next, k.Settings, k.Quit}
}

type settingsKeyMap struct {
	Apply   key.Binding
	Default key.Binding
	Next    key.Binding
	Prev    key.Binding
	Back    key.Binding
	Quit    key.Binding
}

func newSettingsKeyMap() settingsKeyMap {
	return settingsKeyMap{
		Apply:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "apply")),
		Default: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "make default")),
		Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k settingsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Apply, k.Default, k.Next, k.Back, k.Quit}
}
