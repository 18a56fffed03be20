package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/publication-manager/internal/models"
	"github.com/publication-manager/internal/service"
	"github.com/rs/zerolog"
)

// Focus order of the draft form
var draftOrder = []service.Field{
	service.FieldType,
	service.FieldTitle,
	service.FieldTags,
	service.FieldActive,
	service.FieldImageLink,
	service.FieldBody,
}

const savedNotice = "Publication saved."

type openSettingsMsg struct{}

// mainModel is the publication form: title list on the left, draft on the right
type mainModel struct {
	session *service.PublicationSession // nil when no connection is available
	log     zerolog.Logger
	timeout time.Duration
	status  string

	keys   mainKeyMap
	help   help.Model
	titles list.Model

	types   OptionSelector
	typeIDs []int64
	title   textinput.Model
	tags    textinput.Model
	image   textinput.Model
	body    textarea.Model
	focus   int

	err    error
	notice string
	width  int
	height int
}

func newMainModel(opts Options) mainModel {
	l := list.New(nil, TitleItemDelegate{}, 30, 16)
	l.Title = "Publications"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.Styles.Title = titleStyle

	m := mainModel{
		session: opts.Session,
		log:     opts.Log.With().Str("component", "main_screen").Logger(),
		timeout: opts.Timeout,
		status:  opts.Status,
		keys:    newMainKeyMap(),
		help:    help.New(),
		titles:  l,
		title:   newInput("Publication title", 200),
		tags:    newInput("C#, ASP.Net, Linux", 200),
		image:   newInput("https://example.com/cover.png", 500),
		body:    newBody(),
		focus:   1,
	}

	if m.session != nil {
		for _, t := range m.session.Types() {
			m.types.Options = append(m.types.Options, t.Name)
			m.typeIDs = append(m.typeIDs, t.ID)
		}
		m.titles.SetItems(titleItems(m.session.Titles()))
	}
	m.fillFromDraft()
	m.syncKeys()
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 48
	ti.Prompt = ""
	return ti
}

func newBody() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Publication text"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(60)
	ta.SetHeight(8)
	return ta
}

func (m mainModel) screen() *service.Screen {
	if m.session == nil {
		return nil
	}
	s := m.session.Screen()
	return &s
}

func (m mainModel) drafting() bool {
	s := m.screen()
	return s != nil && s.Allows(service.ActionSave)
}

func (m *mainModel) syncKeys() {
	m.keys.sync(m.screen())
}

func (m mainModel) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.timeout)
}

// Update handles messages for the publication form
func (m mainModel) Update(msg tea.Msg) (mainModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.titles.SetSize(32, max(msg.Height-10, 5))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Settings):
			return m, func() tea.Msg { return openSettingsMsg{} }
		}

		if m.session == nil {
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.New):
			return m.transition(m.session.RequestNew())

		case key.Matches(msg, m.keys.View):
			ctx, cancel := m.context()
			defer cancel()
			return m.transition(m.session.RequestView(ctx, m.selectedID()))

		case key.Matches(msg, m.keys.Edit):
			ctx, cancel := m.context()
			defer cancel()
			return m.transition(m.session.RequestEdit(ctx, m.selectedID()))

		case key.Matches(msg, m.keys.Cancel):
			return m.transition(m.session.Cancel())

		case key.Matches(msg, m.keys.Save):
			return m.save()

		case key.Matches(msg, m.keys.Next):
			cmd := m.moveFocus(1)
			return m, cmd

		case key.Matches(msg, m.keys.Prev):
			cmd := m.moveFocus(-1)
			return m, cmd
		}

		if m.drafting() {
			return m.updateField(msg)
		}
	}

	if m.session != nil && !m.drafting() {
		var cmd tea.Cmd
		m.titles, cmd = m.titles.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m mainModel) selectedID() int64 {
	if item, ok := m.titles.SelectedItem().(TitleItem); ok {
		return item.ID
	}
	return 0
}

func (m mainModel) transition(err error) (mainModel, tea.Cmd) {
	m.notice = ""
	m.err = err
	if err != nil {
		return m, nil
	}
	m.fillFromDraft()
	m.syncKeys()
	if m.drafting() {
		m.focus = 1
		cmd := m.applyFocus()
		return m, cmd
	}
	m.blurAll()
	return m, nil
}

func (m mainModel) save() (mainModel, tea.Cmd) {
	ctx, cancel := m.context()
	defer cancel()

	id, err := m.session.Save(ctx)
	if err != nil {
		m.err = err
		m.notice = ""
		return m, nil
	}

	m.err = nil
	m.notice = savedNotice
	cmd := m.titles.SetItems(titleItems(m.session.Titles()))
	for i, item := range m.titles.Items() {
		if t, ok := item.(TitleItem); ok && t.ID == id {
			m.titles.Select(i)
			break
		}
	}
	m.fillFromDraft()
	m.syncKeys()
	m.blurAll()
	return m, cmd
}

// updateField routes a key to the focused draft field and pushes the new
// value into the session
func (m mainModel) updateField(msg tea.KeyMsg) (mainModel, tea.Cmd) {
	var cmd tea.Cmd
	var err error

	switch draftOrder[m.focus] {
	case service.FieldType:
		switch msg.String() {
		case "left":
			m.types.Prev()
		case "right", " ":
			m.types.Next()
		default:
			return m, nil
		}
		if m.types.Index >= 0 && m.types.Index < len(m.typeIDs) {
			err = m.session.SetTypeID(m.typeIDs[m.types.Index])
		}

	case service.FieldActive:
		switch msg.String() {
		case " ", "left", "right":
			err = m.session.SetActive(!m.session.Draft().Active)
		default:
			return m, nil
		}

	case service.FieldTitle:
		m.title, cmd = m.title.Update(msg)
		err = m.session.SetTitle(m.title.Value())

	case service.FieldTags:
		m.tags, cmd = m.tags.Update(msg)
		err = m.session.SetTags(m.tags.Value())

	case service.FieldImageLink:
		m.image, cmd = m.image.Update(msg)
		err = m.session.SetImageLink(m.image.Value())

	case service.FieldBody:
		m.body, cmd = m.body.Update(msg)
		err = m.session.SetBody(m.body.Value())
	}

	if err != nil {
		m.log.Warn().Err(err).Msg("Field update rejected")
		m.err = err
	}
	return m, cmd
}

func (m *mainModel) moveFocus(delta int) tea.Cmd {
	if !m.drafting() {
		return nil
	}
	m.focus = (m.focus + delta + len(draftOrder)) % len(draftOrder)
	return m.applyFocus()
}

func (m *mainModel) applyFocus() tea.Cmd {
	m.blurAll()
	switch draftOrder[m.focus] {
	case service.FieldTitle:
		return m.title.Focus()
	case service.FieldTags:
		return m.tags.Focus()
	case service.FieldImageLink:
		return m.image.Focus()
	case service.FieldBody:
		return m.body.Focus()
	}
	return nil
}

func (m *mainModel) blurAll() {
	m.title.Blur()
	m.tags.Blur()
	m.image.Blur()
	m.body.Blur()
}

// fillFromDraft copies the session draft into the form widgets
func (m *mainModel) fillFromDraft() {
	var d models.Draft
	if m.session != nil {
		d = m.session.Draft()
	}
	m.title.SetValue(d.Title)
	m.tags.SetValue(d.Tags)
	m.image.SetValue(d.ImageLink)
	m.body.SetValue(d.Body)

	m.types.Index = -1
	for i, id := range m.typeIDs {
		if id == d.TypeID {
			m.types.Index = i
		}
	}
}

// View renders the publication form
func (m mainModel) View() string {
	heading := titleStyle.Render("Publication Manager")
	if m.session != nil {
		heading += mutedStyle.Render("  [" + m.session.State().String() + "]")
	}

	listBox := boxStyle
	formBox := boxStyle
	if m.drafting() {
		formBox = activeBoxStyle
	} else if m.session != nil {
		listBox = activeBoxStyle
	}

	var left string
	if m.session == nil {
		left = listBox.Render(warningStyle.Render("Publications are unavailable.") + "\n" +
			mutedStyle.Render("Open settings to configure a connection."))
	} else {
		left = listBox.Render(m.titles.View())
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", formBox.Render(m.formView()))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(statusBarStyle.Render(m.status))
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(successStyle.Render(m.notice))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(ErrorBox(m.err))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return b.String()
}

func (m mainModel) formView() string {
	var d models.Draft
	if m.session != nil {
		d = m.session.Draft()
	}
	screen := m.screen()
	editable := func(f service.Field) bool { return screen != nil && screen.CanEdit(f) }
	focused := func(f service.Field) bool { return m.drafting() && draftOrder[m.focus] == f }

	row := func(f service.Field, label, value string) string {
		style := disabledLabelStyle
		switch {
		case focused(f):
			style = focusedLabelStyle
		case editable(f):
			style = labelStyle
		}
		return style.Render(label) + value
	}

	text := func(f service.Field, input textinput.Model, value string) string {
		if editable(f) {
			return input.View()
		}
		return readOnlyValueStyle.Render(value)
	}

	typeValue := m.types.View(focused(service.FieldType))
	if !editable(service.FieldType) {
		typeValue = readOnlyValueStyle.Render(m.typeName(d.TypeID))
	}

	activeValue := "[ ]"
	if d.Active {
		activeValue = "[x]"
	}
	if !editable(service.FieldActive) {
		activeValue = readOnlyValueStyle.Render(activeValue)
	}

	bodyValue := readOnlyValueStyle.Render(d.Body)
	if editable(service.FieldBody) {
		bodyValue = m.body.View()
	}

	rows := []string{
		row(service.FieldType, "Type", typeValue),
		row(service.FieldTitle, "Title", text(service.FieldTitle, m.title, d.Title)),
		row(service.FieldTags, "Tags", text(service.FieldTags, m.tags, d.Tags)),
		row(service.FieldURL, "URL", readOnlyValueStyle.Render(d.URL)),
		row(service.FieldActive, "Active", activeValue),
		row(service.FieldImageLink, "Image", text(service.FieldImageLink, m.image, d.ImageLink)),
		row(service.FieldURL, "Published", readOnlyValueStyle.Render(formatDate(d.PublishedAt))),
		row(service.FieldURL, "Reviewed", readOnlyValueStyle.Render(formatDate(d.ReviewedAt))),
		row(service.FieldBody, "Text", ""),
		bodyValue,
	}
	return strings.Join(rows, "\n")
}

func (m mainModel) typeName(id int64) string {
	if m.session == nil || id == 0 {
		return ""
	}
	if name := m.session.TypeName(id); name != "" {
		return name
	}
	return fmt.Sprintf("#%d", id)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(models.DisplayDateLayout)
}
