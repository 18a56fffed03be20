package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/publication-manager/internal/models"
)

// TitleItem is a publication in the title list
type TitleItem struct {
	ID    int64
	Label string
}

func (i TitleItem) FilterValue() string { return i.Label }
func (i TitleItem) Title() string       { return i.Label }
func (i TitleItem) Description() string { return "" }

// TitleItemDelegate renders one title per line
type TitleItemDelegate struct{}

func (d TitleItemDelegate) Height() int                             { return 1 }
func (d TitleItemDelegate) Spacing() int                            { return 0 }
func (d TitleItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d TitleItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(TitleItem)
	if !ok {
		return
	}

	var s string
	if index == m.Index() {
		s = selectedItemStyle.Render("▸ " + i.Label)
	} else {
		s = unselectedItemStyle.Render(i.Label)
	}

	_, _ = fmt.Fprint(w, s)
}

func titleItems(entries []models.TitleEntry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = TitleItem{ID: e.ID, Label: e.Title}
	}
	return items
}

// OptionSelector cycles through a fixed list of options with left and right
type OptionSelector struct {
	Options []string
	Index   int
}

// Selected returns the selected option, or "" when there are none
func (o OptionSelector) Selected() string {
	if o.Index < 0 || o.Index >= len(o.Options) {
		return ""
	}
	return o.Options[o.Index]
}

// Next moves to the next option, wrapping around
func (o *OptionSelector) Next() {
	if len(o.Options) == 0 {
		return
	}
	o.Index = (o.Index + 1) % len(o.Options)
}

// Prev moves to the previous option, wrapping around
func (o *OptionSelector) Prev() {
	if len(o.Options) == 0 {
		return
	}
	if o.Index <= 0 {
		o.Index = len(o.Options) - 1
		return
	}
	o.Index--
}

// SelectValue selects value if present; otherwise nothing is selected
func (o *OptionSelector) SelectValue(value string) {
	o.Index = -1
	for i, opt := range o.Options {
		if opt == value {
			o.Index = i
			return
		}
	}
}

// View renders the selected option between arrows
func (o OptionSelector) View(focused bool) string {
	value := o.Selected()
	if value == "" {
		value = "(none)"
	}
	if focused {
		return selectedItemStyle.Render("◂ " + value + " ▸")
	}
	return value
}

// ErrorBox renders err for the user. Validation failures are listed one per line.
func ErrorBox(err error) string {
	if err == nil {
		return ""
	}
	return errorStyle.Render(describeError(err))
}

func describeError(err error) string {
	var verrs models.ValidationErrors
	if errors.As(err, &verrs) {
		lines := make([]string, len(verrs))
		for i, v := range verrs {
			lines[i] = "• " + v.Message
		}
		return "Please fix the following:\n" + strings.Join(lines, "\n")
	}

	var dup *models.DuplicateTitleError
	if errors.As(err, &dup) {
		return fmt.Sprintf("A publication titled %q already exists. Choose another title.", dup.Title)
	}

	var persistErr *models.PersistenceError
	if errors.As(err, &persistErr) {
		return fmt.Sprintf("Could not %s: %v\nYour changes were kept, try again.", persistErr.Op, persistErr.Err)
	}

	return err.Error()
}
