package service

// State is the state of a publication session
type State int

const (
	StateInitial State = iota
	StateViewing
	StateCreating
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateViewing:
		return "viewing"
	case StateCreating:
		return "creating"
	case StateEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// Field identifies an input on the publication form
type Field int

const (
	FieldTitleList Field = iota
	FieldType
	FieldTitle
	FieldTags
	FieldURL
	FieldActive
	FieldImageLink
	FieldBody
)

func (f Field) String() string {
	switch f {
	case FieldTitleList:
		return "title list"
	case FieldType:
		return "type"
	case FieldTitle:
		return "title"
	case FieldTags:
		return "tags"
	case FieldURL:
		return "url"
	case FieldActive:
		return "active"
	case FieldImageLink:
		return "image link"
	case FieldBody:
		return "body"
	default:
		return "unknown"
	}
}

// Action is a user-triggered operation on the publication form
type Action int

const (
	ActionNew Action = iota
	ActionView
	ActionEdit
	ActionSave
	ActionCancel
	ActionSettings
)

func (a Action) String() string {
	switch a {
	case ActionNew:
		return "new"
	case ActionView:
		return "view"
	case ActionEdit:
		return "edit"
	case ActionSave:
		return "save"
	case ActionCancel:
		return "cancel"
	case ActionSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// Screen describes what the form allows in one state
type Screen struct {
	Editable map[Field]bool
	Actions  map[Action]bool
}

// CanEdit reports whether f accepts input
func (s Screen) CanEdit(f Field) bool {
	return s.Editable[f]
}

// Allows reports whether a is enabled
func (s Screen) Allows(a Action) bool {
	return s.Actions[a]
}

var (
	browseScreen = Screen{
		Editable: map[Field]bool{FieldTitleList: true},
		Actions:  map[Action]bool{ActionNew: true, ActionView: true, ActionEdit: true, ActionSettings: true},
	}
	// The url field is derived from the title and is never in this set.
	draftScreen = Screen{
		Editable: map[Field]bool{
			FieldType:      true,
			FieldTitle:     true,
			FieldTags:      true,
			FieldActive:    true,
			FieldImageLink: true,
			FieldBody:      true,
		},
		Actions: map[Action]bool{ActionSave: true, ActionCancel: true},
	}

	screens = map[State]Screen{
		StateInitial:  browseScreen,
		StateViewing:  browseScreen,
		StateCreating: draftScreen,
		StateEditing:  draftScreen,
	}
)

// ScreenFor returns the field and action table of state
func ScreenFor(state State) Screen {
	return screens[state]
}
