package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/publication-manager/internal/models"
	"github.com/publication-manager/internal/repository"
	"github.com/publication-manager/internal/validation"
	"github.com/rs/zerolog"
)

// PublicationSession drives the publication form: which state it is in,
// what the draft holds, and which repository call a save becomes.
// It serves a single user and is not safe for concurrent use.
type PublicationSession struct {
	id     string
	repo   repository.PublicationRepository
	log    zerolog.Logger
	now    func() time.Time
	state  State
	draft  models.Draft
	titles []models.TitleEntry
	types  []models.PublicationType
}

// SessionOption configures a PublicationSession
type SessionOption func(*PublicationSession)

// WithClock replaces time.Now as the source of publish and review dates
func WithClock(now func() time.Time) SessionOption {
	return func(s *PublicationSession) {
		s.now = now
	}
}

// NewPublicationSession creates a session in the initial state with the
// title list and publication types loaded.
func NewPublicationSession(ctx context.Context, repo repository.PublicationRepository, log zerolog.Logger, opts ...SessionOption) (*PublicationSession, error) {
	id := uuid.NewString()
	s := &PublicationSession{
		id:    id,
		repo:  repo,
		log:   log.With().Str("component", "session").Str("session_id", id).Logger(),
		now:   time.Now,
		state: StateInitial,
	}
	for _, opt := range opts {
		opt(s)
	}

	types, err := repo.ListTypes(ctx)
	if err != nil {
		return nil, &models.PersistenceError{Op: "load publication types", Err: err}
	}
	s.types = types

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}

	s.log.Info().
		Int("titles", len(s.titles)).
		Int("types", len(s.types)).
		Msg("Publication session started")

	return s, nil
}

// ID identifies the session in logs
func (s *PublicationSession) ID() string { return s.id }

// State returns the current state
func (s *PublicationSession) State() State { return s.state }

// Screen returns the field and action table for the current state
func (s *PublicationSession) Screen() Screen { return ScreenFor(s.state) }

// Draft returns a copy of the current draft
func (s *PublicationSession) Draft() models.Draft { return s.draft }

// Titles returns the loaded title list ordered by title
func (s *PublicationSession) Titles() []models.TitleEntry {
	out := make([]models.TitleEntry, len(s.titles))
	copy(out, s.titles)
	return out
}

// Types returns the publication types ordered by id
func (s *PublicationSession) Types() []models.PublicationType {
	out := make([]models.PublicationType, len(s.types))
	copy(out, s.types)
	return out
}

// TypeName returns the name of the publication type id, or "" if unknown
func (s *PublicationSession) TypeName(id int64) string {
	for _, t := range s.types {
		if t.ID == id {
			return t.Name
		}
	}
	return ""
}

// Reload refreshes the title list from the repository
func (s *PublicationSession) Reload(ctx context.Context) error {
	titles, err := s.repo.ListTitles(ctx)
	if err != nil {
		return &models.PersistenceError{Op: "load publication titles", Err: err}
	}
	s.titles = titles
	return nil
}

// RequestNew starts a new publication with an empty draft
func (s *PublicationSession) RequestNew() error {
	if err := s.check(ActionNew); err != nil {
		return err
	}
	s.draft = models.Draft{}
	s.enter(StateCreating)
	return nil
}

// RequestView loads publication id read-only. id 0 means nothing is selected.
func (s *PublicationSession) RequestView(ctx context.Context, id int64) error {
	return s.load(ctx, ActionView, id, StateViewing)
}

// RequestEdit loads publication id for editing. id 0 means nothing is selected.
func (s *PublicationSession) RequestEdit(ctx context.Context, id int64) error {
	return s.load(ctx, ActionEdit, id, StateEditing)
}

// Cancel discards the draft and returns to the initial state
func (s *PublicationSession) Cancel() error {
	if err := s.check(ActionCancel); err != nil {
		return err
	}
	s.draft = models.Draft{}
	s.enter(StateInitial)
	return nil
}

// Save persists the draft: a new publication while creating, an update
// while editing. It returns the id of the saved publication.
//
// A title already used by another publication yields *models.DuplicateTitleError
// and field failures yield models.ValidationErrors; in both cases nothing is
// written. Repository failures yield *models.PersistenceError. On any error
// the state and the draft are kept so the user can fix them and retry.
func (s *PublicationSession) Save(ctx context.Context) (int64, error) {
	if err := s.check(ActionSave); err != nil {
		return 0, err
	}

	if s.titleTaken(s.draft.Title, s.draft.ID) {
		return 0, &models.DuplicateTitleError{Title: s.draft.Title}
	}

	if errs := validation.ValidatePublication(s.draft); len(errs) > 0 {
		return 0, models.ValidationErrors(errs)
	}

	p := s.draft.Publication()
	now := s.now()

	var id int64
	switch s.state {
	case StateCreating:
		p.ID = 0
		p.PublishedAt = now
		p.ReviewedAt = nil
		newID, err := s.repo.Create(ctx, p)
		if err != nil {
			s.log.Error().Err(err).Str("title", p.Title).Msg("Failed to create publication")
			return 0, &models.PersistenceError{Op: "create publication", Err: err}
		}
		id = newID
	case StateEditing:
		p.ReviewedAt = &now
		if err := s.repo.Update(ctx, p); err != nil {
			s.log.Error().Err(err).Int64("id", p.ID).Msg("Failed to update publication")
			return 0, &models.PersistenceError{Op: "update publication", Err: err}
		}
		id = p.ID
	}

	s.log.Info().
		Int64("id", id).
		Str("title", p.Title).
		Str("mode", s.state.String()).
		Msg("Publication saved")

	if err := s.Reload(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Failed to reload titles after save, patching local list")
		s.patchTitles(id, p.Title)
	}

	s.draft = models.Draft{}
	s.enter(StateInitial)
	return id, nil
}

// SetTitle changes the draft title and re-derives its url
func (s *PublicationSession) SetTitle(title string) error {
	if err := s.editable(FieldTitle); err != nil {
		return err
	}
	s.draft.Title = title
	s.draft.URL = validation.Slugify(title)
	return nil
}

// SetTypeID changes the draft publication type
func (s *PublicationSession) SetTypeID(id int64) error {
	if err := s.editable(FieldType); err != nil {
		return err
	}
	s.draft.TypeID = id
	return nil
}

// SetTags changes the draft tags
func (s *PublicationSession) SetTags(tags string) error {
	if err := s.editable(FieldTags); err != nil {
		return err
	}
	s.draft.Tags = tags
	return nil
}

// SetActive changes the draft active flag
func (s *PublicationSession) SetActive(active bool) error {
	if err := s.editable(FieldActive); err != nil {
		return err
	}
	s.draft.Active = active
	return nil
}

// SetImageLink changes the draft image link
func (s *PublicationSession) SetImageLink(link string) error {
	if err := s.editable(FieldImageLink); err != nil {
		return err
	}
	s.draft.ImageLink = link
	return nil
}

// SetBody changes the draft body text
func (s *PublicationSession) SetBody(body string) error {
	if err := s.editable(FieldBody); err != nil {
		return err
	}
	s.draft.Body = body
	return nil
}

func (s *PublicationSession) load(ctx context.Context, action Action, id int64, target State) error {
	if err := s.check(action); err != nil {
		return err
	}
	if id <= 0 {
		return &models.SelectionRequiredError{Action: verb(action)}
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		var notFound *models.NotFoundError
		if errors.As(err, &notFound) {
			return notFound
		}
		return &models.PersistenceError{Op: "load publication", Err: err}
	}

	s.draft = models.DraftFromPublication(p)
	s.enter(target)
	return nil
}

func (s *PublicationSession) check(action Action) error {
	if !s.Screen().Allows(action) {
		return &models.TransitionError{State: s.state.String(), Event: action.String()}
	}
	return nil
}

func (s *PublicationSession) editable(f Field) error {
	if !s.Screen().CanEdit(f) {
		return &models.ReadOnlyFieldError{Field: f.String(), State: s.state.String()}
	}
	return nil
}

func (s *PublicationSession) enter(next State) {
	s.log.Debug().Str("from", s.state.String()).Str("to", next.String()).Msg("State transition")
	s.state = next
}

func (s *PublicationSession) titleTaken(title string, selfID int64) bool {
	for _, t := range s.titles {
		if t.Title == title && t.ID != selfID {
			return true
		}
	}
	return false
}

func (s *PublicationSession) patchTitles(id int64, title string) {
	for i := range s.titles {
		if s.titles[i].ID == id {
			s.titles[i].Title = title
			s.sortTitles()
			return
		}
	}
	s.titles = append(s.titles, models.TitleEntry{ID: id, Title: title})
	s.sortTitles()
}

func (s *PublicationSession) sortTitles() {
	sort.SliceStable(s.titles, func(i, j int) bool {
		return s.titles[i].Title < s.titles[j].Title
	})
}

func verb(a Action) string {
	switch a {
	case ActionView:
		return "viewing"
	case ActionEdit:
		return "editing"
	default:
		return a.String()
	}
}
