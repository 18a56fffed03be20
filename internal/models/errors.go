package models

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when a profile, type or publication does not exist.
type NotFoundError struct {
	Resource string
	Key      string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// SelectionRequiredError is returned when an action needs an item selected
// from a list first. Item defaults to "a publication".
type SelectionRequiredError struct {
	Action string
	Item   string
}

// Error implements the error interface.
func (e *SelectionRequiredError) Error() string {
	item := e.Item
	if item == "" {
		item = "a publication"
	}
	return fmt.Sprintf("select %s from the list before %s", item, e.Action)
}

// ValidationError represents a single field-level validation failure.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return e.Message
}

// ValidationErrors carries every failure found for a draft, in rule order.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Message
	}
	return strings.Join(msgs, "\n")
}

// Fields returns the failing field names in order.
func (e ValidationErrors) Fields() []string {
	fields := make([]string, len(e))
	for i, v := range e {
		fields[i] = v.Field
	}
	return fields
}

// DuplicateTitleError is returned when a draft title is already used by
// another publication. It is reported on its own, never inside ValidationErrors.
type DuplicateTitleError struct {
	Title string
}

// Error implements the error interface.
func (e *DuplicateTitleError) Error() string {
	return fmt.Sprintf("title %q is already used by another publication", e.Title)
}

// PersistenceError wraps a storage failure. The draft is left untouched so
// the user can retry.
type PersistenceError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// TransitionError is returned when an event is not legal in the current state.
type TransitionError struct {
	State string
	Event string
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s is not allowed while %s", e.Event, e.State)
}

// ReadOnlyFieldError is returned when a draft field is changed in a state
// where it is not editable.
type ReadOnlyFieldError struct {
	Field string
	State string
}

// Error implements the error interface.
func (e *ReadOnlyFieldError) Error() string {
	return fmt.Sprintf("field %s is read-only while %s", e.Field, e.State)
}
