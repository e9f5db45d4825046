// Package admin models an admin CRUD screen as a state machine: a list,
// a create or edit form, a submitting phase and a delete confirmation.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/ministrysync/internal/client/client"
	"github.com/dmitrijs2005/ministrysync/internal/client/models"
)

var ErrInvalidTransition = errors.New("invalid screen transition")

type State string

const (
	StateList             State = "list"
	StateCreating         State = "creating"
	StateEditing          State = "editing"
	StateSubmitting       State = "submitting"
	StateConfirmingDelete State = "confirmingDelete"
)

type Event string

const (
	EventCreate        Event = "create"
	EventEdit          Event = "edit"
	EventSubmit        Event = "submit"
	EventSucceed       Event = "succeed"
	EventFail          Event = "fail"
	EventCancel        Event = "cancel"
	EventRequestDelete Event = "requestDelete"
	EventConfirmDelete Event = "confirmDelete"
)

var transitions = map[State]map[Event]State{
	StateList: {
		EventCreate:        StateCreating,
		EventEdit:          StateEditing,
		EventRequestDelete: StateConfirmingDelete,
	},
	StateCreating: {
		EventSubmit: StateSubmitting,
		EventCancel: StateList,
	},
	StateEditing: {
		EventSubmit: StateSubmitting,
		EventCancel: StateList,
	},
	StateConfirmingDelete: {
		EventConfirmDelete: StateSubmitting,
		EventCancel:        StateList,
	},
	// EventFail is resolved against the state the submission came from.
	StateSubmitting: {
		EventSucceed: StateList,
	},
}

// Screen is one admin screen over entities of type T.
type Screen[T any] struct {
	mu        sync.Mutex
	state     State
	origin    State
	item      T
	inlineErr string
}

func NewScreen[T any]() *Screen[T] {
	return &Screen[T]{state: StateList}
}

// Fire applies ev. A failed submission returns to the form it came from
// (a failed delete returns to the list).
func (s *Screen[T]) Fire(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fire(ev)
}

func (s *Screen[T]) fire(ev Event) error {
	if s.state == StateSubmitting && ev == EventFail {
		if s.origin == StateConfirmingDelete {
			s.state = StateList
		} else {
			s.state = s.origin
		}
		return nil
	}

	next, ok := transitions[s.state][ev]
	if !ok {
		return fmt.Errorf("%w: %s in %s", ErrInvalidTransition, ev, s.state)
	}
	if next == StateSubmitting {
		s.origin = s.state
	}
	s.state = next
	return nil
}

func (s *Screen[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Item is the entity the open form or confirmation refers to.
func (s *Screen[T]) Item() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.item
}

// InlineError is the message shown in the form after a failed submission.
func (s *Screen[T]) InlineError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inlineErr
}

// Busy mirrors the disabled submit button.
func (s *Screen[T]) Busy() bool {
	return s.State() == StateSubmitting
}

func (s *Screen[T]) open(ev Event, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fire(ev); err != nil {
		return err
	}
	s.item = item
	s.inlineErr = ""
	return nil
}

// Create opens an empty form seeded with blank.
func (s *Screen[T]) Create(blank T) error { return s.open(EventCreate, blank) }

// Edit opens the form for item.
func (s *Screen[T]) Edit(item T) error { return s.open(EventEdit, item) }

// RequestDelete asks for confirmation before deleting item.
func (s *Screen[T]) RequestDelete(item T) error { return s.open(EventRequestDelete, item) }

func (s *Screen[T]) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fire(EventCancel); err != nil {
		return err
	}
	var zero T
	s.item = zero
	s.inlineErr = ""
	return nil
}

// Save submits the open form through save.
func (s *Screen[T]) Save(ctx context.Context, item T, save func(ctx context.Context, item T) error) error {
	return s.submit(ctx, EventSubmit, item, save)
}

// Delete runs del after the confirmation.
func (s *Screen[T]) Delete(ctx context.Context, del func(ctx context.Context, item T) error) error {
	return s.submit(ctx, EventConfirmDelete, s.Item(), del)
}

func (s *Screen[T]) submit(ctx context.Context, ev Event, item T, fn func(ctx context.Context, item T) error) error {
	s.mu.Lock()
	if err := s.fire(ev); err != nil {
		s.mu.Unlock()
		return err
	}
	s.item = item
	s.inlineErr = ""
	s.mu.Unlock()

	err := fn(ctx, item)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		_ = s.fire(EventFail)
		s.inlineErr = inlineMessage(err)
		return err
	}
	_ = s.fire(EventSucceed)
	var zero T
	s.item = zero
	return nil
}

func inlineMessage(err error) string {
	if verr, ok := models.AsValidation(err); ok {
		msgs := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			msgs = append(msgs, f.Message())
		}
		return strings.Join(msgs, "; ")
	}
	return client.Message(err)
}
