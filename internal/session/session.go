// Package session tracks one editor's working copy of a gameplan through the
// Clean, Dirty and Saving states.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/xtding233/gameplan-backend/internal/gameplan"
	"github.com/xtding233/gameplan-backend/internal/validation"
)

var (
	ErrNotDirty       = errors.New("no unsaved edits")
	ErrSaveInProgress = errors.New("save in progress")
	ErrInvalid        = errors.New("gameplan has validation errors")
	ErrReadOnly       = errors.New("gameplan cannot be modified")
	ErrNoChanges      = errors.New("gameplan matches the saved copy")
)

// State is the editing state of a session.
type State int

const (
	Clean State = iota
	Dirty
	Saving
)

func (s State) String() string {
	switch s {
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	case Saving:
		return "saving"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Saver persists a gameplan.
type Saver interface {
	SaveGameplan(ctx context.Context, g *gameplan.Gameplan) error
}

// Session holds a saved baseline and the working copy being edited.
type Session struct {
	ID uuid.UUID

	validator *validation.Validator
	saver     Saver
	canModify bool

	mu       sync.Mutex
	state    State
	baseline *gameplan.Gameplan
	working  *gameplan.Gameplan
}

// New starts a clean session on a copy of baseline. A nil baseline starts from an empty gameplan.
func New(id uuid.UUID, baseline *gameplan.Gameplan, v *validation.Validator, saver Saver, canModify bool) *Session {
	if baseline == nil {
		baseline = &gameplan.Gameplan{}
	}
	return &Session{
		ID:        id,
		validator: v,
		saver:     saver,
		canModify: canModify,
		baseline:  baseline.Clone(),
		working:   baseline.Clone(),
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Working returns a copy of the gameplan being edited.
func (s *Session) Working() *gameplan.Gameplan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working.Clone()
}

// Baseline returns a copy of the last saved gameplan.
func (s *Session) Baseline() *gameplan.Gameplan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseline.Clone()
}

// Validate re-runs validation on the working copy.
func (s *Session) Validate() validation.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validator.Validate(s.working, s.canModify)
}

// Edit applies a partial flat record to the working copy. The patch is all or
// nothing: a rejected patch leaves the working copy untouched.
func (s *Session) Edit(patch map[string]json.RawMessage) (validation.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Saving {
		return s.validator.Validate(s.working, s.canModify), ErrSaveInProgress
	}
	if _, err := s.working.ApplyPatch(patch); err != nil {
		return s.validator.Validate(s.working, s.canModify), err
	}
	s.state = Dirty
	return s.validator.Validate(s.working, s.canModify), nil
}

// Reset discards edits and restores the baseline.
func (s *Session) Reset() (validation.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Saving:
		return s.validator.Validate(s.working, s.canModify), ErrSaveInProgress
	case Clean:
		return s.validator.Validate(s.working, s.canModify), ErrNotDirty
	}
	s.working = s.baseline.Clone()
	s.state = Clean
	return s.validator.Validate(s.working, s.canModify), nil
}

// Save persists the working copy. The lock is released while the saver runs, so
// readers see the Saving state and edits are refused until it returns. A failed
// save goes back to Dirty with the edits kept; there are no retries.
func (s *Session) Save(ctx context.Context) (validation.Result, error) {
	s.mu.Lock()
	switch s.state {
	case Saving:
		defer s.mu.Unlock()
		return s.validator.Validate(s.working, s.canModify), ErrSaveInProgress
	case Clean:
		defer s.mu.Unlock()
		return s.validator.Validate(s.working, s.canModify), ErrNotDirty
	}

	res := s.validator.Validate(s.working, s.canModify)
	var err error
	switch {
	case !s.canModify:
		err = ErrReadOnly
	case !res.IsValid:
		err = ErrInvalid
	case gameplan.Equal(s.working, s.baseline):
		err = ErrNoChanges
	}
	if err != nil {
		s.mu.Unlock()
		return res, err
	}

	s.state = Saving
	pending := s.working.Clone()
	s.mu.Unlock()

	saveErr := s.saver.SaveGameplan(ctx, pending)

	s.mu.Lock()
	defer s.mu.Unlock()
	if saveErr != nil {
		s.state = Dirty
		return s.validator.Validate(s.working, s.canModify), fmt.Errorf("save gameplan: %w", saveErr)
	}
	s.baseline = pending
	s.working = pending.Clone()
	s.state = Clean
	return s.validator.Validate(s.working, s.canModify), nil
}
