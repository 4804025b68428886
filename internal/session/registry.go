package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/xtding233/gameplan-backend/internal/gameplan"
	"github.com/xtding233/gameplan-backend/internal/validation"
)

// Registry keeps the live sessions of connected editors.
type Registry struct {
	log       *logrus.Entry
	validator *validation.Validator
	saver     Saver
	canModify bool

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewRegistry(log *logrus.Entry, v *validation.Validator, saver Saver, canModify bool) *Registry {
	return &Registry{
		log:       log,
		validator: v,
		saver:     saver,
		canModify: canModify,
		sessions:  make(map[uuid.UUID]*Session),
	}
}

// Open starts a session on baseline and registers it under a fresh id.
func (r *Registry) Open(baseline *gameplan.Gameplan) *Session {
	s := New(uuid.New(), baseline, r.validator, r.saver, r.canModify)
	team := s.baseline.TeamID

	r.mu.Lock()
	r.sessions[s.ID] = s
	n := len(r.sessions)
	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{"session": s.ID, "team": team, "open": n}).Debug("session opened")
	return s
}

func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Close drops the session. Unsaved edits are discarded.
func (r *Registry) Close(id uuid.UUID) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok && s.State() != Clean {
		r.log.WithField("session", id).Warn("session closed with unsaved edits")
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
