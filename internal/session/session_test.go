package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/xtding233/gameplan-backend/internal/gameplan"
	"github.com/xtding233/gameplan-backend/internal/gameplan/gameplantest"
	"github.com/xtding233/gameplan-backend/internal/scheme"
	"github.com/xtding233/gameplan-backend/internal/validation"
)

type fakeSaver struct {
	mu      sync.Mutex
	saved   []*gameplan.Gameplan
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeSaver) SaveGameplan(ctx context.Context, g *gameplan.Gameplan) error {
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, g.Clone())
	return nil
}

func newValidator(t *testing.T) *validation.Validator {
	t.Helper()
	cat, err := scheme.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	return validation.New(cat, nil)
}

func newSession(t *testing.T, saver Saver, canModify bool) *Session {
	t.Helper()
	return New(uuid.New(), gameplantest.WestCoast(7), newValidator(t), saver, canModify)
}

func patch(t *testing.T, kv map[string]any) map[string]json.RawMessage {
	t.Helper()
	out := make(map[string]json.RawMessage, len(kv))
	for k, v := range kv {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal %s: %v", k, err)
		}
		out[k] = b
	}
	return out
}

// moves five points of run weight between two valid fields
func validEdit(t *testing.T) map[string]json.RawMessage {
	return patch(t, map[string]any{"RunOutsideLeft": 10, "RunInsideLeft": 20})
}

func TestEditMarksDirty(t *testing.T) {
	s := newSession(t, &fakeSaver{}, true)
	if s.State() != Clean {
		t.Fatalf("new session state = %s", s.State())
	}
	res, err := s.Edit(validEdit(t))
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if s.State() != Dirty {
		t.Fatalf("state = %s, want dirty", s.State())
	}
	if !res.IsValid || !res.CanSave {
		t.Fatalf("result errors = %v", res.Errors)
	}
	if got := s.Working().Run.OutsideLeft; got != 10 {
		t.Fatalf("working OutsideLeft = %d", got)
	}
	if got := s.Baseline().Run.OutsideLeft; got != 15 {
		t.Fatalf("baseline changed: OutsideLeft = %d", got)
	}
}

func TestEditRejectsAutomatedSection(t *testing.T) {
	base := gameplantest.WestCoast(7)
	base.SpecialTeams.DefaultOffense = true
	s := New(uuid.New(), base, newValidator(t), &fakeSaver{}, true)

	_, err := s.Edit(validEdit(t))
	if !errors.Is(err, gameplan.ErrSectionAutomated) {
		t.Fatalf("err = %v, want ErrSectionAutomated", err)
	}
	if s.State() != Clean {
		t.Fatalf("state = %s after rejected edit", s.State())
	}
	if s.Working().Run.OutsideLeft != 15 {
		t.Fatal("rejected edit changed the working copy")
	}
}

func TestEditReportsErrorsWithoutBlocking(t *testing.T) {
	s := newSession(t, &fakeSaver{}, true)
	res, err := s.Edit(patch(t, map[string]any{"RunDrawLeft": 20}))
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if res.IsValid || res.CanSave {
		t.Fatal("expected invalid result")
	}
	if s.State() != Dirty {
		t.Fatalf("state = %s", s.State())
	}
}

func TestSaveAdoptsWorkingCopy(t *testing.T) {
	saver := &fakeSaver{}
	s := newSession(t, saver, true)
	if _, err := s.Edit(validEdit(t)); err != nil {
		t.Fatalf("edit: %v", err)
	}
	res, err := s.Save(context.Background())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !res.IsValid {
		t.Fatalf("result errors = %v", res.Errors)
	}
	if s.State() != Clean {
		t.Fatalf("state = %s", s.State())
	}
	if len(saver.saved) != 1 || saver.saved[0].Run.OutsideLeft != 10 {
		t.Fatalf("saved = %+v", saver.saved)
	}
	if s.Baseline().Run.OutsideLeft != 10 {
		t.Fatal("baseline not updated")
	}
}

func TestSaveGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("clean", func(t *testing.T) {
		s := newSession(t, &fakeSaver{}, true)
		if _, err := s.Save(ctx); !errors.Is(err, ErrNotDirty) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("read only", func(t *testing.T) {
		saver := &fakeSaver{}
		s := newSession(t, saver, false)
		res, err := s.Edit(validEdit(t))
		if err != nil {
			t.Fatalf("edit: %v", err)
		}
		if !res.IsValid || res.CanSave {
			t.Fatalf("isValid = %v canSave = %v", res.IsValid, res.CanSave)
		}
		if _, err := s.Save(ctx); !errors.Is(err, ErrReadOnly) {
			t.Fatalf("err = %v", err)
		}
		if len(saver.saved) != 0 {
			t.Fatal("read-only session saved")
		}
	})

	t.Run("invalid", func(t *testing.T) {
		saver := &fakeSaver{}
		s := newSession(t, saver, true)
		if _, err := s.Edit(patch(t, map[string]any{"PassScreen": 40})); err != nil {
			t.Fatalf("edit: %v", err)
		}
		res, err := s.Save(ctx)
		if !errors.Is(err, ErrInvalid) {
			t.Fatalf("err = %v", err)
		}
		if res.IsValid || s.State() != Dirty || len(saver.saved) != 0 {
			t.Fatalf("state = %s saved = %d", s.State(), len(saver.saved))
		}
	})

	t.Run("no changes", func(t *testing.T) {
		s := newSession(t, &fakeSaver{}, true)
		if _, err := s.Edit(patch(t, map[string]any{"RunOutsideLeft": 15})); err != nil {
			t.Fatalf("edit: %v", err)
		}
		if _, err := s.Save(ctx); !errors.Is(err, ErrNoChanges) {
			t.Fatalf("err = %v", err)
		}
		if s.State() != Dirty {
			t.Fatalf("state = %s", s.State())
		}
	})
}

func TestSaveFailureKeepsEdits(t *testing.T) {
	boom := errors.New("disk full")
	saver := &fakeSaver{err: boom}
	s := newSession(t, saver, true)
	if _, err := s.Edit(validEdit(t)); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if _, err := s.Save(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if s.State() != Dirty {
		t.Fatalf("state = %s, want dirty", s.State())
	}
	if s.Working().Run.OutsideLeft != 10 || s.Baseline().Run.OutsideLeft != 15 {
		t.Fatal("failed save changed the gameplans")
	}

	saver.mu.Lock()
	saver.err = nil
	saver.mu.Unlock()
	if _, err := s.Save(context.Background()); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if s.State() != Clean {
		t.Fatalf("state = %s", s.State())
	}
}

func TestEditsRefusedWhileSaving(t *testing.T) {
	saver := &fakeSaver{started: make(chan struct{}), release: make(chan struct{})}
	s := newSession(t, saver, true)
	if _, err := s.Edit(validEdit(t)); err != nil {
		t.Fatalf("edit: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := s.Save(context.Background())
		done <- err
	}()
	<-saver.started

	if s.State() != Saving {
		t.Fatalf("state = %s, want saving", s.State())
	}
	if _, err := s.Edit(patch(t, map[string]any{"RunOutsideLeft": 5})); !errors.Is(err, ErrSaveInProgress) {
		t.Fatalf("edit err = %v", err)
	}
	if _, err := s.Reset(); !errors.Is(err, ErrSaveInProgress) {
		t.Fatalf("reset err = %v", err)
	}
	if _, err := s.Save(context.Background()); !errors.Is(err, ErrSaveInProgress) {
		t.Fatalf("save err = %v", err)
	}
	// reads still work
	if res := s.Validate(); !res.IsValid {
		t.Fatalf("validate while saving: %v", res.Errors)
	}

	close(saver.release)
	if err := <-done; err != nil {
		t.Fatalf("save: %v", err)
	}
	if s.State() != Clean || s.Working().Run.OutsideLeft != 10 {
		t.Fatalf("state = %s", s.State())
	}
}

func TestReset(t *testing.T) {
	s := newSession(t, &fakeSaver{}, true)
	if _, err := s.Reset(); !errors.Is(err, ErrNotDirty) {
		t.Fatalf("reset clean err = %v", err)
	}
	if _, err := s.Edit(patch(t, map[string]any{"PassScreen": 40})); err != nil {
		t.Fatalf("edit: %v", err)
	}
	res, err := s.Reset()
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if s.State() != Clean || !res.IsValid {
		t.Fatalf("state = %s errors = %v", s.State(), res.Errors)
	}
	if !gameplan.Equal(s.Working(), gameplantest.WestCoast(7)) {
		t.Fatal("working copy not restored")
	}
}

func TestNilBaseline(t *testing.T) {
	s := New(uuid.New(), nil, newValidator(t), &fakeSaver{}, true)
	res := s.Validate()
	if res.IsValid {
		t.Fatal("empty gameplan should not validate")
	}
	if len(res.Errors) != 1 || res.Errors[0].Field != "OffensiveScheme" {
		t.Fatalf("errors = %v", res.Errors)
	}
}

func TestStateMarshalsAsText(t *testing.T) {
	b, err := json.Marshal(map[string]State{"state": Saving})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"state":"saving"}` {
		t.Fatalf("got %s", b)
	}
}

func TestRegistry(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	r := NewRegistry(logrus.NewEntry(log), newValidator(t), &fakeSaver{}, true)

	a := r.Open(gameplantest.WestCoast(1))
	b := r.Open(gameplantest.AirRaid(2))
	if a.ID == b.ID {
		t.Fatal("session ids collide")
	}
	if r.Len() != 2 {
		t.Fatalf("len = %d", r.Len())
	}
	got, ok := r.Get(b.ID)
	if !ok || got != b {
		t.Fatal("lookup failed")
	}
	if _, err := a.Edit(validEdit(t)); err != nil {
		t.Fatalf("edit: %v", err)
	}
	r.Close(a.ID)
	r.Close(a.ID)
	if _, ok := r.Get(a.ID); ok || r.Len() != 1 {
		t.Fatalf("close did not remove session, len = %d", r.Len())
	}
}
