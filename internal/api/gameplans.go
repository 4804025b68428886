package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/xtding233/gameplan-backend/internal/gameplan"
	"github.com/xtding233/gameplan-backend/internal/scheme"
	"github.com/xtding233/gameplan-backend/internal/store"
	"github.com/xtding233/gameplan-backend/internal/validation"
)

// gameplanResponse pairs a gameplan record with its validation result.
type gameplanResponse struct {
	Gameplan   json.RawMessage   `json:"gameplan"`
	Validation validation.Result `json:"validation"`
}

func (s *Server) handleSchemes(w http.ResponseWriter, r *http.Request) {
	family := r.URL.Query().Get("family")
	out := []scheme.Offense{}
	for _, o := range s.catalogs.Catalog().Offenses() {
		if family == "" || o.Family.Name == family {
			out = append(out, o)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleScheme(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	off, ok := s.catalogs.Catalog().Offense(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown offensive scheme %q", name))
		return
	}
	writeJSON(w, http.StatusOK, off)
}

func (s *Server) handleDefensiveSchemes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalogs.Catalog().Defenses())
}

func (s *Server) handleListGameplans(w http.ResponseWriter, r *http.Request) {
	teams, err := s.store.ListTeams(r.Context())
	if err != nil {
		s.log.WithError(err).Error("list gameplans")
		writeError(w, http.StatusInternalServerError, "could not list gameplans")
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

func (s *Server) handleGetGameplan(w http.ResponseWriter, r *http.Request) {
	teamID, err := teamIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := s.store.GetGameplan(r.Context(), teamID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no gameplan for team %d", teamID))
		return
	}
	if err != nil {
		s.log.WithError(err).WithField("team", teamID).Error("load gameplan")
		writeError(w, http.StatusInternalServerError, "could not load gameplan")
		return
	}
	s.writeGameplan(w, r, http.StatusOK, g, s.validator.Validate(g, s.canModify))
}

// handlePutGameplan validates and stores a full gameplan. Invalid gameplans are
// answered with 422 and the validation result; nothing is written.
func (s *Server) handlePutGameplan(w http.ResponseWriter, r *http.Request) {
	teamID, err := teamIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, ok := s.readGameplan(w, r)
	if !ok {
		return
	}
	g.TeamID = teamID

	res := s.validator.Validate(g, s.canModify)
	switch {
	case !s.canModify:
		writeJSON(w, http.StatusForbidden, res)
		return
	case !res.CanSave:
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}
	if err := s.store.SaveGameplan(r.Context(), g); err != nil {
		s.log.WithError(err).WithField("team", teamID).Error("save gameplan")
		writeError(w, http.StatusInternalServerError, "could not save gameplan")
		return
	}
	s.log.WithFields(logrus.Fields{"team": teamID, "scheme": g.OffensiveScheme}).Info("gameplan saved")
	s.writeGameplan(w, r, http.StatusOK, g, res)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	g, ok := s.readGameplan(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.validator.Validate(g, s.canModify))
}

func (s *Server) handleDistributions(w http.ResponseWriter, r *http.Request) {
	g, ok := s.readGameplan(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.calc.Compute(g))
}

// readGameplan decodes the request body as a flat record. It writes the error
// response itself and reports whether decoding succeeded.
func (s *Server) readGameplan(w http.ResponseWriter, r *http.Request) (*gameplan.Gameplan, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return nil, false
	}
	g, err := gameplan.DecodeRecord(body, legacyNaming(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return g, true
}

func (s *Server) writeGameplan(w http.ResponseWriter, r *http.Request, code int, g *gameplan.Gameplan, res validation.Result) {
	rec, err := encodeGameplan(g, legacyNaming(r))
	if err != nil {
		s.log.WithError(err).Error("encode gameplan")
		writeError(w, http.StatusInternalServerError, "could not encode gameplan")
		return
	}
	writeJSON(w, code, gameplanResponse{Gameplan: rec, Validation: res})
}

// encodeGameplan renders the flat record, renaming pass keys for legacy clients.
func encodeGameplan(g *gameplan.Gameplan, legacy bool) (json.RawMessage, error) {
	b, err := json.Marshal(g)
	if err != nil || !legacy {
		return b, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	return json.Marshal(gameplan.ToLegacyPassFields(raw))
}

func teamIDFromPath(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["teamID"])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid team id %q", mux.Vars(r)["teamID"])
	}
	return id, nil
}
