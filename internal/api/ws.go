package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/xtding233/gameplan-backend/internal/gameplan"
	"github.com/xtding233/gameplan-backend/internal/session"
	"github.com/xtding233/gameplan-backend/internal/store"
	"github.com/xtding233/gameplan-backend/internal/validation"
)

// Client message types.
const (
	msgEdit     = "edit"
	msgValidate = "validate"
	msgReset    = "reset"
	msgSave     = "save"
)

// Server message types.
const (
	msgState = "state"
	msgError = "error"
)

type wsIn struct {
	Type   string                     `json:"type"`
	Record map[string]json.RawMessage `json:"record,omitempty"`
}

type wsOut struct {
	Type       string             `json:"type"`
	Session    string             `json:"session"`
	State      session.State      `json:"state"`
	Gameplan   json.RawMessage    `json:"gameplan,omitempty"`
	Validation *validation.Result `json:"validation,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// handleWS runs one live editing session per connection. Every client message
// is answered with a state message, or an error message carrying the current
// state and validation.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	teamID, err := teamIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	baseline, err := s.store.GetGameplan(r.Context(), teamID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		baseline = &gameplan.Gameplan{TeamID: teamID}
	case err != nil:
		s.log.WithError(err).WithField("team", teamID).Error("load gameplan")
		writeError(w, http.StatusInternalServerError, "could not load gameplan")
		return
	}
	legacy := legacyNaming(r)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade")
		return
	}
	defer conn.Close()

	sess := s.sessions.Open(baseline)
	defer s.sessions.Close(sess.ID)
	log := s.log.WithFields(logrus.Fields{"session": sess.ID, "team": teamID})
	log.Info("ws: connected")

	if err := s.sendState(conn, sess, sess.Validate(), nil, legacy); err != nil {
		return
	}
	for {
		var in wsIn
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("ws: read")
			}
			log.Info("ws: closed")
			return
		}

		var (
			res    validation.Result
			msgErr error
		)
		switch in.Type {
		case msgEdit:
			if legacy {
				in.Record = gameplan.TranslateLegacyPassFields(in.Record)
			}
			res, msgErr = sess.Edit(in.Record)
		case msgValidate:
			res = sess.Validate()
		case msgReset:
			res, msgErr = sess.Reset()
		case msgSave:
			ctx, cancel := context.WithTimeout(r.Context(), saveTimeout)
			res, msgErr = sess.Save(ctx)
			cancel()
			if msgErr == nil {
				log.Info("ws: gameplan saved")
			}
		default:
			res, msgErr = sess.Validate(), errors.New("unknown message type "+in.Type)
		}
		if msgErr != nil {
			log.WithError(msgErr).WithField("type", in.Type).Debug("ws: message rejected")
		}
		if err := s.sendState(conn, sess, res, msgErr, legacy); err != nil {
			log.WithError(err).Warn("ws: write")
			return
		}
	}
}

func (s *Server) sendState(conn *websocket.Conn, sess *session.Session, res validation.Result, msgErr error, legacy bool) error {
	rec, err := encodeGameplan(sess.Working(), legacy)
	if err != nil {
		return err
	}
	out := wsOut{
		Type:       msgState,
		Session:    sess.ID.String(),
		State:      sess.State(),
		Gameplan:   rec,
		Validation: &res,
	}
	if msgErr != nil {
		out.Type = msgError
		out.Error = msgErr.Error()
	}
	return conn.WriteJSON(out)
}
