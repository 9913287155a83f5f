package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/linesmerrill/lexmatch-api/api"
	"github.com/linesmerrill/lexmatch-api/config"
	"github.com/linesmerrill/lexmatch-api/models"
)

// Session exported for testing purposes
type Session struct {
	Sessions *api.SessionManager
}

// CreateSessionHandler starts a session as the persona for the requested role
func (s Session) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SessionRequest
	if err := decodeBody(r, &req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	resp, err := s.Sessions.Issue(r, req.Role)
	if err != nil {
		writeError("failed to create session", w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// SwitchSessionHandler ends the current session and starts one as the other role
func (s Session) SwitchSessionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}
	if err := s.Sessions.Revoke(r); err != nil {
		zap.S().Warnw("failed to revoke session during switch", "userID", user.ID, "error", err)
	}
	resp, err := s.Sessions.Issue(r, user.Role.Other())
	if err != nil {
		writeError("failed to switch session", w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteSessionHandler revokes the current session
func (s Session) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Revoke(r); err != nil {
		writeError("failed to revoke session", w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MeHandler returns the session user
func (s Session) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user)
}
