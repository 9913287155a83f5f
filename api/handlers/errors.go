package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/linesmerrill/lexmatch-api/api"
	"github.com/linesmerrill/lexmatch-api/config"
	"github.com/linesmerrill/lexmatch-api/databases"
	"github.com/linesmerrill/lexmatch-api/escrow"
	"github.com/linesmerrill/lexmatch-api/intake"
	"github.com/linesmerrill/lexmatch-api/marketplace"
	"github.com/linesmerrill/lexmatch-api/models"
)

// statusFor maps domain errors onto http status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, intake.ErrIntakeEmpty),
		errors.Is(err, intake.ErrIntakeTooShort),
		errors.Is(err, marketplace.ErrInvalidAmount),
		errors.Is(err, marketplace.ErrInvalidBrief),
		errors.Is(err, marketplace.ErrInvalidTab),
		errors.Is(err, escrow.ErrInvalidAmount),
		errors.Is(err, api.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, api.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, marketplace.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, databases.ErrCaseNotFound),
		errors.Is(err, databases.ErrBidNotFound),
		errors.Is(err, databases.ErrLawyerNotFound),
		errors.Is(err, databases.ErrUserNotFound),
		errors.Is(err, intake.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, databases.ErrInvalidTransition),
		errors.Is(err, databases.ErrCaseNotOpen),
		errors.Is(err, databases.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeError(message string, w http.ResponseWriter, err error) {
	config.ErrorStatus(message, statusFor(err), w, err)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		zap.S().Debugw("failed to write response", "error", err)
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// sessionUser returns the user stored by the session middleware
func sessionUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := api.UserFromContext(r.Context())
	if !ok {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, api.ErrNoSession)
	}
	return user, ok
}
