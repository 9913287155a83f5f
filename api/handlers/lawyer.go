package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/lexmatch-api/api"
	"github.com/linesmerrill/lexmatch-api/marketplace"
	"github.com/linesmerrill/lexmatch-api/models"
)

// Lawyer exported for testing purposes
type Lawyer struct {
	Market *marketplace.Market
}

// LawyersHandler returns the lawyer directory
func (l Lawyer) LawyersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	lawyers, err := l.Market.LawyerDirectory(ctx)
	if err != nil {
		writeError("failed to get lawyers", w, err)
		return
	}
	writeJSON(w, http.StatusOK, lawyers)
}

// LawyerByIDHandler returns a lawyer profile
func (l Lawyer) LawyerByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	lawyer, err := l.Market.Lawyer(ctx, mux.Vars(r)["lawyer_id"])
	if err != nil {
		writeError("failed to get lawyer by ID", w, err)
		return
	}
	writeJSON(w, http.StatusOK, lawyer)
}

// EnquireHandler sends the founder's enquiry to a lawyer
func (l Lawyer) EnquireHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	text, err := l.Market.Enquire(ctx, user, mux.Vars(r)["lawyer_id"])
	if err != nil {
		writeError("failed to send enquiry", w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: text})
}
