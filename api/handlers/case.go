package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/lexmatch-api/api"
	"github.com/linesmerrill/lexmatch-api/config"
	"github.com/linesmerrill/lexmatch-api/marketplace"
	"github.com/linesmerrill/lexmatch-api/models"
)

// Case exported for testing purposes
type Case struct {
	Market *marketplace.Market
}

// CreateCaseHandler posts a reviewed brief as a new case
func (c Case) CreateCaseHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}
	var req models.CreateCaseRequest
	if err := decodeBody(r, &req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	created, err := c.Market.CreateCase(ctx, user, req.RawDescription, req.Brief)
	if err != nil {
		writeError("failed to create case", w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// CasesHandler returns the founder's dashboard for ?tab=active|completed
func (c Case) CasesHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}
	tab, err := marketplace.ParseTab(r.URL.Query().Get("tab"))
	if err != nil {
		writeError("invalid tab", w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	cases, err := c.Market.ClientCases(ctx, user, tab)
	if err != nil {
		writeError("failed to get cases", w, err)
		return
	}
	writeJSON(w, http.StatusOK, cases)
}

// OpenCasesHandler returns the lawyer board
func (c Case) OpenCasesHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	cases, err := c.Market.OpenCases(ctx, user)
	if err != nil {
		writeError("failed to get open cases", w, err)
		return
	}
	writeJSON(w, http.StatusOK, cases)
}

// CaseByIDHandler returns a case by ID
func (c Case) CaseByIDHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}
	caseID := mux.Vars(r)["case_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	found, err := c.Market.Case(ctx, user, caseID)
	if err != nil {
		writeError("failed to get case by ID", w, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

// CreateBidHandler places the session lawyer's bid on a case
func (c Case) CreateBidHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}
	caseID := mux.Vars(r)["case_id"]
	var req models.CreateBidRequest
	if err := decodeBody(r, &req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	bid, err := c.Market.PlaceBid(ctx, user, caseID, req.Amount, req.Message)
	if err != nil {
		writeError("failed to place bid", w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bid)
}

// AcceptBidHandler accepts a bid once the founder confirms the escrow
// transfer. Without confirm it answers 428 with the prompt to show.
func (c Case) AcceptBidHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	var req models.AcceptBidRequest
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	updated, err := c.Market.AcceptBid(ctx, user, vars["case_id"], vars["bid_id"], req.Confirm)
	var confirmErr *marketplace.ConfirmationError
	if errors.As(err, &confirmErr) {
		zap.S().Debugw("bid acceptance awaiting confirmation", "caseID", vars["case_id"], "bidID", vars["bid_id"])
		writeJSON(w, http.StatusPreconditionRequired, models.ConfirmationResponse{
			ConfirmationRequired: true,
			Prompt:               confirmErr.Prompt,
		})
		return
	}
	if err != nil {
		writeError("failed to accept bid", w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// CompleteCaseHandler marks an escrowed case as completed
func (c Case) CompleteCaseHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}
	caseID := mux.Vars(r)["case_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	updated, err := c.Market.CompleteCase(ctx, user, caseID)
	if err != nil {
		writeError("failed to complete case", w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
