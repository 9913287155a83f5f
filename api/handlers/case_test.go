package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/lexmatch-api/api"
	"github.com/linesmerrill/lexmatch-api/api/handlers"
	"github.com/linesmerrill/lexmatch-api/databases"
	"github.com/linesmerrill/lexmatch-api/escrow"
	"github.com/linesmerrill/lexmatch-api/marketplace"
	"github.com/linesmerrill/lexmatch-api/models"
	notifymocks "github.com/linesmerrill/lexmatch-api/notify/mocks"
)

func TestCase_FounderFlow(t *testing.T) {
	_, srv := newTestApp(t, nil)
	client := login(t, srv, models.RoleClient)
	lawyer := login(t, srv, models.RoleLawyer)

	brief := models.CaseBrief{
		Title:             "Co-Founder Equity Dispute",
		Summary:           "A departing co-founder claims half the company.",
		KeyIssues:         []string{"Vesting"},
		SuggestedCategory: "Corporate Structure",
		EstimatedBudget:   "$1,500 - $3,000",
	}
	res := doJSON(t, srv, client, http.MethodPost, "/api/v1/cases", models.CreateCaseRequest{RawDescription: cofounderIntake, Brief: brief})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var created models.Case
	decode(t, res, &created)
	assert.Equal(t, models.CaseStatusOpen, created.Status)
	assert.Empty(t, created.Bids)
	assert.Equal(t, "TechStartup Inc.", created.ClientName)

	res = doJSON(t, srv, client, http.MethodGet, "/api/v1/cases?tab=active", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var active []models.Case
	decode(t, res, &active)
	require.Len(t, active, 2)
	assert.Equal(t, created.ID, active[0].ID)
	assert.Equal(t, "case-002", active[1].ID)

	res = doJSON(t, srv, lawyer, http.MethodGet, "/api/v1/cases/open", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var open []models.Case
	decode(t, res, &open)
	assert.Len(t, open, 3)

	res = doJSON(t, srv, lawyer, http.MethodPost, "/api/v1/cases/"+created.ID+"/bids", models.CreateBidRequest{Amount: 1800, Message: "Done this many times."})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var bid models.Bid
	decode(t, res, &bid)
	assert.Equal(t, "Jessica Pearson", bid.LawyerName)

	acceptPath := "/api/v1/cases/" + created.ID + "/bids/" + bid.ID + "/accept"
	res = doJSON(t, srv, client, http.MethodPost, acceptPath, nil)
	require.Equal(t, http.StatusPreconditionRequired, res.StatusCode)
	var confirm models.ConfirmationResponse
	decode(t, res, &confirm)
	assert.True(t, confirm.ConfirmationRequired)
	assert.Equal(t, "Proceed to payment gateway?\n\nTransfer $1800 to Escrow for Jessica Pearson?", confirm.Prompt)

	res = doJSON(t, srv, client, http.MethodPost, acceptPath, models.AcceptBidRequest{Confirm: true})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var accepted models.Case
	decode(t, res, &accepted)
	assert.Equal(t, models.CaseStatusPendingEscrow, accepted.Status)
	assert.Equal(t, bid.ID, accepted.AcceptedBidID)
	require.NotNil(t, accepted.Escrow)
	assert.Equal(t, 1800.0, accepted.Escrow.Amount)

	res = doJSON(t, srv, client, http.MethodPost, acceptPath, models.AcceptBidRequest{Confirm: true})
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	res = doJSON(t, srv, lawyer, http.MethodPost, "/api/v1/cases/"+created.ID+"/bids", models.CreateBidRequest{Amount: 100})
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	res = doJSON(t, srv, client, http.MethodPost, "/api/v1/cases/"+created.ID+"/complete", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = doJSON(t, srv, client, http.MethodGet, "/api/v1/cases?tab=completed", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var completed []models.Case
	decode(t, res, &completed)
	require.Len(t, completed, 1)
	assert.Equal(t, created.ID, completed[0].ID)
}

func TestCase_Errors(t *testing.T) {
	_, srv := newTestApp(t, nil)
	client := login(t, srv, models.RoleClient)
	lawyer := login(t, srv, models.RoleLawyer)

	tests := []struct {
		name   string
		token  string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"lawyer cannot post cases", lawyer, http.MethodPost, "/api/v1/cases", models.CreateCaseRequest{RawDescription: cofounderIntake, Brief: models.CaseBrief{Title: "t"}}, http.StatusForbidden},
		{"case needs a description", client, http.MethodPost, "/api/v1/cases", models.CreateCaseRequest{RawDescription: "  ", Brief: models.CaseBrief{Title: "t"}}, http.StatusBadRequest},
		{"unknown tab", client, http.MethodGet, "/api/v1/cases?tab=archived", nil, http.StatusBadRequest},
		{"client cannot browse open cases", client, http.MethodGet, "/api/v1/cases/open", nil, http.StatusForbidden},
		{"unknown case", client, http.MethodGet, "/api/v1/cases/nope", nil, http.StatusNotFound},
		{"other founder's case", client, http.MethodGet, "/api/v1/cases/case-001", nil, http.StatusForbidden},
		{"client cannot bid", client, http.MethodPost, "/api/v1/cases/case-001/bids", models.CreateBidRequest{Amount: 100}, http.StatusForbidden},
		{"zero bid", lawyer, http.MethodPost, "/api/v1/cases/case-001/bids", models.CreateBidRequest{Amount: 0}, http.StatusBadRequest},
		{"bid on unknown case", lawyer, http.MethodPost, "/api/v1/cases/nope/bids", models.CreateBidRequest{Amount: 100}, http.StatusNotFound},
		{"unknown bid", client, http.MethodPost, "/api/v1/cases/case-002/bids/nope/accept", models.AcceptBidRequest{Confirm: true}, http.StatusNotFound},
		{"lawyer cannot accept", lawyer, http.MethodPost, "/api/v1/cases/case-002/bids/bid-1/accept", models.AcceptBidRequest{Confirm: true}, http.StatusForbidden},
		{"complete an open case", client, http.MethodPost, "/api/v1/cases/case-002/complete", nil, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := doJSON(t, srv, tt.token, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, res.StatusCode)
			assert.NotEmpty(t, errorBody(t, res).Response.Message)
		})
	}
}

func TestLawyer_Directory(t *testing.T) {
	_, srv := newTestApp(t, nil)
	client := login(t, srv, models.RoleClient)

	res := doJSON(t, srv, client, http.MethodGet, "/api/v1/lawyers", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var lawyers []models.Lawyer
	decode(t, res, &lawyers)
	assert.Len(t, lawyers, 4)

	res = doJSON(t, srv, client, http.MethodGet, "/api/v1/lawyers/l1", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var l1 models.Lawyer
	decode(t, res, &l1)
	assert.Equal(t, "Sarah Jenkins, Esq.", l1.Name)

	res = doJSON(t, srv, client, http.MethodGet, "/api/v1/lawyers/l99", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res = doJSON(t, srv, client, http.MethodGet, "/api/v1/lawyers/search?specialty=employment%20law", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var found []models.Lawyer
	decode(t, res, &found)
	require.Len(t, found, 1)
	assert.Equal(t, "Amanda Ross", found[0].Name)
}

func TestLawyer_EnquireHandler(t *testing.T) {
	seed, err := databases.DefaultSeed(time.Now().UTC())
	require.NoError(t, err)
	notifier := &notifymocks.Notifier{}
	notifier.On("Notify", mock.Anything, mock.Anything).Return(nil).Once()
	market := marketplace.NewMarket(databases.NewDatabase(seed), escrow.NewSimulated(), notifier, "")
	l := handlers.Lawyer{Market: market}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/lawyers/l2/enquire", nil)
	req = mux.SetURLVars(req, map[string]string{"lawyer_id": "l2"})
	req = req.WithContext(api.WithUser(req.Context(), seed.Users[0]))
	rr := httptest.NewRecorder()

	http.HandlerFunc(l.EnquireHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Enquiry sent to")
	assert.Contains(t, rr.Body.String(), "contact you shortly regarding a consultation.")
	notifier.AssertExpectations(t)
}

func TestLawyer_EnquireHandlerWithoutSession(t *testing.T) {
	l := handlers.Lawyer{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/lawyers/l2/enquire", nil)
	req = mux.SetURLVars(req, map[string]string{"lawyer_id": "l2"})
	rr := httptest.NewRecorder()

	http.HandlerFunc(l.EnquireHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
