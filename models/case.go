package models

import "time"

// CaseStatus is the lifecycle state of a posted case
type CaseStatus string

const (
	// CaseStatusOpen accepts bids from lawyers
	CaseStatusOpen CaseStatus = "OPEN"
	// CaseStatusPendingEscrow means the founder accepted a bid and funded escrow
	CaseStatusPendingEscrow CaseStatus = "PENDING_ESCROW"
	// CaseStatusCompleted is terminal
	CaseStatusCompleted CaseStatus = "COMPLETED"
)

// Valid reports whether s is a known status
func (s CaseStatus) Valid() bool {
	return s == CaseStatusOpen || s == CaseStatusPendingEscrow || s == CaseStatusCompleted
}

// Case holds a posted legal case and the bids lawyers placed on it
type Case struct {
	ID                   string         `json:"id"`
	Title                string         `json:"title"`
	RawDescription       string         `json:"rawDescription"`
	AISummary            string         `json:"aiSummary"`
	KeyIssues            []string       `json:"keyIssues"`
	SuggestedBudgetRange string         `json:"suggestedBudgetRange"`
	Category             string         `json:"category,omitempty"`
	Status               CaseStatus     `json:"status"`
	ClientID             string         `json:"clientId"`
	ClientName           string         `json:"clientName"`
	CreatedAt            time.Time      `json:"createdAt"`
	Bids                 []Bid          `json:"bids"`
	AcceptedBidID        string         `json:"acceptedBidId,omitempty"`
	Escrow               *EscrowReceipt `json:"escrow,omitempty"`
}

// Clone returns a deep copy so callers never share slices with the store
func (c Case) Clone() Case {
	out := c
	out.KeyIssues = append([]string{}, c.KeyIssues...)
	out.Bids = append([]Bid{}, c.Bids...)
	if c.Escrow != nil {
		receipt := *c.Escrow
		out.Escrow = &receipt
	}
	return out
}

// FindBid returns the bid with the given id, if the case has one
func (c Case) FindBid(bidID string) (Bid, bool) {
	for _, b := range c.Bids {
		if b.ID == bidID {
			return b, true
		}
	}
	return Bid{}, false
}

// CreateCaseRequest posts a reviewed brief alongside the original description
type CreateCaseRequest struct {
	RawDescription string    `json:"rawDescription"`
	Brief          CaseBrief `json:"brief"`
}

// CreateBidRequest is a lawyer's bid on a case
type CreateBidRequest struct {
	Amount  float64 `json:"amount"`
	Message string  `json:"message"`
}

// AcceptBidRequest confirms the escrow transfer shown in the prompt
type AcceptBidRequest struct {
	Confirm bool `json:"confirm"`
}

// ConfirmationResponse is returned when an action needs the user to confirm first
type ConfirmationResponse struct {
	ConfirmationRequired bool   `json:"confirmationRequired"`
	Prompt               string `json:"prompt"`
}
