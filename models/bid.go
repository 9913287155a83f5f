package models

import "time"

// Bid is a lawyer's fixed-price proposal against an open case
type Bid struct {
	ID         string    `json:"id"`
	LawyerID   string    `json:"lawyerId"`
	LawyerName string    `json:"lawyerName"`
	Amount     float64   `json:"amount"`
	Message    string    `json:"message"`
	Date       time.Time `json:"date"`
}

// EscrowReceipt records the (simulated) escrow funding for an accepted bid
type EscrowReceipt struct {
	Reference  string    `json:"reference"`
	CaseID     string    `json:"caseId"`
	BidID      string    `json:"bidId"`
	LawyerID   string    `json:"lawyerId"`
	LawyerName string    `json:"lawyerName"`
	Amount     float64   `json:"amount"`
	FundedAt   time.Time `json:"fundedAt"`
}
