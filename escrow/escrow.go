// Package escrow funds accepted bids. Only a simulated gateway exists; no
// money moves.
package escrow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/linesmerrill/lexmatch-api/models"
)

// ReferencePrefix starts every simulated escrow reference
const ReferencePrefix = "esc_"

// ErrInvalidAmount is returned for bids that cannot be funded
var ErrInvalidAmount = errors.New("escrow amount must be a positive number")

// Gateway holds funds against an accepted bid
type Gateway interface {
	Fund(ctx context.Context, caseID string, bid models.Bid) (*models.EscrowReceipt, error)
}

// Simulated always succeeds and issues a receipt with a random reference
type Simulated struct {
	now func() time.Time
}

// NewSimulated creates the simulated gateway
func NewSimulated() *Simulated {
	return &Simulated{now: func() time.Time { return time.Now().UTC() }}
}

// Fund issues a receipt for the full bid amount
func (s *Simulated) Fund(ctx context.Context, caseID string, bid models.Bid) (*models.EscrowReceipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bid.Amount <= 0 || math.IsNaN(bid.Amount) || math.IsInf(bid.Amount, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, bid.Amount)
	}
	receipt := &models.EscrowReceipt{
		Reference:  ReferencePrefix + uuid.NewString(),
		CaseID:     caseID,
		BidID:      bid.ID,
		LawyerID:   bid.LawyerID,
		LawyerName: bid.LawyerName,
		Amount:     bid.Amount,
		FundedAt:   s.now(),
	}
	zap.S().Infow("escrow funded",
		"reference", receipt.Reference,
		"caseID", caseID,
		"bidID", bid.ID,
		"amount", bid.Amount)
	return receipt, nil
}

// FormatAmount renders a bid amount the way the founder typed it, without
// trailing zeros
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// ConfirmationPrompt is shown before a bid is accepted
func ConfirmationPrompt(bid models.Bid) string {
	return fmt.Sprintf("Proceed to payment gateway?\n\nTransfer $%s to Escrow for %s?", FormatAmount(bid.Amount), bid.LawyerName)
}
