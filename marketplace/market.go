// Package marketplace holds the named actions founders and lawyers take on
// cases. Handlers call these instead of touching the stores directly.
package marketplace

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/lexmatch-api/databases"
	"github.com/linesmerrill/lexmatch-api/escrow"
	"github.com/linesmerrill/lexmatch-api/models"
	"github.com/linesmerrill/lexmatch-api/notify"
)

// Tab selects a slice of the founder dashboard
type Tab string

const (
	// TabActive is every case not yet completed
	TabActive Tab = "active"
	// TabCompleted is completed cases only
	TabCompleted Tab = "completed"
)

var (
	// ErrForbidden is returned when the session's role or ownership does not allow the action
	ErrForbidden = errors.New("action not allowed for this user")
	// ErrInvalidAmount is returned for bids that are not a positive number
	ErrInvalidAmount = errors.New("bid amount must be greater than zero")
	// ErrInvalidBrief is returned when a case is posted without a description
	ErrInvalidBrief = errors.New("case requires a description")
	// ErrInvalidTab is returned for unknown dashboard tabs
	ErrInvalidTab = errors.New("unknown dashboard tab")
)

// ConfirmationError is returned by AcceptBid until the founder confirms the
// escrow transfer
type ConfirmationError struct {
	Prompt string
}

func (e *ConfirmationError) Error() string {
	return "confirmation required: " + e.Prompt
}

// Market applies marketplace actions to the stores
type Market struct {
	Cases    databases.CaseDatabase
	Lawyers  databases.LawyerDatabase
	Users    databases.UserDatabase
	Escrow   escrow.Gateway
	Notifier notify.Notifier
	BaseURL  string

	now func() time.Time
}

// NewMarket wires a Market over db
func NewMarket(db *databases.Database, gateway escrow.Gateway, notifier notify.Notifier, baseURL string) *Market {
	return &Market{
		Cases:    db.Cases,
		Lawyers:  db.Lawyers,
		Users:    db.Users,
		Escrow:   gateway,
		Notifier: notifier,
		BaseURL:  baseURL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateCase posts a reviewed brief as a new OPEN case owned by user
func (m *Market) CreateCase(ctx context.Context, user models.User, raw string, brief models.CaseBrief) (*models.Case, error) {
	if user.Role != models.RoleClient {
		return nil, fmt.Errorf("%w: only clients can post cases", ErrForbidden)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, ErrInvalidBrief
	}

	clientName := user.Company
	if clientName == "" {
		clientName = user.Name
	}
	c := models.Case{
		ID:                   primitive.NewObjectID().Hex(),
		Title:                brief.Title,
		RawDescription:       raw,
		AISummary:            brief.Summary,
		KeyIssues:            append([]string{}, brief.KeyIssues...),
		SuggestedBudgetRange: brief.EstimatedBudget,
		Category:             brief.SuggestedCategory,
		Status:               models.CaseStatusOpen,
		ClientID:             user.ID,
		ClientName:           clientName,
		CreatedAt:            m.now(),
		Bids:                 []models.Bid{},
	}
	if err := m.Cases.Append(ctx, c); err != nil {
		return nil, err
	}
	zap.S().Infow("case created", "caseID", c.ID, "clientID", user.ID, "category", c.Category)
	return &c, nil
}

// PlaceBid adds a bid from the lawyer user to an OPEN case
func (m *Market) PlaceBid(ctx context.Context, user models.User, caseID string, amount float64, message string) (*models.Bid, error) {
	if user.Role != models.RoleLawyer {
		return nil, fmt.Errorf("%w: only lawyers can bid", ErrForbidden)
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, ErrInvalidAmount
	}

	bid := models.Bid{
		ID:         uuid.NewString(),
		LawyerID:   user.ID,
		LawyerName: user.Name,
		Amount:     amount,
		Message:    message,
		Date:       m.now(),
	}
	if err := m.Cases.AppendBid(ctx, caseID, bid); err != nil {
		return nil, err
	}
	zap.S().Infow("bid placed", "caseID", caseID, "bidID", bid.ID, "lawyerID", user.ID, "amount", amount)

	if c, err := m.Cases.FindOne(ctx, caseID); err == nil {
		if client, err := m.Users.FindOne(ctx, c.ClientID); err == nil {
			m.notify(ctx, notify.NewBid(m.BaseURL, *c, bid, *client))
		}
	}
	return &bid, nil
}

// AcceptBid funds escrow for bidID and moves the case to PENDING_ESCROW.
// Until confirm is set it returns a *ConfirmationError carrying the prompt
// to show the founder, and nothing changes.
func (m *Market) AcceptBid(ctx context.Context, user models.User, caseID, bidID string, confirm bool) (*models.Case, error) {
	if user.Role != models.RoleClient {
		return nil, fmt.Errorf("%w: only clients can accept bids", ErrForbidden)
	}
	c, err := m.Cases.FindOne(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.ClientID != user.ID {
		return nil, fmt.Errorf("%w: case %s belongs to another client", ErrForbidden, caseID)
	}
	if !databases.CanTransition(c.Status, models.CaseStatusPendingEscrow) {
		return nil, fmt.Errorf("%w: %s -> %s", databases.ErrInvalidTransition, c.Status, models.CaseStatusPendingEscrow)
	}
	bid, ok := c.FindBid(bidID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", databases.ErrBidNotFound, bidID)
	}
	if !confirm {
		return nil, &ConfirmationError{Prompt: escrow.ConfirmationPrompt(bid)}
	}

	// only one accept per case may reach the gateway
	release, err := m.Cases.ReserveAcceptance(ctx, caseID)
	if err != nil {
		return nil, err
	}
	defer release()

	receipt, err := m.Escrow.Fund(ctx, caseID, bid)
	if err != nil {
		return nil, fmt.Errorf("fund escrow: %w", err)
	}
	updated, err := m.Cases.UpdateStatus(ctx, caseID, databases.StatusUpdate{
		Status:        models.CaseStatusPendingEscrow,
		AcceptedBidID: bid.ID,
		Escrow:        receipt,
	})
	if err != nil {
		return nil, err
	}
	zap.S().Infow("bid accepted", "caseID", caseID, "bidID", bid.ID, "escrow", receipt.Reference)

	if lawyer, err := m.Lawyers.FindOne(ctx, bid.LawyerID); err == nil {
		m.notify(ctx, notify.BidAccepted(m.BaseURL, *updated, bid, *lawyer))
	} else if lawyer, err := m.Users.FindOne(ctx, bid.LawyerID); err == nil {
		m.notify(ctx, notify.BidAccepted(m.BaseURL, *updated, bid, models.Lawyer{ID: lawyer.ID, Name: lawyer.Name, Email: lawyer.Email}))
	}
	return updated, nil
}

// CompleteCase closes a PENDING_ESCROW case owned by user
func (m *Market) CompleteCase(ctx context.Context, user models.User, caseID string) (*models.Case, error) {
	if user.Role != models.RoleClient {
		return nil, fmt.Errorf("%w: only clients can complete cases", ErrForbidden)
	}
	c, err := m.Cases.FindOne(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.ClientID != user.ID {
		return nil, fmt.Errorf("%w: case %s belongs to another client", ErrForbidden, caseID)
	}
	updated, err := m.Cases.UpdateStatus(ctx, caseID, databases.StatusUpdate{Status: models.CaseStatusCompleted})
	if err != nil {
		return nil, err
	}
	zap.S().Infow("case completed", "caseID", caseID)
	return updated, nil
}

// ParseTab reads a dashboard tab; empty means active
func ParseTab(s string) (Tab, error) {
	switch Tab(strings.ToLower(s)) {
	case "", TabActive:
		return TabActive, nil
	case TabCompleted:
		return TabCompleted, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTab, s)
}

// ClientCases lists the founder's own cases for the tab, newest first
func (m *Market) ClientCases(ctx context.Context, user models.User, tab Tab) ([]models.Case, error) {
	if user.Role != models.RoleClient {
		return nil, fmt.Errorf("%w: only clients have a case dashboard", ErrForbidden)
	}
	filter := databases.CaseFilter{ClientID: user.ID}
	switch tab {
	case TabActive:
		filter.Statuses = []models.CaseStatus{models.CaseStatusOpen, models.CaseStatusPendingEscrow}
	case TabCompleted:
		filter.Statuses = []models.CaseStatus{models.CaseStatusCompleted}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidTab, tab)
	}
	return m.Cases.Find(ctx, filter)
}

// OpenCases is the lawyer board: every OPEN case, newest first
func (m *Market) OpenCases(ctx context.Context, user models.User) ([]models.Case, error) {
	if user.Role != models.RoleLawyer {
		return nil, fmt.Errorf("%w: only lawyers can browse open cases", ErrForbidden)
	}
	return m.Cases.Find(ctx, databases.CaseFilter{Statuses: []models.CaseStatus{models.CaseStatusOpen}})
}

// Case returns one case. Clients only see their own; lawyers see any.
func (m *Market) Case(ctx context.Context, user models.User, caseID string) (*models.Case, error) {
	c, err := m.Cases.FindOne(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleClient && c.ClientID != user.ID {
		return nil, fmt.Errorf("%w: case %s belongs to another client", ErrForbidden, caseID)
	}
	return c, nil
}

// LawyerDirectory lists the directory
func (m *Market) LawyerDirectory(ctx context.Context) ([]models.Lawyer, error) {
	return m.Lawyers.Find(ctx)
}

// SearchLawyers returns the directory profiles matching filter
func (m *Market) SearchLawyers(ctx context.Context, filter databases.LawyerFilter) ([]models.Lawyer, error) {
	return m.Lawyers.Search(ctx, filter)
}

// Lawyer returns one directory profile
func (m *Market) Lawyer(ctx context.Context, lawyerID string) (*models.Lawyer, error) {
	return m.Lawyers.FindOne(ctx, lawyerID)
}

// Enquire asks a lawyer to contact the founder and returns the text to show them
func (m *Market) Enquire(ctx context.Context, user models.User, lawyerID string) (string, error) {
	if user.Role != models.RoleClient {
		return "", fmt.Errorf("%w: only clients can send enquiries", ErrForbidden)
	}
	lawyer, err := m.Lawyers.FindOne(ctx, lawyerID)
	if err != nil {
		return "", err
	}
	m.notify(ctx, notify.Enquiry(m.BaseURL, *lawyer, user))
	zap.S().Infow("enquiry sent", "lawyerID", lawyerID, "clientID", user.ID)
	return notify.EnquiryConfirmation(*lawyer), nil
}

func (m *Market) notify(ctx context.Context, msg notify.Message) {
	if m.Notifier == nil {
		return
	}
	if err := m.Notifier.Notify(ctx, msg); err != nil {
		zap.S().Errorw("failed to send notification", "to", msg.ToEmail, "subject", msg.Subject, "error", err)
	}
}
