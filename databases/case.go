package databases

import (
	"context"
	"fmt"
	"sync"

	"github.com/linesmerrill/lexmatch-api/models"
)

// CaseFilter narrows Find results; zero-valued fields match everything
type CaseFilter struct {
	ClientID string
	Statuses []models.CaseStatus
}

func (f CaseFilter) matches(c *models.Case) bool {
	if f.ClientID != "" && c.ClientID != f.ClientID {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if c.Status == s {
			return true
		}
	}
	return false
}

// StatusUpdate describes a case status change. AcceptedBidID and Escrow are
// only applied when moving to PENDING_ESCROW.
type StatusUpdate struct {
	Status        models.CaseStatus
	AcceptedBidID string
	Escrow        *models.EscrowReceipt
}

// CaseDatabase contains the methods to use with the case store
type CaseDatabase interface {
	FindOne(ctx context.Context, caseID string) (*models.Case, error)
	Find(ctx context.Context, filter CaseFilter) ([]models.Case, error)
	Append(ctx context.Context, c models.Case) error
	UpdateStatus(ctx context.Context, caseID string, update StatusUpdate) (*models.Case, error)
	AppendBid(ctx context.Context, caseID string, bid models.Bid) error
	ReserveAcceptance(ctx context.Context, caseID string) (release func(), err error)
}

type caseDatabase struct {
	mu        sync.RWMutex
	cases     []*models.Case // newest first
	byID      map[string]*models.Case
	accepting map[string]bool
}

// NewCaseDatabase initializes an in-memory case store holding the given cases in order
func NewCaseDatabase(initial ...models.Case) CaseDatabase {
	db := &caseDatabase{
		byID:      make(map[string]*models.Case, len(initial)),
		accepting: make(map[string]bool),
	}
	for _, c := range initial {
		stored := c.Clone()
		db.cases = append(db.cases, &stored)
		db.byID[stored.ID] = &stored
	}
	return db
}

// allowedTransitions lists the only forward moves a case may make
var allowedTransitions = map[models.CaseStatus]models.CaseStatus{
	models.CaseStatusOpen:          models.CaseStatusPendingEscrow,
	models.CaseStatusPendingEscrow: models.CaseStatusCompleted,
}

// CanTransition reports whether a case may move from one status to another
func CanTransition(from, to models.CaseStatus) bool {
	next, ok := allowedTransitions[from]
	return ok && next == to
}

func (c *caseDatabase) FindOne(ctx context.Context, caseID string) (*models.Case, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	stored, ok := c.byID[caseID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCaseNotFound, caseID)
	}
	out := stored.Clone()
	return &out, nil
}

func (c *caseDatabase) Find(ctx context.Context, filter CaseFilter) ([]models.Case, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Case, 0, len(c.cases))
	for _, stored := range c.cases {
		if filter.matches(stored) {
			out = append(out, stored.Clone())
		}
	}
	return out, nil
}

// Append stores a new case ahead of every existing one
func (c *caseDatabase) Append(ctx context.Context, newCase models.Case) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byID[newCase.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, newCase.ID)
	}
	stored := newCase.Clone()
	c.cases = append([]*models.Case{&stored}, c.cases...)
	c.byID[stored.ID] = &stored
	return nil
}

func (c *caseDatabase) UpdateStatus(ctx context.Context, caseID string, update StatusUpdate) (*models.Case, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	stored, ok := c.byID[caseID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCaseNotFound, caseID)
	}
	if !CanTransition(stored.Status, update.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, stored.Status, update.Status)
	}
	if update.Status == models.CaseStatusPendingEscrow {
		if update.AcceptedBidID != "" {
			if _, found := stored.FindBid(update.AcceptedBidID); !found {
				return nil, fmt.Errorf("%w: %s", ErrBidNotFound, update.AcceptedBidID)
			}
			stored.AcceptedBidID = update.AcceptedBidID
		}
		if update.Escrow != nil {
			receipt := *update.Escrow
			stored.Escrow = &receipt
		}
	}
	stored.Status = update.Status

	out := stored.Clone()
	return &out, nil
}

// AppendBid adds a bid after every existing bid of the case. Bids are only
// accepted while the case is OPEN.
func (c *caseDatabase) AppendBid(ctx context.Context, caseID string, bid models.Bid) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	stored, ok := c.byID[caseID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCaseNotFound, caseID)
	}
	if stored.Status != models.CaseStatusOpen {
		return fmt.Errorf("%w: %s is %s", ErrCaseNotOpen, caseID, stored.Status)
	}
	stored.Bids = append(stored.Bids, bid)
	return nil
}

// ReserveAcceptance claims an OPEN case for a single bid acceptance until
// release is called. A second claim, or a claim on a case that is no longer
// OPEN, fails with ErrInvalidTransition.
func (c *caseDatabase) ReserveAcceptance(ctx context.Context, caseID string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	stored, ok := c.byID[caseID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCaseNotFound, caseID)
	}
	if !CanTransition(stored.Status, models.CaseStatusPendingEscrow) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, stored.Status, models.CaseStatusPendingEscrow)
	}
	if c.accepting[caseID] {
		return nil, fmt.Errorf("%w: %s is already being accepted", ErrInvalidTransition, caseID)
	}
	c.accepting[caseID] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.accepting, caseID)
			c.mu.Unlock()
		})
	}, nil
}
