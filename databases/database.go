package databases

import "errors"

var (
	// ErrCaseNotFound is returned when no case has the requested id
	ErrCaseNotFound = errors.New("case not found")
	// ErrBidNotFound is returned when a case has no bid with the requested id
	ErrBidNotFound = errors.New("bid not found")
	// ErrLawyerNotFound is returned when the directory has no such lawyer
	ErrLawyerNotFound = errors.New("lawyer not found")
	// ErrUserNotFound is returned when no persona matches
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidTransition is returned when a status change would move a case backwards or sideways
	ErrInvalidTransition = errors.New("invalid case status transition")
	// ErrCaseNotOpen is returned when a bid is placed on a case that left OPEN
	ErrCaseNotOpen = errors.New("case is not open for bids")
	// ErrDuplicateID is returned when inserting a case whose id is taken
	ErrDuplicateID = errors.New("duplicate id")
)

// Database bundles the in-memory collections the api serves from.
// Nothing is persisted; every restart starts again from the seed.
type Database struct {
	Cases   CaseDatabase
	Lawyers LawyerDatabase
	Users   UserDatabase
}

// NewDatabase builds every collection from the given seed
func NewDatabase(seed *Seed) *Database {
	if seed == nil {
		seed = &Seed{}
	}
	return &Database{
		Cases:   NewCaseDatabase(seed.Cases...),
		Lawyers: NewLawyerDatabase(seed.Lawyers...),
		Users:   NewUserDatabase(seed.Users...),
	}
}
