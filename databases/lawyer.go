package databases

import (
	"context"
	"fmt"
	"strings"

	"github.com/linesmerrill/lexmatch-api/models"
)

// LawyerDatabase contains the methods to use with the lawyer directory
type LawyerDatabase interface {
	Find(ctx context.Context) ([]models.Lawyer, error)
	FindOne(ctx context.Context, lawyerID string) (*models.Lawyer, error)
	Search(ctx context.Context, filter LawyerFilter) ([]models.Lawyer, error)
}

// LawyerFilter narrows the directory. Zero values match everything.
type LawyerFilter struct {
	// Query matches name, firm or any specialty, case-insensitively
	Query        string
	Specialty    string
	VerifiedOnly bool
	MaxRate      float64
}

// Match reports whether lawyer passes every set field of f
func (f LawyerFilter) Match(lawyer models.Lawyer) bool {
	if f.VerifiedOnly && !lawyer.Verified {
		return false
	}
	if f.MaxRate > 0 && lawyer.Rate > f.MaxRate {
		return false
	}
	if f.Specialty != "" && !hasSpecialty(lawyer, f.Specialty) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(lawyer.Name), q) || strings.Contains(strings.ToLower(lawyer.Firm), q) {
		return true
	}
	for _, s := range lawyer.Specialties {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

func hasSpecialty(lawyer models.Lawyer, specialty string) bool {
	for _, s := range lawyer.Specialties {
		if strings.EqualFold(s, strings.TrimSpace(specialty)) {
			return true
		}
	}
	return false
}

type lawyerDatabase struct {
	lawyers []models.Lawyer
}

// NewLawyerDatabase initializes a read-only directory
func NewLawyerDatabase(lawyers ...models.Lawyer) LawyerDatabase {
	return &lawyerDatabase{lawyers: append([]models.Lawyer{}, lawyers...)}
}

func (l *lawyerDatabase) Find(ctx context.Context) ([]models.Lawyer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]models.Lawyer{}, l.lawyers...), nil
}

func (l *lawyerDatabase) FindOne(ctx context.Context, lawyerID string) (*models.Lawyer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, lawyer := range l.lawyers {
		if lawyer.ID == lawyerID {
			out := lawyer
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrLawyerNotFound, lawyerID)
}

func (l *lawyerDatabase) Search(ctx context.Context, filter LawyerFilter) ([]models.Lawyer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := []models.Lawyer{}
	for _, lawyer := range l.lawyers {
		if filter.Match(lawyer) {
			out = append(out, lawyer)
		}
	}
	return out, nil
}
