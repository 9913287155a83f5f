package databases

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/linesmerrill/lexmatch-api/models"
)

//go:embed seed.yaml
var defaultSeedYAML []byte

// Seed is the starting content of every collection
type Seed struct {
	Users   []models.User
	Cases   []models.Case
	Lawyers []models.Lawyer
}

type seedDocument struct {
	Users   []models.User   `yaml:"users"`
	Cases   []seedCase      `yaml:"cases"`
	Lawyers []models.Lawyer `yaml:"lawyers"`
}

type seedCase struct {
	ID                   string   `yaml:"id"`
	Title                string   `yaml:"title"`
	RawDescription       string   `yaml:"rawDescription"`
	AISummary            string   `yaml:"aiSummary"`
	KeyIssues            []string `yaml:"keyIssues"`
	SuggestedBudgetRange string   `yaml:"suggestedBudgetRange"`
	Category             string   `yaml:"category"`
	Status               string   `yaml:"status"`
	ClientID             string   `yaml:"clientId"`
	ClientName           string   `yaml:"clientName"`
	Age                  string   `yaml:"age"`
	Bids                 []struct {
		ID         string  `yaml:"id"`
		LawyerID   string  `yaml:"lawyerId"`
		LawyerName string  `yaml:"lawyerName"`
		Amount     float64 `yaml:"amount"`
		Message    string  `yaml:"message"`
		Age        string  `yaml:"age"`
	} `yaml:"bids"`
}

// DefaultSeed parses the embedded demo data relative to now
func DefaultSeed(now time.Time) (*Seed, error) {
	return ParseSeed(defaultSeedYAML, now)
}

// LoadSeedFile parses a seed document from disk
func LoadSeedFile(path string, now time.Time) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data, now)
}

// ParseSeed decodes a YAML seed document. Relative ages are resolved against now.
func ParseSeed(data []byte, now time.Time) (*Seed, error) {
	var doc seedDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	seed := &Seed{Users: doc.Users, Lawyers: doc.Lawyers}
	for _, u := range doc.Users {
		if !u.Role.Valid() {
			return nil, fmt.Errorf("parse seed: user %s has unknown role %q", u.ID, u.Role)
		}
	}
	for _, sc := range doc.Cases {
		age, err := parseAge(sc.Age)
		if err != nil {
			return nil, fmt.Errorf("parse seed: case %s: %w", sc.ID, err)
		}
		status := models.CaseStatus(sc.Status)
		if status == "" {
			status = models.CaseStatusOpen
		}
		if !status.Valid() {
			return nil, fmt.Errorf("parse seed: case %s has unknown status %q", sc.ID, sc.Status)
		}
		c := models.Case{
			ID:                   sc.ID,
			Title:                sc.Title,
			RawDescription:       sc.RawDescription,
			AISummary:            sc.AISummary,
			KeyIssues:            append([]string{}, sc.KeyIssues...),
			SuggestedBudgetRange: sc.SuggestedBudgetRange,
			Category:             sc.Category,
			Status:               status,
			ClientID:             sc.ClientID,
			ClientName:           sc.ClientName,
			CreatedAt:            now.Add(-age),
			Bids:                 []models.Bid{},
		}
		for _, sb := range sc.Bids {
			bidAge, err := parseAge(sb.Age)
			if err != nil {
				return nil, fmt.Errorf("parse seed: bid %s: %w", sb.ID, err)
			}
			c.Bids = append(c.Bids, models.Bid{
				ID:         sb.ID,
				LawyerID:   sb.LawyerID,
				LawyerName: sb.LawyerName,
				Amount:     sb.Amount,
				Message:    sb.Message,
				Date:       now.Add(-bidAge),
			})
		}
		seed.Cases = append(seed.Cases, c)
	}
	return seed, nil
}

func parseAge(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid age %q: %w", raw, err)
	}
	return d, nil
}
