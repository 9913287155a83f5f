package models

// Lawyer holds a directory profile
type Lawyer struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Firm            string   `json:"firm" yaml:"firm"`
	Email           string   `json:"email,omitempty" yaml:"email"`
	Rate            float64  `json:"rate" yaml:"rate"`
	Rating          float64  `json:"rating" yaml:"rating"`
	Verified        bool     `json:"verified" yaml:"verified"`
	Specialties     []string `json:"specialties" yaml:"specialties"`
	YearsExperience int      `json:"yearsExperience" yaml:"yearsExperience"`
	Location        string   `json:"location" yaml:"location"`
	Education       string   `json:"education" yaml:"education"`
	Bio             string   `json:"bio" yaml:"bio"`
	RecentWork      []string `json:"recentWork" yaml:"recentWork"`
}
