package models

// CaseBrief is the structured summary produced from a founder's free-text intake
type CaseBrief struct {
	Title             string   `json:"title"`
	Summary           string   `json:"summary"`
	KeyIssues         []string `json:"keyIssues"`
	SuggestedCategory string   `json:"suggestedCategory"`
	EstimatedBudget   string   `json:"estimatedBudget"`
}

// AnalyzeRequest is the body of an intake analysis request
type AnalyzeRequest struct {
	Description string `json:"description"`
}

// AnalyzeResponse carries the brief and whether it is the fallback
type AnalyzeResponse struct {
	Brief    CaseBrief `json:"brief"`
	Degraded bool      `json:"degraded"`
	Failure  string    `json:"failure,omitempty"`
}
