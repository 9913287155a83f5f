// Package intake turns a founder's free-text description into a structured
// case brief using a generative-AI provider.
//
// Analyze never fails: when the provider errors, returns nothing, or returns
// something that is not a complete brief, the caller gets Fallback(raw) so the
// case can still be posted.
package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/linesmerrill/lexmatch-api/models"
)

const (
	// MinIntakeLength is the shortest description worth sending for analysis
	MinIntakeLength = 20
	// DefaultModel is used when no model is configured
	DefaultModel = "gemini-3-flash-preview"
)

// Fallback brief values
const (
	FallbackTitle    = "Legal Inquiry (AI Unavailable)"
	FallbackIssue    = "Review required"
	FallbackCategory = "General"
	FallbackBudget   = "TBD"
)

var (
	// ErrIntakeEmpty is returned for blank descriptions
	ErrIntakeEmpty = errors.New("intake description is empty")
	// ErrIntakeTooShort is returned for descriptions under MinIntakeLength characters
	ErrIntakeTooShort = fmt.Errorf("intake description must be at least %d characters", MinIntakeLength)

	errNoProvider    = errors.New("no AI provider configured")
	errEmptyResponse = errors.New("no response from AI")
)

// FailureKind says why an analysis fell back
type FailureKind string

const (
	// FailureNone means the provider's brief was used
	FailureNone FailureKind = ""
	// FailureTransport covers network, auth, quota and timeout errors
	FailureTransport FailureKind = "transport"
	// FailureEmpty means the provider answered with no content
	FailureEmpty FailureKind = "empty"
	// FailureParse means the content was not a complete brief
	FailureParse FailureKind = "parse"
)

// Outcome is a brief plus why it looks the way it does
type Outcome struct {
	Brief   models.CaseBrief
	Failure FailureKind
	Err     error
}

// Degraded reports whether Brief is the fallback
func (o Outcome) Degraded() bool {
	return o.Failure != FailureNone
}

// Analyzer issues one provider request per analysis. There is no retry.
type Analyzer struct {
	provider Provider
	model    string
	timeout  time.Duration
	logger   *zap.SugaredLogger
	observe  func(Outcome)
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithModel overrides DefaultModel
func WithModel(model string) Option {
	return func(a *Analyzer) {
		if strings.TrimSpace(model) != "" {
			a.model = model
		}
	}
}

// WithTimeout bounds each provider call; zero means no bound
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) { a.timeout = d }
}

// WithLogger sets the logger; the global zap logger is used otherwise
func WithLogger(l *zap.SugaredLogger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithObserver is called with every outcome, resolved or not
func WithObserver(fn func(Outcome)) Option {
	return func(a *Analyzer) { a.observe = fn }
}

// NewAnalyzer creates an analyzer. A nil provider is allowed and makes
// every analysis fall back.
func NewAnalyzer(p Provider, opts ...Option) *Analyzer {
	a := &Analyzer{provider: p, model: DefaultModel}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Model returns the model identifier sent with each request
func (a *Analyzer) Model() string {
	return a.model
}

// ValidateIntake applies the minimum-length gate
func ValidateIntake(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrIntakeEmpty
	}
	if utf8.RuneCountInString(raw) < MinIntakeLength {
		return ErrIntakeTooShort
	}
	return nil
}

// Fallback is the brief returned whenever the provider cannot be used
func Fallback(raw string) models.CaseBrief {
	return models.CaseBrief{
		Title:             FallbackTitle,
		Summary:           raw,
		KeyIssues:         []string{FallbackIssue},
		SuggestedCategory: FallbackCategory,
		EstimatedBudget:   FallbackBudget,
	}
}

// Analyze returns the provider's brief for raw, or Fallback(raw)
func (a *Analyzer) Analyze(ctx context.Context, raw string) models.CaseBrief {
	return a.Diagnose(ctx, raw).Brief
}

// Diagnose is Analyze with the failure cause attached
func (a *Analyzer) Diagnose(ctx context.Context, raw string) Outcome {
	out := a.diagnose(ctx, raw)
	if a.observe != nil {
		a.observe(out)
	}
	return out
}

func (a *Analyzer) diagnose(ctx context.Context, raw string) Outcome {
	if a.provider == nil {
		return a.fail(raw, FailureTransport, errNoProvider)
	}

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	text, err := a.provider.Generate(callCtx, BuildRequest(a.model, raw))
	if err != nil {
		return a.fail(raw, FailureTransport, err)
	}
	if strings.TrimSpace(text) == "" {
		return a.fail(raw, FailureEmpty, errEmptyResponse)
	}

	brief, err := parseBrief(text)
	if err != nil {
		return a.fail(raw, FailureParse, err)
	}
	return Outcome{Brief: brief}
}

func (a *Analyzer) fail(raw string, kind FailureKind, err error) Outcome {
	a.log().Errorw("Error analyzing intake",
		"failure", kind,
		"model", a.model,
		"error", err)
	return Outcome{Brief: Fallback(raw), Failure: kind, Err: err}
}

func (a *Analyzer) log() *zap.SugaredLogger {
	if a.logger != nil {
		return a.logger
	}
	return zap.S()
}

// briefPayload uses pointers so a missing or null field can be told apart
// from an empty one.
type briefPayload struct {
	Title             *string   `json:"title"`
	Summary           *string   `json:"summary"`
	KeyIssues         *[]string `json:"keyIssues"`
	SuggestedCategory *string   `json:"suggestedCategory"`
	EstimatedBudget   *string   `json:"estimatedBudget"`
}

func parseBrief(text string) (models.CaseBrief, error) {
	var p briefPayload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return models.CaseBrief{}, fmt.Errorf("decode brief: %w", err)
	}

	var missing []string
	if p.Title == nil {
		missing = append(missing, fieldTitle)
	}
	if p.Summary == nil {
		missing = append(missing, fieldSummary)
	}
	if p.KeyIssues == nil {
		missing = append(missing, fieldKeyIssues)
	}
	if p.SuggestedCategory == nil {
		missing = append(missing, fieldSuggestedCategory)
	}
	if p.EstimatedBudget == nil {
		missing = append(missing, fieldEstimatedBudget)
	}
	if len(missing) > 0 {
		return models.CaseBrief{}, fmt.Errorf("decode brief: missing %s", strings.Join(missing, ", "))
	}

	return models.CaseBrief{
		Title:             *p.Title,
		Summary:           *p.Summary,
		KeyIssues:         *p.KeyIssues,
		SuggestedCategory: *p.SuggestedCategory,
		EstimatedBudget:   *p.EstimatedBudget,
	}, nil
}
