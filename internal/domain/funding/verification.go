package funding

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Verification check names
const (
	CheckURL       = "url_check"
	CheckContent   = "content_analysis"
	CheckDeadline  = "deadline_validation"
	CheckDuplicate = "duplicate_check"
)

// CheckResult is the outcome of a single verification check
type CheckResult struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Passed bool    `json:"passed"`
	Reason string  `json:"reason,omitempty"`
}

// VerificationReport aggregates the check results for one opportunity
type VerificationReport struct {
	Checks   []CheckResult `json:"checks"`
	Score    float64       `json:"score"`
	Verified bool          `json:"verified"`
}

// URLProbe is the outcome of fetching a source URL
type URLProbe struct {
	StatusCode int
	Body       string
	TimedOut   bool
}

// URLProber fetches a source URL so its liveness can be scored.
// Implementations live in infrastructure; tests use a stub.
type URLProber interface {
	Probe(ctx context.Context, rawURL string) (URLProbe, error)
}

// DuplicateSource exposes the catalog lookups the duplicate check
// needs. OpportunityRepository satisfies it.
type DuplicateSource interface {
	CountBySameSource(ctx context.Context, sourceName, title string, excludeID uuid.UUID) (int64, error)
	FindTitlesBySource(ctx context.Context, sourceName string, excludeID uuid.UUID, limit int) ([]string, error)
}

// Verifier scores opportunities across the four verification checks.
// The overall score is the mean of the checks; postings at or above
// VerifiedThreshold are flagged verified.
type Verifier struct {
	prober URLProber
	dups   DuplicateSource
}

// NewVerifier creates a verifier
func NewVerifier(prober URLProber, dups DuplicateSource) *Verifier {
	return &Verifier{prober: prober, dups: dups}
}

// Verify runs all checks and returns the aggregated report
func (v *Verifier) Verify(ctx context.Context, opp *DonorOpportunity) (*VerificationReport, error) {
	checks := []CheckResult{
		v.checkURL(ctx, opp),
		AnalyzeContent(opp),
		ValidateDeadline(opp),
	}

	dup, err := v.checkDuplicates(ctx, opp)
	if err != nil {
		return nil, err
	}
	checks = append(checks, dup)

	var total float64
	for _, c := range checks {
		total += c.Score
	}
	score := total / float64(len(checks))

	return &VerificationReport{
		Checks:   checks,
		Score:    score,
		Verified: score >= VerifiedThreshold,
	}, nil
}

func (v *Verifier) checkURL(ctx context.Context, opp *DonorOpportunity) CheckResult {
	if opp.SourceURL == "" {
		return CheckResult{Name: CheckURL, Score: 0.0, Reason: "no URL provided"}
	}

	parsed, err := url.Parse(opp.SourceURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return CheckResult{Name: CheckURL, Score: 0.0, Reason: "invalid URL format"}
	}

	probe, err := v.prober.Probe(ctx, opp.SourceURL)
	if err != nil {
		if probe.TimedOut {
			return CheckResult{Name: CheckURL, Score: 0.1, Reason: "request timeout"}
		}
		return CheckResult{Name: CheckURL, Score: 0.0, Reason: err.Error()}
	}

	switch {
	case probe.StatusCode == 200:
		relevance := ContentRelevance(probe.Body, opp.Title)
		score := 0.7 + relevance*0.3
		if score > 1.0 {
			score = 1.0
		}
		return CheckResult{Name: CheckURL, Score: score, Passed: true}
	case probe.StatusCode >= 301 && probe.StatusCode <= 308:
		return CheckResult{Name: CheckURL, Score: 0.8, Passed: true, Reason: "redirected but accessible"}
	default:
		return CheckResult{Name: CheckURL, Score: 0.2, Reason: "unexpected HTTP status"}
	}
}

// fundingKeywords are terms expected on a genuine funding page
var fundingKeywords = []string{
	"grant", "funding", "opportunity", "application", "proposal",
	"award", "fellowship", "scholarship", "call", "tender",
}

// ContentRelevance scores how strongly a fetched page relates to the
// opportunity title, in [0,1]
func ContentRelevance(content, title string) float64 {
	if content == "" || title == "" {
		return 0.0
	}

	contentLower := strings.ToLower(content)
	titleWords := strings.Fields(strings.ToLower(title))

	keywordMatches := 0
	for _, kw := range fundingKeywords {
		if strings.Contains(contentLower, kw) {
			keywordMatches++
		}
	}

	significant := 0
	titleMatches := 0
	for _, w := range titleWords {
		if len(w) <= 3 {
			continue
		}
		significant++
		if strings.Contains(contentLower, w) {
			titleMatches++
		}
	}

	keywordScore := float64(keywordMatches) / float64(len(fundingKeywords))
	if keywordScore > 1.0 {
		keywordScore = 1.0
	}

	titleScore := 0.0
	if significant > 0 {
		titleScore = float64(titleMatches) / float64(significant)
	}

	return (keywordScore + titleScore) / 2
}

// AnalyzeContent scores the quality and completeness of a posting
func AnalyzeContent(opp *DonorOpportunity) CheckResult {
	score := 0.0
	var issues []string

	if opp.Title == "" {
		issues = append(issues, "missing title")
	} else if len(opp.Title) >= 20 {
		score += 0.2
	} else {
		issues = append(issues, "title too short")
	}

	switch {
	case opp.Description == "":
		issues = append(issues, "missing description")
	case len(opp.Description) >= 100:
		score += 0.3
	case len(opp.Description) >= 50:
		score += 0.15
	default:
		issues = append(issues, "description too short")
	}

	if opp.AmountMin != nil || opp.AmountMax != nil {
		score += 0.2
		if opp.AmountMin != nil && opp.AmountMax != nil {
			if le, err := opp.AmountMax.GreaterThanOrEqual(*opp.AmountMin); err == nil && le {
				score += 0.1
			} else {
				issues = append(issues, "invalid funding range")
			}
		}
	} else {
		issues = append(issues, "missing funding information")
	}

	if opp.Deadline == nil {
		issues = append(issues, "missing deadline")
	} else if opp.Deadline.After(time.Now()) {
		score += 0.2
	} else {
		issues = append(issues, "deadline has passed")
	}

	return CheckResult{
		Name:   CheckContent,
		Score:  score,
		Passed: score >= 0.6,
		Reason: strings.Join(issues, "; "),
	}
}

// ValidateDeadline scores the application deadline
func ValidateDeadline(opp *DonorOpportunity) CheckResult {
	if opp.Deadline == nil {
		return CheckResult{Name: CheckDeadline, Score: 0.0, Reason: "no deadline provided"}
	}

	now := time.Now()
	if !opp.Deadline.After(now) {
		return CheckResult{Name: CheckDeadline, Score: 0.0, Reason: "deadline has passed"}
	}

	days := int(opp.Deadline.Sub(now).Hours() / 24)
	switch {
	case days > 730:
		return CheckResult{Name: CheckDeadline, Score: 0.3, Reason: "deadline very far in future"}
	case days > 365:
		return CheckResult{Name: CheckDeadline, Score: 0.7, Passed: true, Reason: "long-term opportunity"}
	default:
		return CheckResult{Name: CheckDeadline, Score: 1.0, Passed: true}
	}
}

func (v *Verifier) checkDuplicates(ctx context.Context, opp *DonorOpportunity) (CheckResult, error) {
	exact, err := v.dups.CountBySameSource(ctx, opp.SourceName, opp.Title, opp.ID)
	if err != nil {
		return CheckResult{}, err
	}
	if exact > 0 {
		return CheckResult{Name: CheckDuplicate, Score: 0.0, Reason: "exact duplicate found"}, nil
	}

	titles, err := v.dups.FindTitlesBySource(ctx, opp.SourceName, opp.ID, 200)
	if err != nil {
		return CheckResult{}, err
	}
	for _, title := range titles {
		if TitleSimilarity(opp.Title, title) > 0.8 {
			return CheckResult{Name: CheckDuplicate, Score: 0.2, Reason: "similar opportunity exists"}, nil
		}
	}

	return CheckResult{Name: CheckDuplicate, Score: 1.0, Passed: true}, nil
}

// stopWords are ignored when comparing titles
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "in": true, "on": true,
	"of": true, "to": true, "a": true, "an": true,
}

// TitleSimilarity computes word-overlap similarity between two titles in [0,1]
func TitleSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	aWords := significantWords(a)
	bWords := significantWords(b)
	if len(aWords) == 0 || len(bWords) == 0 {
		return 0.0
	}

	bSet := make(map[string]bool, len(bWords))
	for _, w := range bWords {
		bSet[w] = true
	}

	matches := 0
	for _, w := range aWords {
		if bSet[w] {
			matches++
		}
	}

	denom := len(aWords)
	if len(bWords) > denom {
		denom = len(bWords)
	}
	return float64(matches) / float64(denom)
}

func significantWords(title string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(title)) {
		if !stopWords[w] {
			out = append(out, w)
		}
	}
	return out
}
