package funding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/shared"
	"github.com/granada-os/backend/internal/domain/shared/valueobject"
)

// OpportunityStatus represents the lifecycle status of an opportunity
type OpportunityStatus string

const (
	OpportunityStatusActive   OpportunityStatus = "active"
	OpportunityStatusExpired  OpportunityStatus = "expired"
	OpportunityStatusArchived OpportunityStatus = "archived"
)

// VerifiedThreshold is the minimum verification score for an
// opportunity to be flagged as verified
const VerifiedThreshold = 0.7

// DonorOpportunity is a funding opportunity posting sourced from a
// donor site by a search bot or entered by an admin.
type DonorOpportunity struct {
	shared.BaseAggregateRoot
	DonorID           uuid.UUID
	Title             string
	Description       string
	SourceName        string
	SourceURL         string
	Country           string
	Sector            string
	Keywords          []string
	AmountMin         *valueobject.Money
	AmountMax         *valueobject.Money
	Deadline          *time.Time
	ContentHash       string
	IsVerified        bool
	VerificationScore float64
	LastVerifiedAt    *time.Time
	Status            OpportunityStatus
	ScrapedAt         time.Time
}

// ComputeContentHash derives the dedupe hash for an opportunity.
// Two postings with the same title, source, and description are the
// same opportunity regardless of where they were scraped.
func ComputeContentHash(title, sourceName, description string) string {
	h := sha256.Sum256([]byte(title + sourceName + description))
	return hex.EncodeToString(h[:])
}

// NewDonorOpportunity creates an opportunity posting
func NewDonorOpportunity(donorID uuid.UUID, title, description, sourceName, sourceURL string) (*DonorOpportunity, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Opportunity title cannot be empty")
	}
	if donorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DONOR_ID", "Donor ID cannot be empty")
	}
	sourceName = strings.TrimSpace(sourceName)
	if sourceName == "" {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Source name cannot be empty")
	}

	description = strings.TrimSpace(description)
	opp := &DonorOpportunity{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DonorID:           donorID,
		Title:             title,
		Description:       description,
		SourceName:        sourceName,
		SourceURL:         strings.TrimSpace(sourceURL),
		ContentHash:       ComputeContentHash(title, sourceName, description),
		Status:            OpportunityStatusActive,
		ScrapedAt:         time.Now(),
	}

	opp.AddDomainEvent(NewOpportunityIngestedEvent(opp))

	return opp, nil
}

// SetLocation sets the geographic and sector targeting
func (o *DonorOpportunity) SetLocation(country, sector string, keywords []string) {
	o.Country = strings.TrimSpace(country)
	o.Sector = strings.TrimSpace(sector)
	o.Keywords = keywords
	o.Touch()
	o.IncrementVersion()
}

// SetFunding sets the funding range
func (o *DonorOpportunity) SetFunding(amountMin, amountMax *valueobject.Money) error {
	if amountMin != nil && amountMax != nil {
		greater, err := amountMin.GreaterThanOrEqual(*amountMax)
		if err != nil {
			return shared.NewDomainError("INVALID_FUNDING_RANGE", "Funding range currencies do not match")
		}
		if greater && !amountMin.Equals(*amountMax) {
			return shared.NewDomainError("INVALID_FUNDING_RANGE", "Minimum amount exceeds maximum")
		}
	}

	o.AmountMin = amountMin
	o.AmountMax = amountMax
	o.Touch()
	o.IncrementVersion()

	return nil
}

// SetDeadline sets the application deadline
func (o *DonorOpportunity) SetDeadline(deadline *time.Time) {
	o.Deadline = deadline
	o.Touch()
	o.IncrementVersion()
}

// RecordVerification stores the outcome of a verification run
func (o *DonorOpportunity) RecordVerification(score float64) {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	wasVerified := o.IsVerified
	now := time.Now()
	o.VerificationScore = score
	o.IsVerified = score >= VerifiedThreshold
	o.LastVerifiedAt = &now
	o.Touch()
	o.IncrementVersion()

	if o.IsVerified && !wasVerified {
		o.AddDomainEvent(NewOpportunityVerifiedEvent(o))
	}
}

// MarkExpired transitions an active opportunity past its deadline
func (o *DonorOpportunity) MarkExpired() error {
	if o.Status != OpportunityStatusActive {
		return shared.ErrInvalidState
	}

	o.Status = OpportunityStatusExpired
	o.Touch()
	o.IncrementVersion()

	return nil
}

// Archive removes the opportunity from all listings
func (o *DonorOpportunity) Archive() {
	o.Status = OpportunityStatusArchived
	o.Touch()
	o.IncrementVersion()
}

// IsExpired returns true when the deadline has passed
func (o *DonorOpportunity) IsExpired() bool {
	return o.Deadline != nil && o.Deadline.Before(time.Now())
}

// MatchesCountry returns true if the opportunity targets the given
// country or is open globally
func (o *DonorOpportunity) MatchesCountry(country string) bool {
	if o.Country == "" || strings.EqualFold(o.Country, "Global") {
		return true
	}
	return strings.EqualFold(o.Country, country)
}

// OpportunityFilter contains filter options for searching opportunities
type OpportunityFilter struct {
	// Free-text query over title and description
	Query string

	// Country matches the exact country or "Global" postings
	Country string

	// Sector is a case-insensitive keyword containment match
	Sector string

	// VerifiedOnly restricts results to verified postings
	VerifiedOnly bool

	// Status filter; empty means active only
	Status OpportunityStatus

	DonorID *uuid.UUID

	Limit  int
	Offset int
}

// NewOpportunityFilter returns a filter with default values
func NewOpportunityFilter() OpportunityFilter {
	return OpportunityFilter{
		Status: OpportunityStatusActive,
		Limit:  20,
	}
}

// EffectiveLimit clamps the page size
func (f OpportunityFilter) EffectiveLimit() int {
	if f.Limit <= 0 {
		return 20
	}
	if f.Limit > 100 {
		return 100
	}
	return f.Limit
}

// OpportunityRepository defines the interface for opportunity persistence
type OpportunityRepository interface {
	Create(ctx context.Context, opp *DonorOpportunity) error
	Update(ctx context.Context, opp *DonorOpportunity) error
	FindByID(ctx context.Context, id uuid.UUID) (*DonorOpportunity, error)
	FindByContentHash(ctx context.Context, hash string) (*DonorOpportunity, error)
	Search(ctx context.Context, filter OpportunityFilter) ([]*DonorOpportunity, int64, error)
	// FindExpiring returns active opportunities whose deadline is before the cutoff
	FindExpiring(ctx context.Context, cutoff time.Time, limit int) ([]*DonorOpportunity, error)
	// CountBySameSource counts postings from the same source with the exact title, excluding the given ID
	CountBySameSource(ctx context.Context, sourceName, title string, excludeID uuid.UUID) (int64, error)
	// FindTitlesBySource returns titles of other postings from the same source
	FindTitlesBySource(ctx context.Context, sourceName string, excludeID uuid.UUID, limit int) ([]string, error)
	// CountByStatus returns counts grouped by status
	CountByStatus(ctx context.Context) (map[OpportunityStatus]int64, error)
	CountVerified(ctx context.Context) (int64, error)
}
