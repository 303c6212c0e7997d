package funding

import (
	"time"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/funding"
)

// IngestOpportunityInput contains one scraped or submitted opportunity
type IngestOpportunityInput struct {
	DonorID     uuid.UUID
	Title       string
	Description string
	SourceName  string
	SourceURL   string
	Country     string
	Sector      string
	Keywords    []string
	AmountMin   *float64
	AmountMax   *float64
	Currency    string
	Deadline    *time.Time
}

// IngestResult reports whether the posting was new
type IngestResult struct {
	Opportunity OpportunityInfo
	Created     bool
}

// OpportunityInfo is the transport shape of an opportunity
type OpportunityInfo struct {
	ID                uuid.UUID
	DonorID           uuid.UUID
	Title             string
	Description       string
	SourceName        string
	SourceURL         string
	Country           string
	Sector            string
	Keywords          []string
	AmountMin         *float64
	AmountMax         *float64
	Currency          string
	Deadline          *time.Time
	IsVerified        bool
	VerificationScore float64
	Status            funding.OpportunityStatus
	ScrapedAt         time.Time
}

// SearchOpportunitiesInput contains the list filters
type SearchOpportunitiesInput struct {
	Query        string
	Country      string
	Sector       string
	VerifiedOnly bool
	Status       funding.OpportunityStatus
	DonorID      *uuid.UUID
	Limit        int
	Offset       int
}

// OpportunityPage is one page of opportunities
type OpportunityPage struct {
	Opportunities []OpportunityInfo
	Total         int64
}

// MatchInfo is a scored opportunity for one user
type MatchInfo struct {
	Opportunity OpportunityInfo
	Score       float64
	Reasons     []string
}

// DonorInput contains donor create/update fields
type DonorInput struct {
	Name        string
	Type        funding.DonorType
	Country     string
	Website     string
	Description string
}

// DonorInfo is the transport shape of a donor
type DonorInfo struct {
	ID          uuid.UUID
	Name        string
	Type        funding.DonorType
	Country     string
	Website     string
	Description string
	IsActive    bool
	CreatedAt   time.Time
}

// RegisterBotInput contains bot registration fields
type RegisterBotInput struct {
	Name      string
	Country   string
	TargetURL string
}

// BotInfo is the transport shape of a search bot
type BotInfo struct {
	ID                 uuid.UUID
	Name               string
	Country            string
	TargetURL          string
	Status             funding.BotStatus
	OpportunitiesFound int
	RunCount           int
	SuccessfulRuns     int
	SuccessRate        float64
	LastRunAt          *time.Time
}

// BotRunResult reports one ingest run
type BotRunResult struct {
	Submitted int
	Created   int
	Duplicate int
	Failed    int
}

func toOpportunityInfo(o *funding.DonorOpportunity) OpportunityInfo {
	info := OpportunityInfo{
		ID:                o.ID,
		DonorID:           o.DonorID,
		Title:             o.Title,
		Description:       o.Description,
		SourceName:        o.SourceName,
		SourceURL:         o.SourceURL,
		Country:           o.Country,
		Sector:            o.Sector,
		Keywords:          o.Keywords,
		Deadline:          o.Deadline,
		IsVerified:        o.IsVerified,
		VerificationScore: o.VerificationScore,
		Status:            o.Status,
		ScrapedAt:         o.ScrapedAt,
	}
	if o.AmountMin != nil {
		v := o.AmountMin.Float64()
		info.AmountMin = &v
		info.Currency = string(o.AmountMin.Currency())
	}
	if o.AmountMax != nil {
		v := o.AmountMax.Float64()
		info.AmountMax = &v
		info.Currency = string(o.AmountMax.Currency())
	}
	return info
}

func toDonorInfo(d *funding.Donor) DonorInfo {
	return DonorInfo{
		ID:          d.ID,
		Name:        d.Name,
		Type:        d.Type,
		Country:     d.Country,
		Website:     d.Website,
		Description: d.Description,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
	}
}

func toBotInfo(b *funding.SearchBot) BotInfo {
	return BotInfo{
		ID:                 b.ID,
		Name:               b.Name,
		Country:            b.Country,
		TargetURL:          b.TargetURL,
		Status:             b.Status,
		OpportunitiesFound: b.OpportunitiesFound,
		RunCount:           b.RunCount,
		SuccessfulRuns:     b.SuccessfulRuns,
		SuccessRate:        b.SuccessRate(),
		LastRunAt:          b.LastRunAt,
	}
}
