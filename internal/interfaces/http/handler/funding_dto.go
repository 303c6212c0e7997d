package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/application/funding"
)

// =====================
// Funding Request DTOs
// =====================

// IngestOpportunityRequest represents one opportunity posting submitted for ingestion
type IngestOpportunityRequest struct {
	DonorID     uuid.UUID  `json:"donor_id" binding:"required"`
	Title       string     `json:"title" binding:"required,max=500"`
	Description string     `json:"description" binding:"omitempty,max=10000"`
	SourceName  string     `json:"source_name" binding:"omitempty,max=200"`
	SourceURL   string     `json:"source_url" binding:"required,url,max=1000"`
	Country     string     `json:"country" binding:"omitempty,max=100"`
	Sector      string     `json:"sector" binding:"omitempty,max=100"`
	Keywords    []string   `json:"keywords" binding:"omitempty,max=20,dive,max=100"`
	AmountMin   *float64   `json:"amount_min" binding:"omitempty,gte=0"`
	AmountMax   *float64   `json:"amount_max" binding:"omitempty,gte=0"`
	Currency    string     `json:"currency" binding:"omitempty,len=3"`
	Deadline    *time.Time `json:"deadline"`
}

// SearchOpportunitiesRequest represents the query parameters for opportunity search
type SearchOpportunitiesRequest struct {
	Query        string `form:"q" binding:"omitempty,max=200"`
	Country      string `form:"country" binding:"omitempty,max=100"`
	Sector       string `form:"sector" binding:"omitempty,max=100"`
	VerifiedOnly bool   `form:"verified_only"`
	Status       string `form:"status" binding:"omitempty,oneof=active expired archived"`
	DonorID      string `form:"donor_id" binding:"omitempty,uuid"`
	Page         int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// DonorRequest represents donor create/update fields
type DonorRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Type        string `json:"type" binding:"required,oneof=foundation government multilateral corporate"`
	Country     string `json:"country" binding:"omitempty,max=100"`
	Website     string `json:"website" binding:"omitempty,url,max=500"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// RegisterBotRequest represents the request body for registering a search bot
type RegisterBotRequest struct {
	Name      string `json:"name" binding:"required,max=200"`
	Country   string `json:"country" binding:"required,max=100"`
	TargetURL string `json:"target_url" binding:"required,url,max=1000"`
}

// BotIngestRequest represents one bot run's batch of scraped postings
type BotIngestRequest struct {
	Opportunities []IngestOpportunityRequest `json:"opportunities" binding:"required,min=1,max=500,dive"`
}

// =====================
// Funding Response DTOs
// =====================

// OpportunityResponse represents an opportunity in API responses
type OpportunityResponse struct {
	ID                uuid.UUID  `json:"id"`
	DonorID           uuid.UUID  `json:"donor_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	SourceName        string     `json:"source_name,omitempty"`
	SourceURL         string     `json:"source_url"`
	Country           string     `json:"country,omitempty"`
	Sector            string     `json:"sector,omitempty"`
	Keywords          []string   `json:"keywords,omitempty"`
	AmountMin         *float64   `json:"amount_min,omitempty"`
	AmountMax         *float64   `json:"amount_max,omitempty"`
	Currency          string     `json:"currency,omitempty"`
	Deadline          *time.Time `json:"deadline,omitempty"`
	IsVerified        bool       `json:"is_verified"`
	VerificationScore float64    `json:"verification_score"`
	Status            string     `json:"status"`
	ScrapedAt         time.Time  `json:"scraped_at"`
}

// IngestResponse reports whether an ingested posting was new
type IngestResponse struct {
	Opportunity OpportunityResponse `json:"opportunity"`
	Created     bool                `json:"created"`
}

// MatchResponse is one scored opportunity match
type MatchResponse struct {
	Opportunity OpportunityResponse `json:"opportunity"`
	Score       float64             `json:"score"`
	Reasons     []string            `json:"reasons,omitempty"`
}

// DonorResponse represents a donor in API responses
type DonorResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Country     string    `json:"country,omitempty"`
	Website     string    `json:"website,omitempty"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// BotResponse represents a search bot in API responses
type BotResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Country            string     `json:"country"`
	TargetURL          string     `json:"target_url"`
	Status             string     `json:"status"`
	OpportunitiesFound int        `json:"opportunities_found"`
	RunCount           int        `json:"run_count"`
	SuccessfulRuns     int        `json:"successful_runs"`
	SuccessRate        float64    `json:"success_rate"`
	LastRunAt          *time.Time `json:"last_run_at,omitempty"`
}

// BotRunResponse reports the outcome of one ingest run
type BotRunResponse struct {
	Submitted int `json:"submitted"`
	Created   int `json:"created"`
	Duplicate int `json:"duplicate"`
	Failed    int `json:"failed"`
}

// BotRewardResponse represents one reward grant for a bot
type BotRewardResponse struct {
	ID                 uuid.UUID `json:"id"`
	BotID              uuid.UUID `json:"bot_id"`
	OpportunitiesFound int       `json:"opportunities_found"`
	AwardedAt          time.Time `json:"awarded_at"`
}

func (r IngestOpportunityRequest) toInput() funding.IngestOpportunityInput {
	return funding.IngestOpportunityInput{
		DonorID:     r.DonorID,
		Title:       r.Title,
		Description: r.Description,
		SourceName:  r.SourceName,
		SourceURL:   r.SourceURL,
		Country:     r.Country,
		Sector:      r.Sector,
		Keywords:    r.Keywords,
		AmountMin:   r.AmountMin,
		AmountMax:   r.AmountMax,
		Currency:    r.Currency,
		Deadline:    r.Deadline,
	}
}

func toOpportunityResponse(o *funding.OpportunityInfo) OpportunityResponse {
	return OpportunityResponse{
		ID:                o.ID,
		DonorID:           o.DonorID,
		Title:             o.Title,
		Description:       o.Description,
		SourceName:        o.SourceName,
		SourceURL:         o.SourceURL,
		Country:           o.Country,
		Sector:            o.Sector,
		Keywords:          o.Keywords,
		AmountMin:         o.AmountMin,
		AmountMax:         o.AmountMax,
		Currency:          o.Currency,
		Deadline:          o.Deadline,
		IsVerified:        o.IsVerified,
		VerificationScore: o.VerificationScore,
		Status:            string(o.Status),
		ScrapedAt:         o.ScrapedAt,
	}
}

func toDonorResponse(d *funding.DonorInfo) DonorResponse {
	return DonorResponse{
		ID:          d.ID,
		Name:        d.Name,
		Type:        string(d.Type),
		Country:     d.Country,
		Website:     d.Website,
		Description: d.Description,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
	}
}

func toBotResponse(b *funding.BotInfo) BotResponse {
	return BotResponse{
		ID:                 b.ID,
		Name:               b.Name,
		Country:            b.Country,
		TargetURL:          b.TargetURL,
		Status:             string(b.Status),
		OpportunitiesFound: b.OpportunitiesFound,
		RunCount:           b.RunCount,
		SuccessfulRuns:     b.SuccessfulRuns,
		SuccessRate:        b.SuccessRate,
		LastRunAt:          b.LastRunAt,
	}
}
