package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/granada-os/backend/internal/domain/funding"
	"github.com/granada-os/backend/internal/domain/shared/valueobject"
)

// DonorModel is the persistence model for the Donor domain entity.
type DonorModel struct {
	AggregateModel
	Name        string            `gorm:"type:varchar(200);not null;uniqueIndex"`
	Type        funding.DonorType `gorm:"type:varchar(20);not null"`
	Country     string            `gorm:"type:varchar(100);index"`
	Website     string            `gorm:"type:varchar(500)"`
	Description string            `gorm:"type:text"`
	IsActive    bool              `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (DonorModel) TableName() string {
	return "donors"
}

// ToDomain converts the persistence model to a domain Donor entity.
func (m *DonorModel) ToDomain() *funding.Donor {
	return &funding.Donor{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Type:              m.Type,
		Country:           m.Country,
		Website:           m.Website,
		Description:       m.Description,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Donor entity.
func (m *DonorModel) FromDomain(d *funding.Donor) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.Name = d.Name
	m.Type = d.Type
	m.Country = d.Country
	m.Website = d.Website
	m.Description = d.Description
	m.IsActive = d.IsActive
}

// DonorModelFromDomain creates a new persistence model from a domain Donor entity.
func DonorModelFromDomain(d *funding.Donor) *DonorModel {
	m := &DonorModel{}
	m.FromDomain(d)
	return m
}

// DonorOpportunityModel is the persistence model for the DonorOpportunity domain entity.
// Funding amounts are stored as amount plus currency columns because the Money
// value object only round-trips the amount through the driver.
type DonorOpportunityModel struct {
	AggregateModel
	DonorID           uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Title             string                    `gorm:"type:varchar(500);not null"`
	Description       string                    `gorm:"type:text"`
	SourceName        string                    `gorm:"type:varchar(200);not null;index"`
	SourceURL         string                    `gorm:"type:varchar(1000)"`
	Country           string                    `gorm:"type:varchar(100);index"`
	Sector            string                    `gorm:"type:varchar(100);index"`
	Keywords          pq.StringArray            `gorm:"type:text[]"`
	AmountMin         *decimal.Decimal          `gorm:"type:decimal(18,4)"`
	AmountMinCurrency string                    `gorm:"type:varchar(3)"`
	AmountMax         *decimal.Decimal          `gorm:"type:decimal(18,4)"`
	AmountMaxCurrency string                    `gorm:"type:varchar(3)"`
	Deadline          *time.Time                `gorm:"index"`
	ContentHash       string                    `gorm:"type:varchar(64);not null;uniqueIndex"`
	IsVerified        bool                      `gorm:"not null;default:false;index"`
	VerificationScore float64                   `gorm:"not null;default:0"`
	LastVerifiedAt    *time.Time                `gorm:"index"`
	Status            funding.OpportunityStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	ScrapedAt         time.Time                 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DonorOpportunityModel) TableName() string {
	return "donor_opportunities"
}

func moneyFromColumns(amount *decimal.Decimal, currency string) *valueobject.Money {
	if amount == nil {
		return nil
	}
	cur := valueobject.Currency(currency)
	if cur == "" {
		cur = valueobject.DefaultCurrency
	}
	money, err := valueobject.NewMoney(*amount, cur)
	if err != nil {
		return nil
	}
	return &money
}

func moneyToColumns(money *valueobject.Money) (*decimal.Decimal, string) {
	if money == nil {
		return nil, ""
	}
	amount := money.Amount()
	return &amount, string(money.Currency())
}

// ToDomain converts the persistence model to a domain DonorOpportunity entity.
func (m *DonorOpportunityModel) ToDomain() *funding.DonorOpportunity {
	return &funding.DonorOpportunity{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		DonorID:           m.DonorID,
		Title:             m.Title,
		Description:       m.Description,
		SourceName:        m.SourceName,
		SourceURL:         m.SourceURL,
		Country:           m.Country,
		Sector:            m.Sector,
		Keywords:          m.Keywords,
		AmountMin:         moneyFromColumns(m.AmountMin, m.AmountMinCurrency),
		AmountMax:         moneyFromColumns(m.AmountMax, m.AmountMaxCurrency),
		Deadline:          m.Deadline,
		ContentHash:       m.ContentHash,
		IsVerified:        m.IsVerified,
		VerificationScore: m.VerificationScore,
		LastVerifiedAt:    m.LastVerifiedAt,
		Status:            m.Status,
		ScrapedAt:         m.ScrapedAt,
	}
}

// FromDomain populates the persistence model from a domain DonorOpportunity entity.
func (m *DonorOpportunityModel) FromDomain(o *funding.DonorOpportunity) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.DonorID = o.DonorID
	m.Title = o.Title
	m.Description = o.Description
	m.SourceName = o.SourceName
	m.SourceURL = o.SourceURL
	m.Country = o.Country
	m.Sector = o.Sector
	m.Keywords = o.Keywords
	m.AmountMin, m.AmountMinCurrency = moneyToColumns(o.AmountMin)
	m.AmountMax, m.AmountMaxCurrency = moneyToColumns(o.AmountMax)
	m.Deadline = o.Deadline
	m.ContentHash = o.ContentHash
	m.IsVerified = o.IsVerified
	m.VerificationScore = o.VerificationScore
	m.LastVerifiedAt = o.LastVerifiedAt
	m.Status = o.Status
	m.ScrapedAt = o.ScrapedAt
}

// DonorOpportunityModelFromDomain creates a new persistence model from a domain DonorOpportunity entity.
func DonorOpportunityModelFromDomain(o *funding.DonorOpportunity) *DonorOpportunityModel {
	m := &DonorOpportunityModel{}
	m.FromDomain(o)
	return m
}

// SearchBotModel is the persistence model for the SearchBot domain entity.
type SearchBotModel struct {
	AggregateModel
	Name               string            `gorm:"type:varchar(200);not null;uniqueIndex"`
	Country            string            `gorm:"type:varchar(100);index"`
	TargetURL          string            `gorm:"type:varchar(1000)"`
	Status             funding.BotStatus `gorm:"type:varchar(20);not null;default:'active'"`
	OpportunitiesFound int               `gorm:"not null;default:0"`
	RunCount           int               `gorm:"not null;default:0"`
	SuccessfulRuns     int               `gorm:"not null;default:0"`
	LastRunAt          *time.Time
}

// TableName returns the table name for GORM
func (SearchBotModel) TableName() string {
	return "search_bots"
}

// ToDomain converts the persistence model to a domain SearchBot entity.
func (m *SearchBotModel) ToDomain() *funding.SearchBot {
	return &funding.SearchBot{
		BaseAggregateRoot:  m.ToDomainAggregateRoot(),
		Name:               m.Name,
		Country:            m.Country,
		TargetURL:          m.TargetURL,
		Status:             m.Status,
		OpportunitiesFound: m.OpportunitiesFound,
		RunCount:           m.RunCount,
		SuccessfulRuns:     m.SuccessfulRuns,
		LastRunAt:          m.LastRunAt,
	}
}

// FromDomain populates the persistence model from a domain SearchBot entity.
func (m *SearchBotModel) FromDomain(b *funding.SearchBot) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.Name = b.Name
	m.Country = b.Country
	m.TargetURL = b.TargetURL
	m.Status = b.Status
	m.OpportunitiesFound = b.OpportunitiesFound
	m.RunCount = b.RunCount
	m.SuccessfulRuns = b.SuccessfulRuns
	m.LastRunAt = b.LastRunAt
}

// SearchBotModelFromDomain creates a new persistence model from a domain SearchBot entity.
func SearchBotModelFromDomain(b *funding.SearchBot) *SearchBotModel {
	m := &SearchBotModel{}
	m.FromDomain(b)
	return m
}

// BotRewardModel is the persistence model for the append-only BotReward record.
type BotRewardModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key"`
	BotID              uuid.UUID `gorm:"type:uuid;not null;index"`
	OpportunitiesFound int       `gorm:"not null"`
	AwardedAt          time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (BotRewardModel) TableName() string {
	return "bot_rewards"
}

// ToDomain converts the persistence model to a domain BotReward record.
func (m *BotRewardModel) ToDomain() *funding.BotReward {
	return &funding.BotReward{
		ID:                 m.ID,
		BotID:              m.BotID,
		OpportunitiesFound: m.OpportunitiesFound,
		AwardedAt:          m.AwardedAt,
	}
}

// BotRewardModelFromDomain creates a new persistence model from a domain BotReward record.
func BotRewardModelFromDomain(r *funding.BotReward) *BotRewardModel {
	return &BotRewardModel{
		ID:                 r.ID,
		BotID:              r.BotID,
		OpportunitiesFound: r.OpportunitiesFound,
		AwardedAt:          r.AwardedAt,
	}
}
