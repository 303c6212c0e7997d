package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/granada-os/backend/internal/domain/proposal"
)

// ProposalModel is the persistence model for the Proposal domain entity.
type ProposalModel struct {
	AggregateModel
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	OpportunityID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title         string          `gorm:"type:varchar(500);not null"`
	Content       string          `gorm:"type:text"`
	Status        proposal.Status `gorm:"type:varchar(20);not null;default:'draft';index"`
	SubmittedAt   *time.Time
	DecidedAt     *time.Time
	DocumentKey   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ProposalModel) TableName() string {
	return "proposals"
}

// ToDomain converts the persistence model to a domain Proposal entity.
func (m *ProposalModel) ToDomain() *proposal.Proposal {
	return &proposal.Proposal{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UserID:            m.UserID,
		OpportunityID:     m.OpportunityID,
		Title:             m.Title,
		Content:           m.Content,
		Status:            m.Status,
		SubmittedAt:       m.SubmittedAt,
		DecidedAt:         m.DecidedAt,
		DocumentKey:       m.DocumentKey,
	}
}

// FromDomain populates the persistence model from a domain Proposal entity.
func (m *ProposalModel) FromDomain(p *proposal.Proposal) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.UserID = p.UserID
	m.OpportunityID = p.OpportunityID
	m.Title = p.Title
	m.Content = p.Content
	m.Status = p.Status
	m.SubmittedAt = p.SubmittedAt
	m.DecidedAt = p.DecidedAt
	m.DocumentKey = p.DocumentKey
}

// ProposalModelFromDomain creates a new persistence model from a domain Proposal entity.
func ProposalModelFromDomain(p *proposal.Proposal) *ProposalModel {
	m := &ProposalModel{}
	m.FromDomain(p)
	return m
}
