package models

import (
	"github.com/google/uuid"

	"github.com/granada-os/backend/internal/domain/organization"
)

// OrganizationModel is the persistence model for the Organization domain entity.
type OrganizationModel struct {
	AggregateModel
	Name         string     `gorm:"type:varchar(200);not null;index"`
	Description  string     `gorm:"type:text"`
	Country      string     `gorm:"type:varchar(100);index"`
	Sector       string     `gorm:"type:varchar(100);index"`
	Website      string     `gorm:"type:varchar(500)"`
	ContactEmail string     `gorm:"type:varchar(200)"`
	OwnerID      *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (OrganizationModel) TableName() string {
	return "organizations"
}

// ToDomain converts the persistence model to a domain Organization entity.
func (m *OrganizationModel) ToDomain() *organization.Organization {
	return &organization.Organization{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		Country:           m.Country,
		Sector:            m.Sector,
		Website:           m.Website,
		ContactEmail:      m.ContactEmail,
		OwnerID:           m.OwnerID,
	}
}

// FromDomain populates the persistence model from a domain Organization entity.
func (m *OrganizationModel) FromDomain(o *organization.Organization) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Name = o.Name
	m.Description = o.Description
	m.Country = o.Country
	m.Sector = o.Sector
	m.Website = o.Website
	m.ContactEmail = o.ContactEmail
	m.OwnerID = o.OwnerID
}

// OrganizationModelFromDomain creates a new persistence model from a domain Organization entity.
func OrganizationModelFromDomain(o *organization.Organization) *OrganizationModel {
	m := &OrganizationModel{}
	m.FromDomain(o)
	return m
}
