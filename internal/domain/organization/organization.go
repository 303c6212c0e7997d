package organization

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/shared"
)

// Organization is a descriptive record for an NGO, company, or
// institution, optionally owned by a registered user.
type Organization struct {
	shared.BaseAggregateRoot
	Name         string
	Description  string
	Country      string
	Sector       string
	Website      string
	ContactEmail string
	OwnerID      *uuid.UUID
}

// NewOrganization creates an organization record
func NewOrganization(name, country, sector string, ownerID *uuid.UUID) (*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ORG_NAME", "Organization name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_ORG_NAME", "Organization name cannot exceed 200 characters")
	}

	return &Organization{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Country:           strings.TrimSpace(country),
		Sector:            strings.TrimSpace(sector),
		OwnerID:           ownerID,
	}, nil
}

// Update replaces the mutable descriptive fields
func (o *Organization) Update(name, description, country, sector, website, contactEmail string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ORG_NAME", "Organization name cannot be empty")
	}
	if contactEmail != "" {
		emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
		if !emailRegex.MatchString(contactEmail) {
			return shared.NewDomainError("INVALID_EMAIL", "Invalid contact email format")
		}
	}

	o.Name = name
	o.Description = strings.TrimSpace(description)
	o.Country = strings.TrimSpace(country)
	o.Sector = strings.TrimSpace(sector)
	o.Website = strings.TrimSpace(website)
	o.ContactEmail = strings.ToLower(strings.TrimSpace(contactEmail))
	o.Touch()
	o.IncrementVersion()

	return nil
}

// IsOwnedBy returns true when the given user owns this record
func (o *Organization) IsOwnedBy(userID uuid.UUID) bool {
	return o.OwnerID != nil && *o.OwnerID == userID
}

// Repository defines the interface for organization persistence
type Repository interface {
	Create(ctx context.Context, org *Organization) error
	Update(ctx context.Context, org *Organization) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Organization, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Organization, int64, error)
}
