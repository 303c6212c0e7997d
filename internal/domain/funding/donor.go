package funding

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/shared"
)

// DonorType classifies a funding source
type DonorType string

const (
	DonorTypeFoundation   DonorType = "foundation"
	DonorTypeGovernment   DonorType = "government"
	DonorTypeMultilateral DonorType = "multilateral"
	DonorTypeCorporate    DonorType = "corporate"
)

// IsValid returns true for a known donor type
func (t DonorType) IsValid() bool {
	switch t {
	case DonorTypeFoundation, DonorTypeGovernment, DonorTypeMultilateral, DonorTypeCorporate:
		return true
	default:
		return false
	}
}

// Donor represents an organization that publishes funding opportunities
type Donor struct {
	shared.BaseAggregateRoot
	Name        string
	Type        DonorType
	Country     string
	Website     string
	Description string
	IsActive    bool
}

// NewDonor creates a donor record
func NewDonor(name string, donorType DonorType, country string) (*Donor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_DONOR_NAME", "Donor name cannot be empty")
	}
	if !donorType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DONOR_TYPE", "Unknown donor type")
	}

	return &Donor{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Type:              donorType,
		Country:           strings.TrimSpace(country),
		IsActive:          true,
	}, nil
}

// Update replaces the mutable descriptive fields
func (d *Donor) Update(name, country, website, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_DONOR_NAME", "Donor name cannot be empty")
	}

	d.Name = name
	d.Country = strings.TrimSpace(country)
	d.Website = strings.TrimSpace(website)
	d.Description = strings.TrimSpace(description)
	d.Touch()
	d.IncrementVersion()

	return nil
}

// Deactivate hides the donor from listings
func (d *Donor) Deactivate() {
	d.IsActive = false
	d.Touch()
	d.IncrementVersion()
}

// Activate restores the donor to listings
func (d *Donor) Activate() {
	d.IsActive = true
	d.Touch()
	d.IncrementVersion()
}

// DonorRepository defines the interface for donor persistence
type DonorRepository interface {
	Create(ctx context.Context, donor *Donor) error
	Update(ctx context.Context, donor *Donor) error
	FindByID(ctx context.Context, id uuid.UUID) (*Donor, error)
	FindByName(ctx context.Context, name string) (*Donor, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Donor, int64, error)
}
