package organization

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/organization"
	"github.com/granada-os/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrganizationInput carries the writable organization fields
type OrganizationInput struct {
	Name         string `json:"name" binding:"required,max=200"`
	Description  string `json:"description" binding:"omitempty,max=2000"`
	Country      string `json:"country" binding:"omitempty,max=100"`
	Sector       string `json:"sector" binding:"omitempty,max=100"`
	Website      string `json:"website" binding:"omitempty,url,max=500"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
}

// OrganizationInfo is the read model for an organization
type OrganizationInfo struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Country      string     `json:"country,omitempty"`
	Sector       string     `json:"sector,omitempty"`
	Website      string     `json:"website,omitempty"`
	ContactEmail string     `json:"contact_email,omitempty"`
	OwnerID      *uuid.UUID `json:"owner_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// OrganizationPage is a paginated organization listing
type OrganizationPage struct {
	Organizations []OrganizationInfo `json:"organizations"`
	Total         int64              `json:"total"`
	Page          int                `json:"page"`
	PageSize      int                `json:"page_size"`
}

// Service handles organization CRUD with ownership checks
type Service struct {
	repo   organization.Repository
	logger *zap.Logger
}

// NewService creates a new organization service
func NewService(repo organization.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create registers an organization owned by the acting user
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, input OrganizationInput) (*OrganizationInfo, error) {
	org, err := organization.NewOrganization(input.Name, input.Country, input.Sector, &ownerID)
	if err != nil {
		return nil, err
	}
	if err := org.Update(input.Name, input.Description, input.Country, input.Sector, input.Website, input.ContactEmail); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, org); err != nil {
		return nil, err
	}

	s.logger.Info("Organization created",
		zap.String("org_id", org.ID.String()),
		zap.String("name", org.Name))

	info := toOrganizationInfo(org)
	return &info, nil
}

// Update edits an organization. Only the owner or an admin may mutate.
func (s *Service) Update(ctx context.Context, id, actorID uuid.UUID, isAdmin bool, input OrganizationInput) (*OrganizationInfo, error) {
	org, err := s.ownedOrganization(ctx, id, actorID, isAdmin)
	if err != nil {
		return nil, err
	}

	if err := org.Update(input.Name, input.Description, input.Country, input.Sector, input.Website, input.ContactEmail); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, org); err != nil {
		return nil, err
	}

	info := toOrganizationInfo(org)
	return &info, nil
}

// Delete removes an organization. Only the owner or an admin may delete.
func (s *Service) Delete(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) error {
	org, err := s.ownedOrganization(ctx, id, actorID, isAdmin)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, org.ID); err != nil {
		return err
	}

	s.logger.Info("Organization deleted",
		zap.String("org_id", org.ID.String()),
		zap.String("actor_id", actorID.String()))

	return nil
}

// Get returns one organization
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*OrganizationInfo, error) {
	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	info := toOrganizationInfo(org)
	return &info, nil
}

// List returns a paginated organization listing
func (s *Service) List(ctx context.Context, filter shared.Filter) (*OrganizationPage, error) {
	orgs, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	infos := make([]OrganizationInfo, len(orgs))
	for i, org := range orgs {
		infos[i] = toOrganizationInfo(org)
	}

	return &OrganizationPage{
		Organizations: infos,
		Total:         total,
		Page:          filter.Page,
		PageSize:      filter.PageSize,
	}, nil
}

// ListOwned returns the organizations owned by a user
func (s *Service) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]OrganizationInfo, error) {
	orgs, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	infos := make([]OrganizationInfo, len(orgs))
	for i, org := range orgs {
		infos[i] = toOrganizationInfo(org)
	}
	return infos, nil
}

func (s *Service) ownedOrganization(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (*organization.Organization, error) {
	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !org.IsOwnedBy(actorID) {
		return nil, shared.ErrForbidden
	}
	return org, nil
}

func toOrganizationInfo(org *organization.Organization) OrganizationInfo {
	return OrganizationInfo{
		ID:           org.ID,
		Name:         org.Name,
		Description:  org.Description,
		Country:      org.Country,
		Sector:       org.Sector,
		Website:      org.Website,
		ContactEmail: org.ContactEmail,
		OwnerID:      org.OwnerID,
		CreatedAt:    org.CreatedAt,
		UpdatedAt:    org.UpdatedAt,
	}
}
