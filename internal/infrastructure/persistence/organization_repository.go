package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/granada-os/backend/internal/domain/organization"
	"github.com/granada-os/backend/internal/domain/shared"
	"github.com/granada-os/backend/internal/infrastructure/persistence/models"
)

// GormOrganizationRepository implements organization.Repository using GORM
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewGormOrganizationRepository creates a new GormOrganizationRepository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Create creates a new organization
func (r *GormOrganizationRepository) Create(ctx context.Context, org *organization.Organization) error {
	model := models.OrganizationModelFromDomain(org)
	return DBFrom(ctx, r.db).Create(model).Error
}

// Update updates an existing organization
func (r *GormOrganizationRepository) Update(ctx context.Context, org *organization.Organization) error {
	model := models.OrganizationModelFromDomain(org)
	result := DBFrom(ctx, r.db).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes an organization by ID
func (r *GormOrganizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := DBFrom(ctx, r.db).Delete(&models.OrganizationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error) {
	var model models.OrganizationModel
	if err := DBFrom(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOwner finds all organizations owned by a user
func (r *GormOrganizationRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*organization.Organization, error) {
	var orgModels []*models.OrganizationModel
	if err := DBFrom(ctx, r.db).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&orgModels).Error; err != nil {
		return nil, err
	}

	orgs := make([]*organization.Organization, len(orgModels))
	for i, model := range orgModels {
		orgs[i] = model.ToDomain()
	}
	return orgs, nil
}

// FindAll returns organizations matching the filter with pagination
func (r *GormOrganizationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*organization.Organization, int64, error) {
	var orgModels []*models.OrganizationModel
	var total int64

	query := DBFrom(ctx, r.db).Model(&models.OrganizationModel{})

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}
	if country, ok := filter.Filters["country"].(string); ok && country != "" {
		query = query.Where("country = ?", country)
	}
	if sector, ok := filter.Filters["sector"].(string); ok && sector != "" {
		query = query.Where("sector = ?", sector)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, OrganizationSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	if err := query.Find(&orgModels).Error; err != nil {
		return nil, 0, err
	}

	orgs := make([]*organization.Organization, len(orgModels))
	for i, model := range orgModels {
		orgs[i] = model.ToDomain()
	}

	return orgs, total, nil
}

// Ensure GormOrganizationRepository implements organization.Repository
var _ organization.Repository = (*GormOrganizationRepository)(nil)
