package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/granada-os/backend/internal/domain/funding"
	"github.com/granada-os/backend/internal/domain/shared"
	"github.com/granada-os/backend/internal/infrastructure/persistence/models"
)

// GormDonorRepository implements funding.DonorRepository using GORM
type GormDonorRepository struct {
	db *gorm.DB
}

// NewGormDonorRepository creates a new GormDonorRepository
func NewGormDonorRepository(db *gorm.DB) *GormDonorRepository {
	return &GormDonorRepository{db: db}
}

// Create creates a new donor
func (r *GormDonorRepository) Create(ctx context.Context, donor *funding.Donor) error {
	model := models.DonorModelFromDomain(donor)
	return DBFrom(ctx, r.db).Create(model).Error
}

// Update updates an existing donor
func (r *GormDonorRepository) Update(ctx context.Context, donor *funding.Donor) error {
	model := models.DonorModelFromDomain(donor)
	result := DBFrom(ctx, r.db).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a donor by ID
func (r *GormDonorRepository) FindByID(ctx context.Context, id uuid.UUID) (*funding.Donor, error) {
	var model models.DonorModel
	if err := DBFrom(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a donor by exact name
func (r *GormDonorRepository) FindByName(ctx context.Context, name string) (*funding.Donor, error) {
	if name == "" {
		return nil, shared.ErrNotFound
	}
	var model models.DonorModel
	if err := DBFrom(ctx, r.db).
		Where("name = ?", name).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns donors matching the filter with pagination
func (r *GormDonorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*funding.Donor, int64, error) {
	var donorModels []*models.DonorModel
	var total int64

	query := DBFrom(ctx, r.db).Model(&models.DonorModel{})

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}
	if country, ok := filter.Filters["country"].(string); ok && country != "" {
		query = query.Where("country = ?", country)
	}
	if donorType, ok := filter.Filters["type"].(string); ok && donorType != "" {
		query = query.Where("type = ?", donorType)
	}
	if active, ok := filter.Filters["is_active"].(bool); ok {
		query = query.Where("is_active = ?", active)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, DonorSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	if err := query.Find(&donorModels).Error; err != nil {
		return nil, 0, err
	}

	donors := make([]*funding.Donor, len(donorModels))
	for i, model := range donorModels {
		donors[i] = model.ToDomain()
	}

	return donors, total, nil
}

// Ensure GormDonorRepository implements funding.DonorRepository
var _ funding.DonorRepository = (*GormDonorRepository)(nil)
