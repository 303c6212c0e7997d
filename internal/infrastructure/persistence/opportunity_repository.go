package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/granada-os/backend/internal/domain/funding"
	"github.com/granada-os/backend/internal/domain/shared"
	"github.com/granada-os/backend/internal/infrastructure/persistence/models"
)

// GormOpportunityRepository implements funding.OpportunityRepository using GORM
type GormOpportunityRepository struct {
	db *gorm.DB
}

// NewGormOpportunityRepository creates a new GormOpportunityRepository
func NewGormOpportunityRepository(db *gorm.DB) *GormOpportunityRepository {
	return &GormOpportunityRepository{db: db}
}

// Create creates a new opportunity
func (r *GormOpportunityRepository) Create(ctx context.Context, opp *funding.DonorOpportunity) error {
	model := models.DonorOpportunityModelFromDomain(opp)
	return DBFrom(ctx, r.db).Create(model).Error
}

// Update updates an existing opportunity
func (r *GormOpportunityRepository) Update(ctx context.Context, opp *funding.DonorOpportunity) error {
	model := models.DonorOpportunityModelFromDomain(opp)
	result := DBFrom(ctx, r.db).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an opportunity by ID
func (r *GormOpportunityRepository) FindByID(ctx context.Context, id uuid.UUID) (*funding.DonorOpportunity, error) {
	var model models.DonorOpportunityModel
	if err := DBFrom(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByContentHash finds an opportunity by its dedupe hash
func (r *GormOpportunityRepository) FindByContentHash(ctx context.Context, hash string) (*funding.DonorOpportunity, error) {
	if hash == "" {
		return nil, shared.ErrNotFound
	}
	var model models.DonorOpportunityModel
	if err := DBFrom(ctx, r.db).
		Where("content_hash = ?", hash).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Search returns opportunities matching the filter with the total count
func (r *GormOpportunityRepository) Search(ctx context.Context, filter funding.OpportunityFilter) ([]*funding.DonorOpportunity, int64, error) {
	var oppModels []*models.DonorOpportunityModel
	var total int64

	query := DBFrom(ctx, r.db).Model(&models.DonorOpportunityModel{})
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.EffectiveLimit())

	if err := query.Find(&oppModels).Error; err != nil {
		return nil, 0, err
	}

	opps := make([]*funding.DonorOpportunity, len(oppModels))
	for i, model := range oppModels {
		opps[i] = model.ToDomain()
	}

	return opps, total, nil
}

// FindExpiring returns active opportunities whose deadline is before the cutoff
func (r *GormOpportunityRepository) FindExpiring(ctx context.Context, cutoff time.Time, limit int) ([]*funding.DonorOpportunity, error) {
	var oppModels []*models.DonorOpportunityModel
	if err := DBFrom(ctx, r.db).
		Where("status = ? AND deadline IS NOT NULL AND deadline < ?", funding.OpportunityStatusActive, cutoff).
		Order("deadline ASC").
		Limit(limit).
		Find(&oppModels).Error; err != nil {
		return nil, err
	}

	opps := make([]*funding.DonorOpportunity, len(oppModels))
	for i, model := range oppModels {
		opps[i] = model.ToDomain()
	}
	return opps, nil
}

// CountBySameSource counts postings from the same source with the exact title, excluding the given ID
func (r *GormOpportunityRepository) CountBySameSource(ctx context.Context, sourceName, title string, excludeID uuid.UUID) (int64, error) {
	var count int64
	if err := DBFrom(ctx, r.db).
		Model(&models.DonorOpportunityModel{}).
		Where("source_name = ? AND title = ? AND id <> ?", sourceName, title, excludeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindTitlesBySource returns titles of other postings from the same source
func (r *GormOpportunityRepository) FindTitlesBySource(ctx context.Context, sourceName string, excludeID uuid.UUID, limit int) ([]string, error) {
	var titles []string
	if err := DBFrom(ctx, r.db).
		Model(&models.DonorOpportunityModel{}).
		Where("source_name = ? AND id <> ?", sourceName, excludeID).
		Order("created_at DESC").
		Limit(limit).
		Pluck("title", &titles).Error; err != nil {
		return nil, err
	}
	return titles, nil
}

// CountByStatus returns counts grouped by status
func (r *GormOpportunityRepository) CountByStatus(ctx context.Context) (map[funding.OpportunityStatus]int64, error) {
	type statusCount struct {
		Status funding.OpportunityStatus
		Count  int64
	}

	var rows []statusCount
	if err := DBFrom(ctx, r.db).
		Model(&models.DonorOpportunityModel{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[funding.OpportunityStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountVerified returns the number of verified opportunities
func (r *GormOpportunityRepository) CountVerified(ctx context.Context) (int64, error) {
	var count int64
	if err := DBFrom(ctx, r.db).
		Model(&models.DonorOpportunityModel{}).
		Where("is_verified = ?", true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies search filter options to the query
func (r *GormOpportunityRepository) applyFilter(query *gorm.DB, filter funding.OpportunityFilter) *gorm.DB {
	if filter.Query != "" {
		searchPattern := "%" + filter.Query + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	if filter.Country != "" {
		query = query.Where("country = ? OR country = '' OR country ILIKE 'Global'", filter.Country)
	}

	if filter.Sector != "" {
		query = query.Where("sector ILIKE ?", "%"+filter.Sector+"%")
	}

	if filter.VerifiedOnly {
		query = query.Where("is_verified = ?", true)
	}

	status := filter.Status
	if status == "" {
		status = funding.OpportunityStatusActive
	}
	query = query.Where("status = ?", status)

	if filter.DonorID != nil {
		query = query.Where("donor_id = ?", *filter.DonorID)
	}

	return query
}

// Ensure GormOpportunityRepository implements funding.OpportunityRepository
var _ funding.OpportunityRepository = (*GormOpportunityRepository)(nil)
