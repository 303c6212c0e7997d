package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/granada-os/backend/internal/domain/proposal"
	"github.com/granada-os/backend/internal/domain/shared"
	"github.com/granada-os/backend/internal/infrastructure/persistence/models"
)

// GormProposalRepository implements proposal.Repository using GORM
type GormProposalRepository struct {
	db *gorm.DB
}

// NewGormProposalRepository creates a new GormProposalRepository
func NewGormProposalRepository(db *gorm.DB) *GormProposalRepository {
	return &GormProposalRepository{db: db}
}

// Create creates a new proposal
func (r *GormProposalRepository) Create(ctx context.Context, p *proposal.Proposal) error {
	model := models.ProposalModelFromDomain(p)
	return DBFrom(ctx, r.db).Create(model).Error
}

// Update updates an existing proposal
func (r *GormProposalRepository) Update(ctx context.Context, p *proposal.Proposal) error {
	model := models.ProposalModelFromDomain(p)
	result := DBFrom(ctx, r.db).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a proposal by ID
func (r *GormProposalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := DBFrom(ctx, r.db).Delete(&models.ProposalModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a proposal by ID
func (r *GormProposalRepository) FindByID(ctx context.Context, id uuid.UUID) (*proposal.Proposal, error) {
	var model models.ProposalModel
	if err := DBFrom(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns proposals matching the filter with pagination
func (r *GormProposalRepository) FindAll(ctx context.Context, filter proposal.Filter) ([]*proposal.Proposal, int64, error) {
	var proposalModels []*models.ProposalModel
	var total int64

	query := DBFrom(ctx, r.db).Model(&models.ProposalModel{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.OpportunityID != nil {
		query = query.Where("opportunity_id = ?", *filter.OpportunityID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	query = query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize)

	if err := query.Find(&proposalModels).Error; err != nil {
		return nil, 0, err
	}

	proposals := make([]*proposal.Proposal, len(proposalModels))
	for i, model := range proposalModels {
		proposals[i] = model.ToDomain()
	}

	return proposals, total, nil
}

// CountByStatus returns counts grouped by status
func (r *GormProposalRepository) CountByStatus(ctx context.Context) (map[proposal.Status]int64, error) {
	type statusCount struct {
		Status proposal.Status
		Count  int64
	}

	var rows []statusCount
	if err := DBFrom(ctx, r.db).
		Model(&models.ProposalModel{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[proposal.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Ensure GormProposalRepository implements proposal.Repository
var _ proposal.Repository = (*GormProposalRepository)(nil)
