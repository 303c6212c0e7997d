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

// GormBotRepository implements funding.BotRepository using GORM
type GormBotRepository struct {
	db *gorm.DB
}

// NewGormBotRepository creates a new GormBotRepository
func NewGormBotRepository(db *gorm.DB) *GormBotRepository {
	return &GormBotRepository{db: db}
}

// Create creates a new search bot
func (r *GormBotRepository) Create(ctx context.Context, bot *funding.SearchBot) error {
	model := models.SearchBotModelFromDomain(bot)
	return DBFrom(ctx, r.db).Create(model).Error
}

// Update updates an existing search bot
func (r *GormBotRepository) Update(ctx context.Context, bot *funding.SearchBot) error {
	model := models.SearchBotModelFromDomain(bot)
	result := DBFrom(ctx, r.db).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a search bot by ID
func (r *GormBotRepository) FindByID(ctx context.Context, id uuid.UUID) (*funding.SearchBot, error) {
	var model models.SearchBotModel
	if err := DBFrom(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a search bot by exact name
func (r *GormBotRepository) FindByName(ctx context.Context, name string) (*funding.SearchBot, error) {
	if name == "" {
		return nil, shared.ErrNotFound
	}
	var model models.SearchBotModel
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

// FindAll returns search bots matching the filter with pagination
func (r *GormBotRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*funding.SearchBot, int64, error) {
	var botModels []*models.SearchBotModel
	var total int64

	query := DBFrom(ctx, r.db).Model(&models.SearchBotModel{})

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if country, ok := filter.Filters["country"].(string); ok && country != "" {
		query = query.Where("country = ?", country)
	}
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, BotSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	if err := query.Find(&botModels).Error; err != nil {
		return nil, 0, err
	}

	bots := make([]*funding.SearchBot, len(botModels))
	for i, model := range botModels {
		bots[i] = model.ToDomain()
	}

	return bots, total, nil
}

// SaveReward appends a bot reward record
func (r *GormBotRepository) SaveReward(ctx context.Context, reward *funding.BotReward) error {
	model := models.BotRewardModelFromDomain(reward)
	return DBFrom(ctx, r.db).Create(model).Error
}

// FindRecentRewards returns the latest rewards for a bot
func (r *GormBotRepository) FindRecentRewards(ctx context.Context, botID uuid.UUID, limit int) ([]*funding.BotReward, error) {
	var rewardModels []*models.BotRewardModel
	if err := DBFrom(ctx, r.db).
		Where("bot_id = ?", botID).
		Order("awarded_at DESC").
		Limit(limit).
		Find(&rewardModels).Error; err != nil {
		return nil, err
	}

	rewards := make([]*funding.BotReward, len(rewardModels))
	for i, model := range rewardModels {
		rewards[i] = model.ToDomain()
	}
	return rewards, nil
}

// Ensure GormBotRepository implements funding.BotRepository
var _ funding.BotRepository = (*GormBotRepository)(nil)
