package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/granada-os/backend/internal/domain/analytics"
	"github.com/granada-os/backend/internal/infrastructure/persistence/models"
)

// GormSnapshotRepository implements analytics.SnapshotRepository using GORM
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a new GormSnapshotRepository
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// Save persists a flushed behavior snapshot
func (r *GormSnapshotRepository) Save(ctx context.Context, snapshot *analytics.BehaviorSnapshot) error {
	model := models.BehaviorSnapshotModelFromDomain(snapshot)
	return DBFrom(ctx, r.db).Create(model).Error
}

// FindBySession returns the latest snapshots for a session
func (r *GormSnapshotRepository) FindBySession(ctx context.Context, sessionID string, limit int) ([]*analytics.BehaviorSnapshot, error) {
	var snapshotModels []*models.BehaviorSnapshotModel
	if err := DBFrom(ctx, r.db).
		Where("session_id = ?", sessionID).
		Order("captured_at DESC").
		Limit(limit).
		Find(&snapshotModels).Error; err != nil {
		return nil, err
	}
	return snapshotsToDomain(snapshotModels), nil
}

// FindRecent returns the latest snapshots platform-wide
func (r *GormSnapshotRepository) FindRecent(ctx context.Context, limit int) ([]*analytics.BehaviorSnapshot, error) {
	var snapshotModels []*models.BehaviorSnapshotModel
	if err := DBFrom(ctx, r.db).
		Order("captured_at DESC").
		Limit(limit).
		Find(&snapshotModels).Error; err != nil {
		return nil, err
	}
	return snapshotsToDomain(snapshotModels), nil
}

// DeleteOlderThan removes snapshots captured before the cutoff
func (r *GormSnapshotRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := DBFrom(ctx, r.db).
		Where("captured_at < ?", cutoff).
		Delete(&models.BehaviorSnapshotModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func snapshotsToDomain(snapshotModels []*models.BehaviorSnapshotModel) []*analytics.BehaviorSnapshot {
	snapshots := make([]*analytics.BehaviorSnapshot, len(snapshotModels))
	for i, model := range snapshotModels {
		snapshots[i] = model.ToDomain()
	}
	return snapshots
}

// GormInteractionRepository implements analytics.InteractionRepository using GORM
type GormInteractionRepository struct {
	db *gorm.DB
}

// NewGormInteractionRepository creates a new GormInteractionRepository
func NewGormInteractionRepository(db *gorm.DB) *GormInteractionRepository {
	return &GormInteractionRepository{db: db}
}

// Save persists an ingested batch record
func (r *GormInteractionRepository) Save(ctx context.Context, interaction *analytics.UserInteraction) error {
	model := models.UserInteractionModelFromDomain(interaction)
	return DBFrom(ctx, r.db).Create(model).Error
}

// FindByUser returns the latest interaction records for a user
func (r *GormInteractionRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*analytics.UserInteraction, error) {
	var interactionModels []*models.UserInteractionModel
	if err := DBFrom(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&interactionModels).Error; err != nil {
		return nil, err
	}

	interactions := make([]*analytics.UserInteraction, len(interactionModels))
	for i, model := range interactionModels {
		interactions[i] = model.ToDomain()
	}
	return interactions, nil
}

// CountSince returns the number of interactions recorded after the given time
func (r *GormInteractionRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := DBFrom(ctx, r.db).
		Model(&models.UserInteractionModel{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure the repositories implement the analytics interfaces
var (
	_ analytics.SnapshotRepository    = (*GormSnapshotRepository)(nil)
	_ analytics.InteractionRepository = (*GormInteractionRepository)(nil)
)
