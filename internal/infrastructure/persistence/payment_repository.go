package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/granada-os/backend/internal/domain/billing"
	"github.com/granada-os/backend/internal/domain/shared"
	"github.com/granada-os/backend/internal/infrastructure/persistence/models"
)

// GormPaymentRepository implements billing.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create creates a new payment transaction
func (r *GormPaymentRepository) Create(ctx context.Context, payment *billing.PaymentTransaction) error {
	model := models.PaymentTransactionModelFromDomain(payment)
	if err := DBFrom(ctx, r.db).Create(model).Error; err != nil {
		// The partial unique index on (user_id, idempotency_key)
		// rejects a concurrent retry of the same payment
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update updates an existing payment transaction
func (r *GormPaymentRepository) Update(ctx context.Context, payment *billing.PaymentTransaction) error {
	model := models.PaymentTransactionModelFromDomain(payment)
	result := DBFrom(ctx, r.db).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a payment transaction by ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PaymentTransaction, error) {
	var model models.PaymentTransactionModel
	if err := DBFrom(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIdempotencyKey finds a user's payment by its idempotency key
func (r *GormPaymentRepository) FindByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*billing.PaymentTransaction, error) {
	if key == "" {
		return nil, shared.ErrNotFound
	}
	var model models.PaymentTransactionModel
	if err := DBFrom(ctx, r.db).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser returns a user's payments with pagination
func (r *GormPaymentRepository) FindByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*billing.PaymentTransaction, int64, error) {
	var paymentModels []*models.PaymentTransactionModel
	var total int64

	query := DBFrom(ctx, r.db).
		Model(&models.PaymentTransactionModel{}).
		Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	if err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&paymentModels).Error; err != nil {
		return nil, 0, err
	}

	payments := make([]*billing.PaymentTransaction, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = model.ToDomain()
	}

	return payments, total, nil
}

// CountSucceededByUser returns the number of a user's succeeded payments
func (r *GormPaymentRepository) CountSucceededByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := DBFrom(ctx, r.db).
		Model(&models.PaymentTransactionModel{}).
		Where("user_id = ? AND status = ?", userID, billing.PaymentStatusSucceeded).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindRecent returns the latest payments platform-wide
func (r *GormPaymentRepository) FindRecent(ctx context.Context, limit int) ([]*billing.PaymentTransaction, error) {
	var paymentModels []*models.PaymentTransactionModel
	if err := DBFrom(ctx, r.db).
		Order("created_at DESC").
		Limit(limit).
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	payments := make([]*billing.PaymentTransaction, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = model.ToDomain()
	}
	return payments, nil
}

// Ensure GormPaymentRepository implements billing.PaymentRepository
var _ billing.PaymentRepository = (*GormPaymentRepository)(nil)
