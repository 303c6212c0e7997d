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

// GormCreditTransactionRepository implements billing.CreditTransactionRepository using GORM.
// The ledger is append-only; the repository exposes no update or delete.
type GormCreditTransactionRepository struct {
	db *gorm.DB
}

// NewGormCreditTransactionRepository creates a new GormCreditTransactionRepository
func NewGormCreditTransactionRepository(db *gorm.DB) *GormCreditTransactionRepository {
	return &GormCreditTransactionRepository{db: db}
}

// Save appends a ledger entry
func (r *GormCreditTransactionRepository) Save(ctx context.Context, tx *billing.CreditTransaction) error {
	model := models.CreditTransactionModelFromDomain(tx)
	return DBFrom(ctx, r.db).Create(model).Error
}

// FindByID finds a ledger entry by ID
func (r *GormCreditTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.CreditTransaction, error) {
	var model models.CreditTransactionModel
	if err := DBFrom(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser returns a user's ledger entries with pagination
func (r *GormCreditTransactionRepository) FindByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*billing.CreditTransaction, int64, error) {
	var txModels []*models.CreditTransactionModel
	var total int64

	query := DBFrom(ctx, r.db).
		Model(&models.CreditTransactionModel{}).
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

	if err := query.Order("transaction_date DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&txModels).Error; err != nil {
		return nil, 0, err
	}

	transactions := make([]*billing.CreditTransaction, len(txModels))
	for i, model := range txModels {
		transactions[i] = model.ToDomain()
	}

	return transactions, total, nil
}

// SumByUser returns the signed sum of a user's entries
func (r *GormCreditTransactionRepository) SumByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var sum int64
	if err := DBFrom(ctx, r.db).
		Model(&models.CreditTransactionModel{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

// Totals returns platform-wide issued and spent totals
func (r *GormCreditTransactionRepository) Totals(ctx context.Context) (billing.CreditLedgerTotals, error) {
	var totals billing.CreditLedgerTotals
	if err := DBFrom(ctx, r.db).
		Model(&models.CreditTransactionModel{}).
		Select("COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0) as issued, COALESCE(SUM(CASE WHEN amount < 0 THEN -amount ELSE 0 END), 0) as spent").
		Scan(&totals).Error; err != nil {
		return billing.CreditLedgerTotals{}, err
	}
	return totals, nil
}

// Ensure GormCreditTransactionRepository implements billing.CreditTransactionRepository
var _ billing.CreditTransactionRepository = (*GormCreditTransactionRepository)(nil)
