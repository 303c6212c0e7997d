package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/shared"
)

// DefaultWelcomeCredits is granted to every new account through the
// ledger so the balance always reconciles against transaction history
const DefaultWelcomeCredits = 100

// CreditTransactionType represents the type of credit ledger entry
type CreditTransactionType string

const (
	// CreditTransactionTypePurchase represents credits bought through a payment
	CreditTransactionTypePurchase CreditTransactionType = "PURCHASE"
	// CreditTransactionTypeDeduction represents credits spent on a platform action
	CreditTransactionTypeDeduction CreditTransactionType = "DEDUCTION"
	// CreditTransactionTypeAdjustment represents a manual admin adjustment
	CreditTransactionTypeAdjustment CreditTransactionType = "ADJUSTMENT"
	// CreditTransactionTypeBonus represents a platform grant such as the welcome bonus
	CreditTransactionTypeBonus CreditTransactionType = "BONUS"
)

// String returns the string representation of CreditTransactionType
func (t CreditTransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t CreditTransactionType) IsValid() bool {
	switch t {
	case CreditTransactionTypePurchase,
		CreditTransactionTypeDeduction,
		CreditTransactionTypeAdjustment,
		CreditTransactionTypeBonus:
		return true
	}
	return false
}

// CreditTransaction is an immutable record of a credit balance change.
// Once created, entries are never modified - corrections are made with
// new entries.
type CreditTransaction struct {
	shared.BaseEntity
	UserID          uuid.UUID
	TransactionType CreditTransactionType
	// Amount is signed: positive entries increase the balance
	Amount        int
	BalanceBefore int
	BalanceAfter  int
	Description   string
	// Reference points at the source record (payment ID, proposal ID)
	Reference *string
	// OperatorID is the admin who performed a manual adjustment
	OperatorID      *uuid.UUID
	TransactionDate time.Time
}

func newCreditTransaction(userID uuid.UUID, txType CreditTransactionType, amount, balanceBefore int, description string) (*CreditTransaction, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid credit transaction type")
	}
	if amount == 0 {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be zero")
	}
	if balanceBefore < 0 {
		return nil, shared.NewDomainError("INVALID_BALANCE", "Balance before cannot be negative")
	}
	if balanceBefore+amount < 0 {
		return nil, shared.ErrInsufficientCredits
	}

	return &CreditTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		UserID:          userID,
		TransactionType: txType,
		Amount:          amount,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceBefore + amount,
		Description:     strings.TrimSpace(description),
		TransactionDate: time.Now(),
	}, nil
}

// NewPurchaseTransaction records credits bought through a payment
func NewPurchaseTransaction(userID uuid.UUID, credits, balanceBefore int, paymentID uuid.UUID, description string) (*CreditTransaction, error) {
	if credits <= 0 {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Purchased credits must be positive")
	}

	tx, err := newCreditTransaction(userID, CreditTransactionTypePurchase, credits, balanceBefore, description)
	if err != nil {
		return nil, err
	}
	ref := paymentID.String()
	tx.Reference = &ref
	return tx, nil
}

// NewDeductionTransaction records credits spent on a platform action
func NewDeductionTransaction(userID uuid.UUID, credits, balanceBefore int, reference, description string) (*CreditTransaction, error) {
	if credits <= 0 {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Deducted credits must be positive")
	}

	tx, err := newCreditTransaction(userID, CreditTransactionTypeDeduction, -credits, balanceBefore, description)
	if err != nil {
		return nil, err
	}
	if reference != "" {
		tx.Reference = &reference
	}
	return tx, nil
}

// NewAdjustmentTransaction records a signed manual adjustment by an admin
func NewAdjustmentTransaction(userID uuid.UUID, delta, balanceBefore int, operatorID uuid.UUID, reason string) (*CreditTransaction, error) {
	if operatorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OPERATOR", "Operator ID cannot be empty")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Adjustment reason cannot be empty")
	}

	tx, err := newCreditTransaction(userID, CreditTransactionTypeAdjustment, delta, balanceBefore, reason)
	if err != nil {
		return nil, err
	}
	tx.OperatorID = &operatorID
	return tx, nil
}

// NewWelcomeBonusTransaction records the registration grant
func NewWelcomeBonusTransaction(userID uuid.UUID) (*CreditTransaction, error) {
	return newCreditTransaction(userID, CreditTransactionTypeBonus, DefaultWelcomeCredits, 0, "Welcome credit grant")
}

// IsIncrease returns true if the entry increased the balance
func (t *CreditTransaction) IsIncrease() bool {
	return t.Amount > 0
}

// CreditLedgerTotals aggregates platform-wide credit movement
type CreditLedgerTotals struct {
	Issued int64 // sum of positive entries
	Spent  int64 // absolute sum of negative entries
}

// CreditTransactionRepository defines the interface for ledger persistence.
// Entries are append-only; there is no update or delete.
type CreditTransactionRepository interface {
	Save(ctx context.Context, tx *CreditTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*CreditTransaction, error)
	FindByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*CreditTransaction, int64, error)
	// SumByUser returns the signed sum of a user's entries
	SumByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// Totals returns platform-wide issued and spent totals
	Totals(ctx context.Context) (CreditLedgerTotals, error)
}
