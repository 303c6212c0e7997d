package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/granada-os/backend/internal/domain/billing"
	"github.com/granada-os/backend/internal/domain/shared/valueobject"
)

// PaymentTransactionModel is the persistence model for the PaymentTransaction domain entity.
type PaymentTransactionModel struct {
	AggregateModel
	UserID           uuid.UUID             `gorm:"type:uuid;not null;index;index:idx_payments_user_idem,unique"`
	PackageID        string                `gorm:"type:varchar(50);not null"`
	Credits          int                   `gorm:"not null"`
	Amount           decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	AmountCurrency   string                `gorm:"type:varchar(3);not null"`
	Discount         decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	DiscountCurrency string                `gorm:"type:varchar(3);not null"`
	CouponCode       string                `gorm:"type:varchar(50)"`
	CardLast4        string                `gorm:"type:varchar(4)"`
	Status           billing.PaymentStatus `gorm:"type:varchar(20);not null;index"`
	FailureReason    string                `gorm:"type:text"`
	AuthorizationID  string                `gorm:"type:varchar(100)"`
	IdempotencyKey   string                `gorm:"type:varchar(100);index:idx_payments_user_idem,unique"`
	ProcessedAt      *time.Time
}

// TableName returns the table name for GORM
func (PaymentTransactionModel) TableName() string {
	return "payment_transactions"
}

func requiredMoney(amount decimal.Decimal, currency string) valueobject.Money {
	cur := valueobject.Currency(currency)
	if cur == "" {
		cur = valueobject.DefaultCurrency
	}
	money, err := valueobject.NewMoney(amount, cur)
	if err != nil {
		return valueobject.NewMoneyUSD(amount)
	}
	return money
}

// ToDomain converts the persistence model to a domain PaymentTransaction entity.
func (m *PaymentTransactionModel) ToDomain() *billing.PaymentTransaction {
	return &billing.PaymentTransaction{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UserID:            m.UserID,
		PackageID:         m.PackageID,
		Credits:           m.Credits,
		Amount:            requiredMoney(m.Amount, m.AmountCurrency),
		Discount:          requiredMoney(m.Discount, m.DiscountCurrency),
		CouponCode:        m.CouponCode,
		CardLast4:         m.CardLast4,
		Status:            m.Status,
		FailureReason:     m.FailureReason,
		AuthorizationID:   m.AuthorizationID,
		IdempotencyKey:    m.IdempotencyKey,
		ProcessedAt:       m.ProcessedAt,
	}
}

// FromDomain populates the persistence model from a domain PaymentTransaction entity.
func (m *PaymentTransactionModel) FromDomain(p *billing.PaymentTransaction) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.UserID = p.UserID
	m.PackageID = p.PackageID
	m.Credits = p.Credits
	m.Amount = p.Amount.Amount()
	m.AmountCurrency = string(p.Amount.Currency())
	m.Discount = p.Discount.Amount()
	m.DiscountCurrency = string(p.Discount.Currency())
	m.CouponCode = p.CouponCode
	m.CardLast4 = p.CardLast4
	m.Status = p.Status
	m.FailureReason = p.FailureReason
	m.AuthorizationID = p.AuthorizationID
	m.IdempotencyKey = p.IdempotencyKey
	m.ProcessedAt = p.ProcessedAt
}

// PaymentTransactionModelFromDomain creates a new persistence model from a domain PaymentTransaction entity.
func PaymentTransactionModelFromDomain(p *billing.PaymentTransaction) *PaymentTransactionModel {
	m := &PaymentTransactionModel{}
	m.FromDomain(p)
	return m
}

// CreditTransactionModel is the persistence model for the append-only credit ledger.
type CreditTransactionModel struct {
	BaseModel
	UserID          uuid.UUID                     `gorm:"type:uuid;not null;index"`
	TransactionType billing.CreditTransactionType `gorm:"type:varchar(20);not null"`
	Amount          int                           `gorm:"not null"`
	BalanceBefore   int                           `gorm:"not null"`
	BalanceAfter    int                           `gorm:"not null"`
	Description     string                        `gorm:"type:varchar(500)"`
	Reference       *string                       `gorm:"type:varchar(100)"`
	OperatorID      *uuid.UUID                    `gorm:"type:uuid"`
	TransactionDate time.Time                     `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (CreditTransactionModel) TableName() string {
	return "credit_transactions"
}

// ToDomain converts the persistence model to a domain CreditTransaction entity.
func (m *CreditTransactionModel) ToDomain() *billing.CreditTransaction {
	return &billing.CreditTransaction{
		BaseEntity:      m.BaseModel.ToDomain(),
		UserID:          m.UserID,
		TransactionType: m.TransactionType,
		Amount:          m.Amount,
		BalanceBefore:   m.BalanceBefore,
		BalanceAfter:    m.BalanceAfter,
		Description:     m.Description,
		Reference:       m.Reference,
		OperatorID:      m.OperatorID,
		TransactionDate: m.TransactionDate,
	}
}

// FromDomain populates the persistence model from a domain CreditTransaction entity.
func (m *CreditTransactionModel) FromDomain(t *billing.CreditTransaction) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.UserID = t.UserID
	m.TransactionType = t.TransactionType
	m.Amount = t.Amount
	m.BalanceBefore = t.BalanceBefore
	m.BalanceAfter = t.BalanceAfter
	m.Description = t.Description
	m.Reference = t.Reference
	m.OperatorID = t.OperatorID
	m.TransactionDate = t.TransactionDate
}

// CreditTransactionModelFromDomain creates a new persistence model from a domain CreditTransaction entity.
func CreditTransactionModelFromDomain(t *billing.CreditTransaction) *CreditTransactionModel {
	m := &CreditTransactionModel{}
	m.FromDomain(t)
	return m
}
