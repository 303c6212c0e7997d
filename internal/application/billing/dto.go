package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/billing"
)

// ProcessPaymentInput contains one credit purchase attempt
type ProcessPaymentInput struct {
	UserID         uuid.UUID
	PackageID      string
	CouponCode     string
	Card           billing.CardDetails
	IdempotencyKey string
}

// PaymentInfo is the transport shape of a payment
type PaymentInfo struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	PackageID     string
	Credits       int
	Amount        string
	Discount      string
	Currency      string
	CouponCode    string
	CardLast4     string
	Status        billing.PaymentStatus
	FailureReason string
	ProcessedAt   *time.Time
	CreatedAt     time.Time
}

// PaymentResult wraps the outcome of a purchase attempt. Replayed is
// true when an idempotency key matched a previously recorded payment.
type PaymentResult struct {
	Payment  PaymentInfo
	Replayed bool
}

// PaymentPage is one page of payments
type PaymentPage struct {
	Payments []PaymentInfo
	Total    int64
}

// PackageInfo is the transport shape of a credit package
type PackageInfo struct {
	ID       string
	Name     string
	Credits  int
	Price    string
	Currency string
}

// CouponQuote is a validated coupon priced against a package
type CouponQuote struct {
	Code            string
	DiscountPercent int
	Price           string
	Discount        string
	Total           string
}

// LedgerEntryInfo is the transport shape of a credit ledger entry
type LedgerEntryInfo struct {
	ID              uuid.UUID
	TransactionType billing.CreditTransactionType
	Amount          int
	BalanceBefore   int
	BalanceAfter    int
	Description     string
	Reference       *string
	TransactionDate time.Time
}

// LedgerPage is one page of ledger entries
type LedgerPage struct {
	Entries []LedgerEntryInfo
	Total   int64
}

// BalanceInfo reports a user's credit balance alongside the ledger sum
type BalanceInfo struct {
	Credits   int
	LedgerSum int64
}

func toPaymentInfo(p *billing.PaymentTransaction) PaymentInfo {
	return PaymentInfo{
		ID:            p.ID,
		UserID:        p.UserID,
		PackageID:     p.PackageID,
		Credits:       p.Credits,
		Amount:        p.Amount.Amount().StringFixed(2),
		Discount:      p.Discount.Amount().StringFixed(2),
		Currency:      string(p.Amount.Currency()),
		CouponCode:    p.CouponCode,
		CardLast4:     p.CardLast4,
		Status:        p.Status,
		FailureReason: p.FailureReason,
		ProcessedAt:   p.ProcessedAt,
		CreatedAt:     p.CreatedAt,
	}
}

func toPackageInfo(pkg billing.CreditPackage) PackageInfo {
	return PackageInfo{
		ID:       pkg.ID,
		Name:     pkg.Name,
		Credits:  pkg.Credits,
		Price:    pkg.Price.Amount().StringFixed(2),
		Currency: string(pkg.Price.Currency()),
	}
}

func toLedgerEntryInfo(tx *billing.CreditTransaction) LedgerEntryInfo {
	return LedgerEntryInfo{
		ID:              tx.ID,
		TransactionType: tx.TransactionType,
		Amount:          tx.Amount,
		BalanceBefore:   tx.BalanceBefore,
		BalanceAfter:    tx.BalanceAfter,
		Description:     tx.Description,
		Reference:       tx.Reference,
		TransactionDate: tx.TransactionDate,
	}
}
