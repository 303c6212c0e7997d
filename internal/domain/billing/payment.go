package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/shared"
	"github.com/granada-os/backend/internal/domain/shared/valueobject"
)

// Gateway errors
var (
	ErrCardDeclined       = errors.New("payment: card declined")
	ErrGatewayUnavailable = errors.New("payment: gateway temporarily unavailable")
)

// PaymentStatus represents the state of a payment attempt
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// AuthorizationResult is the gateway's answer to a charge attempt
type AuthorizationResult struct {
	AuthorizationID string
	ProcessedAt     time.Time
}

// CardGateway authorizes card charges. The platform ships with a
// simulated gateway; the port keeps a real processor swappable.
type CardGateway interface {
	Authorize(ctx context.Context, card CardDetails, amount valueobject.Money) (*AuthorizationResult, error)
}

// PaymentTransaction records one credit purchase attempt
type PaymentTransaction struct {
	shared.BaseAggregateRoot
	UserID          uuid.UUID
	PackageID       string
	Credits         int
	Amount          valueobject.Money
	Discount        valueobject.Money
	CouponCode      string
	CardLast4       string
	Status          PaymentStatus
	FailureReason   string
	AuthorizationID string
	IdempotencyKey  string
	ProcessedAt     *time.Time
}

// NewPaymentTransaction creates a pending payment for a credit package
func NewPaymentTransaction(userID uuid.UUID, pkg CreditPackage, amount, discount valueobject.Money, couponCode, cardLast4, idempotencyKey string) (*PaymentTransaction, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if pkg.ID == "" {
		return nil, shared.NewDomainError("UNKNOWN_PACKAGE", "Unknown credit package")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount cannot be negative")
	}

	return &PaymentTransaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		PackageID:         pkg.ID,
		Credits:           pkg.Credits,
		Amount:            amount,
		Discount:          discount,
		CouponCode:        couponCode,
		CardLast4:         cardLast4,
		Status:            PaymentStatusPending,
		IdempotencyKey:    idempotencyKey,
	}, nil
}

// MarkSucceeded records a successful authorization
func (p *PaymentTransaction) MarkSucceeded(authorizationID string) error {
	if p.Status != PaymentStatusPending {
		return shared.ErrInvalidState
	}

	now := time.Now()
	p.Status = PaymentStatusSucceeded
	p.AuthorizationID = authorizationID
	p.ProcessedAt = &now
	p.Touch()
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentSucceededEvent(p))

	return nil
}

// MarkFailed records a declined or errored attempt
func (p *PaymentTransaction) MarkFailed(reason string) error {
	if p.Status != PaymentStatusPending {
		return shared.ErrInvalidState
	}

	now := time.Now()
	p.Status = PaymentStatusFailed
	p.FailureReason = reason
	p.ProcessedAt = &now
	p.Touch()
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentFailedEvent(p))

	return nil
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	Create(ctx context.Context, payment *PaymentTransaction) error
	Update(ctx context.Context, payment *PaymentTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentTransaction, error)
	FindByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*PaymentTransaction, error)
	FindByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*PaymentTransaction, int64, error)
	// CountSucceededByUser supports first-purchase coupon eligibility
	CountSucceededByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// FindRecent returns the latest payments platform-wide
	FindRecent(ctx context.Context, limit int) ([]*PaymentTransaction, error)
}
