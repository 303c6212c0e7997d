package billing

import (
	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/shared"
)

// Aggregate type constant for PaymentTransaction
const AggregateTypePayment = "PaymentTransaction"

// Billing domain event types
const (
	EventTypePaymentSucceeded = "PaymentSucceeded"
	EventTypePaymentFailed    = "PaymentFailed"
)

// PaymentSucceededEvent is published when a charge is authorized
type PaymentSucceededEvent struct {
	shared.BaseDomainEvent
	UserID    uuid.UUID `json:"user_id"`
	PackageID string    `json:"package_id"`
	Credits   int       `json:"credits"`
	Amount    string    `json:"amount"`
}

// NewPaymentSucceededEvent creates a new PaymentSucceededEvent
func NewPaymentSucceededEvent(p *PaymentTransaction) *PaymentSucceededEvent {
	return &PaymentSucceededEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentSucceeded, AggregateTypePayment, p.ID),
		UserID:          p.UserID,
		PackageID:       p.PackageID,
		Credits:         p.Credits,
		Amount:          p.Amount.String(),
	}
}

// PaymentFailedEvent is published when a charge is declined or errors
type PaymentFailedEvent struct {
	shared.BaseDomainEvent
	UserID    uuid.UUID `json:"user_id"`
	PackageID string    `json:"package_id"`
	Reason    string    `json:"reason"`
}

// NewPaymentFailedEvent creates a new PaymentFailedEvent
func NewPaymentFailedEvent(p *PaymentTransaction) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentFailed, AggregateTypePayment, p.ID),
		UserID:          p.UserID,
		PackageID:       p.PackageID,
		Reason:          p.FailureReason,
	}
}
