package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/granada-os/backend/internal/domain/billing"
	"github.com/granada-os/backend/internal/domain/shared/valueobject"
)

// SimulatedCardGateway implements billing.CardGateway without talking
// to a real processor. Any Luhn-valid card authorizes except the
// designated decline number, which always fails. Authorization IDs are
// generated locally.
type SimulatedCardGateway struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewSimulatedCardGateway creates a simulated gateway
func NewSimulatedCardGateway(logger *zap.Logger) *SimulatedCardGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulatedCardGateway{
		logger: logger,
		now:    time.Now,
	}
}

// Authorize validates the card and simulates the processor's answer
func (g *SimulatedCardGateway) Authorize(ctx context.Context, card billing.CardDetails, amount valueobject.Money) (*billing.AuthorizationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, billing.ErrGatewayUnavailable
	}

	now := g.now()
	if err := card.Validate(now); err != nil {
		return nil, err
	}

	if billing.NormalizeNumber(card.Number) == billing.TestDeclineNumber {
		g.logger.Info("card authorization declined",
			zap.String("card_last4", card.Last4()),
			zap.String("amount", amount.Amount().StringFixed(2)),
		)
		return nil, billing.ErrCardDeclined
	}

	authorizationID := fmt.Sprintf("auth_%s", uuid.New().String())
	g.logger.Info("card authorization approved",
		zap.String("authorization_id", authorizationID),
		zap.String("card_last4", card.Last4()),
		zap.String("amount", amount.Amount().StringFixed(2)),
		zap.String("currency", string(amount.Currency())),
	)

	return &billing.AuthorizationResult{
		AuthorizationID: authorizationID,
		ProcessedAt:     now,
	}, nil
}

// Ensure SimulatedCardGateway implements billing.CardGateway
var _ billing.CardGateway = (*SimulatedCardGateway)(nil)
