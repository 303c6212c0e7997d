package billing

import (
	"context"

	"github.com/granada-os/backend/internal/domain/billing"
	"github.com/granada-os/backend/internal/domain/identity"
	"github.com/granada-os/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserRegisteredHandler grants the welcome credit bonus when a new
// account is created. The grant goes through the ledger so the
// balance always reconciles against transaction history.
type UserRegisteredHandler struct {
	userRepo   identity.UserRepository
	ledgerRepo billing.CreditTransactionRepository
	txManager  shared.TransactionManager
	logger     *zap.Logger
}

// NewUserRegisteredHandler creates the welcome bonus handler
func NewUserRegisteredHandler(
	userRepo identity.UserRepository,
	ledgerRepo billing.CreditTransactionRepository,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *UserRegisteredHandler {
	return &UserRegisteredHandler{
		userRepo:   userRepo,
		ledgerRepo: ledgerRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *UserRegisteredHandler) EventTypes() []string {
	return []string{identity.EventTypeUserRegistered}
}

// Handle grants the welcome credits to the registered user. A user who
// already holds credits is skipped so redelivered events cannot grant
// the bonus twice.
func (h *UserRegisteredHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	userID := event.AggregateID()

	user, err := h.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Credits > 0 {
		h.logger.Debug("Welcome bonus already granted",
			zap.String("user_id", userID.String()))
		return nil
	}

	ledgerTx, err := billing.NewWelcomeBonusTransaction(user.ID)
	if err != nil {
		return err
	}

	if err := user.AddCredits(billing.DefaultWelcomeCredits); err != nil {
		return err
	}
	err = h.txManager.InTransaction(ctx, func(txCtx context.Context) error {
		if err := h.userRepo.Update(txCtx, user); err != nil {
			return err
		}
		return h.ledgerRepo.Save(txCtx, ledgerTx)
	})
	if err != nil {
		return err
	}

	h.logger.Info("Welcome credits granted",
		zap.String("user_id", user.ID.String()),
		zap.Int("credits", billing.DefaultWelcomeCredits))

	return nil
}
