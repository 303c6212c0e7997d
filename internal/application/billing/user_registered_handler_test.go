package billing

import (
	"context"
	"testing"

	"github.com/granada-os/backend/internal/domain/billing"
	"github.com/granada-os/backend/internal/domain/identity"
	"github.com/granada-os/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserRegisteredHandler(t *testing.T) {
	ctx := context.Background()

	newHandler := func() (*UserRegisteredHandler, *MockUserRepository, *MockLedgerRepository) {
		userRepo := new(MockUserRepository)
		ledgerRepo := new(MockLedgerRepository)
		return NewUserRegisteredHandler(userRepo, ledgerRepo, shared.NopTransactionManager{}, zap.NewNop()), userRepo, ledgerRepo
	}

	t.Run("subscribes to user registrations", func(t *testing.T) {
		handler, _, _ := newHandler()
		assert.Equal(t, []string{identity.EventTypeUserRegistered}, handler.EventTypes())
	})

	t.Run("grants the welcome bonus through the ledger", func(t *testing.T) {
		handler, userRepo, ledgerRepo := newHandler()

		user, err := identity.NewUser("amina@example.org", "Str0ngPass!", "Amina", "Okello", identity.UserTypeNGO)
		require.NoError(t, err)
		event := identity.NewUserRegisteredEvent(user)
		user.ClearDomainEvents()

		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("Update", ctx, user).Return(nil)
		ledgerRepo.On("Save", ctx, mock.MatchedBy(func(tx *billing.CreditTransaction) bool {
			return tx.TransactionType == billing.CreditTransactionTypeBonus &&
				tx.Amount == billing.DefaultWelcomeCredits &&
				tx.BalanceBefore == 0 &&
				tx.BalanceAfter == billing.DefaultWelcomeCredits
		})).Return(nil)

		require.NoError(t, handler.Handle(ctx, event))
		assert.Equal(t, billing.DefaultWelcomeCredits, user.Credits)
		ledgerRepo.AssertExpectations(t)
	})

	t.Run("redelivered event does not grant twice", func(t *testing.T) {
		handler, userRepo, ledgerRepo := newHandler()

		user, err := identity.NewUser("amina@example.org", "Str0ngPass!", "Amina", "Okello", identity.UserTypeNGO)
		require.NoError(t, err)
		user.Credits = billing.DefaultWelcomeCredits
		event := identity.NewUserRegisteredEvent(user)
		user.ClearDomainEvents()

		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

		require.NoError(t, handler.Handle(ctx, event))
		assert.Equal(t, billing.DefaultWelcomeCredits, user.Credits)
		userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		ledgerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestUserRegisteredHandler_GrantIsAtomic(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	ledgerRepo := new(MockLedgerRepository)
	txm := &recordingTxManager{}
	handler := NewUserRegisteredHandler(userRepo, ledgerRepo, txm, zap.NewNop())

	user, err := identity.NewUser("amina@example.org", "Str0ngPass!", "Amina", "Okello", identity.UserTypeNGO)
	require.NoError(t, err)
	event := identity.NewUserRegisteredEvent(user)
	user.ClearDomainEvents()

	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Update", mock.MatchedBy(inTx), user).Return(nil)
	ledgerRepo.On("Save", mock.MatchedBy(inTx), mock.Anything).Return(nil)

	require.NoError(t, handler.Handle(ctx, event))
	assert.Equal(t, 1, txm.calls)
	userRepo.AssertExpectations(t)
	ledgerRepo.AssertExpectations(t)
}
