package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPurchaseTransaction(t *testing.T) {
	userID := uuid.New()
	paymentID := uuid.New()

	t.Run("balance arithmetic enforced at construction", func(t *testing.T) {
		tx, err := NewPurchaseTransaction(userID, 150, 30, paymentID, "Standard package")
		require.NoError(t, err)

		assert.Equal(t, CreditTransactionTypePurchase, tx.TransactionType)
		assert.Equal(t, 150, tx.Amount)
		assert.Equal(t, 30, tx.BalanceBefore)
		assert.Equal(t, 180, tx.BalanceAfter)
		require.NotNil(t, tx.Reference)
		assert.Equal(t, paymentID.String(), *tx.Reference)
	})

	t.Run("rejects non-positive credits", func(t *testing.T) {
		_, err := NewPurchaseTransaction(userID, 0, 30, paymentID, "")
		assert.Error(t, err)
		_, err = NewPurchaseTransaction(userID, -10, 30, paymentID, "")
		assert.Error(t, err)
	})
}

func TestNewDeductionTransaction(t *testing.T) {
	userID := uuid.New()

	t.Run("stores a negative amount", func(t *testing.T) {
		tx, err := NewDeductionTransaction(userID, 5, 100, "proposal-submit", "Proposal submission")
		require.NoError(t, err)

		assert.Equal(t, -5, tx.Amount)
		assert.Equal(t, 95, tx.BalanceAfter)
		assert.False(t, tx.IsIncrease())
	})

	t.Run("cannot overdraw the balance", func(t *testing.T) {
		_, err := NewDeductionTransaction(userID, 50, 30, "", "")
		assert.ErrorIs(t, err, shared.ErrInsufficientCredits)
	})
}

func TestNewAdjustmentTransaction(t *testing.T) {
	userID := uuid.New()
	adminID := uuid.New()

	t.Run("positive and negative deltas", func(t *testing.T) {
		up, err := NewAdjustmentTransaction(userID, 25, 100, adminID, "Support goodwill")
		require.NoError(t, err)
		assert.Equal(t, 125, up.BalanceAfter)
		require.NotNil(t, up.OperatorID)
		assert.Equal(t, adminID, *up.OperatorID)

		down, err := NewAdjustmentTransaction(userID, -40, 100, adminID, "Chargeback")
		require.NoError(t, err)
		assert.Equal(t, 60, down.BalanceAfter)
	})

	t.Run("rejects adjustments that would go negative", func(t *testing.T) {
		_, err := NewAdjustmentTransaction(userID, -101, 100, adminID, "Too much")
		assert.ErrorIs(t, err, shared.ErrInsufficientCredits)
	})

	t.Run("requires operator and reason", func(t *testing.T) {
		_, err := NewAdjustmentTransaction(userID, 10, 100, uuid.Nil, "reason")
		assert.Error(t, err)
		_, err = NewAdjustmentTransaction(userID, 10, 100, adminID, "  ")
		assert.Error(t, err)
		_, err = NewAdjustmentTransaction(userID, 0, 100, adminID, "reason")
		assert.Error(t, err)
	})
}

func TestNewWelcomeBonusTransaction(t *testing.T) {
	tx, err := NewWelcomeBonusTransaction(uuid.New())
	require.NoError(t, err)

	assert.Equal(t, CreditTransactionTypeBonus, tx.TransactionType)
	assert.Equal(t, DefaultWelcomeCredits, tx.Amount)
	assert.Equal(t, 0, tx.BalanceBefore)
	assert.Equal(t, DefaultWelcomeCredits, tx.BalanceAfter)
	assert.True(t, tx.IsIncrease())
}
