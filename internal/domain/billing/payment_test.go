package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/shared"
	"github.com/granada-os/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayment(t *testing.T) *PaymentTransaction {
	t.Helper()
	pkg, err := FindPackage("starter")
	require.NoError(t, err)

	payment, err := NewPaymentTransaction(uuid.New(), pkg, pkg.Price, valueobject.ZeroUSD(), "", "1111", "idem-1")
	require.NoError(t, err)
	return payment
}

func TestNewPaymentTransaction(t *testing.T) {
	t.Run("starts pending with package snapshot", func(t *testing.T) {
		payment := newTestPayment(t)

		assert.Equal(t, PaymentStatusPending, payment.Status)
		assert.Equal(t, "starter", payment.PackageID)
		assert.Equal(t, 50, payment.Credits)
		assert.Nil(t, payment.ProcessedAt)
		assert.Empty(t, payment.GetDomainEvents())
	})

	t.Run("rejects missing user and package", func(t *testing.T) {
		pkg, err := FindPackage("starter")
		require.NoError(t, err)

		_, err = NewPaymentTransaction(uuid.Nil, pkg, pkg.Price, valueobject.ZeroUSD(), "", "1111", "idem-1")
		assert.Error(t, err)

		_, err = NewPaymentTransaction(uuid.New(), CreditPackage{}, pkg.Price, valueobject.ZeroUSD(), "", "1111", "idem-1")
		assert.Error(t, err)
	})
}

func TestPaymentTransaction_MarkSucceeded(t *testing.T) {
	t.Run("records authorization and emits event", func(t *testing.T) {
		payment := newTestPayment(t)

		err := payment.MarkSucceeded("AUTH-123")
		require.NoError(t, err)

		assert.Equal(t, PaymentStatusSucceeded, payment.Status)
		assert.Equal(t, "AUTH-123", payment.AuthorizationID)
		require.NotNil(t, payment.ProcessedAt)

		events := payment.GetDomainEvents()
		require.Len(t, events, 1)
		event, ok := events[0].(*PaymentSucceededEvent)
		require.True(t, ok)
		assert.Equal(t, payment.UserID, event.UserID)
		assert.Equal(t, 50, event.Credits)
	})

	t.Run("only a pending payment can succeed", func(t *testing.T) {
		payment := newTestPayment(t)
		require.NoError(t, payment.MarkFailed("card declined"))

		err := payment.MarkSucceeded("AUTH-123")
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestPaymentTransaction_MarkFailed(t *testing.T) {
	t.Run("records reason and emits event", func(t *testing.T) {
		payment := newTestPayment(t)

		err := payment.MarkFailed("card declined")
		require.NoError(t, err)

		assert.Equal(t, PaymentStatusFailed, payment.Status)
		assert.Equal(t, "card declined", payment.FailureReason)
		require.NotNil(t, payment.ProcessedAt)

		events := payment.GetDomainEvents()
		require.Len(t, events, 1)
		event, ok := events[0].(*PaymentFailedEvent)
		require.True(t, ok)
		assert.Equal(t, "card declined", event.Reason)
	})

	t.Run("terminal payments cannot fail again", func(t *testing.T) {
		payment := newTestPayment(t)
		require.NoError(t, payment.MarkSucceeded("AUTH-123"))

		err := payment.MarkFailed("late decline")
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}
