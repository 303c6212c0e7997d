package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/granada-os/backend/internal/domain/shared"
	"github.com/granada-os/backend/internal/infrastructure/cache"
)

// MockEventHandler mocks shared.EventHandler.
type MockEventHandler struct {
	mock.Mock
}

func (m *MockEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventHandler) EventTypes() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

// MockIdempotencyStore mocks shared.IdempotencyStore.
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, eventID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestIdempotentHandler_Handle(t *testing.T) {
	t.Run("first delivery reaches the inner handler", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()

		inner := new(MockEventHandler)
		evt := newFundingEvent("UserRegistered")
		inner.On("Handle", mock.Anything, evt).Return(nil)

		handler := NewIdempotentHandler(inner, store, zap.NewNop())
		require.NoError(t, handler.Handle(context.Background(), evt))

		inner.AssertExpectations(t)
		assert.Equal(t, int64(1), handler.metrics.EventsProcessed.Load())
		assert.Equal(t, int64(0), handler.metrics.EventsDuplicate.Load())
	})

	t.Run("redeliveries are swallowed", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()

		inner := new(MockEventHandler)
		evt := newFundingEvent("UserRegistered")
		inner.On("Handle", mock.Anything, evt).Return(nil).Once()

		handler := NewIdempotentHandler(inner, store, zap.NewNop())
		for range 3 {
			require.NoError(t, handler.Handle(context.Background(), evt))
		}

		inner.AssertExpectations(t)
		assert.Equal(t, int64(1), handler.metrics.EventsProcessed.Load())
		assert.Equal(t, int64(2), handler.metrics.EventsDuplicate.Load())
	})

	t.Run("inner handler failure is surfaced", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()

		inner := new(MockEventHandler)
		evt := newFundingEvent("PaymentSucceeded")
		wantErr := errors.New("credit grant failed")
		inner.On("Handle", mock.Anything, evt).Return(wantErr)

		handler := NewIdempotentHandler(inner, store, zap.NewNop())
		err := handler.Handle(context.Background(), evt)

		require.ErrorIs(t, err, wantErr)
		assert.Equal(t, int64(0), handler.metrics.EventsProcessed.Load())
		assert.Equal(t, int64(1), handler.metrics.EventsFailed.Load())
	})

	t.Run("store outage fails open", func(t *testing.T) {
		brokenStore := new(MockIdempotencyStore)
		inner := new(MockEventHandler)
		evt := newFundingEvent("UserRegistered")

		brokenStore.On("MarkProcessed", mock.Anything, evt.EventID().String(), mock.Anything).
			Return(false, errors.New("redis timeout"))
		inner.On("Handle", mock.Anything, evt).Return(nil)

		handler := NewIdempotentHandler(inner, brokenStore, zap.NewNop())
		require.NoError(t, handler.Handle(context.Background(), evt))

		brokenStore.AssertExpectations(t)
		inner.AssertExpectations(t)
	})

	t.Run("disabled config bypasses the store", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()

		inner := new(MockEventHandler)
		evt := newFundingEvent("UserRegistered")
		inner.On("Handle", mock.Anything, evt).Return(nil).Times(3)

		cfg := shared.DefaultIdempotencyConfig()
		cfg.Enabled = false
		handler := NewIdempotentHandler(inner, store, zap.NewNop(), WithIdempotencyConfig(cfg))

		for range 3 {
			require.NoError(t, handler.Handle(context.Background(), evt))
		}

		inner.AssertExpectations(t)
		assert.Equal(t, int64(0), handler.metrics.EventsProcessed.Load())
	})
}

func TestIdempotentHandler_EventTypes(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := new(MockEventHandler)
	inner.On("EventTypes").Return([]string{"UserRegistered", "PaymentSucceeded"})

	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	assert.Equal(t, []string{"UserRegistered", "PaymentSucceeded"}, handler.EventTypes())
	inner.AssertExpectations(t)
}

func TestIdempotentHandler_SharedMetrics(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	metrics := &IdempotencyMetrics{}

	mailer := new(MockEventHandler)
	grantor := new(MockEventHandler)
	registered := newFundingEvent("UserRegistered")
	paid := newFundingEvent("PaymentSucceeded")
	mailer.On("Handle", mock.Anything, registered).Return(nil)
	grantor.On("Handle", mock.Anything, paid).Return(nil)

	h1 := NewIdempotentHandler(mailer, store, zap.NewNop(), WithIdempotencyMetrics(metrics))
	h2 := NewIdempotentHandler(grantor, store, zap.NewNop(), WithIdempotencyMetrics(metrics))

	require.NoError(t, h1.Handle(context.Background(), registered))
	require.NoError(t, h2.Handle(context.Background(), paid))

	assert.Equal(t, int64(2), metrics.EventsProcessed.Load())
	mailer.AssertExpectations(t)
	grantor.AssertExpectations(t)
}

func TestIdempotencyMetrics_Stats(t *testing.T) {
	metrics := &IdempotencyMetrics{}
	metrics.EventsProcessed.Add(10)
	metrics.EventsDuplicate.Add(5)
	metrics.EventsFailed.Add(2)

	stats := metrics.Stats()

	assert.Equal(t, int64(10), stats.EventsProcessed)
	assert.Equal(t, int64(5), stats.EventsDuplicate)
	assert.Equal(t, int64(2), stats.EventsFailed)
}

func TestIdempotentHandler_ConcurrentDeliveries(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := new(MockEventHandler)
	evt := newFundingEvent("PaymentSucceeded")
	inner.On("Handle", mock.Anything, evt).Return(nil).Once()

	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	const deliveries = 50
	errCh := make(chan error, deliveries)
	for range deliveries {
		go func() {
			errCh <- handler.Handle(context.Background(), evt)
		}()
	}
	for range deliveries {
		assert.NoError(t, <-errCh)
	}

	inner.AssertExpectations(t)
	assert.Equal(t, int64(1), handler.metrics.EventsProcessed.Load())
	assert.Equal(t, int64(deliveries-1), handler.metrics.EventsDuplicate.Load())
}
