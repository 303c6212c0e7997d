package event

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granada-os/backend/internal/domain/shared"
)

func TestNewOutboxEntry(t *testing.T) {
	evt := newFundingEvent("ProposalSubmitted")
	payload := []byte(`{"country":"UG"}`)

	entry := shared.NewOutboxEntry(evt, payload)

	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, evt.EventID(), entry.EventID)
	assert.Equal(t, "ProposalSubmitted", entry.EventType)
	assert.Equal(t, evt.AggregateID(), entry.AggregateID)
	assert.Equal(t, "FundingOpportunity", entry.AggregateType)
	assert.Equal(t, payload, entry.Payload)
	assert.Equal(t, shared.OutboxStatusPending, entry.Status)
	assert.Equal(t, 0, entry.RetryCount)
	assert.Equal(t, shared.DefaultMaxRetries, entry.MaxRetries)
}

func TestOutboxEntry_CanRetry(t *testing.T) {
	tests := []struct {
		name       string
		status     shared.OutboxStatus
		retryCount int
		want       bool
	}{
		{"pending is not retryable", shared.OutboxStatusPending, 0, false},
		{"failed with budget left is retryable", shared.OutboxStatusFailed, 2, true},
		{"failed at the retry cap is not", shared.OutboxStatusFailed, 5, false},
		{"dead is not retryable", shared.OutboxStatusDead, 5, false},
		{"sent is not retryable", shared.OutboxStatusSent, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &shared.OutboxEntry{
				Status:     tt.status,
				RetryCount: tt.retryCount,
				MaxRetries: 5,
			}
			assert.Equal(t, tt.want, entry.CanRetry())
		})
	}
}

func TestOutboxEntry_MarkProcessing(t *testing.T) {
	t.Run("claims a pending row", func(t *testing.T) {
		entry := &shared.OutboxEntry{Status: shared.OutboxStatusPending}
		require.NoError(t, entry.MarkProcessing())
		assert.Equal(t, shared.OutboxStatusProcessing, entry.Status)
	})

	t.Run("claims a failed row", func(t *testing.T) {
		entry := &shared.OutboxEntry{Status: shared.OutboxStatusFailed}
		require.NoError(t, entry.MarkProcessing())
		assert.Equal(t, shared.OutboxStatusProcessing, entry.Status)
	})

	t.Run("refuses a sent row", func(t *testing.T) {
		entry := &shared.OutboxEntry{Status: shared.OutboxStatusSent}
		require.Error(t, entry.MarkProcessing())
	})
}

func TestOutboxEntry_MarkSent(t *testing.T) {
	entry := &shared.OutboxEntry{Status: shared.OutboxStatusProcessing}

	entry.MarkSent()

	assert.Equal(t, shared.OutboxStatusSent, entry.Status)
	assert.NotNil(t, entry.ProcessedAt)
}

func TestOutboxEntry_MarkFailed(t *testing.T) {
	t.Run("first failure schedules a near retry", func(t *testing.T) {
		entry := &shared.OutboxEntry{
			Status:     shared.OutboxStatusProcessing,
			RetryCount: 0,
			MaxRetries: 5,
		}

		entry.MarkFailed("event bus unreachable")

		assert.Equal(t, shared.OutboxStatusFailed, entry.Status)
		assert.Equal(t, 1, entry.RetryCount)
		assert.Equal(t, "event bus unreachable", entry.LastError)
		require.NotNil(t, entry.NextRetryAt)
		assert.True(t, entry.NextRetryAt.After(time.Now()))
		assert.True(t, entry.NextRetryAt.Before(time.Now().Add(2*time.Second)))
	})

	t.Run("exhausting the retry budget dead-letters the row", func(t *testing.T) {
		entry := &shared.OutboxEntry{
			Status:     shared.OutboxStatusProcessing,
			RetryCount: 4,
			MaxRetries: 5,
		}

		entry.MarkFailed("still unreachable")

		assert.Equal(t, shared.OutboxStatusDead, entry.Status)
		assert.Equal(t, 5, entry.RetryCount)
		assert.True(t, entry.IsDead())
	})

	t.Run("backoff doubles per attempt", func(t *testing.T) {
		entry := &shared.OutboxEntry{
			Status:     shared.OutboxStatusProcessing,
			RetryCount: 3,
			MaxRetries: 5,
		}

		before := time.Now()
		entry.MarkFailed("timeout")

		// Attempt 4 waits 2^3 seconds.
		assert.True(t, entry.NextRetryAt.After(before.Add(7*time.Second)))
		assert.True(t, entry.NextRetryAt.Before(before.Add(10*time.Second)))
	})
}

func TestOutboxEntry_ResetForRetry(t *testing.T) {
	t.Run("revives a dead row", func(t *testing.T) {
		entry := &shared.OutboxEntry{
			Status:     shared.OutboxStatusDead,
			RetryCount: 5,
			MaxRetries: 5,
			LastError:  "gave up",
		}

		require.NoError(t, entry.ResetForRetry())

		assert.Equal(t, shared.OutboxStatusPending, entry.Status)
		assert.Equal(t, 0, entry.RetryCount)
		assert.Empty(t, entry.LastError)
		assert.Nil(t, entry.NextRetryAt)
	})

	t.Run("refuses a live row", func(t *testing.T) {
		entry := &shared.OutboxEntry{Status: shared.OutboxStatusFailed}
		require.Error(t, entry.ResetForRetry())
	})
}
