package event

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/granada-os/backend/internal/domain/shared"
)

// stubOutboxRepo backs the service with a plain map.
type stubOutboxRepo struct {
	rows map[uuid.UUID]*shared.OutboxEntry
}

func newStubOutboxRepo() *stubOutboxRepo {
	return &stubOutboxRepo{rows: make(map[uuid.UUID]*shared.OutboxEntry)}
}

func (r *stubOutboxRepo) add(entry *shared.OutboxEntry) *shared.OutboxEntry {
	r.rows[entry.ID] = entry
	return entry
}

func (r *stubOutboxRepo) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	for _, e := range entries {
		r.rows[e.ID] = e
	}
	return nil
}

func (r *stubOutboxRepo) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	return nil, nil
}

func (r *stubOutboxRepo) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	return nil, nil
}

func (r *stubOutboxRepo) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	var dead []*shared.OutboxEntry
	for _, e := range r.rows {
		if e.Status == shared.OutboxStatusDead {
			dead = append(dead, e)
		}
	}
	total := int64(len(dead))

	start := (page - 1) * pageSize
	if start >= len(dead) {
		return nil, total, nil
	}
	end := min(start+pageSize, len(dead))
	return dead[start:end], total, nil
}

func (r *stubOutboxRepo) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	return r.rows[id], nil
}

func (r *stubOutboxRepo) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	return nil, nil
}

func (r *stubOutboxRepo) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	r.rows[entry.ID] = entry
	return nil
}

func (r *stubOutboxRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (r *stubOutboxRepo) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	counts := make(map[shared.OutboxStatus]int64)
	for _, e := range r.rows {
		counts[e.Status]++
	}
	return counts, nil
}

func deadOutboxRow(eventType string) *shared.OutboxEntry {
	return &shared.OutboxEntry{
		ID:            uuid.New(),
		EventID:       uuid.New(),
		EventType:     eventType,
		AggregateID:   uuid.New(),
		AggregateType: "Proposal",
		Status:        shared.OutboxStatusDead,
		RetryCount:    5,
		MaxRetries:    5,
		LastError:     "notification handler unavailable",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func TestOutboxService_GetDeadLetterEntries(t *testing.T) {
	repo := newStubOutboxRepo()
	service := NewOutboxService(repo, zap.NewNop())

	for range 5 {
		repo.add(deadOutboxRow("ProposalSubmitted"))
	}
	repo.add(&shared.OutboxEntry{ID: uuid.New(), Status: shared.OutboxStatusPending})

	t.Run("lists only dead rows", func(t *testing.T) {
		result, err := service.GetDeadLetterEntries(context.Background(), OutboxFilter{Page: 1, PageSize: 10})

		require.NoError(t, err)
		assert.Equal(t, int64(5), result.Total)
		require.Len(t, result.Entries, 5)
		for _, entry := range result.Entries {
			assert.Equal(t, "DEAD", entry.Status)
		}
	})

	t.Run("zero filter falls back to defaults", func(t *testing.T) {
		result, err := service.GetDeadLetterEntries(context.Background(), OutboxFilter{})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Page)
		assert.Equal(t, defaultOutboxPageSize, result.PageSize)
	})

	t.Run("oversized page size is capped", func(t *testing.T) {
		result, err := service.GetDeadLetterEntries(context.Background(), OutboxFilter{Page: 1, PageSize: 500})

		require.NoError(t, err)
		assert.Equal(t, maxOutboxPageSize, result.PageSize)
	})
}

func TestOutboxService_RetryDeadEntry(t *testing.T) {
	t.Run("requeues a dead row", func(t *testing.T) {
		repo := newStubOutboxRepo()
		service := NewOutboxService(repo, zap.NewNop())
		dead := repo.add(deadOutboxRow("PaymentSucceeded"))

		result, err := service.RetryDeadEntry(context.Background(), dead.ID)

		require.NoError(t, err)
		assert.Equal(t, "PENDING", result.Status)
		assert.Equal(t, 0, result.RetryCount)
		assert.Empty(t, result.LastError)
	})

	t.Run("unknown id", func(t *testing.T) {
		service := NewOutboxService(newStubOutboxRepo(), zap.NewNop())

		_, err := service.RetryDeadEntry(context.Background(), uuid.New())
		assert.Error(t, err)
	})

	t.Run("refuses a live row", func(t *testing.T) {
		repo := newStubOutboxRepo()
		service := NewOutboxService(repo, zap.NewNop())
		pending := repo.add(&shared.OutboxEntry{ID: uuid.New(), Status: shared.OutboxStatusPending})

		_, err := service.RetryDeadEntry(context.Background(), pending.ID)
		assert.Error(t, err)
	})
}

func TestOutboxService_RetryAllDeadEntries(t *testing.T) {
	repo := newStubOutboxRepo()
	service := NewOutboxService(repo, zap.NewNop())

	for range 3 {
		repo.add(deadOutboxRow("UserRegistered"))
	}
	untouched := repo.add(&shared.OutboxEntry{ID: uuid.New(), Status: shared.OutboxStatusSent})

	count, err := service.RetryAllDeadEntries(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	for _, entry := range repo.rows {
		if entry.ID == untouched.ID {
			assert.Equal(t, shared.OutboxStatusSent, entry.Status)
			continue
		}
		assert.Equal(t, shared.OutboxStatusPending, entry.Status)
		assert.Equal(t, 0, entry.RetryCount)
	}
}

func TestOutboxService_GetStats(t *testing.T) {
	repo := newStubOutboxRepo()
	service := NewOutboxService(repo, zap.NewNop())

	for _, status := range []shared.OutboxStatus{
		shared.OutboxStatusPending,
		shared.OutboxStatusPending,
		shared.OutboxStatusProcessing,
		shared.OutboxStatusSent,
		shared.OutboxStatusSent,
		shared.OutboxStatusSent,
		shared.OutboxStatusFailed,
		shared.OutboxStatusDead,
	} {
		repo.add(&shared.OutboxEntry{ID: uuid.New(), Status: status})
	}

	stats, err := service.GetStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(1), stats.Processing)
	assert.Equal(t, int64(3), stats.Sent)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int64(1), stats.Dead)
	assert.Equal(t, int64(8), stats.Total)
}
