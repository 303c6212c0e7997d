package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/granada-os/backend/internal/domain/analytics"
)

type MockInteractionRepository struct {
	mock.Mock
}

func (m *MockInteractionRepository) Save(ctx context.Context, interaction *analytics.UserInteraction) error {
	args := m.Called(ctx, interaction)
	return args.Error(0)
}

func (m *MockInteractionRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*analytics.UserInteraction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*analytics.UserInteraction), args.Error(1)
}

func (m *MockInteractionRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Save(ctx context.Context, snapshot *analytics.BehaviorSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSnapshotRepository) FindBySession(ctx context.Context, sessionID string, limit int) ([]*analytics.BehaviorSnapshot, error) {
	args := m.Called(ctx, sessionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*analytics.BehaviorSnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) FindRecent(ctx context.Context, limit int) ([]*analytics.BehaviorSnapshot, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*analytics.BehaviorSnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type stubGeoResolver struct {
	location analytics.Location
	err      error
}

func (s *stubGeoResolver) Resolve(ip string) (analytics.Location, error) {
	if s.err != nil {
		return analytics.Location{}, s.err
	}
	return s.location, nil
}

type recordingHandler struct {
	snapshots []*analytics.BehaviorSnapshot
	err       error
}

func (h *recordingHandler) HandleSnapshot(ctx context.Context, snapshot *analytics.BehaviorSnapshot) error {
	h.snapshots = append(h.snapshots, snapshot)
	return h.err
}

type collectorFixture struct {
	collector       *Collector
	interactionRepo *MockInteractionRepository
	snapshotRepo    *MockSnapshotRepository
	geo             *stubGeoResolver
}

func newCollectorFixture() *collectorFixture {
	interactionRepo := new(MockInteractionRepository)
	snapshotRepo := new(MockSnapshotRepository)
	geo := &stubGeoResolver{location: analytics.Location{Country: "Kenya", City: "Nairobi"}}

	collector := NewCollector(DefaultCollectorConfig(), interactionRepo, snapshotRepo, geo, zap.NewNop())

	return &collectorFixture{
		collector:       collector,
		interactionRepo: interactionRepo,
		snapshotRepo:    snapshotRepo,
		geo:             geo,
	}
}

func testBatch(sessionID string, count int) analytics.EventBatch {
	events := make([]analytics.RawEvent, 0, count)
	for i := 0; i < count; i++ {
		events = append(events, analytics.RawEvent{
			Type:       analytics.EventTypeMouseMove,
			X:          float64(i * 10),
			Y:          float64(i * 5),
			OccurredAt: time.Now(),
		})
	}
	return analytics.EventBatch{
		SessionID: sessionID,
		Page:      "/opportunities",
		ClientIP:  "196.201.214.1",
		Events:    events,
	}
}

func TestCollector_Ingest(t *testing.T) {
	ctx := context.Background()

	t.Run("records batch and saves enriched interaction", func(t *testing.T) {
		f := newCollectorFixture()

		f.interactionRepo.On("Save", ctx, mock.MatchedBy(func(i *analytics.UserInteraction) bool {
			return i.SessionID == "sess-1" &&
				i.Country == "Kenya" &&
				i.City == "Nairobi" &&
				i.EventCount == 3
		})).Return(nil)

		err := f.collector.Ingest(ctx, testBatch("sess-1", 3))

		require.NoError(t, err)
		assert.Equal(t, 1, f.collector.SessionCount())
		f.interactionRepo.AssertExpectations(t)
	})

	t.Run("rejects empty batch", func(t *testing.T) {
		f := newCollectorFixture()

		err := f.collector.Ingest(ctx, analytics.EventBatch{SessionID: "sess-1"})

		require.Error(t, err)
		assert.Equal(t, 0, f.collector.SessionCount())
		f.interactionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown event type", func(t *testing.T) {
		f := newCollectorFixture()

		batch := testBatch("sess-1", 1)
		batch.Events[0].Type = "hover"

		err := f.collector.Ingest(ctx, batch)

		require.Error(t, err)
	})

	t.Run("geo resolution failure is non fatal", func(t *testing.T) {
		f := newCollectorFixture()
		f.geo.err = errors.New("ip not found")

		f.interactionRepo.On("Save", ctx, mock.MatchedBy(func(i *analytics.UserInteraction) bool {
			return i.Country == "" && i.City == ""
		})).Return(nil)

		err := f.collector.Ingest(ctx, testBatch("sess-1", 2))

		require.NoError(t, err)
	})

	t.Run("interaction save failure does not drop the batch", func(t *testing.T) {
		f := newCollectorFixture()

		f.interactionRepo.On("Save", ctx, mock.Anything).Return(errors.New("db down"))

		err := f.collector.Ingest(ctx, testBatch("sess-1", 2))

		require.NoError(t, err)
		assert.Equal(t, 1, f.collector.SessionCount())
	})

	t.Run("reuses session across batches", func(t *testing.T) {
		f := newCollectorFixture()

		f.interactionRepo.On("Save", ctx, mock.Anything).Return(nil)

		require.NoError(t, f.collector.Ingest(ctx, testBatch("sess-1", 2)))
		require.NoError(t, f.collector.Ingest(ctx, testBatch("sess-1", 2)))
		require.NoError(t, f.collector.Ingest(ctx, testBatch("sess-2", 2)))

		assert.Equal(t, 2, f.collector.SessionCount())
	})
}

func TestCollector_EarlyFlush(t *testing.T) {
	ctx := context.Background()

	t.Run("flushes when pending queue crosses the threshold", func(t *testing.T) {
		f := newCollectorFixture()
		handler := &recordingHandler{}
		f.collector.RegisterHandler(handler)

		f.interactionRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.snapshotRepo.On("Save", ctx, mock.MatchedBy(func(s *analytics.BehaviorSnapshot) bool {
			return s.SessionID == "sess-1" &&
				s.EventCount == analytics.FlushQueueThreshold+1 &&
				s.Country == "Kenya"
		})).Return(nil)

		err := f.collector.Ingest(ctx, testBatch("sess-1", analytics.FlushQueueThreshold+1))

		require.NoError(t, err)
		require.Len(t, handler.snapshots, 1)
		assert.Equal(t, "sess-1", handler.snapshots[0].SessionID)
		f.snapshotRepo.AssertExpectations(t)
	})

	t.Run("no flush below the threshold", func(t *testing.T) {
		f := newCollectorFixture()
		handler := &recordingHandler{}
		f.collector.RegisterHandler(handler)

		f.interactionRepo.On("Save", ctx, mock.Anything).Return(nil)

		err := f.collector.Ingest(ctx, testBatch("sess-1", 5))

		require.NoError(t, err)
		assert.Empty(t, handler.snapshots)
		f.snapshotRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("handler failure is logged and dropped", func(t *testing.T) {
		f := newCollectorFixture()
		failing := &recordingHandler{err: errors.New("sink unavailable")}
		healthy := &recordingHandler{}
		f.collector.RegisterHandler(failing)
		f.collector.RegisterHandler(healthy)

		f.interactionRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.snapshotRepo.On("Save", ctx, mock.Anything).Return(nil)

		err := f.collector.Ingest(ctx, testBatch("sess-1", analytics.FlushQueueThreshold+1))

		require.NoError(t, err)
		assert.Len(t, failing.snapshots, 1)
		assert.Len(t, healthy.snapshots, 1)
	})
}

func TestCollector_PeriodicFlush(t *testing.T) {
	ctx := context.Background()

	t.Run("flushAll emits snapshots for pending sessions only", func(t *testing.T) {
		f := newCollectorFixture()
		handler := &recordingHandler{}
		f.collector.RegisterHandler(handler)

		f.interactionRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.snapshotRepo.On("Save", ctx, mock.Anything).Return(nil)

		require.NoError(t, f.collector.Ingest(ctx, testBatch("sess-1", 3)))
		require.NoError(t, f.collector.Ingest(ctx, testBatch("sess-2", 4)))

		f.collector.flushAll(ctx, time.Now())
		require.Len(t, handler.snapshots, 2)

		// nothing new since the last flush
		f.collector.flushAll(ctx, time.Now())
		assert.Len(t, handler.snapshots, 2)
	})

	t.Run("evicts sessions idle past the TTL", func(t *testing.T) {
		f := newCollectorFixture()

		f.interactionRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.snapshotRepo.On("Save", ctx, mock.Anything).Return(nil)

		require.NoError(t, f.collector.Ingest(ctx, testBatch("stale", 2)))
		require.NoError(t, f.collector.Ingest(ctx, testBatch("fresh", 2)))

		f.collector.mu.Lock()
		f.collector.sessions["stale"].LastSeenAt = time.Now().Add(-time.Hour)
		f.collector.mu.Unlock()

		f.collector.flushAll(ctx, time.Now())
		f.collector.evictIdle(time.Now())

		assert.Equal(t, 1, f.collector.SessionCount())
	})
}

func TestCollector_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("stop flushes buffered sessions", func(t *testing.T) {
		f := newCollectorFixture()
		f.collector.config.FlushInterval = time.Hour
		handler := &recordingHandler{}
		f.collector.RegisterHandler(handler)

		f.interactionRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.snapshotRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, f.collector.Start(ctx))
		require.NoError(t, f.collector.Ingest(ctx, testBatch("sess-1", 3)))

		require.NoError(t, f.collector.Stop(ctx))

		require.Len(t, handler.snapshots, 1)
		assert.Equal(t, 3, handler.snapshots[0].EventCount)
		assert.Equal(t, 0, f.collector.SessionCount())
	})

	t.Run("stop is bounded by the caller context", func(t *testing.T) {
		f := newCollectorFixture()
		f.collector.config.FlushInterval = time.Hour

		require.NoError(t, f.collector.Start(ctx))

		stopCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		require.NoError(t, f.collector.Stop(stopCtx))
	})
}
