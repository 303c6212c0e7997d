package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/granada-os/backend/internal/domain/analytics"
	"go.uber.org/zap"
)

// SnapshotHandler receives behavior snapshots as they are flushed.
// Delivery is best-effort: a handler error is logged and the snapshot
// is not redelivered.
type SnapshotHandler interface {
	// HandleSnapshot processes one flushed snapshot
	HandleSnapshot(ctx context.Context, snapshot *analytics.BehaviorSnapshot) error
}

// CollectorConfig holds collector settings
type CollectorConfig struct {
	// FlushInterval is how often buffered sessions are flushed
	FlushInterval time.Duration
	// SessionTTL is how long an idle session is kept before eviction
	SessionTTL time.Duration
}

// DefaultCollectorConfig returns the default configuration
func DefaultCollectorConfig() CollectorConfig {
	return CollectorConfig{
		FlushInterval: 2 * time.Second,
		SessionTTL:    30 * time.Minute,
	}
}

// Collector ingests raw interaction events, maintains per-session
// ring buffers, and periodically flushes behavior snapshots. All
// session access is serialized through the collector's mutex.
type Collector struct {
	config          CollectorConfig
	interactionRepo analytics.InteractionRepository
	snapshotRepo    analytics.SnapshotRepository
	geo             analytics.GeoResolver
	logger          *zap.Logger

	mu       sync.Mutex
	sessions map[string]*analytics.Session
	handlers []SnapshotHandler

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCollector creates a new collector. The geo resolver is optional;
// pass nil to skip location enrichment.
func NewCollector(
	config CollectorConfig,
	interactionRepo analytics.InteractionRepository,
	snapshotRepo analytics.SnapshotRepository,
	geo analytics.GeoResolver,
	logger *zap.Logger,
) *Collector {
	return &Collector{
		config:          config,
		interactionRepo: interactionRepo,
		snapshotRepo:    snapshotRepo,
		geo:             geo,
		logger:          logger,
		sessions:        make(map[string]*analytics.Session),
	}
}

// RegisterHandler adds a snapshot handler. Handlers must be
// registered before Start.
func (c *Collector) RegisterHandler(handler SnapshotHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Start launches the periodic flush loop
func (c *Collector) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.flushLoop(ctx)

	c.logger.Info("analytics collector started",
		zap.Duration("flush_interval", c.config.FlushInterval),
		zap.Duration("session_ttl", c.config.SessionTTL),
	)

	return nil
}

// Stop gracefully stops the collector. Buffered sessions are flushed
// a final time so no recorded activity is lost.
func (c *Collector) Stop(ctx context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	c.flushAll(ctx, time.Now())

	c.mu.Lock()
	c.sessions = make(map[string]*analytics.Session)
	c.mu.Unlock()

	c.logger.Info("analytics collector stopped")
	return nil
}

// Ingest records a batch of raw events against its session. The
// session is created on first sight and flushed early when its
// pending volume crosses the flush threshold.
func (c *Collector) Ingest(ctx context.Context, batch analytics.EventBatch) error {
	if err := batch.Validate(); err != nil {
		return err
	}

	now := time.Now()
	location := c.resolveLocation(batch.ClientIP)

	c.mu.Lock()
	session, ok := c.sessions[batch.SessionID]
	if !ok {
		session = analytics.NewSession(batch.SessionID, now)
		session.UserID = batch.UserID
		session.Page = batch.Page
		session.Location = location
		c.sessions[batch.SessionID] = session
	}

	for _, event := range batch.Events {
		session.Record(event, now)
	}

	var snapshot *analytics.BehaviorSnapshot
	if session.NeedsFlush() {
		snapshot = session.Flush(now)
	}
	c.mu.Unlock()

	interaction := analytics.NewUserInteraction(batch, location)
	if err := c.interactionRepo.Save(ctx, interaction); err != nil {
		c.logger.Error("failed to save interaction",
			zap.String("session_id", batch.SessionID),
			zap.Error(err))
	}

	if snapshot != nil {
		c.deliver(ctx, snapshot)
	}
	return nil
}

// SessionCount returns the number of live sessions
func (c *Collector) SessionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

func (c *Collector) flushLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			c.flushAll(ctx, now)
			c.evictIdle(now)
		}
	}
}

// flushAll flushes every session with pending activity
func (c *Collector) flushAll(ctx context.Context, now time.Time) {
	c.mu.Lock()
	snapshots := make([]*analytics.BehaviorSnapshot, 0, len(c.sessions))
	for _, session := range c.sessions {
		if snapshot := session.Flush(now); snapshot != nil {
			snapshots = append(snapshots, snapshot)
		}
	}
	c.mu.Unlock()

	for _, snapshot := range snapshots {
		c.deliver(ctx, snapshot)
	}
}

// evictIdle drops sessions idle for longer than the TTL
func (c *Collector) evictIdle(now time.Time) {
	cutoff := now.Add(-c.config.SessionTTL)

	c.mu.Lock()
	defer c.mu.Unlock()
	for id, session := range c.sessions {
		if session.IdleSince(cutoff) {
			delete(c.sessions, id)
		}
	}
}

// deliver persists a snapshot and fans it out to the registered
// handlers. Failures are logged and the snapshot is dropped.
func (c *Collector) deliver(ctx context.Context, snapshot *analytics.BehaviorSnapshot) {
	if err := c.snapshotRepo.Save(ctx, snapshot); err != nil {
		c.logger.Error("failed to save behavior snapshot",
			zap.String("session_id", snapshot.SessionID),
			zap.Error(err))
	}

	c.mu.Lock()
	handlers := make([]SnapshotHandler, len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, handler := range handlers {
		if err := handler.HandleSnapshot(ctx, snapshot); err != nil {
			c.logger.Warn("snapshot handler failed",
				zap.String("session_id", snapshot.SessionID),
				zap.Error(err))
		}
	}
}

func (c *Collector) resolveLocation(clientIP string) analytics.Location {
	if c.geo == nil || clientIP == "" {
		return analytics.Location{}
	}

	location, err := c.geo.Resolve(clientIP)
	if err != nil {
		c.logger.Debug("geo resolution failed",
			zap.String("ip", clientIP),
			zap.Error(err))
		return analytics.Location{}
	}
	return location
}
