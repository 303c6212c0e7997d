package analytics

import (
	"time"

	"github.com/google/uuid"
)

// Buffer capacities for recent event history, per session
const (
	MouseBufferCap  = 1000
	ScrollBufferCap = 500
	ClickBufferCap  = 200
	KeyBufferCap    = 300

	// FlushQueueThreshold forces an early flush when a session has
	// this many unprocessed events queued
	FlushQueueThreshold = 50
)

// ringBuffer keeps the most recent events up to a fixed capacity
type ringBuffer struct {
	events []RawEvent
	cap    int
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{cap: capacity}
}

func (b *ringBuffer) push(e RawEvent) {
	if len(b.events) == b.cap {
		copy(b.events, b.events[1:])
		b.events[len(b.events)-1] = e
		return
	}
	b.events = append(b.events, e)
}

func (b *ringBuffer) snapshot() []RawEvent {
	out := make([]RawEvent, len(b.events))
	copy(out, b.events)
	return out
}

func (b *ringBuffer) len() int {
	return len(b.events)
}

// Session accumulates one client session's recent events. It is not
// safe for concurrent use; the collector serializes access.
type Session struct {
	ID         string
	UserID     *uuid.UUID
	Page       string
	Location   Location
	StartedAt  time.Time
	LastSeenAt time.Time

	mouse  *ringBuffer
	scroll *ringBuffer
	clicks *ringBuffer
	keys   *ringBuffer

	pending int
}

// NewSession creates an empty session
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:         id,
		StartedAt:  now,
		LastSeenAt: now,
		mouse:      newRingBuffer(MouseBufferCap),
		scroll:     newRingBuffer(ScrollBufferCap),
		clicks:     newRingBuffer(ClickBufferCap),
		keys:       newRingBuffer(KeyBufferCap),
	}
}

// Record routes one event into the session's buffers
func (s *Session) Record(e RawEvent, now time.Time) {
	switch e.Type {
	case EventTypeMouseMove, EventTypeTouch:
		s.mouse.push(e)
	case EventTypeScroll:
		s.scroll.push(e)
	case EventTypeClick:
		s.clicks.push(e)
	case EventTypeKeyPress:
		s.keys.push(e)
	default:
		// focus/blur contribute to volume only
	}
	s.pending++
	s.LastSeenAt = now
}

// PendingCount returns the number of events queued since the last flush
func (s *Session) PendingCount() int {
	return s.pending
}

// NeedsFlush reports whether the pending queue exceeded the threshold
func (s *Session) NeedsFlush() bool {
	return s.pending > FlushQueueThreshold
}

// IdleSince reports whether the session has been idle past the cutoff
func (s *Session) IdleSince(cutoff time.Time) bool {
	return s.LastSeenAt.Before(cutoff)
}

// MouseSampleCount returns the buffered mouse sample count
func (s *Session) MouseSampleCount() int { return s.mouse.len() }

// ScrollSampleCount returns the buffered scroll sample count
func (s *Session) ScrollSampleCount() int { return s.scroll.len() }

// ClickCount returns the buffered click count
func (s *Session) ClickCount() int { return s.clicks.len() }

// KeySampleCount returns the buffered key press count
func (s *Session) KeySampleCount() int { return s.keys.len() }

// Flush computes a snapshot over the buffered history and resets the
// pending queue. Returns nil when nothing happened since the last flush.
func (s *Session) Flush(now time.Time) *BehaviorSnapshot {
	if s.pending == 0 {
		return nil
	}

	mouse := s.mouse.snapshot()
	scrolls := s.scroll.snapshot()
	clicks := s.clicks.snapshot()

	hesitation := HesitationRatio(mouse)
	frustration := FrustrationScore(mouse, clicks, scrolls)

	snapshot := NewBehaviorSnapshot(s, now)
	snapshot.EventCount = s.pending
	snapshot.ClickCount = len(clicks)
	snapshot.PointerDistance = PointerDistance(mouse)
	snapshot.ScrollDistance = ScrollDistance(scrolls)
	snapshot.HesitationRatio = hesitation
	snapshot.FrustrationScore = frustration
	snapshot.EngagementScore = EngagementScore(len(clicks), s.keys.len(), snapshot.ScrollDistance, snapshot.PointerDistance)
	snapshot.ConfidenceScore = ConfidenceScore(hesitation, frustration)
	snapshot.Intent = InferIntent(clicks)

	s.pending = 0
	return snapshot
}
