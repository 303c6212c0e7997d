package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/shared"
)

// EventType classifies a raw client interaction event
type EventType string

const (
	EventTypeMouseMove EventType = "mouse_move"
	EventTypeClick     EventType = "click"
	EventTypeScroll    EventType = "scroll"
	EventTypeKeyPress  EventType = "key_press"
	EventTypeFocus     EventType = "focus"
	EventTypeBlur      EventType = "blur"
	EventTypeTouch     EventType = "touch"
)

// IsValid checks if the event type is known
func (t EventType) IsValid() bool {
	switch t {
	case EventTypeMouseMove, EventTypeClick, EventTypeScroll,
		EventTypeKeyPress, EventTypeFocus, EventTypeBlur, EventTypeTouch:
		return true
	}
	return false
}

// RawEvent is one interaction sample reported by a client
type RawEvent struct {
	Type         EventType `json:"type"`
	X            float64   `json:"x,omitempty"`
	Y            float64   `json:"y,omitempty"`
	ScrollTop    float64   `json:"scroll_top,omitempty"`
	ElementClass string    `json:"element_class,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// EventBatch is a group of raw events shipped by one client session
type EventBatch struct {
	SessionID string
	UserID    *uuid.UUID
	Page      string
	ClientIP  string
	Events    []RawEvent
}

// Validate checks the batch shape before ingestion
func (b EventBatch) Validate() error {
	if b.SessionID == "" {
		return shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}
	if len(b.Events) == 0 {
		return shared.NewDomainError("EMPTY_BATCH", "Event batch cannot be empty")
	}
	for _, e := range b.Events {
		if !e.Type.IsValid() {
			return shared.NewDomainError("INVALID_EVENT_TYPE", "Unknown event type: "+string(e.Type))
		}
	}
	return nil
}

// Location is a coarse geographic resolution of a client IP
type Location struct {
	Country string
	City    string
}

// GeoResolver maps a client IP to a location. Resolution is best
// effort; callers treat failures as non-fatal.
type GeoResolver interface {
	Resolve(ip string) (Location, error)
}
