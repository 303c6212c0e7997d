package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/shared"
)

// BehaviorSnapshot is one flushed view of a session's derived metrics
type BehaviorSnapshot struct {
	shared.BaseEntity
	SessionID        string
	UserID           *uuid.UUID
	Page             string
	Country          string
	City             string
	EventCount       int
	ClickCount       int
	PointerDistance  float64
	ScrollDistance   float64
	HesitationRatio  float64
	FrustrationScore float64
	EngagementScore  float64
	ConfidenceScore  float64
	Intent           string
	CapturedAt       time.Time
}

// NewBehaviorSnapshot creates an empty snapshot for a session; the
// session flush fills in the metrics
func NewBehaviorSnapshot(s *Session, now time.Time) *BehaviorSnapshot {
	return &BehaviorSnapshot{
		BaseEntity: shared.NewBaseEntity(),
		SessionID:  s.ID,
		UserID:     s.UserID,
		Page:       s.Page,
		Country:    s.Location.Country,
		City:       s.Location.City,
		Intent:     IntentUnknown,
		CapturedAt: now,
	}
}

// SnapshotRepository persists flushed behavior snapshots
type SnapshotRepository interface {
	Save(ctx context.Context, snapshot *BehaviorSnapshot) error
	FindBySession(ctx context.Context, sessionID string, limit int) ([]*BehaviorSnapshot, error)
	FindRecent(ctx context.Context, limit int) ([]*BehaviorSnapshot, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// UserInteraction is an append-only record of one ingested batch
type UserInteraction struct {
	shared.BaseEntity
	SessionID  string
	UserID     *uuid.UUID
	Page       string
	ClientIP   string
	Country    string
	City       string
	EventCount int
}

// NewUserInteraction records an ingested batch
func NewUserInteraction(batch EventBatch, loc Location) *UserInteraction {
	return &UserInteraction{
		BaseEntity: shared.NewBaseEntity(),
		SessionID:  batch.SessionID,
		UserID:     batch.UserID,
		Page:       batch.Page,
		ClientIP:   batch.ClientIP,
		Country:    loc.Country,
		City:       loc.City,
		EventCount: len(batch.Events),
	}
}

// InteractionRepository persists interaction log rows
type InteractionRepository interface {
	Save(ctx context.Context, interaction *UserInteraction) error
	FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*UserInteraction, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}
