package proposal

import (
	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/shared"
)

// Aggregate type constant for Proposal
const AggregateTypeProposal = "Proposal"

// Proposal domain event types
const (
	EventTypeProposalSubmitted     = "ProposalSubmitted"
	EventTypeProposalStatusChanged = "ProposalStatusChanged"
	EventTypeProposalStatusForced  = "ProposalStatusForced"
)

// ProposalSubmittedEvent is published when a proposal is submitted
type ProposalSubmittedEvent struct {
	shared.BaseDomainEvent
	UserID        uuid.UUID `json:"user_id"`
	OpportunityID uuid.UUID `json:"opportunity_id"`
	Title         string    `json:"title"`
}

// NewProposalSubmittedEvent creates a new ProposalSubmittedEvent
func NewProposalSubmittedEvent(p *Proposal) *ProposalSubmittedEvent {
	return &ProposalSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProposalSubmitted, AggregateTypeProposal, p.ID),
		UserID:          p.UserID,
		OpportunityID:   p.OpportunityID,
		Title:           p.Title,
	}
}

// ProposalStatusChangedEvent is published on every transition
type ProposalStatusChangedEvent struct {
	shared.BaseDomainEvent
	UserID    uuid.UUID `json:"user_id"`
	OldStatus Status    `json:"old_status"`
	NewStatus Status    `json:"new_status"`
}

// NewProposalStatusChangedEvent creates a new ProposalStatusChangedEvent
func NewProposalStatusChangedEvent(p *Proposal, from, to Status) *ProposalStatusChangedEvent {
	return &ProposalStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProposalStatusChanged, AggregateTypeProposal, p.ID),
		UserID:          p.UserID,
		OldStatus:       from,
		NewStatus:       to,
	}
}

// ProposalStatusForcedEvent is published when an admin overrides the
// transition graph; the acting admin is recorded
type ProposalStatusForcedEvent struct {
	shared.BaseDomainEvent
	UserID    uuid.UUID `json:"user_id"`
	ActorID   uuid.UUID `json:"actor_id"`
	OldStatus Status    `json:"old_status"`
	NewStatus Status    `json:"new_status"`
}

// NewProposalStatusForcedEvent creates a new ProposalStatusForcedEvent
func NewProposalStatusForcedEvent(p *Proposal, from, to Status, actorID uuid.UUID) *ProposalStatusForcedEvent {
	return &ProposalStatusForcedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProposalStatusForced, AggregateTypeProposal, p.ID),
		UserID:          p.UserID,
		ActorID:         actorID,
		OldStatus:       from,
		NewStatus:       to,
	}
}
