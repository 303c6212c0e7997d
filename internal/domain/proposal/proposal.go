package proposal

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/shared"
)

// Status represents the review state of a proposal
type Status string

const (
	StatusDraft     Status = "draft"
	StatusReview    Status = "review"
	StatusSubmitted Status = "submitted"
	StatusAwarded   Status = "awarded"
	StatusDeclined  Status = "declined"
)

// IsValid returns true for a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusReview, StatusSubmitted, StatusAwarded, StatusDeclined:
		return true
	default:
		return false
	}
}

// validTransitions is the enforced status graph. Declined proposals
// can be reopened as drafts; awarded is terminal.
var validTransitions = map[Status][]Status{
	StatusDraft:     {StatusReview},
	StatusReview:    {StatusSubmitted, StatusDraft},
	StatusSubmitted: {StatusAwarded, StatusDeclined},
	StatusDeclined:  {StatusDraft},
}

func canTransition(from, to Status) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Proposal is a user's application document for one funding opportunity
type Proposal struct {
	shared.BaseAggregateRoot
	UserID        uuid.UUID
	OpportunityID uuid.UUID
	Title         string
	Content       string
	Status        Status
	SubmittedAt   *time.Time
	DecidedAt     *time.Time
	// DocumentKey points at an uploaded attachment in object storage
	DocumentKey string
}

// NewProposal creates a draft proposal
func NewProposal(userID, opportunityID uuid.UUID, title, content string) (*Proposal, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if opportunityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OPPORTUNITY_ID", "Opportunity ID cannot be empty")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Proposal title cannot be empty")
	}

	return &Proposal{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		OpportunityID:     opportunityID,
		Title:             title,
		Content:           content,
		Status:            StatusDraft,
	}, nil
}

// IsOwnedBy returns true when the given user authored this proposal
func (p *Proposal) IsOwnedBy(userID uuid.UUID) bool {
	return p.UserID == userID
}

// UpdateContent edits the title and body. Only drafts are editable.
func (p *Proposal) UpdateContent(title, content string) error {
	if p.Status != StatusDraft {
		return shared.NewDomainError("NOT_EDITABLE", "Only draft proposals can be edited")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Proposal title cannot be empty")
	}

	p.Title = title
	p.Content = content
	p.Touch()
	p.IncrementVersion()

	return nil
}

// AttachDocument records an uploaded attachment key
func (p *Proposal) AttachDocument(key string) error {
	if p.Status == StatusAwarded || p.Status == StatusDeclined {
		return shared.NewDomainError("NOT_EDITABLE", "Decided proposals cannot be modified")
	}

	p.DocumentKey = strings.TrimSpace(key)
	p.Touch()
	p.IncrementVersion()

	return nil
}

// transition moves the proposal along the enforced status graph
func (p *Proposal) transition(to Status) error {
	if !canTransition(p.Status, to) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Cannot move proposal from "+string(p.Status)+" to "+string(to))
	}

	from := p.Status
	p.Status = to
	p.Touch()
	p.IncrementVersion()

	p.AddDomainEvent(NewProposalStatusChangedEvent(p, from, to))

	return nil
}

// SendForReview moves a draft into review
func (p *Proposal) SendForReview() error {
	return p.transition(StatusReview)
}

// ReturnToDraft sends a reviewed proposal back for edits
func (p *Proposal) ReturnToDraft() error {
	return p.transition(StatusDraft)
}

// Submit submits a reviewed proposal to the donor
func (p *Proposal) Submit() error {
	if err := p.transition(StatusSubmitted); err != nil {
		return err
	}

	now := time.Now()
	p.SubmittedAt = &now
	p.AddDomainEvent(NewProposalSubmittedEvent(p))

	return nil
}

// Award marks a submitted proposal as awarded
func (p *Proposal) Award() error {
	if err := p.transition(StatusAwarded); err != nil {
		return err
	}
	now := time.Now()
	p.DecidedAt = &now
	return nil
}

// Decline marks a submitted proposal as declined
func (p *Proposal) Decline() error {
	if err := p.transition(StatusDeclined); err != nil {
		return err
	}
	now := time.Now()
	p.DecidedAt = &now
	return nil
}

// Reopen returns a declined proposal to draft for another attempt
func (p *Proposal) Reopen() error {
	if p.Status != StatusDeclined {
		return shared.NewDomainError("INVALID_TRANSITION", "Only declined proposals can be reopened")
	}
	return p.transition(StatusDraft)
}

// ForceStatus sets any status directly, bypassing the transition
// graph. Reserved for admin corrections; the acting admin is recorded
// on the emitted event.
func (p *Proposal) ForceStatus(to Status, actorID uuid.UUID) error {
	if !to.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown proposal status")
	}
	if actorID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACTOR", "Actor ID cannot be empty")
	}

	from := p.Status
	p.Status = to
	if to == StatusSubmitted && p.SubmittedAt == nil {
		now := time.Now()
		p.SubmittedAt = &now
	}
	p.Touch()
	p.IncrementVersion()

	p.AddDomainEvent(NewProposalStatusForcedEvent(p, from, to, actorID))

	return nil
}

// Filter contains filter options for querying proposals
type Filter struct {
	UserID        *uuid.UUID
	OpportunityID *uuid.UUID
	Status        *Status
	Page          int
	PageSize      int
}

// Repository defines the interface for proposal persistence
type Repository interface {
	Create(ctx context.Context, p *Proposal) error
	Update(ctx context.Context, p *Proposal) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Proposal, error)
	FindAll(ctx context.Context, filter Filter) ([]*Proposal, int64, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}
