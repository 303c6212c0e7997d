package proposal

import (
	"time"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/proposal"
)

// CreateProposalInput contains the fields for a new draft
type CreateProposalInput struct {
	UserID        uuid.UUID
	OpportunityID uuid.UUID
	Title         string
	Content       string
}

// UpdateProposalInput contains the editable draft fields
type UpdateProposalInput struct {
	Title   string
	Content string
}

// ProposalInfo is the transport shape of a proposal
type ProposalInfo struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	OpportunityID uuid.UUID
	Title         string
	Content       string
	Status        proposal.Status
	SubmittedAt   *time.Time
	DecidedAt     *time.Time
	HasAttachment bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ListProposalsInput contains the list filters
type ListProposalsInput struct {
	UserID        *uuid.UUID
	OpportunityID *uuid.UUID
	Status        *proposal.Status
	Page          int
	PageSize      int
}

// ProposalPage is one page of proposals
type ProposalPage struct {
	Proposals []ProposalInfo
	Total     int64
}

// RequestUploadInput describes an attachment about to be uploaded
type RequestUploadInput struct {
	ProposalID  uuid.UUID
	ActorID     uuid.UUID
	FileName    string
	ContentType string
	FileSize    int64
}

// UploadTicket is a presigned upload grant
type UploadTicket struct {
	StorageKey string
	UploadURL  string
	ExpiresAt  time.Time
}

// DownloadTicket is a presigned download grant
type DownloadTicket struct {
	DownloadURL string
	ExpiresAt   time.Time
}

func toProposalInfo(p *proposal.Proposal) ProposalInfo {
	return ProposalInfo{
		ID:            p.ID,
		UserID:        p.UserID,
		OpportunityID: p.OpportunityID,
		Title:         p.Title,
		Content:       p.Content,
		Status:        p.Status,
		SubmittedAt:   p.SubmittedAt,
		DecidedAt:     p.DecidedAt,
		HasAttachment: p.DocumentKey != "",
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
