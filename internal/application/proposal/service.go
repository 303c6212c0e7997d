package proposal

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/billing"
	"github.com/granada-os/backend/internal/domain/funding"
	"github.com/granada-os/backend/internal/domain/identity"
	"github.com/granada-os/backend/internal/domain/proposal"
	"github.com/granada-os/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SubmissionCost is the credit price of submitting one proposal
const SubmissionCost = 5

// MaxDocumentSize is the largest accepted attachment (25MB)
const MaxDocumentSize = 25 * 1024 * 1024

// allowedDocumentTypes are the accepted attachment MIME types
var allowedDocumentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
}

// ObjectStorageService abstracts the object storage backend used for
// proposal attachments
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// ServiceConfig holds proposal service settings
type ServiceConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultServiceConfig returns the default configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: 1 * time.Hour,
	}
}

// Service handles the proposal lifecycle from draft to decision
type Service struct {
	proposalRepo proposal.Repository
	oppRepo      funding.OpportunityRepository
	userRepo     identity.UserRepository
	ledgerRepo   billing.CreditTransactionRepository
	storage      ObjectStorageService
	outboxRepo   shared.OutboxRepository
	txManager    shared.TransactionManager
	config       ServiceConfig
	logger       *zap.Logger
}

// NewService creates a new proposal service
func NewService(
	proposalRepo proposal.Repository,
	oppRepo funding.OpportunityRepository,
	userRepo identity.UserRepository,
	ledgerRepo billing.CreditTransactionRepository,
	storage ObjectStorageService,
	outboxRepo shared.OutboxRepository,
	txManager shared.TransactionManager,
	config ServiceConfig,
	logger *zap.Logger,
) *Service {
	return &Service{
		proposalRepo: proposalRepo,
		oppRepo:      oppRepo,
		userRepo:     userRepo,
		ledgerRepo:   ledgerRepo,
		storage:      storage,
		outboxRepo:   outboxRepo,
		txManager:    txManager,
		config:       config,
		logger:       logger,
	}
}

// Create starts a new draft proposal against an opportunity
func (s *Service) Create(ctx context.Context, input CreateProposalInput) (*ProposalInfo, error) {
	opp, err := s.oppRepo.FindByID(ctx, input.OpportunityID)
	if err != nil {
		return nil, err
	}
	if opp.Status == funding.OpportunityStatusArchived {
		return nil, shared.NewDomainError("OPPORTUNITY_CLOSED", "Cannot draft a proposal against an archived opportunity")
	}

	p, err := proposal.NewProposal(input.UserID, input.OpportunityID, input.Title, input.Content)
	if err != nil {
		return nil, err
	}

	if err := s.proposalRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Proposal drafted",
		zap.String("proposal_id", p.ID.String()),
		zap.String("opportunity_id", input.OpportunityID.String()))

	info := toProposalInfo(p)
	return &info, nil
}

// Update edits a draft's title and content
func (s *Service) Update(ctx context.Context, proposalID, actorID uuid.UUID, input UpdateProposalInput) (*ProposalInfo, error) {
	p, err := s.ownedProposal(ctx, proposalID, actorID)
	if err != nil {
		return nil, err
	}

	if err := p.UpdateContent(input.Title, input.Content); err != nil {
		return nil, err
	}

	if err := s.proposalRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	info := toProposalInfo(p)
	return &info, nil
}

// Get returns one proposal visible to the actor. Admins can read any
// proposal; users only their own.
func (s *Service) Get(ctx context.Context, proposalID, actorID uuid.UUID, isAdmin bool) (*ProposalInfo, error) {
	p, err := s.proposalRepo.FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !p.IsOwnedBy(actorID) {
		return nil, shared.ErrForbidden
	}

	info := toProposalInfo(p)
	return &info, nil
}

// List returns a page of proposals matching the filters
func (s *Service) List(ctx context.Context, input ListProposalsInput) (*ProposalPage, error) {
	filter := proposal.Filter{
		UserID:        input.UserID,
		OpportunityID: input.OpportunityID,
		Status:        input.Status,
		Page:          input.Page,
		PageSize:      input.PageSize,
	}

	proposals, total, err := s.proposalRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	infos := make([]ProposalInfo, 0, len(proposals))
	for _, p := range proposals {
		infos = append(infos, toProposalInfo(p))
	}
	return &ProposalPage{Proposals: infos, Total: total}, nil
}

// Delete removes a draft. Only the owner can delete, and only drafts.
func (s *Service) Delete(ctx context.Context, proposalID, actorID uuid.UUID) error {
	p, err := s.ownedProposal(ctx, proposalID, actorID)
	if err != nil {
		return err
	}
	if p.Status != proposal.StatusDraft {
		return shared.NewDomainError("NOT_EDITABLE", "Only draft proposals can be deleted")
	}

	if err := s.proposalRepo.Delete(ctx, proposalID); err != nil {
		return err
	}

	if p.DocumentKey != "" {
		if err := s.storage.DeleteObject(ctx, p.DocumentKey); err != nil {
			s.logger.Warn("Failed to delete proposal attachment",
				zap.String("storage_key", p.DocumentKey),
				zap.Error(err))
		}
	}
	return nil
}

// SendForReview moves a draft into review
func (s *Service) SendForReview(ctx context.Context, proposalID, actorID uuid.UUID) error {
	return s.transitionOwned(ctx, proposalID, actorID, (*proposal.Proposal).SendForReview)
}

// ReturnToDraft sends a reviewed proposal back for edits
func (s *Service) ReturnToDraft(ctx context.Context, proposalID, actorID uuid.UUID) error {
	return s.transitionOwned(ctx, proposalID, actorID, (*proposal.Proposal).ReturnToDraft)
}

// Reopen returns a declined proposal to draft for another attempt
func (s *Service) Reopen(ctx context.Context, proposalID, actorID uuid.UUID) error {
	return s.transitionOwned(ctx, proposalID, actorID, (*proposal.Proposal).Reopen)
}

// Submit sends a reviewed proposal to the donor. Submission costs
// credits; the charge and the transition commit together or not at all.
func (s *Service) Submit(ctx context.Context, proposalID, actorID uuid.UUID) (*ProposalInfo, error) {
	p, err := s.ownedProposal(ctx, proposalID, actorID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	ledgerTx, err := billing.NewDeductionTransaction(
		user.ID, SubmissionCost, user.Credits,
		p.ID.String(), "Proposal submission: "+p.Title)
	if err != nil {
		return nil, err
	}

	if err := p.Submit(); err != nil {
		return nil, err
	}
	if err := user.DeductCredits(SubmissionCost); err != nil {
		return nil, err
	}

	err = s.txManager.InTransaction(ctx, func(txCtx context.Context) error {
		if err := s.proposalRepo.Update(txCtx, p); err != nil {
			return err
		}
		if err := s.userRepo.Update(txCtx, user); err != nil {
			return err
		}
		if err := s.ledgerRepo.Save(txCtx, ledgerTx); err != nil {
			return err
		}
		return s.publishEvents(txCtx, p)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Proposal submitted",
		zap.String("proposal_id", p.ID.String()),
		zap.String("user_id", user.ID.String()),
		zap.Int("credits_charged", SubmissionCost))

	info := toProposalInfo(p)
	return &info, nil
}

// Award marks a submitted proposal as awarded
func (s *Service) Award(ctx context.Context, proposalID uuid.UUID) error {
	return s.decide(ctx, proposalID, (*proposal.Proposal).Award)
}

// Decline marks a submitted proposal as declined
func (s *Service) Decline(ctx context.Context, proposalID uuid.UUID) error {
	return s.decide(ctx, proposalID, (*proposal.Proposal).Decline)
}

// ForceStatus sets any status directly, bypassing the transition
// graph. The acting admin is recorded on the emitted event.
func (s *Service) ForceStatus(ctx context.Context, proposalID uuid.UUID, to proposal.Status, actorID uuid.UUID) error {
	p, err := s.proposalRepo.FindByID(ctx, proposalID)
	if err != nil {
		return err
	}

	if err := p.ForceStatus(to, actorID); err != nil {
		return err
	}

	if err := s.proposalRepo.Update(ctx, p); err != nil {
		return err
	}

	s.logger.Warn("Proposal status forced",
		zap.String("proposal_id", p.ID.String()),
		zap.String("status", string(to)),
		zap.String("actor_id", actorID.String()))

	return s.publishEvents(ctx, p)
}

// RequestAttachmentUpload validates the file metadata and issues a
// presigned upload URL. The attachment is not recorded until the
// upload is confirmed.
func (s *Service) RequestAttachmentUpload(ctx context.Context, input RequestUploadInput) (*UploadTicket, error) {
	p, err := s.ownedProposal(ctx, input.ProposalID, input.ActorID)
	if err != nil {
		return nil, err
	}
	if p.Status == proposal.StatusAwarded || p.Status == proposal.StatusDeclined {
		return nil, shared.NewDomainError("NOT_EDITABLE", "Decided proposals cannot be modified")
	}

	if input.FileSize <= 0 || input.FileSize > MaxDocumentSize {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "Attachment exceeds the size limit")
	}
	if !allowedDocumentTypes[input.ContentType] {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Attachment type is not accepted")
	}

	ext := strings.ToLower(path.Ext(input.FileName))
	storageKey := fmt.Sprintf("proposals/%s/%s%s", p.ID, uuid.New(), ext)

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, input.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		return nil, err
	}

	return &UploadTicket{StorageKey: storageKey, UploadURL: uploadURL, ExpiresAt: expiresAt}, nil
}

// ConfirmAttachmentUpload records an uploaded attachment on the
// proposal after verifying the object actually landed in storage. A
// replaced attachment is deleted best-effort.
func (s *Service) ConfirmAttachmentUpload(ctx context.Context, proposalID, actorID uuid.UUID, storageKey string) error {
	p, err := s.ownedProposal(ctx, proposalID, actorID)
	if err != nil {
		return err
	}

	expectedPrefix := fmt.Sprintf("proposals/%s/", p.ID)
	if !strings.HasPrefix(storageKey, expectedPrefix) {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key does not belong to this proposal")
	}

	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewDomainError("ATTACHMENT_NOT_UPLOADED", "No object found for the given storage key")
	}

	previous := p.DocumentKey
	if err := p.AttachDocument(storageKey); err != nil {
		return err
	}
	if err := s.proposalRepo.Update(ctx, p); err != nil {
		return err
	}

	if previous != "" && previous != storageKey {
		if err := s.storage.DeleteObject(ctx, previous); err != nil {
			s.logger.Warn("Failed to delete replaced attachment",
				zap.String("storage_key", previous),
				zap.Error(err))
		}
	}
	return nil
}

// AttachmentDownloadURL issues a presigned download URL for the
// proposal's attachment
func (s *Service) AttachmentDownloadURL(ctx context.Context, proposalID, actorID uuid.UUID, isAdmin bool) (*DownloadTicket, error) {
	p, err := s.proposalRepo.FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !p.IsOwnedBy(actorID) {
		return nil, shared.ErrForbidden
	}
	if p.DocumentKey == "" {
		return nil, shared.NewDomainError("NO_ATTACHMENT", "Proposal has no attachment")
	}

	downloadURL, expiresAt, err := s.storage.GenerateDownloadURL(ctx, p.DocumentKey, s.config.DownloadURLExpiry)
	if err != nil {
		return nil, err
	}
	return &DownloadTicket{DownloadURL: downloadURL, ExpiresAt: expiresAt}, nil
}

func (s *Service) ownedProposal(ctx context.Context, proposalID, actorID uuid.UUID) (*proposal.Proposal, error) {
	p, err := s.proposalRepo.FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(actorID) {
		return nil, shared.ErrForbidden
	}
	return p, nil
}

func (s *Service) transitionOwned(ctx context.Context, proposalID, actorID uuid.UUID, transition func(*proposal.Proposal) error) error {
	p, err := s.ownedProposal(ctx, proposalID, actorID)
	if err != nil {
		return err
	}

	if err := transition(p); err != nil {
		return err
	}
	if err := s.proposalRepo.Update(ctx, p); err != nil {
		return err
	}
	return s.publishEvents(ctx, p)
}

func (s *Service) decide(ctx context.Context, proposalID uuid.UUID, decision func(*proposal.Proposal) error) error {
	p, err := s.proposalRepo.FindByID(ctx, proposalID)
	if err != nil {
		return err
	}

	if err := decision(p); err != nil {
		return err
	}
	if err := s.proposalRepo.Update(ctx, p); err != nil {
		return err
	}
	return s.publishEvents(ctx, p)
}

func (s *Service) publishEvents(ctx context.Context, p *proposal.Proposal) error {
	events := p.GetDomainEvents()
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("Failed to marshal event", zap.Error(err))
			continue
		}
		entries = append(entries, shared.NewOutboxEntry(event, payload))
	}

	if len(entries) > 0 {
		if err := s.outboxRepo.Save(ctx, entries...); err != nil {
			return err
		}
	}

	p.ClearDomainEvents()
	return nil
}
