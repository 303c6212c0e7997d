package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/application/proposal"
	domainproposal "github.com/granada-os/backend/internal/domain/proposal"
)

// ProposalHandler handles proposal lifecycle HTTP requests
type ProposalHandler struct {
	BaseHandler
	proposalService *proposal.Service
}

// NewProposalHandler creates a new proposal handler
func NewProposalHandler(proposalService *proposal.Service) *ProposalHandler {
	return &ProposalHandler{
		proposalService: proposalService,
	}
}

// =====================
// Proposal DTOs
// =====================

// CreateProposalRequest represents the request body for a new draft
type CreateProposalRequest struct {
	OpportunityID uuid.UUID `json:"opportunity_id" binding:"required"`
	Title         string    `json:"title" binding:"required,max=500"`
	Content       string    `json:"content" binding:"omitempty,max=100000"`
}

// UpdateProposalRequest represents the editable draft fields
type UpdateProposalRequest struct {
	Title   string `json:"title" binding:"required,max=500"`
	Content string `json:"content" binding:"omitempty,max=100000"`
}

// ListProposalsRequest represents the query parameters for listing proposals
type ListProposalsRequest struct {
	OpportunityID string `form:"opportunity_id" binding:"omitempty,uuid"`
	Status        string `form:"status" binding:"omitempty,oneof=draft review submitted awarded declined"`
	Page          int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// ForceStatusRequest represents an admin status override
type ForceStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft review submitted awarded declined"`
}

// RequestUploadRequest represents the request body for an attachment upload grant
type RequestUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required,max=100"`
	FileSize    int64  `json:"file_size" binding:"required,gt=0"`
}

// ConfirmUploadRequest represents the request body confirming a finished upload
type ConfirmUploadRequest struct {
	StorageKey string `json:"storage_key" binding:"required,max=500"`
}

// ProposalResponse represents a proposal in API responses
type ProposalResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	OpportunityID uuid.UUID  `json:"opportunity_id"`
	Title         string     `json:"title"`
	Content       string     `json:"content,omitempty"`
	Status        string     `json:"status"`
	SubmittedAt   *time.Time `json:"submitted_at,omitempty"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	HasAttachment bool       `json:"has_attachment"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// UploadTicketResponse is a presigned upload grant
type UploadTicketResponse struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// DownloadTicketResponse is a presigned download grant
type DownloadTicketResponse struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func toProposalResponse(p *proposal.ProposalInfo) ProposalResponse {
	return ProposalResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		OpportunityID: p.OpportunityID,
		Title:         p.Title,
		Content:       p.Content,
		Status:        string(p.Status),
		SubmittedAt:   p.SubmittedAt,
		DecidedAt:     p.DecidedAt,
		HasAttachment: p.HasAttachment,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// =====================
// CRUD
// =====================

// Create godoc
// @Summary      Create a proposal draft
// @Tags         proposals
// @Accept       json
// @Produce      json
// @Param        request body CreateProposalRequest true "Draft"
// @Success      201 {object} APIResponse[ProposalResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /proposals [post]
func (h *ProposalHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	info, err := h.proposalService.Create(c.Request.Context(), proposal.CreateProposalInput{
		UserID:        userID,
		OpportunityID: req.OpportunityID,
		Title:         req.Title,
		Content:       req.Content,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toProposalResponse(info))
}

// Get godoc
// @Summary      Get a proposal by ID
// @Description  Owners see their own proposals, admins see all
// @Tags         proposals
// @Produce      json
// @Param        id path string true "Proposal ID" format(uuid)
// @Success      200 {object} APIResponse[ProposalResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /proposals/{id} [get]
func (h *ProposalHandler) Get(c *gin.Context) {
	id, actorID, ok := h.proposalIDs(c)
	if !ok {
		return
	}

	info, err := h.proposalService.Get(c.Request.Context(), id, actorID, isAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toProposalResponse(info))
}

// List godoc
// @Summary      List proposals
// @Description  Non-admin callers always see only their own proposals
// @Tags         proposals
// @Produce      json
// @Param        opportunity_id query string false "Filter by opportunity" format(uuid)
// @Param        status query string false "Filter by status" Enums(draft, review, submitted, awarded, declined)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]ProposalResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /proposals [get]
func (h *ProposalHandler) List(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListProposalsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	input := proposal.ListProposalsInput{
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if !isAdmin(c) {
		input.UserID = &actorID
	}
	if req.OpportunityID != "" {
		oppID, err := uuid.Parse(req.OpportunityID)
		if err != nil {
			h.BadRequest(c, "Invalid opportunity ID")
			return
		}
		input.OpportunityID = &oppID
	}
	if req.Status != "" {
		st := domainproposal.Status(req.Status)
		input.Status = &st
	}

	page, err := h.proposalService.List(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]ProposalResponse, len(page.Proposals))
	for i := range page.Proposals {
		items[i] = toProposalResponse(&page.Proposals[i])
	}

	h.SuccessWithMeta(c, items, page.Total, req.Page, req.PageSize)
}

// Update godoc
// @Summary      Update a proposal draft
// @Tags         proposals
// @Accept       json
// @Produce      json
// @Param        id path string true "Proposal ID" format(uuid)
// @Param        request body UpdateProposalRequest true "Draft fields"
// @Success      200 {object} APIResponse[ProposalResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /proposals/{id} [put]
func (h *ProposalHandler) Update(c *gin.Context) {
	id, actorID, ok := h.proposalIDs(c)
	if !ok {
		return
	}

	var req UpdateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	info, err := h.proposalService.Update(c.Request.Context(), id, actorID, proposal.UpdateProposalInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toProposalResponse(info))
}

// Delete godoc
// @Summary      Delete a proposal draft
// @Tags         proposals
// @Produce      json
// @Param        id path string true "Proposal ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /proposals/{id} [delete]
func (h *ProposalHandler) Delete(c *gin.Context) {
	id, actorID, ok := h.proposalIDs(c)
	if !ok {
		return
	}

	if err := h.proposalService.Delete(c.Request.Context(), id, actorID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// =====================
// Lifecycle transitions
// =====================

// SendForReview godoc
// @Summary      Send a draft for review
// @Tags         proposals
// @Produce      json
// @Param        id path string true "Proposal ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /proposals/{id}/send-review [post]
func (h *ProposalHandler) SendForReview(c *gin.Context) {
	h.transition(c, h.proposalService.SendForReview)
}

// ReturnToDraft godoc
// @Summary      Return a proposal to draft
// @Tags         proposals
// @Produce      json
// @Param        id path string true "Proposal ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /proposals/{id}/return-draft [post]
func (h *ProposalHandler) ReturnToDraft(c *gin.Context) {
	h.transition(c, h.proposalService.ReturnToDraft)
}

// Reopen godoc
// @Summary      Reopen a declined proposal
// @Tags         proposals
// @Produce      json
// @Param        id path string true "Proposal ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /proposals/{id}/reopen [post]
func (h *ProposalHandler) Reopen(c *gin.Context) {
	h.transition(c, h.proposalService.Reopen)
}

// Submit godoc
// @Summary      Submit a proposal
// @Description  Deduct the submission credit cost and mark the proposal submitted
// @Tags         proposals
// @Produce      json
// @Param        id path string true "Proposal ID" format(uuid)
// @Success      200 {object} APIResponse[ProposalResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /proposals/{id}/submit [post]
func (h *ProposalHandler) Submit(c *gin.Context) {
	id, actorID, ok := h.proposalIDs(c)
	if !ok {
		return
	}

	info, err := h.proposalService.Submit(c.Request.Context(), id, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toProposalResponse(info))
}

// Award godoc
// @Summary      Award a submitted proposal
// @Tags         proposals
// @Produce      json
// @Param        id path string true "Proposal ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/proposals/{id}/award [post]
func (h *ProposalHandler) Award(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid proposal ID")
		return
	}

	if err := h.proposalService.Award(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Decline godoc
// @Summary      Decline a submitted proposal
// @Tags         proposals
// @Produce      json
// @Param        id path string true "Proposal ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/proposals/{id}/decline [post]
func (h *ProposalHandler) Decline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid proposal ID")
		return
	}

	if err := h.proposalService.Decline(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ForceStatus godoc
// @Summary      Force a proposal status
// @Description  Admin override that bypasses the normal transition rules
// @Tags         proposals
// @Accept       json
// @Produce      json
// @Param        id path string true "Proposal ID" format(uuid)
// @Param        request body ForceStatusRequest true "Target status"
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/proposals/{id}/status [put]
func (h *ProposalHandler) ForceStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid proposal ID")
		return
	}

	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ForceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.proposalService.ForceStatus(c.Request.Context(), id, domainproposal.Status(req.Status), actorID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// =====================
// Attachments
// =====================

// RequestUpload godoc
// @Summary      Request an attachment upload grant
// @Description  Returns a presigned URL the client PUTs the document to
// @Tags         proposals
// @Accept       json
// @Produce      json
// @Param        id path string true "Proposal ID" format(uuid)
// @Param        request body RequestUploadRequest true "File metadata"
// @Success      200 {object} APIResponse[UploadTicketResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /proposals/{id}/attachment/upload-request [post]
func (h *ProposalHandler) RequestUpload(c *gin.Context) {
	id, actorID, ok := h.proposalIDs(c)
	if !ok {
		return
	}

	var req RequestUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	ticket, err := h.proposalService.RequestAttachmentUpload(c.Request.Context(), proposal.RequestUploadInput{
		ProposalID:  id,
		ActorID:     actorID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		FileSize:    req.FileSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, UploadTicketResponse{
		StorageKey: ticket.StorageKey,
		UploadURL:  ticket.UploadURL,
		ExpiresAt:  ticket.ExpiresAt,
	})
}

// ConfirmUpload godoc
// @Summary      Confirm a finished attachment upload
// @Tags         proposals
// @Accept       json
// @Produce      json
// @Param        id path string true "Proposal ID" format(uuid)
// @Param        request body ConfirmUploadRequest true "Storage key from the upload grant"
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /proposals/{id}/attachment/confirm [post]
func (h *ProposalHandler) ConfirmUpload(c *gin.Context) {
	id, actorID, ok := h.proposalIDs(c)
	if !ok {
		return
	}

	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.proposalService.ConfirmAttachmentUpload(c.Request.Context(), id, actorID, req.StorageKey); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// DownloadAttachment godoc
// @Summary      Get an attachment download grant
// @Tags         proposals
// @Produce      json
// @Param        id path string true "Proposal ID" format(uuid)
// @Success      200 {object} APIResponse[DownloadTicketResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /proposals/{id}/attachment [get]
func (h *ProposalHandler) DownloadAttachment(c *gin.Context) {
	id, actorID, ok := h.proposalIDs(c)
	if !ok {
		return
	}

	ticket, err := h.proposalService.AttachmentDownloadURL(c.Request.Context(), id, actorID, isAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, DownloadTicketResponse{
		DownloadURL: ticket.DownloadURL,
		ExpiresAt:   ticket.ExpiresAt,
	})
}

// proposalIDs parses the path ID and resolves the acting user, writing
// the error response itself when either is missing
func (h *ProposalHandler) proposalIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid proposal ID")
		return uuid.Nil, uuid.Nil, false
	}

	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	return id, actorID, true
}

func (h *ProposalHandler) transition(c *gin.Context, apply func(ctx context.Context, proposalID, actorID uuid.UUID) error) {
	id, actorID, ok := h.proposalIDs(c)
	if !ok {
		return
	}

	if err := apply(c.Request.Context(), id, actorID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
