package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/application/funding"
	domainfunding "github.com/granada-os/backend/internal/domain/funding"
	"github.com/granada-os/backend/internal/domain/shared"
	"github.com/granada-os/backend/internal/interfaces/http/dto"
)

// DonorHandler handles donor management HTTP requests
type DonorHandler struct {
	BaseHandler
	donorService *funding.DonorService
}

// NewDonorHandler creates a new donor handler
func NewDonorHandler(donorService *funding.DonorService) *DonorHandler {
	return &DonorHandler{
		donorService: donorService,
	}
}

// SetDonorActiveRequest represents the request body for toggling a donor
type SetDonorActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// List godoc
// @Summary      List donors
// @Tags         donors
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Param        search query string false "Match against donor name"
// @Success      200 {object} APIResponse[[]DonorResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /donors [get]
func (h *DonorHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	filter.Search = req.Search

	donors, total, err := h.donorService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]DonorResponse, len(donors))
	for i := range donors {
		items[i] = toDonorResponse(&donors[i])
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Get godoc
// @Summary      Get a donor by ID
// @Tags         donors
// @Produce      json
// @Param        id path string true "Donor ID" format(uuid)
// @Success      200 {object} APIResponse[DonorResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /donors/{id} [get]
func (h *DonorHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid donor ID")
		return
	}

	donor, err := h.donorService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDonorResponse(donor))
}

// Create godoc
// @Summary      Create a donor
// @Tags         donors
// @Accept       json
// @Produce      json
// @Param        request body DonorRequest true "Donor"
// @Success      201 {object} APIResponse[DonorResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/donors [post]
func (h *DonorHandler) Create(c *gin.Context) {
	var req DonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	donor, err := h.donorService.Create(c.Request.Context(), funding.DonorInput{
		Name:        req.Name,
		Type:        domainfunding.DonorType(req.Type),
		Country:     req.Country,
		Website:     req.Website,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toDonorResponse(donor))
}

// Update godoc
// @Summary      Update a donor
// @Tags         donors
// @Accept       json
// @Produce      json
// @Param        id path string true "Donor ID" format(uuid)
// @Param        request body DonorRequest true "Donor"
// @Success      200 {object} APIResponse[DonorResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/donors/{id} [put]
func (h *DonorHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid donor ID")
		return
	}

	var req DonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	donor, err := h.donorService.Update(c.Request.Context(), id, funding.DonorInput{
		Name:        req.Name,
		Type:        domainfunding.DonorType(req.Type),
		Country:     req.Country,
		Website:     req.Website,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDonorResponse(donor))
}

// SetActive godoc
// @Summary      Activate or deactivate a donor
// @Tags         donors
// @Accept       json
// @Produce      json
// @Param        id path string true "Donor ID" format(uuid)
// @Param        request body SetDonorActiveRequest true "Target state"
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/donors/{id}/active [put]
func (h *DonorHandler) SetActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid donor ID")
		return
	}

	var req SetDonorActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.donorService.SetActive(c.Request.Context(), id, *req.Active); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
