package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/application/funding"
	domainfunding "github.com/granada-os/backend/internal/domain/funding"
)

// OpportunityHandler handles funding opportunity HTTP requests
type OpportunityHandler struct {
	BaseHandler
	opportunityService *funding.OpportunityService
}

// NewOpportunityHandler creates a new opportunity handler
func NewOpportunityHandler(opportunityService *funding.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{
		opportunityService: opportunityService,
	}
}

// Search godoc
// @Summary      Search opportunities
// @Description  Full filterable search over funding opportunities
// @Tags         opportunities
// @Produce      json
// @Param        q query string false "Free text over title and description"
// @Param        country query string false "Filter by country"
// @Param        sector query string false "Filter by sector"
// @Param        verified_only query bool false "Only verified postings"
// @Param        status query string false "Filter by status" Enums(active, expired, archived)
// @Param        donor_id query string false "Filter by donor" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]OpportunityResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /opportunities [get]
func (h *OpportunityHandler) Search(c *gin.Context) {
	var req SearchOpportunitiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	input := funding.SearchOpportunitiesInput{
		Query:        req.Query,
		Country:      req.Country,
		Sector:       req.Sector,
		VerifiedOnly: req.VerifiedOnly,
		Status:       domainfunding.OpportunityStatus(req.Status),
		Limit:        req.PageSize,
		Offset:       (req.Page - 1) * req.PageSize,
	}
	if req.DonorID != "" {
		id, err := uuid.Parse(req.DonorID)
		if err != nil {
			h.BadRequest(c, "Invalid donor ID")
			return
		}
		input.DonorID = &id
	}

	page, err := h.opportunityService.Search(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]OpportunityResponse, len(page.Opportunities))
	for i := range page.Opportunities {
		items[i] = toOpportunityResponse(&page.Opportunities[i])
	}

	h.SuccessWithMeta(c, items, page.Total, req.Page, req.PageSize)
}

// Get godoc
// @Summary      Get an opportunity by ID
// @Tags         opportunities
// @Produce      json
// @Param        id path string true "Opportunity ID" format(uuid)
// @Success      200 {object} APIResponse[OpportunityResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /opportunities/{id} [get]
func (h *OpportunityHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid opportunity ID")
		return
	}

	opp, err := h.opportunityService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOpportunityResponse(opp))
}

// Matches godoc
// @Summary      Personalized opportunity matches
// @Description  Score active opportunities against the caller's profile
// @Tags         opportunities
// @Produce      json
// @Param        limit query int false "Maximum matches" default(10) maximum(50)
// @Success      200 {object} APIResponse[[]MatchResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /opportunities/matches [get]
func (h *OpportunityHandler) Matches(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	matches, err := h.opportunityService.MatchesForUser(c.Request.Context(), userID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]MatchResponse, len(matches))
	for i := range matches {
		items[i] = MatchResponse{
			Opportunity: toOpportunityResponse(&matches[i].Opportunity),
			Score:       matches[i].Score,
			Reasons:     matches[i].Reasons,
		}
	}

	h.Success(c, items)
}

// Ingest godoc
// @Summary      Ingest an opportunity posting
// @Description  Submit one posting for deduplicated ingestion
// @Tags         opportunities
// @Accept       json
// @Produce      json
// @Param        request body IngestOpportunityRequest true "Posting"
// @Success      201 {object} APIResponse[IngestResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/opportunities [post]
func (h *OpportunityHandler) Ingest(c *gin.Context) {
	var req IngestOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.opportunityService.Ingest(c.Request.Context(), req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	response := IngestResponse{
		Opportunity: toOpportunityResponse(&result.Opportunity),
		Created:     result.Created,
	}
	if result.Created {
		h.Created(c, response)
		return
	}
	h.Success(c, response)
}

// Verify godoc
// @Summary      Verify an opportunity
// @Description  Run the verification checks and persist the resulting score
// @Tags         opportunities
// @Produce      json
// @Param        id path string true "Opportunity ID" format(uuid)
// @Success      200 {object} APIResponse[domainfunding.VerificationReport]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/opportunities/{id}/verify [post]
func (h *OpportunityHandler) Verify(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid opportunity ID")
		return
	}

	report, err := h.opportunityService.Verify(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}
