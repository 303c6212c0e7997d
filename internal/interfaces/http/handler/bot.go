package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/application/funding"
	"github.com/granada-os/backend/internal/domain/shared"
	"github.com/granada-os/backend/internal/interfaces/http/dto"
)

// BotHandler handles search bot HTTP requests
type BotHandler struct {
	BaseHandler
	botService *funding.BotService
}

// NewBotHandler creates a new bot handler
func NewBotHandler(botService *funding.BotService) *BotHandler {
	return &BotHandler{
		botService: botService,
	}
}

// List godoc
// @Summary      List search bots
// @Tags         bots
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]BotResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/bots [get]
func (h *BotHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	filter.Search = req.Search

	bots, total, err := h.botService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]BotResponse, len(bots))
	for i := range bots {
		items[i] = toBotResponse(&bots[i])
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Get godoc
// @Summary      Get a search bot by ID
// @Tags         bots
// @Produce      json
// @Param        id path string true "Bot ID" format(uuid)
// @Success      200 {object} APIResponse[BotResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/bots/{id} [get]
func (h *BotHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bot ID")
		return
	}

	bot, err := h.botService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toBotResponse(bot))
}

// Register godoc
// @Summary      Register a search bot
// @Description  Register a scraping agent for a target country or source
// @Tags         bots
// @Accept       json
// @Produce      json
// @Param        request body RegisterBotRequest true "Bot registration"
// @Success      201 {object} APIResponse[BotResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/bots [post]
func (h *BotHandler) Register(c *gin.Context) {
	var req RegisterBotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	bot, err := h.botService.Register(c.Request.Context(), funding.RegisterBotInput{
		Name:      req.Name,
		Country:   req.Country,
		TargetURL: req.TargetURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toBotResponse(bot))
}

// Pause godoc
// @Summary      Pause a search bot
// @Tags         bots
// @Produce      json
// @Param        id path string true "Bot ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/bots/{id}/pause [post]
func (h *BotHandler) Pause(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bot ID")
		return
	}

	if err := h.botService.Pause(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Resume godoc
// @Summary      Resume a paused search bot
// @Tags         bots
// @Produce      json
// @Param        id path string true "Bot ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/bots/{id}/resume [post]
func (h *BotHandler) Resume(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bot ID")
		return
	}

	if err := h.botService.Resume(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Ingest godoc
// @Summary      Record a bot ingest run
// @Description  Accept one run's batch of scraped postings and award rewards
// @Tags         bots
// @Accept       json
// @Produce      json
// @Param        id path string true "Bot ID" format(uuid)
// @Param        request body BotIngestRequest true "Scraped postings"
// @Success      200 {object} APIResponse[BotRunResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/bots/{id}/ingest [post]
func (h *BotHandler) Ingest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bot ID")
		return
	}

	var req BotIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	postings := make([]funding.IngestOpportunityInput, len(req.Opportunities))
	for i, p := range req.Opportunities {
		postings[i] = p.toInput()
	}

	result, err := h.botService.RecordIngestRun(c.Request.Context(), id, postings)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, BotRunResponse{
		Submitted: result.Submitted,
		Created:   result.Created,
		Duplicate: result.Duplicate,
		Failed:    result.Failed,
	})
}

// Rewards godoc
// @Summary      Recent rewards for a bot
// @Tags         bots
// @Produce      json
// @Param        id path string true "Bot ID" format(uuid)
// @Param        limit query int false "Maximum rewards" default(10) maximum(100)
// @Success      200 {object} APIResponse[[]BotRewardResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/bots/{id}/rewards [get]
func (h *BotHandler) Rewards(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bot ID")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	rewards, err := h.botService.RecentRewards(c.Request.Context(), id, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]BotRewardResponse, len(rewards))
	for i, r := range rewards {
		items[i] = BotRewardResponse{
			ID:                 r.ID,
			BotID:              r.BotID,
			OpportunitiesFound: r.OpportunitiesFound,
			AwardedAt:          r.AwardedAt,
		}
	}

	h.Success(c, items)
}
