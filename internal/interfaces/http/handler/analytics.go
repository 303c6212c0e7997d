package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appanalytics "github.com/granada-os/backend/internal/application/analytics"
	"github.com/granada-os/backend/internal/domain/analytics"
	"github.com/granada-os/backend/internal/interfaces/http/dto"
	"github.com/granada-os/backend/internal/interfaces/http/middleware"
)

// AnalyticsHandler handles behavior tracking HTTP requests
type AnalyticsHandler struct {
	BaseHandler
	collector *appanalytics.Collector
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(collector *appanalytics.Collector) *AnalyticsHandler {
	return &AnalyticsHandler{
		collector: collector,
	}
}

// EventBatchRequest represents one session's batch of interaction events
type EventBatchRequest struct {
	SessionID string               `json:"session_id" binding:"required,max=100"`
	Page      string               `json:"page" binding:"omitempty,max=500"`
	Events    []analytics.RawEvent `json:"events" binding:"required,min=1,max=1000"`
}

// IngestResultResponse acknowledges an accepted event batch
type IngestResultResponse struct {
	Accepted int `json:"accepted"`
}

// SessionCountResponse reports the number of live tracked sessions
type SessionCountResponse struct {
	Sessions int `json:"sessions"`
}

// IngestEvents godoc
// @Summary      Ingest interaction events
// @Description  Accept a batch of client interaction samples for behavior aggregation. Works with or without authentication.
// @Tags         analytics
// @Accept       json
// @Produce      json
// @Param        request body EventBatchRequest true "Event batch"
// @Success      202 {object} APIResponse[IngestResultResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /analytics/events [post]
func (h *AnalyticsHandler) IngestEvents(c *gin.Context) {
	var req EventBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	batch := analytics.EventBatch{
		SessionID: req.SessionID,
		Page:      req.Page,
		ClientIP:  c.ClientIP(),
		Events:    req.Events,
	}
	// Batches from anonymous visitors carry no user ID
	if idStr := middleware.GetJWTUserID(c); idStr != "" {
		if id, err := uuid.Parse(idStr); err == nil {
			batch.UserID = &id
		}
	}

	if err := h.collector.Ingest(c.Request.Context(), batch); err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(IngestResultResponse{Accepted: len(req.Events)}))
}

// SessionCount godoc
// @Summary      Live session count
// @Tags         analytics
// @Produce      json
// @Success      200 {object} APIResponse[SessionCountResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/analytics/sessions [get]
func (h *AnalyticsHandler) SessionCount(c *gin.Context) {
	h.Success(c, SessionCountResponse{Sessions: h.collector.SessionCount()})
}
