package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/application/identity"
	domainidentity "github.com/granada-os/backend/internal/domain/identity"
)

// UserHandler handles user administration HTTP requests
type UserHandler struct {
	BaseHandler
	adminService *identity.UserAdminService
}

// NewUserHandler creates a new user admin handler
func NewUserHandler(adminService *identity.UserAdminService) *UserHandler {
	return &UserHandler{
		adminService: adminService,
	}
}

// ListUsersRequest represents the query parameters for listing users
type ListUsersRequest struct {
	Keyword  string `form:"keyword" binding:"omitempty,max=100"`
	UserType string `form:"user_type" binding:"omitempty,oneof=student ngo business admin"`
	Country  string `form:"country" binding:"omitempty,max=100"`
	Banned   *bool  `form:"banned"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// BanUserRequest represents the request body for banning a user
type BanUserRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// AdjustCreditsRequest represents the request body for a manual credit adjustment
type AdjustCreditsRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required,max=500"`
}

// AdjustCreditsResponse represents the balance movement of an adjustment
type AdjustCreditsResponse struct {
	UserID        uuid.UUID `json:"user_id"`
	BalanceBefore int       `json:"balance_before"`
	BalanceAfter  int       `json:"balance_after"`
}

// ListUsers godoc
// @Summary      List users
// @Description  Get a filtered, paginated list of user accounts
// @Tags         users
// @Produce      json
// @Param        keyword query string false "Match against email and name"
// @Param        user_type query string false "Filter by user type"
// @Param        country query string false "Filter by country"
// @Param        banned query bool false "Filter by ban state"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	input := identity.ListUsersInput{
		Keyword:  req.Keyword,
		Country:  req.Country,
		Banned:   req.Banned,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.UserType != "" {
		t := domainidentity.UserType(req.UserType)
		input.UserType = &t
	}

	page, err := h.adminService.List(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	users := make([]UserResponse, len(page.Users))
	for i := range page.Users {
		users[i] = toUserResponse(&page.Users[i])
	}

	h.SuccessWithMeta(c, users, page.Total, page.Page, page.PageSize)
}

// GetUser godoc
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.adminService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserResponse(user))
}

// BanUser godoc
// @Summary      Ban a user
// @Description  Ban a user account and revoke all of its tokens
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Param        request body BanUserRequest true "Ban reason"
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id}/ban [post]
func (h *UserHandler) BanUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req BanUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.adminService.Ban(c.Request.Context(), identity.BanUserInput{
		UserID: id,
		Reason: req.Reason,
	}); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// UnbanUser godoc
// @Summary      Unban a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id}/unban [post]
func (h *UserHandler) UnbanUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.adminService.Unban(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AdjustCredits godoc
// @Summary      Adjust a user's credits
// @Description  Apply a manual credit grant or deduction with an audit reason
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Param        request body AdjustCreditsRequest true "Adjustment"
// @Success      200 {object} APIResponse[AdjustCreditsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id}/credits [post]
func (h *UserHandler) AdjustCredits(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	operatorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req AdjustCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.adminService.AdjustCredits(c.Request.Context(), identity.AdjustCreditsInput{
		UserID:     id,
		Delta:      req.Delta,
		Reason:     req.Reason,
		OperatorID: operatorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, AdjustCreditsResponse{
		UserID:        id,
		BalanceBefore: result.BalanceBefore,
		BalanceAfter:  result.BalanceAfter,
	})
}

// ExportUsers godoc
// @Summary      Export users as CSV
// @Description  Stream every user account as a CSV attachment
// @Tags         users
// @Produce      text/csv
// @Success      200 {string} string "CSV payload"
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/export [get]
func (h *UserHandler) ExportUsers(c *gin.Context) {
	rows, err := h.adminService.ExportRows(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("users-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	// Branded comment line ahead of the header row, kept by spreadsheet imports
	fmt.Fprintf(c.Writer, "# Granada OS - User Export - generated %s\n", time.Now().UTC().Format(time.RFC3339))

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"id", "email", "first_name", "last_name", "user_type", "country", "sector", "organization", "credits", "is_banned", "created_at"})
	for i := range rows {
		u := &rows[i]
		_ = w.Write([]string{
			u.ID.String(),
			u.Email,
			u.FirstName,
			u.LastName,
			string(u.UserType),
			u.Country,
			u.Sector,
			u.Organization,
			strconv.Itoa(u.Credits),
			strconv.FormatBool(u.IsBanned),
			u.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
}
