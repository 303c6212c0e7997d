package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/application/billing"
	domainbilling "github.com/granada-os/backend/internal/domain/billing"
)

// IdempotencyKeyHeader carries the client-chosen key for payment replay protection
const IdempotencyKeyHeader = "Idempotency-Key"

// PaymentHandler handles credit purchase HTTP requests
type PaymentHandler struct {
	BaseHandler
	paymentService *billing.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *billing.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// ProcessPaymentRequest represents the request body for a credit purchase
type ProcessPaymentRequest struct {
	PackageID  string `json:"package_id" binding:"required"`
	CouponCode string `json:"coupon_code" binding:"omitempty,max=50"`
	Card       struct {
		Number     string `json:"number" binding:"required,min=12,max=23"`
		Expiry     string `json:"expiry" binding:"required,len=5"`
		CVV        string `json:"cvv" binding:"required,min=3,max=4"`
		HolderName string `json:"holder_name" binding:"required,max=100"`
	} `json:"card" binding:"required"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	PackageID     string     `json:"package_id"`
	Credits       int        `json:"credits"`
	Amount        string     `json:"amount"`
	Discount      string     `json:"discount"`
	Currency      string     `json:"currency"`
	CouponCode    string     `json:"coupon_code,omitempty"`
	CardLast4     string     `json:"card_last4"`
	Status        string     `json:"status"`
	FailureReason string     `json:"failure_reason,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	Replayed      bool       `json:"replayed,omitempty"`
}

func toPaymentResponse(p *billing.PaymentInfo) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		PackageID:     p.PackageID,
		Credits:       p.Credits,
		Amount:        p.Amount,
		Discount:      p.Discount,
		Currency:      p.Currency,
		CouponCode:    p.CouponCode,
		CardLast4:     p.CardLast4,
		Status:        string(p.Status),
		FailureReason: p.FailureReason,
		ProcessedAt:   p.ProcessedAt,
		CreatedAt:     p.CreatedAt,
	}
}

// ProcessPayment godoc
// @Summary      Purchase a credit package
// @Description  Charge the submitted card and credit the caller's account. Send an Idempotency-Key header to make retries safe.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client-chosen idempotency key"
// @Param        request body ProcessPaymentRequest true "Purchase"
// @Success      201 {object} APIResponse[PaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      402 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments [post]
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.paymentService.ProcessPayment(c.Request.Context(), billing.ProcessPaymentInput{
		UserID:     userID,
		PackageID:  req.PackageID,
		CouponCode: req.CouponCode,
		Card: domainbilling.CardDetails{
			Number:     req.Card.Number,
			Expiry:     req.Card.Expiry,
			CVV:        req.Card.CVV,
			HolderName: req.Card.HolderName,
		},
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	response := toPaymentResponse(&result.Payment)
	response.Replayed = result.Replayed
	if result.Replayed {
		h.Success(c, response)
		return
	}
	h.Created(c, response)
}

// GetPayment godoc
// @Summary      Get a payment by ID
// @Description  Owners see their own payments, admins see all
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} APIResponse[PaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id, actorID, isAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPaymentResponse(payment))
}

// History godoc
// @Summary      Payment history
// @Description  The caller's payments, newest first
// @Tags         payments
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]PaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments [get]
func (h *PaymentHandler) History(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.paymentService.History(c.Request.Context(), userID, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]PaymentResponse, len(page.Payments))
	for i := range page.Payments {
		items[i] = toPaymentResponse(&page.Payments[i])
	}

	h.SuccessWithMeta(c, items, page.Total, req.Page, req.PageSize)
}
