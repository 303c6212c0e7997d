package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/application/billing"
)

// CreditHandler handles credit balance and ledger HTTP requests
type CreditHandler struct {
	BaseHandler
	creditService  *billing.CreditService
	paymentService *billing.PaymentService
}

// NewCreditHandler creates a new credit handler
func NewCreditHandler(creditService *billing.CreditService, paymentService *billing.PaymentService) *CreditHandler {
	return &CreditHandler{
		creditService:  creditService,
		paymentService: paymentService,
	}
}

// PackageResponse represents a purchasable credit package
type PackageResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Credits  int    `json:"credits"`
	Price    string `json:"price"`
	Currency string `json:"currency"`
}

// BalanceResponse reports the caller's credit balance
type BalanceResponse struct {
	Credits   int   `json:"credits"`
	LedgerSum int64 `json:"ledger_sum"`
}

// LedgerEntryResponse represents one credit ledger entry
type LedgerEntryResponse struct {
	ID              uuid.UUID `json:"id"`
	TransactionType string    `json:"transaction_type"`
	Amount          int       `json:"amount"`
	BalanceBefore   int       `json:"balance_before"`
	BalanceAfter    int       `json:"balance_after"`
	Description     string    `json:"description,omitempty"`
	Reference       *string   `json:"reference,omitempty"`
	TransactionDate time.Time `json:"transaction_date"`
}

// ValidateCouponRequest represents the request body for coupon validation
type ValidateCouponRequest struct {
	PackageID string `json:"package_id" binding:"required"`
	Code      string `json:"code" binding:"required,max=50"`
}

// CouponQuoteResponse is a validated coupon priced against a package
type CouponQuoteResponse struct {
	Code            string `json:"code"`
	DiscountPercent int    `json:"discount_percent"`
	Price           string `json:"price"`
	Discount        string `json:"discount"`
	Total           string `json:"total"`
}

// PlatformTotalsResponse reports platform-wide credit movement
type PlatformTotalsResponse struct {
	Issued int64 `json:"issued"`
	Spent  int64 `json:"spent"`
}

// Packages godoc
// @Summary      List credit packages
// @Tags         credits
// @Produce      json
// @Success      200 {object} APIResponse[[]PackageResponse]
// @Router       /credits/packages [get]
func (h *CreditHandler) Packages(c *gin.Context) {
	packages := h.creditService.Packages()

	items := make([]PackageResponse, len(packages))
	for i, p := range packages {
		items[i] = PackageResponse{
			ID:       p.ID,
			Name:     p.Name,
			Credits:  p.Credits,
			Price:    p.Price,
			Currency: p.Currency,
		}
	}

	h.Success(c, items)
}

// Balance godoc
// @Summary      Get credit balance
// @Tags         credits
// @Produce      json
// @Success      200 {object} APIResponse[BalanceResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /credits/balance [get]
func (h *CreditHandler) Balance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	balance, err := h.creditService.Balance(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, BalanceResponse{
		Credits:   balance.Credits,
		LedgerSum: balance.LedgerSum,
	})
}

// Ledger godoc
// @Summary      Credit ledger history
// @Description  The caller's credit movements, newest first
// @Tags         credits
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]LedgerEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /credits/ledger [get]
func (h *CreditHandler) Ledger(c *gin.Context) {
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

	page, err := h.creditService.History(c.Request.Context(), userID, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]LedgerEntryResponse, len(page.Entries))
	for i, e := range page.Entries {
		items[i] = LedgerEntryResponse{
			ID:              e.ID,
			TransactionType: string(e.TransactionType),
			Amount:          e.Amount,
			BalanceBefore:   e.BalanceBefore,
			BalanceAfter:    e.BalanceAfter,
			Description:     e.Description,
			Reference:       e.Reference,
			TransactionDate: e.TransactionDate,
		}
	}

	h.SuccessWithMeta(c, items, page.Total, req.Page, req.PageSize)
}

// ValidateCoupon godoc
// @Summary      Validate a coupon
// @Description  Price a coupon against a package without charging
// @Tags         credits
// @Accept       json
// @Produce      json
// @Param        request body ValidateCouponRequest true "Coupon and package"
// @Success      200 {object} APIResponse[CouponQuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /credits/validate-coupon [post]
func (h *CreditHandler) ValidateCoupon(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	quote, err := h.paymentService.QuoteCoupon(c.Request.Context(), userID, req.PackageID, req.Code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CouponQuoteResponse{
		Code:            quote.Code,
		DiscountPercent: quote.DiscountPercent,
		Price:           quote.Price,
		Discount:        quote.Discount,
		Total:           quote.Total,
	})
}

// PlatformTotals godoc
// @Summary      Platform credit totals
// @Description  Sum of issued and spent credits across all users
// @Tags         credits
// @Produce      json
// @Success      200 {object} APIResponse[PlatformTotalsResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/credits/totals [get]
func (h *CreditHandler) PlatformTotals(c *gin.Context) {
	totals, err := h.creditService.PlatformTotals(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, PlatformTotalsResponse{
		Issued: totals.Issued,
		Spent:  totals.Spent,
	})
}
