package billing

import (
	"strings"

	"github.com/granada-os/backend/internal/domain/shared"
	"github.com/granada-os/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CreditPackage is a purchasable bundle of credits
type CreditPackage struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Credits int               `json:"credits"`
	Price   valueobject.Money `json:"price"`
}

// DefaultPackages returns the platform's credit packages
func DefaultPackages() []CreditPackage {
	return []CreditPackage{
		{ID: "starter", Name: "Starter", Credits: 50, Price: valueobject.NewMoneyUSDFromFloat(9.99)},
		{ID: "standard", Name: "Standard", Credits: 150, Price: valueobject.NewMoneyUSDFromFloat(24.99)},
		{ID: "professional", Name: "Professional", Credits: 400, Price: valueobject.NewMoneyUSDFromFloat(59.99)},
		{ID: "enterprise", Name: "Enterprise", Credits: 1000, Price: valueobject.NewMoneyUSDFromFloat(129.99)},
	}
}

// FindPackage looks up a package by ID
func FindPackage(id string) (CreditPackage, error) {
	for _, p := range DefaultPackages() {
		if p.ID == id {
			return p, nil
		}
	}
	return CreditPackage{}, shared.NewDomainError("UNKNOWN_PACKAGE", "Unknown credit package")
}

// Coupon is a fixed discount code
type Coupon struct {
	Code              string `json:"code"`
	DiscountPercent   int    `json:"discount_percent"`
	FirstPurchaseOnly bool   `json:"first_purchase_only"`
	// RequiredUserType restricts the coupon to one account type when set
	RequiredUserType string `json:"required_user_type,omitempty"`
}

// coupons is the fixed platform coupon set
var coupons = map[string]Coupon{
	"SAVE20":    {Code: "SAVE20", DiscountPercent: 20},
	"WELCOME50": {Code: "WELCOME50", DiscountPercent: 50, FirstPurchaseOnly: true},
	"STUDENT30": {Code: "STUDENT30", DiscountPercent: 30, RequiredUserType: "student"},
}

// CouponContext describes the purchaser for eligibility checks
type CouponContext struct {
	UserType        string
	IsFirstPurchase bool
}

// ValidateCoupon resolves a code (case-insensitive) and checks
// eligibility for the purchaser
func ValidateCoupon(code string, ctx CouponContext) (Coupon, error) {
	coupon, ok := coupons[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Coupon{}, shared.NewDomainError("INVALID_COUPON", "Unknown coupon code")
	}
	if coupon.FirstPurchaseOnly && !ctx.IsFirstPurchase {
		return Coupon{}, shared.NewDomainError("COUPON_NOT_ELIGIBLE", "Coupon is valid for the first purchase only")
	}
	if coupon.RequiredUserType != "" && coupon.RequiredUserType != ctx.UserType {
		return Coupon{}, shared.NewDomainError("COUPON_NOT_ELIGIBLE", "Coupon is not available for this account type")
	}
	return coupon, nil
}

// Apply returns the discounted price and the discount amount
func (c Coupon) Apply(price valueobject.Money) (total, discount valueobject.Money) {
	discount = price.CalculatePercentage(decimal.NewFromInt(int64(c.DiscountPercent))).Round(2)
	total = price.ApplyDiscount(decimal.NewFromInt(int64(c.DiscountPercent))).Round(2)
	return total, discount
}
