package billing

import (
	"testing"

	"github.com/granada-os/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPackage(t *testing.T) {
	t.Run("known packages", func(t *testing.T) {
		standard, err := FindPackage("standard")
		require.NoError(t, err)
		assert.Equal(t, 150, standard.Credits)
		assert.Equal(t, "24.99", standard.Price.Amount().StringFixed(2))

		enterprise, err := FindPackage("enterprise")
		require.NoError(t, err)
		assert.Equal(t, 1000, enterprise.Credits)
	})

	t.Run("unknown package", func(t *testing.T) {
		_, err := FindPackage("platinum")
		assert.Error(t, err)
	})
}

func TestValidateCoupon(t *testing.T) {
	t.Run("code lookup is case-insensitive", func(t *testing.T) {
		coupon, err := ValidateCoupon(" save20 ", CouponContext{UserType: "ngo"})
		require.NoError(t, err)
		assert.Equal(t, "SAVE20", coupon.Code)
		assert.Equal(t, 20, coupon.DiscountPercent)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := ValidateCoupon("NOPE10", CouponContext{})
		assert.Error(t, err)
	})

	t.Run("welcome coupon requires a first purchase", func(t *testing.T) {
		_, err := ValidateCoupon("WELCOME50", CouponContext{IsFirstPurchase: false})
		assert.Error(t, err)

		coupon, err := ValidateCoupon("WELCOME50", CouponContext{IsFirstPurchase: true})
		require.NoError(t, err)
		assert.Equal(t, 50, coupon.DiscountPercent)
	})

	t.Run("student coupon is gated on account type", func(t *testing.T) {
		_, err := ValidateCoupon("STUDENT30", CouponContext{UserType: "business"})
		assert.Error(t, err)

		coupon, err := ValidateCoupon("STUDENT30", CouponContext{UserType: "student"})
		require.NoError(t, err)
		assert.Equal(t, 30, coupon.DiscountPercent)
	})
}

func TestCoupon_Apply(t *testing.T) {
	standard, err := FindPackage("standard")
	require.NoError(t, err)

	coupon, err := ValidateCoupon("SAVE20", CouponContext{})
	require.NoError(t, err)

	total, discount := coupon.Apply(standard.Price)
	assert.Equal(t, "5.00", discount.Amount().StringFixed(2))
	assert.Equal(t, "19.99", total.Amount().StringFixed(2))
	assert.Equal(t, valueobject.USD, total.Currency())
}
