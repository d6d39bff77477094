package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakhadian/academy-admin-api/internal/models"
)

func intPtr(v int) *int        { return &v }
func int64Ptr(v int64) *int64  { return &v }
func strPtr(v string) *string  { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func TestEvaluateCoupon(t *testing.T) {
	now := time.Now().UTC()
	base := models.Coupon{
		Code:          "SAVE20",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 20,
		Active:        true,
	}

	t.Run("percentage discount", func(t *testing.T) {
		v := Evaluate(&base, "c1", "f1", 50000, now)
		require.True(t, v.IsValid)
		assert.Equal(t, int64(10000), v.DiscountAmount)
	})

	t.Run("fixed amount discount", func(t *testing.T) {
		coupon := base
		coupon.DiscountType = models.DiscountTypeFixedAmount
		coupon.DiscountValue = 7500
		v := Evaluate(&coupon, "c1", "f1", 50000, now)
		require.True(t, v.IsValid)
		assert.Equal(t, int64(7500), v.DiscountAmount)
	})

	t.Run("discount never exceeds subtotal", func(t *testing.T) {
		coupon := base
		coupon.DiscountType = models.DiscountTypeFixedAmount
		coupon.DiscountValue = 99999
		v := Evaluate(&coupon, "c1", "f1", 50000, now)
		require.True(t, v.IsValid)
		assert.Equal(t, int64(50000), v.DiscountAmount)
	})

	t.Run("maximum discount caps the amount", func(t *testing.T) {
		coupon := base
		coupon.MaximumDiscount = int64Ptr(5000)
		v := Evaluate(&coupon, "c1", "f1", 50000, now)
		require.True(t, v.IsValid)
		assert.Equal(t, int64(5000), v.DiscountAmount)
	})

	t.Run("inactive coupon rejected", func(t *testing.T) {
		coupon := base
		coupon.Active = false
		v := Evaluate(&coupon, "c1", "f1", 50000, now)
		assert.False(t, v.IsValid)
		assert.Zero(t, v.DiscountAmount)
	})

	t.Run("usage limit reached", func(t *testing.T) {
		coupon := base
		coupon.UsageLimit = intPtr(10)
		coupon.UsedCount = 10
		v := Evaluate(&coupon, "c1", "f1", 50000, now)
		assert.False(t, v.IsValid)
		assert.Contains(t, v.ErrorMessage, "usage limit")
	})

	t.Run("expired coupon rejected", func(t *testing.T) {
		coupon := base
		coupon.ExpiresAt = timePtr(now.Add(-time.Hour))
		v := Evaluate(&coupon, "c1", "f1", 50000, now)
		assert.False(t, v.IsValid)
		assert.Contains(t, v.ErrorMessage, "expired")
	})

	t.Run("subtotal below minimum", func(t *testing.T) {
		coupon := base
		coupon.MinimumAmount = int64Ptr(60000)
		v := Evaluate(&coupon, "c1", "f1", 50000, now)
		assert.False(t, v.IsValid)
	})

	t.Run("wrong course scope", func(t *testing.T) {
		coupon := base
		coupon.CourseID = strPtr("other-course")
		v := Evaluate(&coupon, "c1", "f1", 50000, now)
		assert.False(t, v.IsValid)
	})

	t.Run("wrong facility scope", func(t *testing.T) {
		coupon := base
		coupon.FacilityID = strPtr("other-facility")
		v := Evaluate(&coupon, "c1", "f1", 50000, now)
		assert.False(t, v.IsValid)
	})

	t.Run("scoped coupon accepted in scope", func(t *testing.T) {
		coupon := base
		coupon.CourseID = strPtr("c1")
		coupon.FacilityID = strPtr("f1")
		v := Evaluate(&coupon, "c1", "f1", 50000, now)
		assert.True(t, v.IsValid)
	})

	t.Run("discount stays within bounds", func(t *testing.T) {
		for _, subtotal := range []int64{0, 1, 100, 12345, 1000000} {
			v := Evaluate(&base, "c1", "f1", subtotal, now)
			require.True(t, v.IsValid)
			assert.GreaterOrEqual(t, v.DiscountAmount, int64(0))
			assert.LessOrEqual(t, v.DiscountAmount, subtotal)
		}
	})
}

func TestCouponValidate(t *testing.T) {
	coupons := &mockCouponReader{coupons: map[string]*models.Coupon{
		"SAVE20": {Code: "SAVE20", DiscountType: models.DiscountTypePercentage, DiscountValue: 20, Active: true},
	}}
	svc := NewCouponService(coupons, nil)

	v, err := svc.Validate(context.Background(), "SAVE20", "c1", "f1", 50000)
	require.NoError(t, err)
	assert.True(t, v.IsValid)
	assert.Equal(t, int64(10000), v.DiscountAmount)

	v, err = svc.Validate(context.Background(), "UNKNOWN", "c1", "f1", 50000)
	require.NoError(t, err)
	assert.False(t, v.IsValid)
	assert.Contains(t, v.ErrorMessage, "not found")
}
