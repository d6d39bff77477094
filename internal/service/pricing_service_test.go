package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakhadian/academy-admin-api/internal/models"
	appErrors "github.com/rakhadian/academy-admin-api/pkg/errors"
)

func TestCompute(t *testing.T) {
	t.Run("plain breakdown", func(t *testing.T) {
		pricing := Compute(8, 6250, nil, 50)
		assert.Equal(t, int64(50000), pricing.Subtotal)
		assert.Equal(t, int64(50000), pricing.TotalAmount)
		assert.Equal(t, int64(25000), pricing.MinimumPaymentAmount)
		assert.Nil(t, pricing.CouponDiscountAmount)
	})

	t.Run("percentage coupon applied", func(t *testing.T) {
		coupon := &models.CouponValidation{IsValid: true, DiscountType: models.DiscountTypePercentage, DiscountValue: 20, DiscountAmount: 10000}
		pricing := Compute(8, 6250, coupon, 50)
		require.NotNil(t, pricing.CouponDiscountAmount)
		assert.Equal(t, int64(10000), *pricing.CouponDiscountAmount)
		assert.Equal(t, int64(40000), pricing.TotalAmount)
		assert.Equal(t, int64(20000), pricing.MinimumPaymentAmount)
	})

	t.Run("rejected coupon contributes nothing", func(t *testing.T) {
		coupon := &models.CouponValidation{IsValid: false, ErrorMessage: "expired"}
		pricing := Compute(8, 6250, coupon, 50)
		assert.Nil(t, pricing.CouponDiscountAmount)
		assert.Equal(t, int64(50000), pricing.TotalAmount)
	})

	t.Run("minimum payment rounds half up", func(t *testing.T) {
		pricing := Compute(3, 1667, nil, 50)
		// 5001 * 50% = 2500.5, rounds to 2501.
		assert.Equal(t, int64(5001), pricing.TotalAmount)
		assert.Equal(t, int64(2501), pricing.MinimumPaymentAmount)
	})

	t.Run("discount covering the subtotal floors at zero", func(t *testing.T) {
		coupon := &models.CouponValidation{IsValid: true, DiscountType: models.DiscountTypeFixedAmount, DiscountAmount: 999999}
		pricing := Compute(8, 6250, coupon, 50)
		assert.Equal(t, int64(0), pricing.TotalAmount)
		assert.Equal(t, int64(0), pricing.MinimumPaymentAmount)
	})

	t.Run("identical inputs give identical output", func(t *testing.T) {
		coupon := &models.CouponValidation{IsValid: true, DiscountAmount: 10000}
		first := Compute(8, 6250, coupon, 50)
		second := Compute(8, 6250, coupon, 50)
		assert.Equal(t, first, second)
	})
}

func TestSessionsAccessible(t *testing.T) {
	pricing := models.EnrollmentPricing{
		SessionsPerPayment:   8,
		TotalAmount:          50000,
		MinimumPaymentAmount: 25000,
	}

	tests := []struct {
		name    string
		payment int64
		want    int
	}{
		{"below minimum grants nothing", 20000, 0},
		{"at minimum grants proportional floor", 25000, 4},
		{"between minimum and total", 30000, 4},
		{"three quarters", 37500, 6},
		{"full payment grants everything", 50000, 8},
		{"overpayment is capped", 60000, 8},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, pricing.SessionsAccessible(tc.payment))
		})
	}

	t.Run("monotonic in payment amount", func(t *testing.T) {
		prev := 0
		for amount := int64(0); amount <= 55000; amount += 500 {
			got := pricing.SessionsAccessible(amount)
			assert.GreaterOrEqual(t, got, prev)
			prev = got
		}
	})

	t.Run("zero total grants full access", func(t *testing.T) {
		free := models.EnrollmentPricing{SessionsPerPayment: 8}
		assert.Equal(t, 8, free.SessionsAccessible(0))
	})
}

func TestPricingCalculate(t *testing.T) {
	courses := &mockCourseReader{courses: map[string]*models.Course{
		"c1": {ID: "c1", SessionsPerPayment: 8},
	}}
	facilities := &mockFacilityReader{
		pricing: map[string][]models.FacilityCoursePricing{
			pricingKey("c1", "f1"): {
				{AgeGroup: "Kids", SessionType: models.SessionTypeGroup, LocationType: models.LocationTypeOurFacility, PricePerSession: 6250, Active: true},
			},
		},
	}
	coupons := NewCouponService(&mockCouponReader{coupons: map[string]*models.Coupon{
		"SAVE20": {Code: "SAVE20", DiscountType: models.DiscountTypePercentage, DiscountValue: 20, Active: true},
	}}, nil)
	svc := NewPricingService(courses, facilities, coupons, 50, nil, nil)

	request := PricingRequest{
		CourseID:     "c1",
		FacilityID:   "f1",
		AgeGroup:     "Kids",
		SessionType:  models.SessionTypeGroup,
		LocationType: models.LocationTypeOurFacility,
	}

	t.Run("matched entry priced", func(t *testing.T) {
		result, err := svc.Calculate(context.Background(), request)
		require.NoError(t, err)
		assert.Equal(t, int64(50000), result.Pricing.Subtotal)
		assert.Equal(t, int64(25000), result.Pricing.MinimumPaymentAmount)
		assert.Nil(t, result.Coupon)
	})

	t.Run("coupon reduces total", func(t *testing.T) {
		withCoupon := request
		withCoupon.CouponCode = "SAVE20"
		result, err := svc.Calculate(context.Background(), withCoupon)
		require.NoError(t, err)
		require.NotNil(t, result.Coupon)
		assert.True(t, result.Coupon.IsValid)
		assert.Equal(t, int64(40000), result.Pricing.TotalAmount)
		assert.Equal(t, int64(20000), result.Pricing.MinimumPaymentAmount)
	})

	t.Run("no entries at all", func(t *testing.T) {
		missing := request
		missing.FacilityID = "f9"
		_, err := svc.Calculate(context.Background(), missing)
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrNoPricingConfigured.Code))
	})

	t.Run("no matching combination", func(t *testing.T) {
		unmatched := request
		unmatched.AgeGroup = "Teens"
		_, err := svc.Calculate(context.Background(), unmatched)
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrFacilityUnavailable.Code))
	})

	t.Run("unknown course", func(t *testing.T) {
		bad := request
		bad.CourseID = "missing"
		_, err := svc.Calculate(context.Background(), bad)
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound.Code))
	})
}
