package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rakhadian/academy-admin-api/internal/models"
	appErrors "github.com/rakhadian/academy-admin-api/pkg/errors"
)

type couponReader interface {
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
}

// CouponService validates discount codes against an enrollment subtotal.
type CouponService struct {
	coupons couponReader
	logger  *zap.Logger
}

// NewCouponService constructs CouponService.
func NewCouponService(coupons couponReader, logger *zap.Logger) *CouponService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CouponService{coupons: coupons, logger: logger}
}

func rejectedCoupon(message string) models.CouponValidation {
	return models.CouponValidation{IsValid: false, ErrorMessage: message}
}

// Evaluate runs the validation checks in order, short-circuiting on the first
// failure: active, usage limit, expiry, minimum amount, course/facility scope.
// A valid coupon yields the full computed discount, clamped to [0, subtotal];
// an invalid one yields none at all.
func Evaluate(coupon *models.Coupon, courseID, facilityID string, subtotal int64, at time.Time) models.CouponValidation {
	if coupon == nil || !coupon.Active {
		return rejectedCoupon("coupon code is not active")
	}
	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return rejectedCoupon("coupon usage limit reached")
	}
	if coupon.ExpiresAt != nil && at.After(*coupon.ExpiresAt) {
		return rejectedCoupon("coupon has expired")
	}
	if coupon.MinimumAmount != nil && subtotal < *coupon.MinimumAmount {
		return rejectedCoupon(fmt.Sprintf("subtotal below coupon minimum of %d", *coupon.MinimumAmount))
	}
	if coupon.CourseID != nil && *coupon.CourseID != courseID {
		return rejectedCoupon("coupon is not valid for this course")
	}
	if coupon.FacilityID != nil && *coupon.FacilityID != facilityID {
		return rejectedCoupon("coupon is not valid for this facility")
	}

	var amount int64
	switch coupon.DiscountType {
	case models.DiscountTypePercentage:
		amount = subtotal * coupon.DiscountValue / 100
	case models.DiscountTypeFixedAmount:
		amount = coupon.DiscountValue
	default:
		return rejectedCoupon("unknown discount type")
	}

	if coupon.MaximumDiscount != nil && amount > *coupon.MaximumDiscount {
		amount = *coupon.MaximumDiscount
	}
	if amount < 0 {
		amount = 0
	}
	if amount > subtotal {
		amount = subtotal
	}

	return models.CouponValidation{
		IsValid:        true,
		DiscountType:   coupon.DiscountType,
		DiscountValue:  coupon.DiscountValue,
		DiscountAmount: amount,
	}
}

// Validate looks up a code and evaluates it. An unknown code is a rejection,
// not an error; infrastructure failures are errors.
func (s *CouponService) Validate(ctx context.Context, code, courseID, facilityID string, subtotal int64) (*models.CouponValidation, error) {
	coupon, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			v := rejectedCoupon("coupon code not found")
			return &v, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load coupon")
	}
	validation := Evaluate(coupon, courseID, facilityID, subtotal, time.Now().UTC())
	return &validation, nil
}
