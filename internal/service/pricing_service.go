package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rakhadian/academy-admin-api/internal/models"
	appErrors "github.com/rakhadian/academy-admin-api/pkg/errors"
)

type pricingCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type pricingFacilityReader interface {
	ListPricing(ctx context.Context, courseID, facilityID string) ([]models.FacilityCoursePricing, error)
}

type couponValidator interface {
	Validate(ctx context.Context, code, courseID, facilityID string, subtotal int64) (*models.CouponValidation, error)
}

// PricingRequest is a fully specified configuration to price.
type PricingRequest struct {
	CourseID     string              `json:"course_id" validate:"required"`
	FacilityID   string              `json:"facility_id" validate:"required"`
	AgeGroup     string              `json:"age_group" validate:"required"`
	SessionType  models.SessionType  `json:"session_type" validate:"required,oneof=private group school_group"`
	LocationType models.LocationType `json:"location_type" validate:"required,oneof=our-facility client-location virtual"`
	CouponCode   string              `json:"coupon_code,omitempty"`
}

// PricingResult pairs the computed pricing with the coupon verdict, when a
// code was supplied. A rejected coupon does not fail the calculation; it just
// contributes no discount.
type PricingResult struct {
	Pricing models.EnrollmentPricing `json:"pricing"`
	Coupon  *models.CouponValidation `json:"coupon,omitempty"`
}

// PricingService computes enrollment price breakdowns. Calculation never
// caches across configurations and is idempotent for identical inputs.
type PricingService struct {
	courses           pricingCourseReader
	facilities        pricingFacilityReader
	coupons           couponValidator
	minPaymentPercent int
	validator         *validator.Validate
	logger            *zap.Logger
}

// NewPricingService constructs PricingService.
func NewPricingService(courses pricingCourseReader, facilities pricingFacilityReader, coupons couponValidator, minPaymentPercent int, validate *validator.Validate, logger *zap.Logger) *PricingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if minPaymentPercent <= 0 || minPaymentPercent > 100 {
		minPaymentPercent = 50
	}
	return &PricingService{
		courses:           courses,
		facilities:        facilities,
		coupons:           coupons,
		minPaymentPercent: minPaymentPercent,
		validator:         validate,
		logger:            logger,
	}
}

// MinimumPaymentPercent exposes the configured policy threshold.
func (s *PricingService) MinimumPaymentPercent() int {
	return s.minPaymentPercent
}

// Compute derives the full breakdown from resolved inputs. Pure: no I/O, no
// caching, identical inputs yield identical output.
func Compute(sessionsPerPayment int, basePricePerSession int64, coupon *models.CouponValidation, minPaymentPercent int) models.EnrollmentPricing {
	subtotal := basePricePerSession * int64(sessionsPerPayment)

	pricing := models.EnrollmentPricing{
		BasePricePerSession:      basePricePerSession,
		SessionsPerPayment:       sessionsPerPayment,
		Subtotal:                 subtotal,
		TotalAmount:              subtotal,
		MinimumPaymentPercentage: minPaymentPercent,
	}

	if coupon != nil && coupon.IsValid {
		discount := coupon.DiscountAmount
		if discount < 0 {
			discount = 0
		}
		if discount > subtotal {
			discount = subtotal
		}
		pricing.CouponDiscountAmount = &discount
		pricing.TotalAmount = subtotal - discount
	}
	if pricing.TotalAmount < 0 {
		pricing.TotalAmount = 0
	}

	pricing.MinimumPaymentAmount = int64(math.Round(float64(pricing.TotalAmount) * float64(minPaymentPercent) / 100))
	return pricing
}

// Calculate resolves the single matching active pricing entry and computes the
// breakdown. No entry at all is NO_PRICING_CONFIGURED; entries that exist but
// do not cover the requested combination are FACILITY_UNAVAILABLE. It never
// defaults to zero or to another entry.
func (s *PricingService) Calculate(ctx context.Context, req PricingRequest) (*PricingResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pricing request")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	entries, err := s.facilities.ListPricing(ctx, req.CourseID, req.FacilityID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load facility pricing")
	}
	if len(entries) == 0 {
		return nil, appErrors.ErrNoPricingConfigured
	}

	now := time.Now().UTC()
	var matched *models.FacilityCoursePricing
	for i := range entries {
		entry := entries[i]
		if entry.ActiveAt(now) && entry.Matches(req.AgeGroup, req.SessionType, req.LocationType) {
			matched = &entry
			break
		}
	}
	if matched == nil {
		return nil, appErrors.ErrFacilityUnavailable
	}

	result := &PricingResult{}
	if req.CouponCode != "" {
		subtotal := matched.PricePerSession * int64(course.SessionsPerPayment)
		validation, err := s.coupons.Validate(ctx, req.CouponCode, req.CourseID, req.FacilityID, subtotal)
		if err != nil {
			return nil, err
		}
		result.Coupon = validation
	}

	result.Pricing = Compute(course.SessionsPerPayment, matched.PricePerSession, result.Coupon, s.minPaymentPercent)
	return result, nil
}
