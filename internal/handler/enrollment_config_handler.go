package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rakhadian/academy-admin-api/internal/models"
	"github.com/rakhadian/academy-admin-api/internal/service"
	appErrors "github.com/rakhadian/academy-admin-api/pkg/errors"
	"github.com/rakhadian/academy-admin-api/pkg/response"
)

// EnrollmentConfigHandler exposes the enrollment configuration collaborators
// directly, outside any wizard session.
type EnrollmentConfigHandler struct {
	eligibility  *service.EligibilityService
	availability *service.AvailabilityService
	pricing      *service.PricingService
	coupons      *service.CouponService
}

// NewEnrollmentConfigHandler constructs EnrollmentConfigHandler.
func NewEnrollmentConfigHandler(
	eligibility *service.EligibilityService,
	availability *service.AvailabilityService,
	pricing *service.PricingService,
	coupons *service.CouponService,
) *EnrollmentConfigHandler {
	return &EnrollmentConfigHandler{
		eligibility:  eligibility,
		availability: availability,
		pricing:      pricing,
		coupons:      coupons,
	}
}

// AvailabilityRequest names one combination to match against a facility.
type AvailabilityRequest struct {
	CourseID     string              `json:"course_id" binding:"required"`
	FacilityID   string              `json:"facility_id" binding:"required"`
	AgeGroup     string              `json:"age_group" binding:"required"`
	SessionType  models.SessionType  `json:"session_type" binding:"required"`
	LocationType models.LocationType `json:"location_type" binding:"required"`
}

// CouponCheckRequest asks for a coupon verdict against a subtotal.
type CouponCheckRequest struct {
	Code       string `json:"code" binding:"required"`
	CourseID   string `json:"course_id" binding:"required"`
	FacilityID string `json:"facility_id" binding:"required"`
	Subtotal   int64  `json:"subtotal" binding:"required"`
}

// Eligibility godoc
// @Summary Evaluate a student's age eligibility for a course
// @Tags Enrollment
// @Produce json
// @Param studentId query string true "Student ID"
// @Param courseId query string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /enrollment/eligibility [get]
func (h *EnrollmentConfigHandler) Eligibility(c *gin.Context) {
	studentID := c.Query("studentId")
	courseID := c.Query("courseId")
	if studentID == "" || courseID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "studentId and courseId are required"))
		return
	}
	result, err := h.eligibility.CheckCourse(c.Request.Context(), studentID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// DefaultFacility godoc
// @Summary Suggest a facility from the student's enrollment history
// @Tags Enrollment
// @Produce json
// @Param studentId query string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /enrollment/default-facility [get]
func (h *EnrollmentConfigHandler) DefaultFacility(c *gin.Context) {
	studentID := c.Query("studentId")
	if studentID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "studentId is required"))
		return
	}
	facility, err := h.availability.DefaultFacility(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, facility, nil)
}

// CourseFacilities godoc
// @Summary List facilities able to host a course
// @Tags Enrollment
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/facilities [get]
func (h *EnrollmentConfigHandler) CourseFacilities(c *gin.Context) {
	list, err := h.availability.ListFacilities(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// Availability godoc
// @Summary Match a facility against a requested configuration
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param payload body AvailabilityRequest true "Requested combination"
// @Success 200 {object} response.Envelope
// @Router /enrollment/availability [post]
func (h *EnrollmentConfigHandler) Availability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	availability, err := h.availability.Validate(c.Request.Context(), req.CourseID, req.FacilityID, req.AgeGroup, req.SessionType, req.LocationType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, availability, nil)
}

// Pricing godoc
// @Summary Compute the price breakdown for a configuration
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param payload body service.PricingRequest true "Configuration to price"
// @Success 200 {object} response.Envelope
// @Router /enrollment/pricing [post]
func (h *EnrollmentConfigHandler) Pricing(c *gin.Context) {
	var req service.PricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.pricing.Calculate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ValidateCoupon godoc
// @Summary Validate a coupon code against a subtotal
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param payload body CouponCheckRequest true "Coupon check"
// @Success 200 {object} response.Envelope
// @Router /enrollment/coupons/validate [post]
func (h *EnrollmentConfigHandler) ValidateCoupon(c *gin.Context) {
	var req CouponCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	validation, err := h.coupons.Validate(c.Request.Context(), req.Code, req.CourseID, req.FacilityID, req.Subtotal)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, validation, nil)
}
