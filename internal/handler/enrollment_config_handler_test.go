package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakhadian/academy-admin-api/internal/models"
	"github.com/rakhadian/academy-admin-api/internal/service"
)

func newConfigRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	students := &wizardStudentsMock{students: map[string]*models.Student{
		"s1": {ID: "s1", BirthDate: time.Now().UTC().AddDate(-8, 0, -30)},
	}}
	courses := &wizardCoursesMock{courses: map[string]*models.Course{
		"c1": {ID: "c1", SessionsPerPayment: 8, AgeGroups: models.AgeGroupList{{Label: "Kids", MinAge: 6, MaxAge: 9}}},
	}}
	facilities := &wizardFacilitiesMock{
		facilities: map[string]*models.Facility{"f1": {ID: "f1"}},
		pricing: map[string][]models.FacilityCoursePricing{
			"c1|f1": {{AgeGroup: "Kids", SessionType: models.SessionTypeGroup, LocationType: models.LocationTypeOurFacility, PricePerSession: 6250, Active: true}},
		},
	}

	eligibility := service.NewEligibilityService(students, courses, nil)
	availability := service.NewAvailabilityService(facilities, nil, 0, nil)
	coupons := service.NewCouponService(&wizardCouponsMock{}, nil)
	pricing := service.NewPricingService(courses, facilities, coupons, 50, nil, nil)

	h := NewEnrollmentConfigHandler(eligibility, availability, pricing, coupons)
	router := gin.New()
	router.GET("/enrollment/eligibility", h.Eligibility)
	router.GET("/enrollment/default-facility", h.DefaultFacility)
	router.GET("/courses/:id/facilities", h.CourseFacilities)
	router.POST("/enrollment/availability", h.Availability)
	router.POST("/enrollment/pricing", h.Pricing)
	router.POST("/enrollment/coupons/validate", h.ValidateCoupon)
	return router
}

func TestEligibilityEndpoint(t *testing.T) {
	router := newConfigRouter(t)

	w, _ := doJSON(t, router, http.MethodGet, "/enrollment/eligibility?studentId=s1&courseId=c1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodGet, "/enrollment/eligibility?studentId=s1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, http.MethodGet, "/enrollment/eligibility?studentId=ghost&courseId=c1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAvailabilityEndpoint(t *testing.T) {
	router := newConfigRouter(t)

	w, envelope := doJSON(t, router, http.MethodPost, "/enrollment/availability", AvailabilityRequest{
		CourseID:     "c1",
		FacilityID:   "f1",
		AgeGroup:     "Kids",
		SessionType:  models.SessionTypeGroup,
		LocationType: models.LocationTypeOurFacility,
	})
	require.Equal(t, http.StatusOK, w.Code)
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, string(models.AvailabilityAvailable), data["status"])
}

func TestPricingEndpoint(t *testing.T) {
	router := newConfigRouter(t)

	w, _ := doJSON(t, router, http.MethodPost, "/enrollment/pricing", service.PricingRequest{
		CourseID:     "c1",
		FacilityID:   "f1",
		AgeGroup:     "Kids",
		SessionType:  models.SessionTypeGroup,
		LocationType: models.LocationTypeOurFacility,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/enrollment/pricing", service.PricingRequest{
		CourseID:     "c1",
		FacilityID:   "f1",
		AgeGroup:     "Teens",
		SessionType:  models.SessionTypeGroup,
		LocationType: models.LocationTypeOurFacility,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestValidateCouponEndpoint(t *testing.T) {
	router := newConfigRouter(t)

	w, envelope := doJSON(t, router, http.MethodPost, "/enrollment/coupons/validate", CouponCheckRequest{
		Code:       "UNKNOWN",
		CourseID:   "c1",
		FacilityID: "f1",
		Subtotal:   50000,
	})
	require.Equal(t, http.StatusOK, w.Code)
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, data["is_valid"])
}
