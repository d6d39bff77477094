package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rakhadian/academy-admin-api/internal/models"
	"github.com/rakhadian/academy-admin-api/internal/service"
	appErrors "github.com/rakhadian/academy-admin-api/pkg/errors"
	"github.com/rakhadian/academy-admin-api/pkg/response"
)

// AssignmentHandler exposes finalized course assignments.
type AssignmentHandler struct {
	assignments *service.AssignmentService
	pricing     *service.PricingService
	receipts    *service.ReceiptService
}

// NewAssignmentHandler constructs AssignmentHandler.
func NewAssignmentHandler(assignments *service.AssignmentService, pricing *service.PricingService, receipts *service.ReceiptService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, pricing: pricing, receipts: receipts}
}

// CreateAssignmentRequest carries a full enrollment in one payload, bypassing
// the step-by-step wizard. The same pricing and finalization rules apply.
type CreateAssignmentRequest struct {
	Person        models.PersonRef     `json:"person" binding:"required"`
	CourseID      string               `json:"course_id" binding:"required"`
	FacilityID    string               `json:"facility_id" binding:"required"`
	AgeGroup      string               `json:"age_group" binding:"required"`
	SessionType   models.SessionType   `json:"session_type" binding:"required"`
	LocationType  models.LocationType  `json:"location_type" binding:"required"`
	CouponCode    string               `json:"coupon_code"`
	PaymentStatus models.PaymentStatus `json:"payment_status" binding:"required"`
	PaymentAmount int64                `json:"payment_amount"`
}

// Create godoc
// @Summary Create a course assignment directly
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body CreateAssignmentRequest true "Enrollment"
// @Success 201 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.pricing.Calculate(c.Request.Context(), service.PricingRequest{
		CourseID:     req.CourseID,
		FacilityID:   req.FacilityID,
		AgeGroup:     req.AgeGroup,
		SessionType:  req.SessionType,
		LocationType: req.LocationType,
		CouponCode:   req.CouponCode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	data := &models.EnrollmentData{
		Person:   &req.Person,
		CourseID: req.CourseID,
		Config: &models.EnrollmentConfig{
			FacilityID:   req.FacilityID,
			AgeGroup:     req.AgeGroup,
			SessionType:  req.SessionType,
			LocationType: req.LocationType,
		},
		Pricing:       &result.Pricing,
		PaymentStatus: req.PaymentStatus,
		PaymentAmount: req.PaymentAmount,
	}
	if result.Coupon != nil && result.Coupon.IsValid {
		data.CouponCode = req.CouponCode
		data.CouponDiscount = result.Pricing.CouponDiscountAmount
	}

	assignment, err := h.assignments.Finalize(c.Request.Context(), data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, assignment, nil)
}

// List godoc
// @Summary List course assignments
// @Tags Assignments
// @Produce json
// @Param studentId query string false "Filter by student"
// @Param courseId query string false "Filter by course"
// @Param facilityId query string false "Filter by facility"
// @Param paymentStatus query string false "Filter by payment status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	var filter models.AssignmentFilter
	filter.StudentID = c.Query("studentId")
	filter.CourseID = c.Query("courseId")
	filter.FacilityID = c.Query("facilityId")
	filter.PaymentStatus = models.PaymentStatus(c.Query("paymentStatus"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	assignments, pagination, err := h.assignments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, pagination)
}

// Get godoc
// @Summary Fetch one assignment with display names
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	detail, err := h.assignments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// ExportCSV godoc
// @Summary Export the filtered assignment list as CSV
// @Tags Assignments
// @Produce text/csv
// @Param courseId query string false "Filter by course"
// @Param facilityId query string false "Filter by facility"
// @Param paymentStatus query string false "Filter by payment status"
// @Success 200
// @Router /assignments/export [get]
func (h *AssignmentHandler) ExportCSV(c *gin.Context) {
	var filter models.AssignmentFilter
	filter.StudentID = c.Query("studentId")
	filter.CourseID = c.Query("courseId")
	filter.FacilityID = c.Query("facilityId")
	filter.PaymentStatus = models.PaymentStatus(c.Query("paymentStatus"))

	data, err := h.assignments.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="assignments.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// ReceiptLink godoc
// @Summary Issue a signed download link for an assignment's receipt
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id}/receipt [get]
func (h *AssignmentHandler) ReceiptLink(c *gin.Context) {
	link, err := h.receipts.Link(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, link, nil)
}

// DownloadReceipt godoc
// @Summary Download a receipt via a signed token
// @Tags Assignments
// @Produce application/pdf
// @Param token query string true "Signed token"
// @Success 200
// @Router /receipts/download [get]
func (h *AssignmentHandler) DownloadReceipt(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	path, err := h.receipts.Resolve(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.File(path)
}
