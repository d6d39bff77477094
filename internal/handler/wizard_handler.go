package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rakhadian/academy-admin-api/internal/models"
	"github.com/rakhadian/academy-admin-api/internal/service"
	appErrors "github.com/rakhadian/academy-admin-api/pkg/errors"
	"github.com/rakhadian/academy-admin-api/pkg/response"
)

// WizardHandler exposes the enrollment wizard endpoints.
type WizardHandler struct {
	wizard  *service.WizardService
	metrics *service.MetricsService
}

// NewWizardHandler constructs WizardHandler.
func NewWizardHandler(wizard *service.WizardService, metrics *service.MetricsService) *WizardHandler {
	return &WizardHandler{wizard: wizard, metrics: metrics}
}

// PaymentRequest is the review step payload.
type PaymentRequest struct {
	PaymentStatus models.PaymentStatus `json:"payment_status" binding:"required"`
	PaymentAmount int64                `json:"payment_amount"`
}

// JumpRequest names the wizard step to move to.
type JumpRequest struct {
	Step models.EnrollmentStep `json:"step" binding:"required"`
}

// SelectCourseRequest carries the chosen course.
type SelectCourseRequest struct {
	CourseID string `json:"course_id" binding:"required"`
}

func (h *WizardHandler) observeStep(session *models.WizardSession, step models.EnrollmentStep) {
	if h.metrics != nil {
		h.metrics.ObserveWizardStep(string(step), session.Verdict(step).IsValid)
	}
}

// Start godoc
// @Summary Start a new enrollment wizard session
// @Tags Wizard
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /wizard/sessions [post]
func (h *WizardHandler) Start(c *gin.Context) {
	session, err := h.wizard.Start(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Get godoc
// @Summary Fetch a wizard session
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id} [get]
func (h *WizardHandler) Get(c *gin.Context) {
	session, err := h.wizard.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// SelectPerson godoc
// @Summary Choose the enrollee for the session
// @Tags Wizard
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body models.PersonRef true "Person reference"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/person [put]
func (h *WizardHandler) SelectPerson(c *gin.Context) {
	var person models.PersonRef
	if err := c.ShouldBindJSON(&person); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.wizard.SelectPerson(c.Request.Context(), c.Param("id"), person)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.observeStep(session, models.StepPersonSelection)
	response.JSON(c, http.StatusOK, session, nil)
}

// SelectCourse godoc
// @Summary Choose the course for the session
// @Tags Wizard
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body SelectCourseRequest true "Course selection"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/course [put]
func (h *WizardHandler) SelectCourse(c *gin.Context) {
	var req SelectCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.wizard.SelectCourse(c.Request.Context(), c.Param("id"), req.CourseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.observeStep(session, models.StepCourseSelection)
	response.JSON(c, http.StatusOK, session, nil)
}

// Configure godoc
// @Summary Configure facility, age group, session and location
// @Tags Wizard
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body service.ConfigureRequest true "Configuration"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/configuration [put]
func (h *WizardHandler) Configure(c *gin.Context) {
	var req service.ConfigureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.wizard.Configure(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.observeStep(session, models.StepFacilitySelection)
	response.JSON(c, http.StatusOK, session, nil)
}

// SetPayment godoc
// @Summary Record payment status and amount
// @Tags Wizard
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body PaymentRequest true "Payment details"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/payment [put]
func (h *WizardHandler) SetPayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.wizard.SetPayment(c.Request.Context(), c.Param("id"), req.PaymentStatus, req.PaymentAmount)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.observeStep(session, models.StepReviewPayment)
	response.JSON(c, http.StatusOK, session, nil)
}

// Advance godoc
// @Summary Move one step forward
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/advance [post]
func (h *WizardHandler) Advance(c *gin.Context) {
	session, err := h.wizard.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Retreat godoc
// @Summary Move one step backward
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/retreat [post]
func (h *WizardHandler) Retreat(c *gin.Context) {
	session, err := h.wizard.Retreat(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Jump godoc
// @Summary Jump to a specific step
// @Tags Wizard
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body JumpRequest true "Target step"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/jump [post]
func (h *WizardHandler) Jump(c *gin.Context) {
	var req JumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.wizard.JumpTo(c.Request.Context(), c.Param("id"), req.Step)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Finalize godoc
// @Summary Submit the completed enrollment
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/finalize [post]
func (h *WizardHandler) Finalize(c *gin.Context) {
	session, err := h.wizard.Finalize(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil && session.Data.Result != nil {
		h.metrics.ObserveEnrollmentFinalized(string(session.Data.Result.PaymentStatus))
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Reset godoc
// @Summary Reset a wizard session to its first step
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/reset [post]
func (h *WizardHandler) Reset(c *gin.Context) {
	session, err := h.wizard.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Delete godoc
// @Summary Discard a wizard session
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 204
// @Router /wizard/sessions/{id} [delete]
func (h *WizardHandler) Delete(c *gin.Context) {
	if err := h.wizard.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
