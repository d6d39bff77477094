package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakhadian/academy-admin-api/internal/models"
	"github.com/rakhadian/academy-admin-api/internal/service"
	appErrors "github.com/rakhadian/academy-admin-api/pkg/errors"
	"github.com/rakhadian/academy-admin-api/pkg/response"
)

type wizardStudentsMock struct {
	students map[string]*models.Student
}

func (m *wizardStudentsMock) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type wizardCoursesMock struct {
	courses map[string]*models.Course
}

func (m *wizardCoursesMock) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

type wizardFacilitiesMock struct {
	facilities map[string]*models.Facility
	pricing    map[string][]models.FacilityCoursePricing
}

func (m *wizardFacilitiesMock) FindByID(ctx context.Context, id string) (*models.Facility, error) {
	if f, ok := m.facilities[id]; ok {
		return f, nil
	}
	return nil, sql.ErrNoRows
}

func (m *wizardFacilitiesMock) ListPricing(ctx context.Context, courseID, facilityID string) ([]models.FacilityCoursePricing, error) {
	return m.pricing[courseID+"|"+facilityID], nil
}

func (m *wizardFacilitiesMock) ListOptionsByCourse(ctx context.Context, courseID string) ([]models.FacilityOption, error) {
	return nil, nil
}

func (m *wizardFacilitiesMock) FindDefaultForStudent(ctx context.Context, studentID string) (*models.Facility, error) {
	return nil, nil
}

type wizardCouponsMock struct{}

func (m *wizardCouponsMock) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	return nil, sql.ErrNoRows
}

type wizardAssignmentsMock struct{}

func (m *wizardAssignmentsMock) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, int, error) {
	return nil, 0, nil
}

func (m *wizardAssignmentsMock) FindDetailByID(ctx context.Context, id string) (*models.AssignmentDetail, error) {
	return nil, sql.ErrNoRows
}

func (m *wizardAssignmentsMock) Create(ctx context.Context, assignment *models.CourseAssignment, draft *models.Student) error {
	assignment.ID = "assignment-1"
	if draft != nil {
		draft.ID = "student-draft"
		assignment.StudentID = draft.ID
	}
	return nil
}

type wizardSessionsMock struct {
	sessions map[string]models.WizardSession
}

func (m *wizardSessionsMock) Get(ctx context.Context, id string) (*models.WizardSession, error) {
	if s, ok := m.sessions[id]; ok {
		copied := s
		return &copied, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "wizard session not found or expired")
}

func (m *wizardSessionsMock) Save(ctx context.Context, session *models.WizardSession) error {
	if m.sessions == nil {
		m.sessions = make(map[string]models.WizardSession)
	}
	m.sessions[session.ID] = *session
	return nil
}

func (m *wizardSessionsMock) Delete(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func newWizardRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	students := &wizardStudentsMock{students: map[string]*models.Student{
		"s1": {ID: "s1", FullName: "Ana", BirthDate: time.Now().UTC().AddDate(-8, 0, -30)},
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
	finalizer := service.NewAssignmentService(&wizardAssignmentsMock{}, students, nil, nil)
	wizard := service.NewWizardService(&wizardSessionsMock{sessions: map[string]models.WizardSession{}}, students, courses, eligibility, availability, pricing, finalizer, nil, nil)

	h := NewWizardHandler(wizard, nil)
	router := gin.New()
	sessions := router.Group("/wizard/sessions")
	{
		sessions.POST("", h.Start)
		sessions.GET("/:id", h.Get)
		sessions.DELETE("/:id", h.Delete)
		sessions.PUT("/:id/person", h.SelectPerson)
		sessions.PUT("/:id/course", h.SelectCourse)
		sessions.PUT("/:id/configuration", h.Configure)
		sessions.PUT("/:id/payment", h.SetPayment)
		sessions.POST("/:id/advance", h.Advance)
		sessions.POST("/:id/retreat", h.Retreat)
		sessions.POST("/:id/jump", h.Jump)
		sessions.POST("/:id/finalize", h.Finalize)
		sessions.POST("/:id/reset", h.Reset)
	}
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload interface{}) (*httptest.ResponseRecorder, response.Envelope) {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var envelope response.Envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	}
	return w, envelope
}

func sessionFromEnvelope(t *testing.T, envelope response.Envelope) models.WizardSession {
	t.Helper()
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var session models.WizardSession
	require.NoError(t, json.Unmarshal(raw, &session))
	return session
}

func TestWizardEndpointsFullFlow(t *testing.T) {
	router := newWizardRouter(t)

	w, envelope := doJSON(t, router, http.MethodPost, "/wizard/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	session := sessionFromEnvelope(t, envelope)
	require.NotEmpty(t, session.ID)
	base := "/wizard/sessions/" + session.ID

	w, envelope = doJSON(t, router, http.MethodPut, base+"/person", models.PersonRef{Kind: models.PersonKindExisting, ExistingID: "s1"})
	require.Equal(t, http.StatusOK, w.Code)
	session = sessionFromEnvelope(t, envelope)
	assert.True(t, session.Verdict(models.StepPersonSelection).IsValid)

	w, _ = doJSON(t, router, http.MethodPost, base+"/advance", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodPut, base+"/course", SelectCourseRequest{CourseID: "c1"})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, base+"/advance", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, envelope = doJSON(t, router, http.MethodPut, base+"/configuration", service.ConfigureRequest{
		FacilityID:   "f1",
		AgeGroup:     "Kids",
		SessionType:  models.SessionTypeGroup,
		LocationType: models.LocationTypeOurFacility,
	})
	require.Equal(t, http.StatusOK, w.Code)
	session = sessionFromEnvelope(t, envelope)
	require.NotNil(t, session.Data.Pricing)
	assert.Equal(t, int64(50000), session.Data.Pricing.TotalAmount)

	w, _ = doJSON(t, router, http.MethodPost, base+"/advance", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodPut, base+"/payment", PaymentRequest{PaymentStatus: models.PaymentStatusPartiallyPaid, PaymentAmount: 30000})
	require.Equal(t, http.StatusOK, w.Code)

	w, envelope = doJSON(t, router, http.MethodPost, base+"/finalize", nil)
	require.Equal(t, http.StatusOK, w.Code)
	session = sessionFromEnvelope(t, envelope)
	assert.Equal(t, models.StepConfirmation, session.CurrentStep)
	require.NotNil(t, session.Data.Result)
	assert.Equal(t, "assignment-1", session.Data.Result.ID)
}

func TestWizardEndpointsRejectOutOfStepWrites(t *testing.T) {
	router := newWizardRouter(t)

	w, envelope := doJSON(t, router, http.MethodPost, "/wizard/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	session := sessionFromEnvelope(t, envelope)
	base := "/wizard/sessions/" + session.ID

	w, _ = doJSON(t, router, http.MethodPut, base+"/course", SelectCourseRequest{CourseID: "c1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, base+"/advance", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestWizardEndpointsUnknownSession(t *testing.T) {
	router := newWizardRouter(t)

	w, _ := doJSON(t, router, http.MethodGet, "/wizard/sessions/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWizardEndpointsInvalidPayload(t *testing.T) {
	router := newWizardRouter(t)

	w, envelope := doJSON(t, router, http.MethodPost, "/wizard/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	session := sessionFromEnvelope(t, envelope)

	req, _ := http.NewRequest(http.MethodPut, "/wizard/sessions/"+session.ID+"/course", bytes.NewReader([]byte(`not json`)))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
