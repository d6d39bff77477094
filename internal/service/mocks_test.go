package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/rakhadian/academy-admin-api/internal/models"
	appErrors "github.com/rakhadian/academy-admin-api/pkg/errors"
)

type mockStudentReader struct {
	students map[string]*models.Student
}

func (m *mockStudentReader) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type mockCourseReader struct {
	courses map[string]*models.Course
}

func (m *mockCourseReader) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

type mockFacilityReader struct {
	facilities map[string]*models.Facility
	pricing    map[string][]models.FacilityCoursePricing
	options    []models.FacilityOption
	defaultFor map[string]*models.Facility
}

func pricingKey(courseID, facilityID string) string {
	return courseID + "|" + facilityID
}

func (m *mockFacilityReader) FindByID(ctx context.Context, id string) (*models.Facility, error) {
	if f, ok := m.facilities[id]; ok {
		return f, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockFacilityReader) ListPricing(ctx context.Context, courseID, facilityID string) ([]models.FacilityCoursePricing, error) {
	return m.pricing[pricingKey(courseID, facilityID)], nil
}

func (m *mockFacilityReader) ListOptionsByCourse(ctx context.Context, courseID string) ([]models.FacilityOption, error) {
	return m.options, nil
}

func (m *mockFacilityReader) FindDefaultForStudent(ctx context.Context, studentID string) (*models.Facility, error) {
	if m.defaultFor == nil {
		return nil, nil
	}
	return m.defaultFor[studentID], nil
}

type mockCouponReader struct {
	coupons map[string]*models.Coupon
}

func (m *mockCouponReader) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	if c, ok := m.coupons[code]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

type memSessionStore struct {
	sessions map[string]models.WizardSession
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]models.WizardSession)}
}

func (m *memSessionStore) Get(ctx context.Context, id string) (*models.WizardSession, error) {
	if s, ok := m.sessions[id]; ok {
		copied := s
		return &copied, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "wizard session not found or expired")
}

func (m *memSessionStore) Save(ctx context.Context, session *models.WizardSession) error {
	session.UpdatedAt = time.Now().UTC()
	m.sessions[session.ID] = *session
	return nil
}

func (m *memSessionStore) Delete(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

type mockAssignmentRepo struct {
	created      *models.CourseAssignment
	createdDraft *models.Student
	createErr    error
	details      map[string]*models.AssignmentDetail
	listed       []models.AssignmentDetail
}

func (m *mockAssignmentRepo) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, int, error) {
	return m.listed, len(m.listed), nil
}

func (m *mockAssignmentRepo) FindDetailByID(ctx context.Context, id string) (*models.AssignmentDetail, error) {
	if d, ok := m.details[id]; ok {
		return d, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAssignmentRepo) Create(ctx context.Context, assignment *models.CourseAssignment, draft *models.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	if assignment.ID == "" {
		assignment.ID = "new-assignment"
	}
	if draft != nil {
		if draft.ID == "" {
			draft.ID = "new-student"
		}
		assignment.StudentID = draft.ID
		m.createdDraft = draft
	}
	m.created = assignment
	return nil
}
