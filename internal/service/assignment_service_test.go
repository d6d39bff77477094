package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakhadian/academy-admin-api/internal/models"
	appErrors "github.com/rakhadian/academy-admin-api/pkg/errors"
)

func TestValidatePayment(t *testing.T) {
	pricing := &models.EnrollmentPricing{
		TotalAmount:          50000,
		MinimumPaymentAmount: 25000,
		SessionsPerPayment:   8,
	}

	tests := []struct {
		name   string
		status models.PaymentStatus
		amount int64
		valid  bool
	}{
		{"unpaid with zero amount", models.PaymentStatusUnpaid, 0, true},
		{"unpaid with amount", models.PaymentStatusUnpaid, 1000, false},
		{"partial below minimum", models.PaymentStatusPartiallyPaid, 20000, false},
		{"partial at minimum", models.PaymentStatusPartiallyPaid, 25000, true},
		{"partial between minimum and total", models.PaymentStatusPartiallyPaid, 30000, true},
		{"partial at total", models.PaymentStatusPartiallyPaid, 50000, false},
		{"full below total", models.PaymentStatusFullyPaid, 49999, false},
		{"full at total", models.PaymentStatusFullyPaid, 50000, true},
		{"full above total", models.PaymentStatusFullyPaid, 60000, true},
		{"negative amount", models.PaymentStatusFullyPaid, -1, false},
		{"unknown status", models.PaymentStatus("weird"), 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidatePayment(pricing, tc.status, tc.amount)
			if tc.valid {
				assert.Empty(t, errs)
			} else {
				assert.NotEmpty(t, errs)
			}
		})
	}

	t.Run("nil pricing", func(t *testing.T) {
		errs := ValidatePayment(nil, models.PaymentStatusUnpaid, 0)
		require.Len(t, errs, 1)
		assert.Equal(t, "pricing", errs[0].Field)
	})

	t.Run("zero total rejects partial", func(t *testing.T) {
		free := &models.EnrollmentPricing{TotalAmount: 0}
		assert.NotEmpty(t, ValidatePayment(free, models.PaymentStatusPartiallyPaid, 0))
		assert.Empty(t, ValidatePayment(free, models.PaymentStatusFullyPaid, 0))
	})
}

func completedEnrollment() *models.EnrollmentData {
	discount := int64(10000)
	return &models.EnrollmentData{
		Person:   &models.PersonRef{Kind: models.PersonKindExisting, ExistingID: "s1"},
		CourseID: "c1",
		Config: &models.EnrollmentConfig{
			FacilityID:   "f1",
			AgeGroup:     "Kids",
			SessionType:  models.SessionTypeGroup,
			LocationType: models.LocationTypeOurFacility,
		},
		Pricing: &models.EnrollmentPricing{
			BasePricePerSession:  6250,
			SessionsPerPayment:   8,
			Subtotal:             50000,
			CouponDiscountAmount: &discount,
			TotalAmount:          40000,
			MinimumPaymentAmount: 20000,
		},
		CouponCode:     "SAVE20",
		CouponDiscount: &discount,
		PaymentStatus:  models.PaymentStatusPartiallyPaid,
		PaymentAmount:  30000,
	}
}

func TestFinalize(t *testing.T) {
	students := &mockStudentReader{students: map[string]*models.Student{
		"s1": {ID: "s1", FullName: "Ana"},
	}}

	t.Run("existing student with partial payment", func(t *testing.T) {
		repo := &mockAssignmentRepo{}
		svc := NewAssignmentService(repo, students, nil, nil)

		assignment, err := svc.Finalize(context.Background(), completedEnrollment())
		require.NoError(t, err)
		assert.Equal(t, "s1", assignment.StudentID)
		assert.Equal(t, models.PaymentStatusPartiallyPaid, assignment.PaymentStatus)
		// floor(8 * 30000 / 40000) = 6
		assert.Equal(t, 6, assignment.SessionsAccessible)
		assert.True(t, assignment.CanAttendSessions)
		require.NotNil(t, assignment.CouponCode)
		assert.Equal(t, "SAVE20", *assignment.CouponCode)
		assert.Nil(t, repo.createdDraft)
	})

	t.Run("draft person is created with the assignment", func(t *testing.T) {
		repo := &mockAssignmentRepo{}
		svc := NewAssignmentService(repo, students, nil, nil)

		data := completedEnrollment()
		data.Person = &models.PersonRef{Kind: models.PersonKindDraft, Draft: &models.DraftPerson{
			FullName:  "New Kid",
			Email:     "kid@example.com",
			BirthDate: time.Date(2018, 4, 1, 0, 0, 0, 0, time.UTC),
		}}

		assignment, err := svc.Finalize(context.Background(), data)
		require.NoError(t, err)
		require.NotNil(t, repo.createdDraft)
		assert.Equal(t, "New Kid", repo.createdDraft.FullName)
		assert.True(t, repo.createdDraft.Active)
		assert.Equal(t, repo.createdDraft.ID, assignment.StudentID)
	})

	t.Run("incomplete configuration", func(t *testing.T) {
		svc := NewAssignmentService(&mockAssignmentRepo{}, students, nil, nil)
		data := completedEnrollment()
		data.Pricing = nil
		_, err := svc.Finalize(context.Background(), data)
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrPreconditionFailed.Code))
	})

	t.Run("invalid payment rejected", func(t *testing.T) {
		svc := NewAssignmentService(&mockAssignmentRepo{}, students, nil, nil)
		data := completedEnrollment()
		data.PaymentAmount = 1000
		_, err := svc.Finalize(context.Background(), data)
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
	})

	t.Run("unknown existing student", func(t *testing.T) {
		svc := NewAssignmentService(&mockAssignmentRepo{}, students, nil, nil)
		data := completedEnrollment()
		data.Person.ExistingID = "ghost"
		_, err := svc.Finalize(context.Background(), data)
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound.Code))
	})

	t.Run("persistence failure surfaces as submission error", func(t *testing.T) {
		repo := &mockAssignmentRepo{createErr: errors.New("db down")}
		svc := NewAssignmentService(repo, students, nil, nil)
		_, err := svc.Finalize(context.Background(), completedEnrollment())
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrSubmissionFailed.Code))
	})

	t.Run("unpaid enrollment grants no sessions", func(t *testing.T) {
		repo := &mockAssignmentRepo{}
		svc := NewAssignmentService(repo, students, nil, nil)
		data := completedEnrollment()
		data.PaymentStatus = models.PaymentStatusUnpaid
		data.PaymentAmount = 0
		assignment, err := svc.Finalize(context.Background(), data)
		require.NoError(t, err)
		assert.Equal(t, 0, assignment.SessionsAccessible)
		assert.False(t, assignment.CanAttendSessions)
	})
}

func TestAssignmentExportCSV(t *testing.T) {
	repo := &mockAssignmentRepo{listed: []models.AssignmentDetail{
		{
			CourseAssignment: models.CourseAssignment{
				ID:                 "a1",
				AgeGroup:           "Kids",
				SessionType:        models.SessionTypeGroup,
				LocationType:       models.LocationTypeOurFacility,
				PaymentStatus:      models.PaymentStatusPartiallyPaid,
				AmountPaid:         30000,
				TotalAmountDue:     50000,
				SessionsAccessible: 4,
				CreatedAt:          time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			},
			StudentName:  "Ana",
			CourseName:   "Robotics",
			FacilityName: "North Campus",
		},
	}}
	svc := NewAssignmentService(repo, &mockStudentReader{}, nil, nil)

	data, err := svc.ExportCSV(context.Background(), models.AssignmentFilter{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "payment_status")
	assert.Contains(t, lines[1], "a1")
	assert.Contains(t, lines[1], "Ana")
	assert.Contains(t, lines[1], "30000")
	assert.Contains(t, lines[1], "partially_paid")
}
