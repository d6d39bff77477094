package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/rakhadian/academy-admin-api/internal/models"
)

func TestAssignmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO course_assignments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assignment := &models.CourseAssignment{
		StudentID:      "stu-1",
		CourseID:       "crs-1",
		FacilityID:     "fac-1",
		AgeGroup:       "8-12",
		SessionType:    models.SessionTypePrivate,
		LocationType:   models.LocationTypeOurFacility,
		AmountPaid:     30000,
		TotalAmountDue: 50000,
		PaymentStatus:  models.PaymentStatusPartiallyPaid,
	}
	err := repo.Create(context.Background(), assignment, nil)
	require.NoError(t, err)
	require.NotEmpty(t, assignment.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryCreateWithDraftAndCoupon(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO students").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO course_assignments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE coupons SET used_count").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	coupon := "WELCOME20"
	draft := &models.Student{
		FullName:  "New Kid",
		Email:     "kid@example.com",
		BirthDate: time.Date(2012, 3, 9, 0, 0, 0, 0, time.UTC),
		Active:    true,
	}
	assignment := &models.CourseAssignment{
		CourseID:       "crs-1",
		FacilityID:     "fac-1",
		AgeGroup:       "8-12",
		SessionType:    models.SessionTypeGroup,
		LocationType:   models.LocationTypeVirtual,
		CouponCode:     &coupon,
		AmountPaid:     40000,
		TotalAmountDue: 40000,
		PaymentStatus:  models.PaymentStatusFullyPaid,
	}
	err := repo.Create(context.Background(), assignment, draft)
	require.NoError(t, err)
	require.NotEmpty(t, draft.ID)
	require.Equal(t, draft.ID, assignment.StudentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryCreateRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO course_assignments").
		WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	assignment := &models.CourseAssignment{
		StudentID:      "stu-1",
		CourseID:       "crs-1",
		FacilityID:     "fac-1",
		AgeGroup:       "8-12",
		SessionType:    models.SessionTypePrivate,
		LocationType:   models.LocationTypeOurFacility,
		PaymentStatus:  models.PaymentStatusUnpaid,
		TotalAmountDue: 50000,
	}
	err := repo.Create(context.Background(), assignment, nil)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
