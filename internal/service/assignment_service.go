package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rakhadian/academy-admin-api/internal/models"
	appErrors "github.com/rakhadian/academy-admin-api/pkg/errors"
	"github.com/rakhadian/academy-admin-api/pkg/export"
)

const exportBatchSize = 1000

type assignmentRepository interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, int, error)
	FindDetailByID(ctx context.Context, id string) (*models.AssignmentDetail, error)
	Create(ctx context.Context, assignment *models.CourseAssignment, draft *models.Student) error
}

// AssignmentService finalizes enrollments into persisted course assignments.
type AssignmentService struct {
	repo      assignmentRepository
	students  eligibilityStudentReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs AssignmentService.
func NewAssignmentService(repo assignmentRepository, students eligibilityStudentReader, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, students: students, validator: validate, logger: logger}
}

// ValidatePayment checks payment status and amount against the computed
// pricing: unpaid requires a zero amount, partially_paid an amount in
// [minimum, total), fully_paid an amount of at least the total.
func ValidatePayment(pricing *models.EnrollmentPricing, status models.PaymentStatus, amount int64) []models.FieldError {
	var errs []models.FieldError
	if pricing == nil {
		return []models.FieldError{{Field: "pricing", Message: "pricing must be computed before payment"}}
	}
	if amount < 0 {
		errs = append(errs, models.FieldError{Field: "payment_amount", Message: "payment amount cannot be negative"})
		return errs
	}

	switch status {
	case models.PaymentStatusUnpaid:
		if amount != 0 {
			errs = append(errs, models.FieldError{Field: "payment_amount", Message: "unpaid enrollment cannot carry a payment amount"})
		}
	case models.PaymentStatusPartiallyPaid:
		if pricing.TotalAmount == 0 {
			errs = append(errs, models.FieldError{Field: "payment_status", Message: "nothing is due; partial payment not applicable"})
			break
		}
		if amount < pricing.MinimumPaymentAmount {
			errs = append(errs, models.FieldError{Field: "payment_amount", Message: fmt.Sprintf("partial payment must be at least the minimum of %d", pricing.MinimumPaymentAmount)})
		}
		if amount >= pricing.TotalAmount {
			errs = append(errs, models.FieldError{Field: "payment_status", Message: "amount covers the total; use fully_paid"})
		}
	case models.PaymentStatusFullyPaid:
		if amount < pricing.TotalAmount {
			errs = append(errs, models.FieldError{Field: "payment_amount", Message: fmt.Sprintf("full payment requires at least %d", pricing.TotalAmount)})
		}
	default:
		errs = append(errs, models.FieldError{Field: "payment_status", Message: "payment status must be unpaid, partially_paid or fully_paid"})
	}
	return errs
}

// Finalize validates the completed accumulator and persists the assignment.
// A draft person is created together with the assignment in one transaction.
func (s *AssignmentService) Finalize(ctx context.Context, data *models.EnrollmentData) (*models.CourseAssignment, error) {
	if data.Person == nil || data.CourseID == "" || data.Config == nil || data.Pricing == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "enrollment configuration is incomplete")
	}
	if errs := data.Person.Validate(); len(errs) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, errs[0].Message)
	}
	if errs := ValidatePayment(data.Pricing, data.PaymentStatus, data.PaymentAmount); len(errs) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, errs[0].Message)
	}

	assignment := &models.CourseAssignment{
		CourseID:       data.CourseID,
		FacilityID:     data.Config.FacilityID,
		AgeGroup:       data.Config.AgeGroup,
		SessionType:    data.Config.SessionType,
		LocationType:   data.Config.LocationType,
		AmountPaid:     data.PaymentAmount,
		TotalAmountDue: data.Pricing.TotalAmount,
		PaymentStatus:  data.PaymentStatus,
	}
	if data.CouponCode != "" && data.CouponDiscount != nil {
		code := data.CouponCode
		discount := *data.CouponDiscount
		assignment.CouponCode = &code
		assignment.CouponDiscount = &discount
	}
	assignment.SessionsAccessible = data.Pricing.SessionsAccessible(data.PaymentAmount)
	assignment.CanAttendSessions = assignment.SessionsAccessible > 0

	var draft *models.Student
	switch data.Person.Kind {
	case models.PersonKindExisting:
		student, err := s.students.FindByID(ctx, data.Person.ExistingID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
		}
		assignment.StudentID = student.ID
	case models.PersonKindDraft:
		draft = &models.Student{
			FullName:  data.Person.Draft.FullName,
			Email:     data.Person.Draft.Email,
			Phone:     data.Person.Draft.Phone,
			BirthDate: data.Person.Draft.BirthDate,
			Active:    true,
		}
	}

	if err := s.repo.Create(ctx, assignment, draft); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSubmissionFailed.Code, appErrors.ErrSubmissionFailed.Status, "assignment could not be created")
	}

	s.logger.Info("assignment created",
		zap.String("assignment_id", assignment.ID),
		zap.String("student_id", assignment.StudentID),
		zap.String("course_id", assignment.CourseID),
		zap.Int("sessions_accessible", assignment.SessionsAccessible),
	)
	return assignment, nil
}

// List returns assignments with pagination metadata.
func (s *AssignmentService) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, *models.Pagination, error) {
	assignments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return assignments, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// ExportCSV renders the filtered assignment list as a CSV document for
// offline roster handling.
func (s *AssignmentService) ExportCSV(ctx context.Context, filter models.AssignmentFilter) ([]byte, error) {
	filter.Page = 1
	filter.PageSize = exportBatchSize
	assignments, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}

	headers := []string{"id", "student", "course", "facility", "age_group", "session_type", "location_type", "payment_status", "amount_paid", "total_due", "sessions_accessible", "created_at"}
	rows := make([]map[string]string, 0, len(assignments))
	for _, a := range assignments {
		rows = append(rows, map[string]string{
			"id":                  a.ID,
			"student":             a.StudentName,
			"course":              a.CourseName,
			"facility":            a.FacilityName,
			"age_group":           a.AgeGroup,
			"session_type":        string(a.SessionType),
			"location_type":       string(a.LocationType),
			"payment_status":      string(a.PaymentStatus),
			"amount_paid":         strconv.FormatInt(a.AmountPaid, 10),
			"total_due":           strconv.FormatInt(a.TotalAmountDue, 10),
			"sessions_accessible": strconv.Itoa(a.SessionsAccessible),
			"created_at":          a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return export.NewCSVExporter().Render(export.Dataset{Headers: headers, Rows: rows})
}

// Get returns one assignment with display names.
func (s *AssignmentService) Get(ctx context.Context, id string) (*models.AssignmentDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	return detail, nil
}
