package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rakhadian/academy-admin-api/internal/models"
)

// AssignmentRepository handles persistence of course assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// List returns assignments filtered by the provided criteria.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, int, error) {
	base := `FROM course_assignments a
LEFT JOIN students s ON s.id = a.student_id
LEFT JOIN courses c ON c.id = a.course_id
LEFT JOIN facilities f ON f.id = a.facility_id`
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("a.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("a.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.FacilityID != "" {
		conditions = append(conditions, fmt.Sprintf("a.facility_id = $%d", len(args)+1))
		args = append(args, filter.FacilityID)
	}
	if filter.PaymentStatus != "" {
		conditions = append(conditions, fmt.Sprintf("a.payment_status = $%d", len(args)+1))
		args = append(args, filter.PaymentStatus)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"created_at":   "a.created_at",
		"student_name": "s.full_name",
		"course_name":  "c.name",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "a.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT a.id, a.student_id, a.course_id, a.facility_id, a.age_group, a.session_type, a.location_type,
        a.coupon_code, a.coupon_discount, a.amount_paid, a.total_amount_due, a.payment_status, a.sessions_accessible, a.can_attend_sessions, a.created_at,
        s.full_name AS student_name, c.name AS course_name, f.name AS facility_name
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base+clause, orderBy, order, size, offset)

	var assignments []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count assignments: %w", err)
	}
	return assignments, total, nil
}

// FindByID returns an assignment by its ID.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.CourseAssignment, error) {
	var assignment models.CourseAssignment
	query := `SELECT id, student_id, course_id, facility_id, age_group, session_type, location_type, coupon_code, coupon_discount,
        amount_paid, total_amount_due, payment_status, sessions_accessible, can_attend_sessions, created_at
        FROM course_assignments WHERE id = $1`
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// FindDetailByID returns an assignment enriched with display names.
func (r *AssignmentRepository) FindDetailByID(ctx context.Context, id string) (*models.AssignmentDetail, error) {
	var detail models.AssignmentDetail
	query := `SELECT a.id, a.student_id, a.course_id, a.facility_id, a.age_group, a.session_type, a.location_type,
        a.coupon_code, a.coupon_discount, a.amount_paid, a.total_amount_due, a.payment_status, a.sessions_accessible, a.can_attend_sessions, a.created_at,
        s.full_name AS student_name, c.name AS course_name, f.name AS facility_name
        FROM course_assignments a
        LEFT JOIN students s ON s.id = a.student_id
        LEFT JOIN courses c ON c.id = a.course_id
        LEFT JOIN facilities f ON f.id = a.facility_id
        WHERE a.id = $1`
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create persists the assignment in one transaction. A non-nil draft student
// is inserted first and becomes the assignment's student; when a coupon code
// was redeemed its usage counter is bumped in the same transaction, so a
// failed submission never leaves partial state behind.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.CourseAssignment, draft *models.Student) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assignment tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	if draft != nil {
		if draft.ID == "" {
			draft.ID = uuid.NewString()
		}
		draft.CreatedAt = now
		draft.UpdatedAt = now
		studentQuery := `INSERT INTO students (id, registration_code, full_name, email, phone, birth_date, active, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		if _, err := tx.ExecContext(ctx, studentQuery,
			draft.ID, draft.RegistrationCode, draft.FullName, draft.Email, draft.Phone,
			draft.BirthDate, draft.Active, draft.CreatedAt, draft.UpdatedAt); err != nil {
			return fmt.Errorf("create draft student: %w", err)
		}
		assignment.StudentID = draft.ID
	}

	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	assignment.CreatedAt = now
	query := `INSERT INTO course_assignments (id, student_id, course_id, facility_id, age_group, session_type, location_type,
        coupon_code, coupon_discount, amount_paid, total_amount_due, payment_status, sessions_accessible, can_attend_sessions, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	if _, err := tx.ExecContext(ctx, query,
		assignment.ID, assignment.StudentID, assignment.CourseID, assignment.FacilityID,
		assignment.AgeGroup, assignment.SessionType, assignment.LocationType,
		assignment.CouponCode, assignment.CouponDiscount,
		assignment.AmountPaid, assignment.TotalAmountDue, assignment.PaymentStatus,
		assignment.SessionsAccessible, assignment.CanAttendSessions, assignment.CreatedAt); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}

	if assignment.CouponCode != nil && *assignment.CouponCode != "" {
		couponQuery := `UPDATE coupons SET used_count = used_count + 1, updated_at = $2 WHERE LOWER(code) = LOWER($1)`
		if _, err := tx.ExecContext(ctx, couponQuery, *assignment.CouponCode, now); err != nil {
			return fmt.Errorf("redeem coupon: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assignment tx: %w", err)
	}
	return nil
}
