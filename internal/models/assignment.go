package models

import "time"

// PaymentStatus is the payment state of a course assignment.
type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "unpaid"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
	PaymentStatusFullyPaid     PaymentStatus = "fully_paid"
)

// CourseAssignment is the persisted record of one enrollee's enrollment in one
// course/facility/session configuration. Immutable once created; further
// payments are a separate workflow.
type CourseAssignment struct {
	ID                 string        `db:"id" json:"id"`
	StudentID          string        `db:"student_id" json:"student_id"`
	CourseID           string        `db:"course_id" json:"course_id"`
	FacilityID         string        `db:"facility_id" json:"facility_id"`
	AgeGroup           string        `db:"age_group" json:"age_group"`
	SessionType        SessionType   `db:"session_type" json:"session_type"`
	LocationType       LocationType  `db:"location_type" json:"location_type"`
	CouponCode         *string       `db:"coupon_code" json:"coupon_code,omitempty"`
	CouponDiscount     *int64        `db:"coupon_discount" json:"coupon_discount,omitempty"`
	AmountPaid         int64         `db:"amount_paid" json:"amount_paid"`
	TotalAmountDue     int64         `db:"total_amount_due" json:"total_amount_due"`
	PaymentStatus      PaymentStatus `db:"payment_status" json:"payment_status"`
	SessionsAccessible int           `db:"sessions_accessible" json:"sessions_accessible"`
	CanAttendSessions  bool          `db:"can_attend_sessions" json:"can_attend_sessions"`
	CreatedAt          time.Time     `db:"created_at" json:"created_at"`
}

// AssignmentDetail enriches CourseAssignment with display names.
type AssignmentDetail struct {
	CourseAssignment
	StudentName  string `db:"student_name" json:"student_name"`
	CourseName   string `db:"course_name" json:"course_name"`
	FacilityName string `db:"facility_name" json:"facility_name"`
}

// AssignmentFilter provides filters for listing assignments.
type AssignmentFilter struct {
	StudentID     string
	CourseID      string
	FacilityID    string
	PaymentStatus PaymentStatus
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}
