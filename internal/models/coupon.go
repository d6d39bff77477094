package models

import "time"

// DiscountType distinguishes percentage from fixed amount coupons.
type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "percentage"
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
)

// Coupon is a discount code with optional constraints, usage limits and expiry.
type Coupon struct {
	ID              string       `db:"id" json:"id"`
	Code            string       `db:"code" json:"code"`
	DiscountType    DiscountType `db:"discount_type" json:"discount_type"`
	DiscountValue   int64        `db:"discount_value" json:"discount_value"`
	MinimumAmount   *int64       `db:"minimum_amount" json:"minimum_amount,omitempty"`
	MaximumDiscount *int64       `db:"maximum_discount" json:"maximum_discount,omitempty"`
	UsageLimit      *int         `db:"usage_limit" json:"usage_limit,omitempty"`
	UsedCount       int          `db:"used_count" json:"used_count"`
	ExpiresAt       *time.Time   `db:"expires_at" json:"expires_at,omitempty"`
	CourseID        *string      `db:"course_id" json:"course_id,omitempty"`
	FacilityID      *string      `db:"facility_id" json:"facility_id,omitempty"`
	Active          bool         `db:"active" json:"active"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updated_at"`
}

// CouponValidation is the validator verdict for one code against one subtotal.
type CouponValidation struct {
	IsValid        bool         `json:"is_valid"`
	DiscountType   DiscountType `json:"discount_type,omitempty"`
	DiscountValue  int64        `json:"discount_value,omitempty"`
	DiscountAmount int64        `json:"discount_amount"`
	ErrorMessage   string       `json:"error_message,omitempty"`
}
