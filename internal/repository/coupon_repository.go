package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/rakhadian/academy-admin-api/internal/models"
)

// CouponRepository handles persistence of coupons.
type CouponRepository struct {
	db *sqlx.DB
}

// NewCouponRepository constructs the repository.
func NewCouponRepository(db *sqlx.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// FindByCode returns a coupon by its (case-insensitive) code.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	query := `SELECT id, code, discount_type, discount_value, minimum_amount, maximum_discount, usage_limit, used_count, expires_at, course_id, facility_id, active, created_at, updated_at
        FROM coupons WHERE LOWER(code) = $1`
	if err := r.db.GetContext(ctx, &coupon, query, strings.ToLower(code)); err != nil {
		return nil, err
	}
	return &coupon, nil
}

// IncrementUsage bumps the used counter after a successful redemption.
func (r *CouponRepository) IncrementUsage(ctx context.Context, id string) error {
	query := `UPDATE coupons SET used_count = used_count + 1, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("increment coupon usage: %w", err)
	}
	return nil
}
