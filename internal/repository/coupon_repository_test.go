package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/rakhadian/academy-admin-api/internal/models"
)

func TestCouponRepositoryFindByCodeLowercasesInput(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCouponRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "code", "discount_type", "discount_value", "minimum_amount", "maximum_discount", "usage_limit", "used_count", "expires_at", "course_id", "facility_id", "active", "created_at", "updated_at"}).
		AddRow("cpn-1", "WELCOME20", models.DiscountTypePercentage, int64(20), nil, nil, nil, 0, nil, nil, nil, true, now, now)
	mock.ExpectQuery("SELECT id, code, discount_type").
		WithArgs("welcome20").
		WillReturnRows(rows)

	coupon, err := repo.FindByCode(context.Background(), "WELCOME20")
	require.NoError(t, err)
	require.Equal(t, "WELCOME20", coupon.Code)
	require.Equal(t, int64(20), coupon.DiscountValue)
	require.NoError(t, mock.ExpectationsWereMet())
}
