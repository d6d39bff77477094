package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rakhadian/academy-admin-api/internal/models"
)

// FacilityRepository handles persistence of facilities and their course
// pricing entries.
type FacilityRepository struct {
	db *sqlx.DB
}

// NewFacilityRepository constructs the repository.
func NewFacilityRepository(db *sqlx.DB) *FacilityRepository {
	return &FacilityRepository{db: db}
}

// FindByID returns a facility by its ID.
func (r *FacilityRepository) FindByID(ctx context.Context, id string) (*models.Facility, error) {
	var facility models.Facility
	query := `SELECT id, name, city, active, created_at, updated_at FROM facilities WHERE id = $1`
	if err := r.db.GetContext(ctx, &facility, query, id); err != nil {
		return nil, err
	}
	return &facility, nil
}

// ListPricing returns all pricing entries scoping a course at a facility.
func (r *FacilityRepository) ListPricing(ctx context.Context, courseID, facilityID string) ([]models.FacilityCoursePricing, error) {
	query := `SELECT id, facility_id, course_id, age_group, session_type, location_type, price_per_session, active, effective_from, effective_to
        FROM facility_course_pricing WHERE course_id = $1 AND facility_id = $2`
	var entries []models.FacilityCoursePricing
	if err := r.db.SelectContext(ctx, &entries, query, courseID, facilityID); err != nil {
		return nil, fmt.Errorf("list facility pricing: %w", err)
	}
	return entries, nil
}

// ListOptionsByCourse returns facilities able to host a course, with pricing
// entry counts per facility.
func (r *FacilityRepository) ListOptionsByCourse(ctx context.Context, courseID string) ([]models.FacilityOption, error) {
	query := `SELECT f.id, f.name, f.city, f.active, f.created_at, f.updated_at,
        COUNT(p.id) AS priced_entries,
        COUNT(p.id) FILTER (WHERE p.active) AS active_entries
        FROM facilities f
        JOIN facility_course_pricing p ON p.facility_id = f.id AND p.course_id = $1
        WHERE f.active
        GROUP BY f.id, f.name, f.city, f.active, f.created_at, f.updated_at
        ORDER BY f.name ASC`
	var options []models.FacilityOption
	if err := r.db.SelectContext(ctx, &options, query, courseID); err != nil {
		return nil, fmt.Errorf("list facility options: %w", err)
	}
	for i := range options {
		options[i].HasPricing = options[i].PricedEntries > 0
	}
	return options, nil
}

// FindDefaultForStudent returns the facility of the student's most recent
// assignment, or nil when the student has no enrollment history.
func (r *FacilityRepository) FindDefaultForStudent(ctx context.Context, studentID string) (*models.Facility, error) {
	query := `SELECT f.id, f.name, f.city, f.active, f.created_at, f.updated_at
        FROM facilities f
        JOIN course_assignments a ON a.facility_id = f.id
        WHERE a.student_id = $1
        ORDER BY a.created_at DESC
        LIMIT 1`
	var facility models.Facility
	if err := r.db.GetContext(ctx, &facility, query, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find default facility: %w", err)
	}
	return &facility, nil
}
