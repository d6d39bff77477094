package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rakhadian/academy-admin-api/internal/models"
	appErrors "github.com/rakhadian/academy-admin-api/pkg/errors"
)

type eligibilityStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type eligibilityCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// GroupEligibility details one age group's verdict for a person.
type GroupEligibility struct {
	Group    models.AgeGroup `json:"group"`
	Eligible bool            `json:"eligible"`
}

// EligibilityResult is the evaluator output for one person and course.
type EligibilityResult struct {
	Age            int                `json:"age"`
	EligibleGroups []models.AgeGroup  `json:"eligible_groups"`
	Groups         []GroupEligibility `json:"groups"`
	IsEligible     bool               `json:"is_eligible"`
}

// EligibilityService determines which course age groups a person qualifies for.
type EligibilityService struct {
	students eligibilityStudentReader
	courses  eligibilityCourseReader
	logger   *zap.Logger
}

// NewEligibilityService constructs EligibilityService.
func NewEligibilityService(students eligibilityStudentReader, courses eligibilityCourseReader, logger *zap.Logger) *EligibilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EligibilityService{students: students, courses: courses, logger: logger}
}

// AgeAt computes whole years between birth date and the reference instant.
// A person gets one year older on the anniversary of their birth date, not
// after a fixed number of days.
func AgeAt(birthDate, at time.Time) int {
	age := at.Year() - birthDate.Year()
	anniversary := time.Date(at.Year(), birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, at.Location())
	if at.Before(anniversary) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}

// Evaluate returns the person's age and the subset of groups whose band
// contains it.
func (s *EligibilityService) Evaluate(birthDate time.Time, groups []models.AgeGroup, at time.Time) EligibilityResult {
	age := AgeAt(birthDate, at)
	result := EligibilityResult{Age: age}
	for _, group := range groups {
		eligible := group.MinAge <= age && age <= group.MaxAge
		result.Groups = append(result.Groups, GroupEligibility{Group: group, Eligible: eligible})
		if eligible {
			result.EligibleGroups = append(result.EligibleGroups, group)
		}
	}
	result.IsEligible = len(result.EligibleGroups) > 0
	return result
}

// CheckCourse evaluates a stored student against a course's age groups.
func (s *EligibilityService) CheckCourse(ctx context.Context, studentID, courseID string) (*EligibilityResult, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	result := s.Evaluate(student.BirthDate, course.AgeGroups, time.Now().UTC())
	return &result, nil
}

// EligibilityFieldError builds the actionable field error naming the computed
// age, surfaced when no age group matches.
func EligibilityFieldError(age int) models.FieldError {
	return models.FieldError{
		Field:   "course_id",
		Message: fmt.Sprintf("computed age %d does not fall within any age group offered by this course", age),
	}
}
