package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/rakhadian/academy-admin-api/internal/models"
	appErrors "github.com/rakhadian/academy-admin-api/pkg/errors"
)

type pricingEntryReader interface {
	ListPricing(ctx context.Context, courseID, facilityID string) ([]models.FacilityCoursePricing, error)
	ListOptionsByCourse(ctx context.Context, courseID string) ([]models.FacilityOption, error)
	FindDefaultForStudent(ctx context.Context, studentID string) (*models.Facility, error)
	FindByID(ctx context.Context, id string) (*models.Facility, error)
}

type availabilityCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// AvailabilityService matches facilities against requested enrollment
// configurations.
type AvailabilityService struct {
	facilities pricingEntryReader
	cache      availabilityCache
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewAvailabilityService constructs AvailabilityService. The cache is
// optional; pass nil to always hit the database.
func NewAvailabilityService(facilities pricingEntryReader, cache availabilityCache, cacheTTL time.Duration, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &AvailabilityService{facilities: facilities, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Match evaluates pricing entries against the requested combination and
// collects the combination axes that do have active pricing. With zero entries
// the status is no_pricing; with entries but no active match it is
// not_available.
func Match(entries []models.FacilityCoursePricing, ageGroup string, sessionType models.SessionType, locationType models.LocationType, at time.Time) models.FacilityAvailability {
	availability := models.FacilityAvailability{Status: models.AvailabilityNoPricing}
	if len(entries) == 0 {
		return availability
	}

	availability.Status = models.AvailabilityNotAvailable
	seenGroups := map[string]struct{}{}
	seenSessions := map[models.SessionType]struct{}{}
	seenLocations := map[models.LocationType]struct{}{}

	for _, entry := range entries {
		if !entry.ActiveAt(at) {
			continue
		}
		if _, ok := seenGroups[entry.AgeGroup]; !ok {
			seenGroups[entry.AgeGroup] = struct{}{}
			availability.AgeGroups = append(availability.AgeGroups, entry.AgeGroup)
		}
		if _, ok := seenSessions[entry.SessionType]; !ok {
			seenSessions[entry.SessionType] = struct{}{}
			availability.SessionTypes = append(availability.SessionTypes, entry.SessionType)
		}
		if _, ok := seenLocations[entry.LocationType]; !ok {
			seenLocations[entry.LocationType] = struct{}{}
			availability.LocationTypes = append(availability.LocationTypes, entry.LocationType)
		}
		if entry.Matches(ageGroup, sessionType, locationType) {
			availability.Status = models.AvailabilityAvailable
		}
	}

	sort.Strings(availability.AgeGroups)
	sort.Slice(availability.SessionTypes, func(i, j int) bool {
		return availability.SessionTypes[i] < availability.SessionTypes[j]
	})
	sort.Slice(availability.LocationTypes, func(i, j int) bool {
		return availability.LocationTypes[i] < availability.LocationTypes[j]
	})
	return availability
}

// Validate loads the facility's pricing entries for a course and matches the
// requested combination.
func (s *AvailabilityService) Validate(ctx context.Context, courseID, facilityID, ageGroup string, sessionType models.SessionType, locationType models.LocationType) (*models.FacilityAvailability, error) {
	entries, err := s.loadEntries(ctx, courseID, facilityID)
	if err != nil {
		return nil, err
	}
	availability := Match(entries, ageGroup, sessionType, locationType, time.Now().UTC())
	return &availability, nil
}

// ListFacilities returns the facilities able to host a course with coverage
// counts.
func (s *AvailabilityService) ListFacilities(ctx context.Context, courseID string) (*models.FacilityList, error) {
	options, err := s.facilities.ListOptionsByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list facilities")
	}
	list := &models.FacilityList{Facilities: options}
	for _, option := range options {
		if option.PricedEntries > 0 {
			list.PricedCount++
		}
		if option.ActiveEntries > 0 {
			list.AvailableCount++
		}
	}
	return list, nil
}

// DefaultFacility suggests a facility based on the student's enrollment
// history; a nil facility means no recommendation.
func (s *AvailabilityService) DefaultFacility(ctx context.Context, studentID string) (*models.Facility, error) {
	facility, err := s.facilities.FindDefaultForStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve default facility")
	}
	return facility, nil
}

func (s *AvailabilityService) loadEntries(ctx context.Context, courseID, facilityID string) ([]models.FacilityCoursePricing, error) {
	cacheKey := fmt.Sprintf("availability:%s:%s", courseID, facilityID)
	if s.cache != nil {
		var cached []models.FacilityCoursePricing
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	if _, err := s.facilities.FindByID(ctx, facilityID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "facility not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load facility")
	}

	entries, err := s.facilities.ListPricing(ctx, courseID, facilityID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load facility pricing")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, entries, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache facility pricing", zap.Error(err))
		}
	}
	return entries, nil
}
