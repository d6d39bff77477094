package models

import "time"

// Facility is a location where the academy delivers courses.
type Facility struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	City      string    `db:"city" json:"city"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FacilityCoursePricing is one priced combination of facility + course + age
// group + session type + location type.
type FacilityCoursePricing struct {
	ID              string       `db:"id" json:"id"`
	FacilityID      string       `db:"facility_id" json:"facility_id"`
	CourseID        string       `db:"course_id" json:"course_id"`
	AgeGroup        string       `db:"age_group" json:"age_group"`
	SessionType     SessionType  `db:"session_type" json:"session_type"`
	LocationType    LocationType `db:"location_type" json:"location_type"`
	PricePerSession int64        `db:"price_per_session" json:"price_per_session"`
	Active          bool         `db:"active" json:"active"`
	EffectiveFrom   *time.Time   `db:"effective_from" json:"effective_from,omitempty"`
	EffectiveTo     *time.Time   `db:"effective_to" json:"effective_to,omitempty"`
}

// ActiveAt reports whether the entry is selectable at the given instant.
func (p FacilityCoursePricing) ActiveAt(at time.Time) bool {
	if !p.Active {
		return false
	}
	if p.EffectiveFrom != nil && at.Before(*p.EffectiveFrom) {
		return false
	}
	if p.EffectiveTo != nil && at.After(*p.EffectiveTo) {
		return false
	}
	return true
}

// Matches reports whether the entry covers the requested combination.
func (p FacilityCoursePricing) Matches(ageGroup string, sessionType SessionType, locationType LocationType) bool {
	return p.AgeGroup == ageGroup && p.SessionType == sessionType && p.LocationType == locationType
}

// AvailabilityStatus is the tri-state result of matching a facility against a
// requested enrollment configuration.
type AvailabilityStatus string

const (
	AvailabilityAvailable    AvailabilityStatus = "available"
	AvailabilityNotAvailable AvailabilityStatus = "not_available"
	AvailabilityNoPricing    AvailabilityStatus = "no_pricing"
)

// FacilityAvailability is the matcher output: the status for the requested
// combination plus the full sets that do have active pricing, so callers can
// present only compatible combinations.
type FacilityAvailability struct {
	Status        AvailabilityStatus `json:"status"`
	AgeGroups     []string           `json:"age_groups"`
	SessionTypes  []SessionType      `json:"session_types"`
	LocationTypes []LocationType     `json:"location_types"`
}

// FacilityOption is a facility enriched with pricing coverage for one course.
type FacilityOption struct {
	Facility
	PricedEntries int  `db:"priced_entries" json:"priced_entries"`
	ActiveEntries int  `db:"active_entries" json:"active_entries"`
	HasPricing    bool `json:"has_pricing"`
}

// FacilityList summarises the facilities able to host a course.
type FacilityList struct {
	Facilities     []FacilityOption `json:"facilities"`
	PricedCount    int              `json:"priced_count"`
	AvailableCount int              `json:"available_count"`
}
