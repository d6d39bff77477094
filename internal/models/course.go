package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SessionType is the instructional format of a course session.
type SessionType string

// Supported session types.
const (
	SessionTypePrivate     SessionType = "private"
	SessionTypeGroup       SessionType = "group"
	SessionTypeSchoolGroup SessionType = "school_group"
)

// LocationType identifies where sessions take place.
type LocationType string

// Supported location types.
const (
	LocationTypeOurFacility    LocationType = "our-facility"
	LocationTypeClientLocation LocationType = "client-location"
	LocationTypeVirtual        LocationType = "virtual"
)

// AgeGroup is a named band of eligible ages configured per course.
type AgeGroup struct {
	Label  string `json:"label"`
	MinAge int    `json:"min_age"`
	MaxAge int    `json:"max_age"`
}

// AgeGroupList stores course age groups as a JSONB column.
type AgeGroupList []AgeGroup

// Value implements driver.Valuer.
func (l AgeGroupList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *AgeGroupList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// SessionTypeList stores supported session types as a JSONB column.
type SessionTypeList []SessionType

// Value implements driver.Valuer.
func (l SessionTypeList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *SessionTypeList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// LocationTypeList stores supported location types as a JSONB column.
type LocationTypeList []LocationType

// Value implements driver.Valuer.
func (l LocationTypeList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *LocationTypeList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func scanJSON(src, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
}

// Course represents an offered course with its configuration axes.
type Course struct {
	ID                 string           `db:"id" json:"id"`
	Code               string           `db:"code" json:"code"`
	Name               string           `db:"name" json:"name"`
	DurationWeeks      int              `db:"duration_weeks" json:"duration_weeks"`
	SessionsPerPayment int              `db:"sessions_per_payment" json:"sessions_per_payment"`
	AgeGroups          AgeGroupList     `db:"age_groups" json:"age_groups"`
	SessionTypes       SessionTypeList  `db:"session_types" json:"session_types"`
	LocationTypes      LocationTypeList `db:"location_types" json:"location_types"`
	Active             bool             `db:"active" json:"active"`
	CreatedAt          time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time        `db:"updated_at" json:"updated_at"`
}

// AgeGroupByLabel returns the configured age group with the given label.
func (c *Course) AgeGroupByLabel(label string) (AgeGroup, bool) {
	for _, g := range c.AgeGroups {
		if g.Label == label {
			return g, true
		}
	}
	return AgeGroup{}, false
}

// CourseFilter encapsulates search parameters for listing courses.
type CourseFilter struct {
	Search    string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
