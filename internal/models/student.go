package models

import "time"

// Student represents an enrollee registered with the academy.
type Student struct {
	ID               string    `db:"id" json:"id"`
	RegistrationCode string    `db:"registration_code" json:"registration_code"`
	FullName         string    `db:"full_name" json:"full_name"`
	Email            string    `db:"email" json:"email"`
	Phone            string    `db:"phone" json:"phone"`
	BirthDate        time.Time `db:"birth_date" json:"birth_date"`
	Active           bool      `db:"active" json:"active"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
