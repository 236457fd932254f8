package models

import "time"

// Course defines the course model based on the 'courses' table
type Course struct {
	ID                   int64        `json:"id" db:"id"`
	Title                string       `json:"title" db:"title"`
	Description          string       `json:"description" db:"description"`
	Weeks                int          `json:"weeks" db:"weeks"`
	Tuition              int          `json:"tuition" db:"tuition"`
	MinimumSkill         MinimumSkill `json:"minimumSkill" db:"minimum_skill"`
	ScholarshipAvailable bool         `json:"scholarshipAvailable" db:"scholarship_available"`
	BootcampID           int64        `json:"bootcamp" db:"bootcamp_id"`
	OwnerID              int64        `json:"owner" db:"owner_id"`
	CreatedAt            time.Time    `json:"createdAt" db:"created_at"`

	// Bootcamp is expanded on demand
	Bootcamp *BootcampSummary `json:"bootcampDetail,omitempty" db:"-"`
}

// BootcampSummary is the reduced bootcamp shape used in expansions
type BootcampSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
