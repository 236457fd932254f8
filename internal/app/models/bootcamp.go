package models

import "time"

// Bootcamp defines the bootcamp model based on the 'bootcamps' table.
// AverageCost and AverageRating are derived from child courses/reviews by
// the aggregate maintainer; client writes to them are never accepted and
// both are absent (nil) when no contributing children exist.
type Bootcamp struct {
	ID            int64     `json:"id" db:"id" example:"1"`
	Name          string    `json:"name" db:"name" example:"Devworks Bootcamp"`
	Description   string    `json:"description" db:"description"`
	Website       *string   `json:"website,omitempty" db:"website"`
	Phone         *string   `json:"phone,omitempty" db:"phone"`
	Address       *string   `json:"address,omitempty" db:"address"`
	Careers       []string  `json:"careers" db:"careers"`
	OwnerID       int64     `json:"owner" db:"owner_id"`
	AverageCost   *int      `json:"averageCost,omitempty" db:"average_cost"`
	AverageRating *float64  `json:"averageRating,omitempty" db:"average_rating"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`

	// Relationship expansions, filled only when the query asks for them
	Courses      []*Course `json:"courses,omitempty" db:"-"`
	Participants []*User   `json:"participants,omitempty" db:"-"`
}
