package models

import "time"

// Review defines the review model based on the 'reviews' table.
// The database enforces one review per (bootcamp, author) pair.
type Review struct {
	ID         int64     `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Text       string    `json:"text" db:"text"`
	Rating     int       `json:"rating" db:"rating"`
	BootcampID int64     `json:"bootcamp" db:"bootcamp_id"`
	AuthorID   int64     `json:"author" db:"author_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`

	// Bootcamp is expanded on demand
	Bootcamp *BootcampSummary `json:"bootcampDetail,omitempty" db:"-"`
}
