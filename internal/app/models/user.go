package models

import "time"

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`                         // Unique identifier for the user
	Name      string    `json:"name" db:"name" example:"Jamie Doe"`             // Display name
	Email     string    `json:"email" db:"email" example:"jamie@example.com"`   // User's email address
	Role      RoleType  `json:"role" db:"role" example:"publisher"`             // User's role (user, publisher or admin)
	Password  string    `json:"-" db:"password"`                                // Hashed password (excluded from JSON)
	CreatedAt time.Time `json:"createdAt" db:"created_at"`                      // Timestamp when the user was created

	// Password reset state, set only while a reset is pending
	ResetPasswordToken  *string    `json:"-" db:"reset_password_token"`
	ResetPasswordExpire *time.Time `json:"-" db:"reset_password_expire"`

	// BootcampsOwned is expanded on demand, not stored on the row
	BootcampsOwned []*Bootcamp `json:"bootcampsOwned,omitempty" db:"-"`
}
