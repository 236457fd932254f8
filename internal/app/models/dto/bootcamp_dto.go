package dto

// CreateBootcampRequest is the payload for publishing a bootcamp. The
// derived averages are deliberately absent from this surface.
type CreateBootcampRequest struct {
	Name        string   `json:"name" binding:"required,max=50"`
	Description string   `json:"description" binding:"required,max=500"`
	Website     *string  `json:"website" binding:"omitempty,url"`
	Phone       *string  `json:"phone" binding:"omitempty,max=20"`
	Address     *string  `json:"address"`
	Careers     []string `json:"careers"`
}

// UpdateBootcampRequest patches a bootcamp; nil fields are left untouched
type UpdateBootcampRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=50"`
	Description *string  `json:"description" binding:"omitempty,max=500"`
	Website     *string  `json:"website" binding:"omitempty,url"`
	Phone       *string  `json:"phone" binding:"omitempty,max=20"`
	Address     *string  `json:"address"`
	Careers     []string `json:"careers"`
}

// RegisterParticipantRequest registers a user for a bootcamp
type RegisterParticipantRequest struct {
	UserID int64 `json:"user" binding:"required,min=1"`
}
