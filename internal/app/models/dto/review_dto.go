package dto

// CreateReviewRequest is the payload for reviewing a bootcamp
type CreateReviewRequest struct {
	Title  string `json:"title" binding:"required,max=100"`
	Text   string `json:"text" binding:"required"`
	Rating int    `json:"rating" binding:"required,min=1,max=10"`
}

// UpdateReviewRequest patches a review; nil fields are left untouched
type UpdateReviewRequest struct {
	Title  *string `json:"title" binding:"omitempty,max=100"`
	Text   *string `json:"text"`
	Rating *int    `json:"rating" binding:"omitempty,min=1,max=10"`
}
