package dto

// CreateCourseRequest is the payload for adding a course to a bootcamp
type CreateCourseRequest struct {
	Title                string `json:"title" binding:"required"`
	Description          string `json:"description" binding:"required"`
	Weeks                int    `json:"weeks" binding:"required,min=1"`
	Tuition              int    `json:"tuition" binding:"min=0"`
	MinimumSkill         string `json:"minimumSkill" binding:"required,oneof=beginner intermediate advanced"`
	ScholarshipAvailable bool   `json:"scholarshipAvailable"`
}

// UpdateCourseRequest patches a course; nil fields are left untouched
type UpdateCourseRequest struct {
	Title                *string `json:"title"`
	Description          *string `json:"description"`
	Weeks                *int    `json:"weeks" binding:"omitempty,min=1"`
	Tuition              *int    `json:"tuition" binding:"omitempty,min=0"`
	MinimumSkill         *string `json:"minimumSkill" binding:"omitempty,oneof=beginner intermediate advanced"`
	ScholarshipAvailable *bool   `json:"scholarshipAvailable"`
}
