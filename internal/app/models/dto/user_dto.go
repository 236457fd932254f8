package dto

// CreateUserRequest is the admin payload for provisioning a user
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=user publisher admin"`
}

// UpdateUserRequest is the admin payload for patching a user
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Role     *string `json:"role" binding:"omitempty,oneof=user publisher admin"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}
