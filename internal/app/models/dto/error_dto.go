package dto

// ErrorResponse is the wire shape of every failure: no endpoint mixes a
// partial success with an error.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"resource not found"`
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   message,
	}
}
