package dto

// APIResponse is the standard single-object success envelope. List
// endpoints use the pagination envelope from the query package instead.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Token   string      `json:"token,omitempty"`
}

// NewAPIResponse wraps data in a success envelope
func NewAPIResponse(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// NewTokenResponse wraps a signed token in a success envelope
func NewTokenResponse(token string) APIResponse {
	return APIResponse{Success: true, Token: token}
}
