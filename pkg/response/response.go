package response

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type SuccessResponse struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type TokenResponse struct {
	Token string `json:"token"`
	UID   uint   `json:"user_id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
