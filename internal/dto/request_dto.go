package dto

// SignupRequest creates a new account.
type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AnswerSubmitDTO carries one answer to the current interview question.
// Whitespace-only responses pass binding and are rejected by the session
// with a precise error.
type AnswerSubmitDTO struct {
	Response string `json:"response" binding:"required"`
}
