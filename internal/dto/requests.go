package dto

import "github.com/avdeyev/contacts-service/internal/domain"

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents an authentication response
type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int      `json:"expires_in"`
	User        UserInfo `json:"user"`
}

// UserInfo represents user information in response
type UserInfo struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// UserResponse represents a user response
type UserResponse struct {
	ID         int64   `json:"id"`
	Email      string  `json:"email"`
	IsVerified bool    `json:"is_verified"`
	AvatarURL  *string `json:"avatar_url"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

// CreateContactRequest represents a contact creation request
type CreateContactRequest struct {
	FirstName      string      `json:"first_name" binding:"required"`
	LastName       string      `json:"last_name" binding:"required"`
	Email          string      `json:"email" binding:"required,email"`
	PhoneNumber    string      `json:"phone_number" binding:"required"`
	Birthday       domain.Date `json:"birthday" binding:"required"`
	AdditionalInfo *string     `json:"additional_info"`
}

// AvatarResponse represents the result of an avatar upload
type AvatarResponse struct {
	Message   string `json:"message"`
	AvatarURL string `json:"avatar_url"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}
