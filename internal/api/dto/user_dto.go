package dto

import "time"

// UserRegisterRequest payload for new riders. Rules mirror the public API
// contract: firstname at least 3 characters, password at least 6.
type UserRegisterRequest struct {
	Firstname string `json:"firstname" validate:"required,min=3"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

// LoginRequest payload for login of either actor kind.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
