package dto

import "time"

// RegisterRequest payload.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=100"`
	Surname  string `json:"surname" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse is the account projection.
type UserResponse struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Surname  string   `json:"surname"`
	Enabled  bool     `json:"enabled"`
	Roles    []string `json:"roles"`
}

// SetRolesRequest payload.
type SetRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,dive,oneof=USER OPERATOR ADMIN"`
}

// SetEnabledRequest payload.
type SetEnabledRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}
