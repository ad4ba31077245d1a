package domain

import "time"

// User is an account that files tickets or, with elevated roles,
// triages them.
type User struct {
	ID           int64
	Username     string
	Email        string
	Name         string
	Surname      string
	PasswordHash string
	Enabled      bool
	Roles        RoleSet
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
