package domain

import (
	"errors"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidSecurityCode = errors.New("invalid security code")
var ErrForbidden = errors.New("access forbidden")

// User models an authenticated actor in the system. Password holds the bcrypt
// hash, never the plaintext; neither it nor the security code is ever
// serialized into API responses.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Password     string    `json:"-"`
	Role         string    `json:"role"`
	SecurityCode *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
