// internal/domain/user/entity.go
package user

import (
	"errors"
	"time"
)

// Role of an account as recorded by the auth subsystem.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User is owned by the external auth subsystem. This service only reads it
// for authorization checks and reporting joins; nothing here mutates users.
type User struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string
	Image         string
	PhoneNumber   string
	Role          Role
	EmailVerified bool
	CreatedAt     time.Time
}

var ErrNotFound = errors.New("user: not found")

func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
