package domain

import "time"

// Role distinguishes ordinary customers from back-office administrators.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// User is the domain model for a shop account. Question and Answer form the
// security challenge used for password recovery; both may be empty.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        string
	Phone        string
	Question     string
	Answer       string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Scrub blanks the password hash before the user leaves the service layer.
func (u *User) Scrub() *User {
	if u == nil {
		return nil
	}
	u.PasswordHash = ""
	return u
}

// IsAdmin reports whether the account carries the administrator role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
