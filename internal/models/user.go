package models

import "time"

// User captures a directory member's identity and credential fields.
// The password hash never leaves the application boundary.
type User struct {
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        string     `json:"phone"`
	JoinedAt     time.Time  `json:"joined_at"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

// UserSummary is the public projection used by the directory listing.
type UserSummary struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
