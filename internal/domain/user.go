// Package domain defines the notebook application's core types.
package domain

import "time"

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is what a client keeps after logging in.
type Identity struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

// IsZero reports whether no one is logged in.
func (i Identity) IsZero() bool {
	return i.UserID == ""
}
