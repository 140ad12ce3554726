// Package models defines the persisted data structures of the server.
package models

import "time"

// User is a stored user record. The JSON tags define the on-disk shape of
// the users blob. PasswordHash and Salt must never appear in any
// outward-facing projection; use Profile for anything that leaves the
// repository layer.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"passwordHash"`
	Salt         string     `json:"salt"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin"`
	IsActive     bool       `json:"isActive"`
}

// Profile is the outward projection of a User. It deliberately has no
// password hash or salt fields, so a marshalled Profile can never leak
// credentials.
type Profile struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin"`
	IsActive  bool       `json:"isActive"`
}

// Profile returns the outward projection of u.
func (u *User) Profile() *Profile {
	return &Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
		IsActive:  u.IsActive,
	}
}
