// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account. PasswordHash never leaves the server: it is skipped
// by every JSON encoding.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserPatch holds the profile fields a user may change. Nil means unchanged.
type UserPatch struct {
	Name  *string
	Email *string
}

func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
}
