package models

import (
	"strings"
	"time"
)

// User is an identity known to the quiz backend. PasswordHash is empty for
// accounts that only ever signed in through Google.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Name         *string   `gorm:"size:255" json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Attempts     []Attempt `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// HasName reports whether a non-empty display name is stored.
func (u *User) HasName() bool {
	return u.Name != nil && *u.Name != ""
}

// DefaultName returns the local part of an email address.
func DefaultName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
