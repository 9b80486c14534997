package domain

import "time"

// User is a registered account. Board holds the emails the user has
// subscribed to, in insertion order.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Board        []string  `json:"board"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the authenticated caller extracted from a session token.
type Identity struct {
	ID    string
	Email string
}

// UserUpdate carries the fields of a partial profile update. Nil fields
// are left untouched.
type UserUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
}
