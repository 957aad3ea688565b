package model

import "time"

// User is the identity record. The password field always holds the
// bcrypt hash, never the plaintext.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
