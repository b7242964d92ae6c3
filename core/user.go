package core

import "time"

// User represents a user record owned by the persistence layer.
//
// This is the "identity" - who someone is. The auth core only reads it.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Credentials are the username/password pair presented for a single login
// attempt. They must never be logged, persisted or echoed.
type Credentials struct {
	Username string
	Password string
}

// String redacts the password so a stray %v cannot leak it.
func (c Credentials) String() string {
	return "Credentials{Username: [REDACTED], Password: [REDACTED]}"
}

// GoString redacts the password for %#v.
func (c Credentials) GoString() string {
	return c.String()
}

// Identity is the only artifact passed forward after authentication.
type Identity struct {
	UserID string `json:"userId"`
}
