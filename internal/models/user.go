package models

import "time"

// User represents a registered digest recipient.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Keywords     []string  `json:"keywords"`
	CreatedAt    time.Time `json:"createdAt"`
}
