package user

import (
	"time"
)

// User is the canonical identity record. An account created by password
// registration has PasswordHash set; one created by Google sign-in has
// GoogleID set. A password account may later gain a GoogleID (one-way
// link), so after creation at least one of the two is always present.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash *string   `json:"-"` // Never expose password hash in JSON
	Name         string    `json:"name"`
	GoogleID     *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
