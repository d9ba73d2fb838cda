package database

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the database model for the users table.
// PasswordHash is nil for Google-only accounts; GoogleID is nil until the
// account is linked to a Google identity. Both email and google_id carry
// unique constraints, which is the only safety net for concurrent
// first-time creation.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash *string   `bun:"password_hash"`
	Name         string    `bun:"name,notnull"`
	GoogleID     *string   `bun:"google_id,unique,nullzero"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Ticket is the database model for the tickets table.
type Ticket struct {
	bun.BaseModel `bun:"table:tickets,alias:t"`

	ID          int64      `bun:"id,pk,autoincrement"`
	Title       string     `bun:"title,notnull"`
	Description string     `bun:"description"`
	Status      string     `bun:"status,notnull,default:'open'"`
	UserID      int64      `bun:"user_id"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	ResolvedAt  *time.Time `bun:"resolved_at"`
}
