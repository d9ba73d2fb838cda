package ticket

import (
	"time"
)

const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
)

// Ticket is a support ticket. UserName and UserEmail are filled on list
// queries from the joined creator row.
type Ticket struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	UserID      int64      `json:"user_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	UserName    string     `json:"user_name,omitempty"`
	UserEmail   string     `json:"user_email,omitempty"`
}
