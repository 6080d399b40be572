package domain

import (
	"time"
)

// Notification represents an in-app notification fetched from the server.
//
// Read is the server-persisted flag. Seen is the client-local acknowledgement
// kept in the store's seen set; it never leaves this process. The two are
// deliberately separate fields so the server state and the local state cannot
// be conflated; views derive a single flag through Display.
type Notification struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Message      string     `json:"message"`
	Type         string     `json:"type,omitempty"`
	Read         bool       `json:"read"`
	RestaurantID string     `json:"restaurant_id,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`

	Seen bool `json:"-"`
}

// Display reports whether the notification should render as read: either the
// server says so or the user has already seen it locally.
func (n Notification) Display() bool {
	return n.Read || n.Seen
}
