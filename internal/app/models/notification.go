package models

import "time"

// Notification is a message addressed to a member. Rows reference the member
// without cascade and are removed explicitly before the member is deleted.
type Notification struct {
	ID        int64     `json:"id" db:"id"`
	MemberID  int64     `json:"member_id" db:"member_id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
