package domain

import "time"

// Ticket is the aggregate for support requests. Category, priority,
// status, software and author references are never zero after creation.
type Ticket struct {
	ID          int64
	Title       string
	Description string
	Version     string
	CategoryID  int64
	PriorityID  int64
	StatusID    int64
	SoftwareID  int64
	UserID      int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
