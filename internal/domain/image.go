package domain

import "time"

// Image is a file attached to a ticket, stored inline. Owned exclusively
// by its parent ticket.
type Image struct {
	ID        int64
	TicketID  int64
	FileName  string
	Content   []byte
	CreatedAt time.Time
}
