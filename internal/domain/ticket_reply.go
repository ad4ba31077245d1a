package domain

import "time"

// TicketReply is a message in a ticket thread. Replies exist only as
// children of a ticket and are removed when it is deleted.
type TicketReply struct {
	ID        int64
	TicketID  int64
	UserID    int64
	Content   string
	CreatedAt time.Time
}
