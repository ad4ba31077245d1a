package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketUpdated       EventType = "ticket_updated"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketDeleted       EventType = "ticket_deleted"
	EventTicketReplyAdded    EventType = "ticket_reply_added"
	EventTicketImageAdded    EventType = "ticket_image_added"
)

// Event represents a domain event emitted by services. ActorID is the
// user id of the principal that triggered the mutation.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title      string `json:"title"`
	CategoryID int64  `json:"category_id"`
	PriorityID int64  `json:"priority_id"`
	SoftwareID int64  `json:"software_id"`
	StatusID   int64  `json:"status_id"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatusID int64 `json:"old_status_id"`
	NewStatusID int64 `json:"new_status_id"`
}

// TicketDeletedPayload records how many children the cascade removed.
type TicketDeletedPayload struct {
	ReplyCount int `json:"reply_count"`
	ImageCount int `json:"image_count"`
}

// TicketReplyAddedPayload payload.
type TicketReplyAddedPayload struct {
	ReplyID      int64 `json:"reply_id"`
	AuthorUserID int64 `json:"author_user_id"`
}

// TicketImageAddedPayload payload.
type TicketImageAddedPayload struct {
	ImageIDs []int64 `json:"image_ids"`
}
