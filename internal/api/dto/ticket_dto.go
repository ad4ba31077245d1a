package dto

import "time"

// CreateTicketRequest payload. Image data arrives base64-encoded in JSON.
type CreateTicketRequest struct {
	Title       string         `json:"title" validate:"required,max=200"`
	Description string         `json:"description" validate:"required"`
	Version     string         `json:"version" validate:"max=50"`
	CategoryID  int64          `json:"category_id" validate:"required,gt=0"`
	PriorityID  int64          `json:"priority_id" validate:"required,gt=0"`
	SoftwareID  int64          `json:"software_id" validate:"required,gt=0"`
	StatusID    *int64         `json:"status_id" validate:"omitempty,gt=0"`
	Images      []ImagePayload `json:"images" validate:"dive"`
}

// UpdateTicketRequest payload.
type UpdateTicketRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Version     string `json:"version" validate:"max=50"`
	CategoryID  int64  `json:"category_id" validate:"required,gt=0"`
	PriorityID  int64  `json:"priority_id" validate:"required,gt=0"`
	SoftwareID  int64  `json:"software_id" validate:"required,gt=0"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	StatusID int64 `json:"status_id" validate:"required,gt=0"`
}

// CreateReplyRequest payload.
type CreateReplyRequest struct {
	Content string `json:"content" validate:"required"`
}

// ImagePayload carries one uploaded file.
type ImagePayload struct {
	FileName string `json:"file_name" validate:"required,max=255"`
	Data     []byte `json:"data" validate:"required"`
}

// TicketSummary response.
type TicketSummary struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Version    string    `json:"version"`
	CategoryID int64     `json:"category_id"`
	PriorityID int64     `json:"priority_id"`
	StatusID   int64     `json:"status_id"`
	SoftwareID int64     `json:"software_id"`
	UserID     int64     `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Version     string          `json:"version"`
	Category    NamedRef        `json:"category"`
	Priority    NamedRef        `json:"priority"`
	Status      StatusResponse  `json:"status"`
	Software    NamedRef        `json:"software"`
	Author      AuthorResponse  `json:"author"`
	Replies     []ReplyResponse `json:"replies"`
	Images      []ImageResponse `json:"images"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NamedRef is an id/name pair for reference data.
type NamedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// StatusResponse includes the behavior flags.
type StatusResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	CloseTicket   bool   `json:"close_ticket"`
	DefaultStatus bool   `json:"default_status"`
}

// AuthorResponse is the ticket author projection.
type AuthorResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
}

// ReplyResponse represents a thread reply.
type ReplyResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ImageResponse is image metadata; content is served separately.
type ImageResponse struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
}
