package dto

// StatusRequest payload for status create/update.
type StatusRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	CloseTicket   bool   `json:"close_ticket"`
	DefaultStatus bool   `json:"default_status"`
}

// NameRequest payload for the name-only reference tables.
type NameRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// SoftwareRequest payload.
type SoftwareRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Version string `json:"version" validate:"max=50"`
}
