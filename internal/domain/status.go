package domain

// Status is an admin-defined ticket state. The behavioral dimensions are
// the two flags, not the name: CloseTicket rejects further replies,
// DefaultStatus marks the one status assigned to new tickets.
type Status struct {
	ID            int64
	Name          string
	CloseTicket   bool
	DefaultStatus bool
}
