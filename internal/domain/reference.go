package domain

// Category classifies tickets by problem area.
type Category struct {
	ID   int64
	Name string
}

// Priority ranks ticket urgency.
type Priority struct {
	ID   int64
	Name string
}

// Software is a catalog entry tickets are filed against.
type Software struct {
	ID      int64
	Name    string
	Version string
}
