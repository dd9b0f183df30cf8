package domain

// Category is a user-defined grouping for tasks. Tasks reference categories
// by id; deleting a category does not touch those references.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Icon      string `json:"icon,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}
