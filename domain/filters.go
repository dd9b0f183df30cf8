package domain

// StatusFilter partitions tasks by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusCompleted StatusFilter = "completed"
	StatusPending   StatusFilter = "pending"
)

// SortField names the task attribute the UI sorts on.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByDueDate   SortField = "dueDate"
)

// SortOrder is the direction applied to SortField.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Filters is transient UI state: it drives the derived task views and is
// never persisted.
type Filters struct {
	Status     StatusFilter `json:"status"`
	Search     string       `json:"search"`
	Categories []string     `json:"categories"`
	Tags       []string     `json:"tags"`
	SortBy     SortField    `json:"sortBy"`
	SortOrder  SortOrder    `json:"sortOrder"`
}

// DefaultFilters returns the filter state a fresh session starts with.
func DefaultFilters() Filters {
	return Filters{
		Status:     StatusAll,
		Search:     "",
		Categories: nil,
		Tags:       nil,
		SortBy:     SortByCreatedAt,
		SortOrder:  SortAsc,
	}
}
