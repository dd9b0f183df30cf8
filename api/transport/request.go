package transport

// TaskCreateRequest carries the fields accepted when creating a task.
type TaskCreateRequest struct {
	Text        string   `json:"text"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
	Tags        []string `json:"tags"`
	DueDate     int64    `json:"dueDate"`
	Completed   bool     `json:"completed"`
}

// TaskUpdateRequest carries a partial task edit; absent fields are left
// untouched.
type TaskUpdateRequest struct {
	Text        *string  `json:"text"`
	Description *string  `json:"description"`
	Categories  []string `json:"categories"`
	Tags        []string `json:"tags"`
}

// DueDateRequest sets or clears (zero) a task's due date.
type DueDateRequest struct {
	DueDate int64 `json:"dueDate"`
}

// ReminderRequest carries a partial reminder configuration edit.
type ReminderRequest struct {
	Enabled          *bool   `json:"enabled"`
	NotifyBefore     *int64  `json:"notifyBefore"`
	NotificationType *string `json:"notificationType"`
}

// ReorderRequest replaces a display-order sequence.
type ReorderRequest struct {
	IDs []string `json:"ids"`
}

// CategoryCreateRequest carries the fields accepted when creating a category.
type CategoryCreateRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// CategoryUpdateRequest carries a partial category edit.
type CategoryUpdateRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

// FiltersRequest carries a partial filter-state edit; absent fields are left
// untouched.
type FiltersRequest struct {
	Status     *string  `json:"status"`
	Search     *string  `json:"search"`
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
	SortBy     *string  `json:"sortBy"`
	SortOrder  *string  `json:"sortOrder"`
}
