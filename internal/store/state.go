package store

import "github.com/tasklight/backend/domain"

// TaskTable is the normalized task slice of store state: a keyed lookup plus
// a separately owned display-order sequence. The JSON shape matches the
// durable envelope.
type TaskTable struct {
	ByID   map[string]domain.Task `json:"byId"`
	AllIDs []string               `json:"allIds"`
}

// CategoryTable mirrors TaskTable for categories.
type CategoryTable struct {
	ByID   map[string]domain.Category `json:"byId"`
	AllIDs []string                   `json:"allIds"`
}

// Snapshot is a deep copy of the persistent slice of store state. Filter
// state is deliberately absent.
type Snapshot struct {
	Tasks      TaskTable     `json:"tasks"`
	Categories CategoryTable `json:"categories"`
}

// Ordered flattens the table to tasks in display order, skipping any id
// without a backing record.
func (t TaskTable) Ordered() []domain.Task {
	out := make([]domain.Task, 0, len(t.AllIDs))
	for _, id := range t.AllIDs {
		if task, ok := t.ByID[id]; ok {
			out = append(out, task)
		}
	}
	return out
}

// Ordered flattens the table to categories in display order.
func (c CategoryTable) Ordered() []domain.Category {
	out := make([]domain.Category, 0, len(c.AllIDs))
	for _, id := range c.AllIDs {
		if cat, ok := c.ByID[id]; ok {
			out = append(out, cat)
		}
	}
	return out
}

func newTaskTable() TaskTable {
	return TaskTable{ByID: make(map[string]domain.Task)}
}

func newCategoryTable() CategoryTable {
	return CategoryTable{ByID: make(map[string]domain.Category)}
}

func cloneTask(t domain.Task) domain.Task {
	t.Categories = cloneStrings(t.Categories)
	t.Tags = cloneStrings(t.Tags)
	return t
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func (t TaskTable) clone() TaskTable {
	out := TaskTable{
		ByID:   make(map[string]domain.Task, len(t.ByID)),
		AllIDs: cloneStrings(t.AllIDs),
	}
	for id, task := range t.ByID {
		out.ByID[id] = cloneTask(task)
	}
	return out
}

func (c CategoryTable) clone() CategoryTable {
	out := CategoryTable{
		ByID:   make(map[string]domain.Category, len(c.ByID)),
		AllIDs: cloneStrings(c.AllIDs),
	}
	for id, cat := range c.ByID {
		out.ByID[id] = cat
	}
	return out
}

// Clone returns a deep copy of the snapshot, safe to hold across later
// store mutations.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Tasks:      s.Tasks.clone(),
		Categories: s.Categories.clone(),
	}
}
