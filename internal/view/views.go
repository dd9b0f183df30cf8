// Package view derives filtered task lists and aggregate stats from store
// state. Everything here is a pure projection: the engine never mutates the
// store, it only memoizes recomputation.
package view

import (
	"slices"
	"sync"
	"time"

	"github.com/tasklight/backend/domain"
	"github.com/tasklight/backend/internal/store"
)

// upcomingWindow bounds the UpcomingReminders query: reminders opening
// within the next 24 hours.
const upcomingWindow = int64(24 * time.Hour / time.Millisecond)

// Stats are the aggregate task counts shown in the UI header.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
}

type searchMemo struct {
	valid  bool
	rev    uint64
	status domain.StatusFilter
	query  string
	result []domain.Task
}

type listMemo struct {
	valid   bool
	rev     uint64
	filters domain.Filters
	result  []domain.Task
}

// Engine computes the derived task views for one store. Results are memoized
// on the table revision plus the filter inputs that actually feed each
// stage, so a category-filter change never re-runs search scoring.
type Engine struct {
	store *store.Store
	now   func() int64

	mu     sync.Mutex
	search searchMemo
	list   listMemo
}

// NewEngine binds an engine to a store.
func NewEngine(s *store.Store) *Engine {
	return &Engine{store: s, now: domain.NowMillis}
}

// SetClock overrides the engine clock. Intended for tests.
func (e *Engine) SetClock(now func() int64) {
	if now != nil {
		e.now = now
	}
}

// FilteredTasks runs the full pipeline in fixed order: flatten in display
// order, partition by status, fuzzy-search, then intersect with the selected
// categories.
func (e *Engine) FilteredTasks() []domain.Task {
	rev := e.store.Revision()
	filters := e.store.Filters()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.list.valid && e.list.rev == rev && filtersEqual(e.list.filters, filters) {
		return e.list.result
	}

	searched := e.searchLocked(rev, filters.Status, filters.Search)
	result := filterByCategories(searched, filters.Categories)

	e.list = listMemo{valid: true, rev: rev, filters: filters, result: result}
	return result
}

// searchLocked returns the status-filtered, search-ranked list, reusing the
// previous result when neither the task set, the status nor the query moved.
func (e *Engine) searchLocked(rev uint64, status domain.StatusFilter, query string) []domain.Task {
	if e.search.valid && e.search.rev == rev && e.search.status == status && e.search.query == query {
		return e.search.result
	}

	tasks := filterByStatus(e.store.Snapshot().Tasks.Ordered(), status)
	result := rankTasks(tasks, query)

	e.search = searchMemo{valid: true, rev: rev, status: status, query: query, result: result}
	return result
}

// Stats returns the aggregate counts over all tasks, ignoring filters.
func (e *Engine) Stats() Stats {
	now := e.now()
	var stats Stats
	for _, t := range e.store.Snapshot().Tasks.Ordered() {
		stats.Total++
		if t.Completed {
			stats.Completed++
			continue
		}
		stats.Pending++
		if t.IsOverdue(now) {
			stats.Overdue++
		}
	}
	return stats
}

// OverdueTasks returns pending tasks whose due date has passed, in display
// order.
func (e *Engine) OverdueTasks() []domain.Task {
	now := e.now()
	out := make([]domain.Task, 0)
	for _, t := range e.store.Snapshot().Tasks.Ordered() {
		if t.IsOverdue(now) {
			out = append(out, t)
		}
	}
	return out
}

// UpcomingReminders returns tasks whose reminder window opens within the
// next 24 hours: reminder enabled, due date set, not completed.
func (e *Engine) UpcomingReminders() []domain.Task {
	now := e.now()
	horizon := now + upcomingWindow
	out := make([]domain.Task, 0)
	for _, t := range e.store.Snapshot().Tasks.Ordered() {
		if t.Completed || t.DueDate == 0 || !t.Reminder.Enabled {
			continue
		}
		rt := t.ReminderTime()
		if rt >= now && rt <= horizon {
			out = append(out, t)
		}
	}
	return out
}

// Categories returns all categories in display order.
func (e *Engine) Categories() []domain.Category {
	return e.store.Snapshot().Categories.Ordered()
}

func filterByStatus(tasks []domain.Task, status domain.StatusFilter) []domain.Task {
	switch status {
	case domain.StatusCompleted:
		return keep(tasks, func(t domain.Task) bool { return t.Completed })
	case domain.StatusPending:
		return keep(tasks, func(t domain.Task) bool { return !t.Completed })
	default:
		return tasks
	}
}

func filterByCategories(tasks []domain.Task, categoryIDs []string) []domain.Task {
	if len(categoryIDs) == 0 {
		return tasks
	}
	return keep(tasks, func(t domain.Task) bool { return t.HasAnyCategory(categoryIDs) })
}

func keep(tasks []domain.Task, pred func(domain.Task) bool) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}

func filtersEqual(a, b domain.Filters) bool {
	return a.Status == b.Status &&
		a.Search == b.Search &&
		a.SortBy == b.SortBy &&
		a.SortOrder == b.SortOrder &&
		slices.Equal(a.Categories, b.Categories) &&
		slices.Equal(a.Tags, b.Tags)
}
