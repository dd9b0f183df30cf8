package store

import "github.com/tasklight/backend/domain"

// Filter commands change transient UI state only. They notify observers
// like any other command but never advance the table revision, so derived
// views can tell "the filters moved" apart from "the data moved".

func (s *Store) setFilters(fn func(*domain.Filters)) {
	s.mu.Lock()
	fn(&s.filters)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// SetStatusFilter selects all, completed or pending.
func (s *Store) SetStatusFilter(status domain.StatusFilter) {
	s.setFilters(func(f *domain.Filters) { f.Status = status })
}

// SetSearchQuery sets the free-text search query.
func (s *Store) SetSearchQuery(query string) {
	s.setFilters(func(f *domain.Filters) { f.Search = query })
}

// SetCategoryFilter selects the category ids to filter by.
func (s *Store) SetCategoryFilter(ids []string) {
	s.setFilters(func(f *domain.Filters) { f.Categories = cloneStrings(ids) })
}

// SetTagFilter selects the tags to filter by.
func (s *Store) SetTagFilter(tags []string) {
	s.setFilters(func(f *domain.Filters) { f.Tags = cloneStrings(tags) })
}

// SetSortBy selects the sort field.
func (s *Store) SetSortBy(field domain.SortField) {
	s.setFilters(func(f *domain.Filters) { f.SortBy = field })
}

// SetSortOrder selects the sort direction.
func (s *Store) SetSortOrder(order domain.SortOrder) {
	s.setFilters(func(f *domain.Filters) { f.SortOrder = order })
}

// ResetFilters restores the default filter state.
func (s *Store) ResetFilters() {
	s.setFilters(func(f *domain.Filters) { *f = domain.DefaultFilters() })
}
