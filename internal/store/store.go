// Package store owns the normalized in-memory tables for tasks and
// categories plus the transient filter state, and fans every change out to
// subscribed observers.
package store

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tasklight/backend/domain"
)

// Observer receives a deep-copied snapshot after every store command,
// synchronously, before the command returns to its caller.
type Observer func(Snapshot)

// Store is the single owned state object for the process. One mutex
// serializes commands; there is no interleaving within a command.
type Store struct {
	mu         sync.Mutex
	tasks      TaskTable
	categories CategoryTable
	filters    domain.Filters
	rev        uint64

	obsMu     sync.Mutex
	observers []Observer

	logger *zap.Logger
	now    func() int64
}

// New constructs an empty store.
func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		tasks:      newTaskTable(),
		categories: newCategoryTable(),
		filters:    domain.DefaultFilters(),
		logger:     logger,
		now:        domain.NowMillis,
	}
}

// SetClock overrides the store clock. Intended for tests.
func (s *Store) SetClock(now func() int64) {
	if now != nil {
		s.now = now
	}
}

// Subscribe registers an observer. Observers are notified in registration
// order after every command.
func (s *Store) Subscribe(fn Observer) {
	if fn == nil {
		return
	}
	s.obsMu.Lock()
	s.observers = append(s.observers, fn)
	s.obsMu.Unlock()
}

func (s *Store) notify(snap Snapshot) {
	s.obsMu.Lock()
	observers := append([]Observer(nil), s.observers...)
	s.obsMu.Unlock()
	for _, fn := range observers {
		fn(snap)
	}
}

// mutate runs fn under the lock. When fn reports a change the revision is
// bumped and observers are notified before mutate returns. The lock is not
// held during notification so observers may read the store.
func (s *Store) mutate(fn func() bool) {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}
	s.rev++
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Tasks: s.tasks, Categories: s.categories}.Clone()
}

// Snapshot returns a deep copy of the task and category tables.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Revision identifies the current version of the task/category tables.
// Filter changes do not advance it.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rev
}

// Task returns a copy of the task with the given id.
func (s *Store) Task(id string) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks.ByID[id]
	if !ok {
		return domain.Task{}, false
	}
	return cloneTask(t), true
}

// Category returns a copy of the category with the given id.
func (s *Store) Category(id string) (domain.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories.ByID[id]
	return c, ok
}

// Filters returns the current transient filter state.
func (s *Store) Filters() domain.Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.filters
	f.Categories = cloneStrings(f.Categories)
	f.Tags = cloneStrings(f.Tags)
	return f
}

// AddTaskInput carries the caller-supplied fields for AddTask.
type AddTaskInput struct {
	Text        string
	Description string
	Categories  []string
	Tags        []string
	DueDate     int64
	Completed   bool
}

// AddTask creates a task with a generated id and default reminder settings
// and appends it to the display order. The title must not trim to empty.
func (s *Store) AddTask(in AddTaskInput) (domain.Task, error) {
	if !domain.ValidTitle(in.Text) {
		return domain.Task{}, domain.ErrEmptyTitle
	}
	var created domain.Task
	s.mutate(func() bool {
		now := s.now()
		t := domain.Task{
			ID:          uuid.NewString(),
			Text:        in.Text,
			Description: in.Description,
			Categories:  cloneStrings(in.Categories),
			Tags:        cloneStrings(in.Tags),
			CreatedAt:   now,
			UpdatedAt:   now,
			DueDate:     in.DueDate,
			Reminder:    domain.DefaultReminder(),
		}
		if t.Categories == nil {
			t.Categories = []string{}
		}
		if t.Tags == nil {
			t.Tags = []string{}
		}
		if in.Completed {
			t.Completed = true
			t.CompletedAt = now
		}
		s.tasks.ByID[t.ID] = t
		s.tasks.AllIDs = append(s.tasks.AllIDs, t.ID)
		created = cloneTask(t)
		return true
	})
	s.logger.Debug("task added", zap.String("task_id", created.ID))
	return created, nil
}

// TaskUpdate carries a partial task edit; nil fields are left untouched.
type TaskUpdate struct {
	Text        *string
	Description *string
	Categories  []string
	Tags        []string
}

// UpdateTask merges the update into the task and refreshes updatedAt.
// Unknown ids are a silent no-op.
func (s *Store) UpdateTask(id string, upd TaskUpdate) {
	s.mutate(func() bool {
		t, ok := s.tasks.ByID[id]
		if !ok {
			return false
		}
		if upd.Text != nil {
			t.Text = *upd.Text
		}
		if upd.Description != nil {
			t.Description = *upd.Description
		}
		if upd.Categories != nil {
			t.Categories = cloneStrings(upd.Categories)
		}
		if upd.Tags != nil {
			t.Tags = cloneStrings(upd.Tags)
		}
		t.UpdatedAt = s.now()
		s.tasks.ByID[id] = t
		return true
	})
}

// ToggleTask flips completion, keeping completedAt in lockstep.
func (s *Store) ToggleTask(id string) {
	s.mutate(func() bool {
		t, ok := s.tasks.ByID[id]
		if !ok {
			return false
		}
		now := s.now()
		t.Completed = !t.Completed
		if t.Completed {
			t.CompletedAt = now
		} else {
			t.CompletedAt = 0
		}
		t.UpdatedAt = now
		s.tasks.ByID[id] = t
		return true
	})
}

// DeleteTask removes the task from the table and the display order.
func (s *Store) DeleteTask(id string) {
	s.mutate(func() bool {
		if _, ok := s.tasks.ByID[id]; !ok {
			return false
		}
		delete(s.tasks.ByID, id)
		s.tasks.AllIDs = removeID(s.tasks.AllIDs, id)
		return true
	})
}

// ReorderTasks replaces the display order verbatim. The caller guarantees
// the sequence is a permutation of the current ids; the store does not
// check, it only logs when the lengths disagree.
func (s *Store) ReorderTasks(ids []string) {
	s.mutate(func() bool {
		if len(ids) != len(s.tasks.AllIDs) {
			s.logger.Warn("task reorder length mismatch",
				zap.Int("got", len(ids)),
				zap.Int("want", len(s.tasks.AllIDs)))
		}
		s.tasks.AllIDs = cloneStrings(ids)
		return true
	})
}

// SetTaskDueDate sets or clears (zero) the due date.
func (s *Store) SetTaskDueDate(id string, dueDate int64) {
	s.mutate(func() bool {
		t, ok := s.tasks.ByID[id]
		if !ok {
			return false
		}
		t.DueDate = dueDate
		t.UpdatedAt = s.now()
		s.tasks.ByID[id] = t
		return true
	})
}

// SetTaskCategories replaces the task's category references.
func (s *Store) SetTaskCategories(id string, categories []string) {
	s.mutate(func() bool {
		t, ok := s.tasks.ByID[id]
		if !ok {
			return false
		}
		t.Categories = cloneStrings(categories)
		if t.Categories == nil {
			t.Categories = []string{}
		}
		t.UpdatedAt = s.now()
		s.tasks.ByID[id] = t
		return true
	})
}

// SetTaskTags replaces the task's tags.
func (s *Store) SetTaskTags(id string, tags []string) {
	s.mutate(func() bool {
		t, ok := s.tasks.ByID[id]
		if !ok {
			return false
		}
		t.Tags = cloneStrings(tags)
		if t.Tags == nil {
			t.Tags = []string{}
		}
		t.UpdatedAt = s.now()
		s.tasks.ByID[id] = t
		return true
	})
}

// ReminderUpdate carries a partial reminder edit; nil fields keep their
// current value.
type ReminderUpdate struct {
	Enabled          *bool
	NotifyBefore     *int64
	NotificationType *domain.NotificationType
}

// SetTaskReminder merges the update into the reminder and resets sentAt so
// the reminder re-arms.
func (s *Store) SetTaskReminder(id string, upd ReminderUpdate) {
	s.mutate(func() bool {
		t, ok := s.tasks.ByID[id]
		if !ok {
			return false
		}
		if upd.Enabled != nil {
			t.Reminder.Enabled = *upd.Enabled
		}
		if upd.NotifyBefore != nil {
			t.Reminder.NotifyBefore = *upd.NotifyBefore
		}
		if upd.NotificationType != nil {
			t.Reminder.NotificationType = *upd.NotificationType
		}
		t.Reminder.SentAt = 0
		t.UpdatedAt = s.now()
		s.tasks.ByID[id] = t
		return true
	})
}

// MarkReminderSent records that the task's reminder fired. It does not touch
// updatedAt: the scheduler never edits task content.
func (s *Store) MarkReminderSent(id string) {
	s.mutate(func() bool {
		t, ok := s.tasks.ByID[id]
		if !ok {
			return false
		}
		t.Reminder.SentAt = s.now()
		s.tasks.ByID[id] = t
		return true
	})
}

// AddCategory creates a category and appends it to the display order.
func (s *Store) AddCategory(name, color, icon string) domain.Category {
	var created domain.Category
	s.mutate(func() bool {
		c := domain.Category{
			ID:        uuid.NewString(),
			Name:      name,
			Color:     color,
			Icon:      icon,
			CreatedAt: s.now(),
		}
		s.categories.ByID[c.ID] = c
		s.categories.AllIDs = append(s.categories.AllIDs, c.ID)
		created = c
		return true
	})
	return created
}

// CategoryUpdate carries a partial category edit.
type CategoryUpdate struct {
	Name  *string
	Color *string
	Icon  *string
}

// UpdateCategory merges the update into the category. Unknown ids no-op.
func (s *Store) UpdateCategory(id string, upd CategoryUpdate) {
	s.mutate(func() bool {
		c, ok := s.categories.ByID[id]
		if !ok {
			return false
		}
		if upd.Name != nil {
			c.Name = *upd.Name
		}
		if upd.Color != nil {
			c.Color = *upd.Color
		}
		if upd.Icon != nil {
			c.Icon = *upd.Icon
		}
		s.categories.ByID[id] = c
		return true
	})
}

// DeleteCategory removes the category. References from tasks are left in
// place; they become inert.
func (s *Store) DeleteCategory(id string) {
	s.mutate(func() bool {
		if _, ok := s.categories.ByID[id]; !ok {
			return false
		}
		delete(s.categories.ByID, id)
		s.categories.AllIDs = removeID(s.categories.AllIDs, id)
		return true
	})
}

// ReorderCategories replaces the category display order verbatim.
func (s *Store) ReorderCategories(ids []string) {
	s.mutate(func() bool {
		if len(ids) != len(s.categories.AllIDs) {
			s.logger.Warn("category reorder length mismatch",
				zap.Int("got", len(ids)),
				zap.Int("want", len(s.categories.AllIDs)))
		}
		s.categories.AllIDs = cloneStrings(ids)
		return true
	})
}

// Hydrate wholesale-replaces both tables from persisted state. The input is
// trusted; no per-field validation happens here.
func (s *Store) Hydrate(tasks TaskTable, categories CategoryTable) {
	s.mutate(func() bool {
		if tasks.ByID == nil {
			tasks = newTaskTable()
		}
		if categories.ByID == nil {
			categories = newCategoryTable()
		}
		s.tasks = tasks.clone()
		s.categories = categories.clone()
		return true
	})
	s.logger.Info("store hydrated",
		zap.Int("tasks", len(tasks.AllIDs)),
		zap.Int("categories", len(categories.AllIDs)))
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
