package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklight/backend/domain"
	"github.com/tasklight/backend/internal/store"
	"github.com/tasklight/backend/internal/view"
)

const baseTime = int64(1_700_000_000_000)

func newFixture(t *testing.T) (*store.Store, *view.Engine) {
	t.Helper()
	s := store.New(nil)
	e := view.NewEngine(s)
	e.SetClock(func() int64 { return baseTime })
	return s, e
}

func addTask(t *testing.T, s *store.Store, in store.AddTaskInput) domain.Task {
	t.Helper()
	task, err := s.AddTask(in)
	require.NoError(t, err)
	return task
}

func titles(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Text
	}
	return out
}

func Test_FilteredTasks_EmptyQueryPreservesStoreOrder(t *testing.T) {
	t.Parallel()

	s, e := newFixture(t)
	addTask(t, s, store.AddTaskInput{Text: "first"})
	addTask(t, s, store.AddTaskInput{Text: "second"})
	addTask(t, s, store.AddTaskInput{Text: "third"})

	assert.Equal(t, []string{"first", "second", "third"}, titles(e.FilteredTasks()))
}

func Test_FilteredTasks_StatusPartition(t *testing.T) {
	t.Parallel()

	s, e := newFixture(t)
	addTask(t, s, store.AddTaskInput{Text: "open"})
	done := addTask(t, s, store.AddTaskInput{Text: "done"})
	s.ToggleTask(done.ID)

	s.SetStatusFilter(domain.StatusCompleted)
	assert.Equal(t, []string{"done"}, titles(e.FilteredTasks()))

	s.SetStatusFilter(domain.StatusPending)
	assert.Equal(t, []string{"open"}, titles(e.FilteredTasks()))

	s.SetStatusFilter(domain.StatusAll)
	assert.Len(t, e.FilteredTasks(), 2)
}

func Test_FilteredTasks_SearchMatchesTextDescriptionAndTags(t *testing.T) {
	t.Parallel()

	s, e := newFixture(t)
	addTask(t, s, store.AddTaskInput{Text: "buy groceries"})
	addTask(t, s, store.AddTaskInput{Text: "misc", Description: "grocery run on sunday"})
	addTask(t, s, store.AddTaskInput{Text: "gym", Tags: []string{"health"}})

	s.SetSearchQuery("groceries")
	got := titles(e.FilteredTasks())
	assert.Contains(t, got, "buy groceries")
	assert.Contains(t, got, "misc")
	assert.NotContains(t, got, "gym")

	s.SetSearchQuery("health")
	assert.Equal(t, []string{"gym"}, titles(e.FilteredTasks()))
}

func Test_FilteredTasks_NoMatchReturnsEmpty(t *testing.T) {
	t.Parallel()

	s, e := newFixture(t)
	addTask(t, s, store.AddTaskInput{Text: "buy milk"})
	addTask(t, s, store.AddTaskInput{Text: "walk the dog"})

	s.SetSearchQuery("xylophone")
	assert.Empty(t, e.FilteredTasks())
}

func Test_FilteredTasks_ExactMatchRanksFirst(t *testing.T) {
	t.Parallel()

	s, e := newFixture(t)
	addTask(t, s, store.AddTaskInput{Text: "milkshake recipe"})
	addTask(t, s, store.AddTaskInput{Text: "milk"})

	s.SetSearchQuery("milk")
	got := titles(e.FilteredTasks())
	require.NotEmpty(t, got)
	assert.Equal(t, "milk", got[0])
}

func Test_FilteredTasks_CategoryIntersection(t *testing.T) {
	t.Parallel()

	s, e := newFixture(t)
	work := s.AddCategory("Work", "blue", "")
	home := s.AddCategory("Home", "green", "")

	addTask(t, s, store.AddTaskInput{Text: "report", Categories: []string{work.ID}})
	addTask(t, s, store.AddTaskInput{Text: "dishes", Categories: []string{home.ID}})
	addTask(t, s, store.AddTaskInput{Text: "untagged"})

	s.SetCategoryFilter([]string{work.ID})
	assert.Equal(t, []string{"report"}, titles(e.FilteredTasks()))

	s.SetCategoryFilter([]string{work.ID, home.ID})
	assert.Equal(t, []string{"report", "dishes"}, titles(e.FilteredTasks()))

	s.SetCategoryFilter(nil)
	assert.Len(t, e.FilteredTasks(), 3)
}

func Test_FilteredTasks_DeletedCategoryFilterYieldsNothing(t *testing.T) {
	t.Parallel()

	s, e := newFixture(t)
	cat := s.AddCategory("Gone", "red", "")
	addTask(t, s, store.AddTaskInput{Text: "orphaned", Categories: []string{cat.ID}})
	s.DeleteCategory(cat.ID)

	// filtering by the stale id still matches the task that references it,
	// and filtering by an id no task ever had yields nothing; neither throws
	s.SetCategoryFilter([]string{cat.ID})
	assert.Equal(t, []string{"orphaned"}, titles(e.FilteredTasks()))

	s.SetCategoryFilter([]string{"never-existed"})
	assert.Empty(t, e.FilteredTasks())
}

func Test_FilteredTasks_RecomputesAfterStoreChange(t *testing.T) {
	t.Parallel()

	s, e := newFixture(t)
	task := addTask(t, s, store.AddTaskInput{Text: "volatile"})

	require.Len(t, e.FilteredTasks(), 1)
	s.DeleteTask(task.ID)
	assert.Empty(t, e.FilteredTasks())
}

func Test_FilteredTasks_MemoizedAcrossIdenticalCalls(t *testing.T) {
	t.Parallel()

	s, e := newFixture(t)
	addTask(t, s, store.AddTaskInput{Text: "stable"})

	first := e.FilteredTasks()
	second := e.FilteredTasks()
	require.NotEmpty(t, first)
	assert.Same(t, &first[0], &second[0])
}

func Test_FilteredTasks_CategoryChangeReusesSearchStage(t *testing.T) {
	t.Parallel()

	s, e := newFixture(t)
	cat := s.AddCategory("Work", "blue", "")
	addTask(t, s, store.AddTaskInput{Text: "milk run", Categories: []string{cat.ID}})
	addTask(t, s, store.AddTaskInput{Text: "milk"})

	s.SetSearchQuery("milk")
	// both score as exact token matches, so the tie keeps store order
	before := e.FilteredTasks()
	require.Equal(t, []string{"milk run", "milk"}, titles(before))

	// a category-only change rebuilds the final list from the ranked result
	// without re-scoring, so flipping the filter back must hand out the same
	// backing array the search stage produced the first time
	s.SetCategoryFilter([]string{cat.ID})
	assert.Equal(t, []string{"milk run"}, titles(e.FilteredTasks()))

	s.SetCategoryFilter(nil)
	after := e.FilteredTasks()
	require.NotEmpty(t, after)
	assert.Same(t, &before[0], &after[0])
}

func Test_FilteredTasks_StoreChangeInvalidatesSearchStage(t *testing.T) {
	t.Parallel()

	s, e := newFixture(t)
	addTask(t, s, store.AddTaskInput{Text: "milk"})

	s.SetSearchQuery("milk")
	require.Len(t, e.FilteredTasks(), 1)

	addTask(t, s, store.AddTaskInput{Text: "milk again"})
	assert.Len(t, e.FilteredTasks(), 2)
}

func Test_Projections_EmptyIsNonNil(t *testing.T) {
	t.Parallel()

	_, e := newFixture(t)
	assert.NotNil(t, e.FilteredTasks())
	assert.NotNil(t, e.OverdueTasks())
	assert.NotNil(t, e.UpcomingReminders())
}

func Test_Stats_Counts(t *testing.T) {
	t.Parallel()

	s, e := newFixture(t)
	addTask(t, s, store.AddTaskInput{Text: "pending"})
	done := addTask(t, s, store.AddTaskInput{Text: "done"})
	s.ToggleTask(done.ID)
	addTask(t, s, store.AddTaskInput{Text: "late", DueDate: baseTime - 1000})

	stats := e.Stats()
	assert.Equal(t, view.Stats{Total: 3, Completed: 1, Pending: 2, Overdue: 1}, stats)
}

func Test_OverdueTasks_ExcludesCompleted(t *testing.T) {
	t.Parallel()

	s, e := newFixture(t)
	addTask(t, s, store.AddTaskInput{Text: "late", DueDate: baseTime - 1000})
	doneLate := addTask(t, s, store.AddTaskInput{Text: "done late", DueDate: baseTime - 1000})
	s.ToggleTask(doneLate.ID)
	addTask(t, s, store.AddTaskInput{Text: "future", DueDate: baseTime + 1000})

	assert.Equal(t, []string{"late"}, titles(e.OverdueTasks()))
}

func Test_UpcomingReminders_Window(t *testing.T) {
	t.Parallel()

	s, e := newFixture(t)
	hour := int64(60 * 60 * 1000)
	enabled := true

	within := addTask(t, s, store.AddTaskInput{Text: "within", DueDate: baseTime + 2*hour})
	s.SetTaskReminder(within.ID, store.ReminderUpdate{Enabled: &enabled})

	beyond := addTask(t, s, store.AddTaskInput{Text: "beyond", DueDate: baseTime + 48*hour})
	s.SetTaskReminder(beyond.ID, store.ReminderUpdate{Enabled: &enabled})

	// reminder window already open: excluded, it is no longer upcoming
	open := addTask(t, s, store.AddTaskInput{Text: "open", DueDate: baseTime + 2*hour})
	wide := 3 * hour
	s.SetTaskReminder(open.ID, store.ReminderUpdate{Enabled: &enabled, NotifyBefore: &wide})

	disabled := addTask(t, s, store.AddTaskInput{Text: "disabled", DueDate: baseTime + 2*hour})
	_ = disabled

	assert.Equal(t, []string{"within"}, titles(e.UpcomingReminders()))
}

func Test_Categories_OrderedFlatten(t *testing.T) {
	t.Parallel()

	s, e := newFixture(t)
	a := s.AddCategory("A", "red", "")
	b := s.AddCategory("B", "blue", "")
	s.ReorderCategories([]string{b.ID, a.ID})

	got := e.Categories()
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Name)
	assert.Equal(t, "A", got[1].Name)
}
