package view

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/tasklight/backend/domain"
)

// scoreThreshold is the fuzzy tolerance on a 0-1 scale where 0 is an exact
// match. Tasks scoring above it are dropped from search results.
const scoreThreshold = 0.3

// substringScore is awarded when the query appears verbatim inside a field
// without matching a whole token.
const substringScore = 0.1

type scoredTask struct {
	task  domain.Task
	score float64
}

// rankTasks orders tasks by ascending fuzzy score against the query and
// drops non-matches. Ties keep their incoming (store) order. An empty or
// whitespace query is a pass-through.
func rankTasks(tasks []domain.Task, query string) []domain.Task {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return tasks
	}

	matched := make([]scoredTask, 0, len(tasks))
	for _, t := range tasks {
		if s := taskScore(t, q); s <= scoreThreshold {
			matched = append(matched, scoredTask{task: t, score: s})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score < matched[j].score
	})

	out := make([]domain.Task, len(matched))
	for i, m := range matched {
		out[i] = m.task
	}
	return out
}

// taskScore is the best score across the searchable fields: title,
// description and tags.
func taskScore(t domain.Task, query string) float64 {
	best := fieldScore(t.Text, query)
	if s := fieldScore(t.Description, query); s < best {
		best = s
	}
	for _, tag := range t.Tags {
		if s := fieldScore(tag, query); s < best {
			best = s
		}
	}
	return best
}

// fieldScore scores one field: exact token match is 0, substring containment
// is near-exact, otherwise the minimum normalized edit distance between the
// query and any token of the field.
func fieldScore(field, query string) float64 {
	f := strings.ToLower(field)
	if f == "" {
		return 1
	}
	if f == query {
		return 0
	}

	best := 1.0
	if strings.Contains(f, query) {
		best = substringScore
	}
	for _, token := range strings.Fields(f) {
		if s := tokenScore(token, query); s < best {
			best = s
		}
	}
	return best
}

func tokenScore(token, query string) float64 {
	if token == query {
		return 0
	}
	longest := len([]rune(token))
	if l := len([]rune(query)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(token, query)
	return float64(dist) / float64(longest)
}
