package domain

import (
	"strings"
	"time"
)

// NotificationType selects which channels a reminder is delivered on.
type NotificationType string

const (
	NotifyBrowser NotificationType = "browser"
	NotifyToast   NotificationType = "toast"
	NotifyBoth    NotificationType = "both"
)

// DefaultNotifyBefore is the lead time for new reminders: 15 minutes.
const DefaultNotifyBefore = int64(15 * time.Minute / time.Millisecond)

// Reminder holds per-task notification settings. SentAt is cleared whenever
// the configuration changes so the reminder can fire again.
type Reminder struct {
	Enabled          bool             `json:"enabled"`
	NotifyBefore     int64            `json:"notifyBefore"`
	NotificationType NotificationType `json:"notificationType"`
	SentAt           int64            `json:"sentAt,omitempty"`
}

// DefaultReminder returns the reminder settings new tasks start with.
func DefaultReminder() Reminder {
	return Reminder{
		Enabled:          false,
		NotifyBefore:     DefaultNotifyBefore,
		NotificationType: NotifyBoth,
	}
}

// Task represents a single todo item. All timestamps are epoch milliseconds;
// zero means unset for the nullable ones (CompletedAt, DueDate, SentAt).
type Task struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Description string   `json:"description,omitempty"`
	Completed   bool     `json:"completed"`
	CompletedAt int64    `json:"completedAt,omitempty"`
	Categories  []string `json:"categories"`
	Tags        []string `json:"tags"`
	CreatedAt   int64    `json:"createdAt"`
	UpdatedAt   int64    `json:"updatedAt"`
	DueDate     int64    `json:"dueDate,omitempty"`
	Reminder    Reminder `json:"reminder"`
}

// IsOverdue reports whether the task is past its due date and not completed.
func (t *Task) IsOverdue(now int64) bool {
	return t != nil && !t.Completed && t.DueDate != 0 && t.DueDate < now
}

// ReminderTime returns the instant the "due soon" window opens, or zero when
// the task has no due date.
func (t *Task) ReminderTime() int64 {
	if t == nil || t.DueDate == 0 {
		return 0
	}
	return t.DueDate - t.Reminder.NotifyBefore
}

// HasAnyCategory reports whether the task references at least one of the
// given category ids. Stale ids pointing at deleted categories never match.
func (t *Task) HasAnyCategory(ids []string) bool {
	if t == nil {
		return false
	}
	for _, want := range ids {
		for _, have := range t.Categories {
			if have == want {
				return true
			}
		}
	}
	return false
}

// ValidTitle reports whether the title survives whitespace trimming.
func ValidTitle(text string) bool {
	return strings.TrimSpace(text) != ""
}

// NowMillis is the clock used across the store, in epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
