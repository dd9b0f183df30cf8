// Package notify is the boundary to the presentation layer: transient
// in-app toasts and native desktop notifications. The scheduler hands it
// tasks; routing between channels follows each task's notificationType.
package notify

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tasklight/backend/domain"
)

// Severity classifies a toast for the presenter.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Toast is a transient in-UI message.
type Toast struct {
	Message  string        `json:"message"`
	Severity Severity      `json:"severity"`
	Duration time.Duration `json:"duration"`
}

// ToastSink receives toasts for display.
type ToastSink interface {
	Push(Toast)
}

// DesktopNotification is a native OS notification. Tag dedupes repeated
// notifications for the same task.
type DesktopNotification struct {
	Title              string
	Body               string
	Icon               string
	Tag                string
	RequireInteraction bool
}

// DesktopSink delivers native notifications. Available is the permission
// probe; it is consulted once, lazily, and never re-checked after a denial.
type DesktopSink interface {
	Available() bool
	Send(DesktopNotification) error
}

// Notifier fans reminder emissions out to the configured channels.
type Notifier struct {
	toasts  ToastSink
	desktop DesktopSink
	logger  *zap.Logger

	permOnce sync.Once
	granted  bool
}

// New builds a notifier. Either sink may be nil, which silently disables
// that channel.
func New(toasts ToastSink, desktop DesktopSink, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		toasts:  toasts,
		desktop: desktop,
		logger:  logger,
	}
}

// DueSoon announces that a task's reminder window has opened.
func (n *Notifier) DueSoon(task domain.Task) {
	n.emit(task,
		Toast{
			Message:  fmt.Sprintf("Reminder: %q is due soon!", task.Text),
			Severity: SeverityWarning,
			Duration: 8 * time.Second,
		},
		DesktopNotification{
			Title: "Task Reminder",
			Body:  fmt.Sprintf("%q is due soon!", task.Text),
			Tag:   "reminder-" + task.ID,
		})
}

// Overdue announces that a task's due date has passed.
func (n *Notifier) Overdue(task domain.Task) {
	n.emit(task,
		Toast{
			Message:  fmt.Sprintf("%q is overdue!", task.Text),
			Severity: SeverityError,
			Duration: 10 * time.Second,
		},
		DesktopNotification{
			Title:              "Task Overdue",
			Body:               fmt.Sprintf("%q is overdue!", task.Text),
			Tag:                "overdue-" + task.ID,
			RequireInteraction: true,
		})
}

func (n *Notifier) emit(task domain.Task, toast Toast, desktop DesktopNotification) {
	typ := task.Reminder.NotificationType

	if typ == domain.NotifyToast || typ == domain.NotifyBoth {
		if n.toasts != nil {
			n.toasts.Push(toast)
		}
	}

	if typ == domain.NotifyBrowser || typ == domain.NotifyBoth {
		if n.permitted() {
			if err := n.desktop.Send(desktop); err != nil {
				n.logger.Warn("desktop notification failed",
					zap.String("tag", desktop.Tag), zap.Error(err))
			}
		}
	}
}

// permitted runs the one-time permission probe. A denial sticks for the
// lifetime of the notifier; only the desktop channel is suppressed.
func (n *Notifier) permitted() bool {
	n.permOnce.Do(func() {
		n.granted = n.desktop != nil && n.desktop.Available()
		if !n.granted {
			n.logger.Info("desktop notifications unavailable, toast channel only")
		}
	})
	return n.granted
}
