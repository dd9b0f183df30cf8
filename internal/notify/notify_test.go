package notify_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklight/backend/domain"
	"github.com/tasklight/backend/internal/notify"
)

type fakeDesktop struct {
	available bool
	probes    int
	sent      []notify.DesktopNotification
}

func (f *fakeDesktop) Available() bool {
	f.probes++
	return f.available
}

func (f *fakeDesktop) Send(n notify.DesktopNotification) error {
	f.sent = append(f.sent, n)
	return nil
}

func task(typ domain.NotificationType) domain.Task {
	r := domain.DefaultReminder()
	r.Enabled = true
	r.NotificationType = typ
	return domain.Task{ID: "t1", Text: "pay rent", Reminder: r}
}

func Test_Notifier_RoutesByNotificationType(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		typ         domain.NotificationType
		wantToast   int
		wantDesktop int
	}{
		{typ: domain.NotifyToast, wantToast: 1, wantDesktop: 0},
		{typ: domain.NotifyBrowser, wantToast: 0, wantDesktop: 1},
		{typ: domain.NotifyBoth, wantToast: 1, wantDesktop: 1},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(string(tc.typ), func(t *testing.T) {
			t.Parallel()

			feed := notify.NewFeed(10, nil)
			desktop := &fakeDesktop{available: true}
			n := notify.New(feed, desktop, nil)

			n.DueSoon(task(tc.typ))
			assert.Equal(t, tc.wantToast, feed.Len())
			assert.Len(t, desktop.sent, tc.wantDesktop)
		})
	}
}

func Test_Notifier_DueSoonAndOverdueShape(t *testing.T) {
	t.Parallel()

	feed := notify.NewFeed(10, nil)
	desktop := &fakeDesktop{available: true}
	n := notify.New(feed, desktop, nil)

	n.DueSoon(task(domain.NotifyBoth))
	n.Overdue(task(domain.NotifyBoth))

	toasts := feed.Drain()
	require.Len(t, toasts, 2)
	assert.Equal(t, notify.SeverityWarning, toasts[0].Severity)
	assert.Contains(t, toasts[0].Message, "due soon")
	assert.Equal(t, notify.SeverityError, toasts[1].Severity)
	assert.Contains(t, toasts[1].Message, "overdue")

	require.Len(t, desktop.sent, 2)
	assert.Equal(t, "reminder-t1", desktop.sent[0].Tag)
	assert.False(t, desktop.sent[0].RequireInteraction)
	assert.Equal(t, "overdue-t1", desktop.sent[1].Tag)
	assert.True(t, desktop.sent[1].RequireInteraction)
}

func Test_Notifier_PermissionProbedOnceAndDenialSticks(t *testing.T) {
	t.Parallel()

	feed := notify.NewFeed(10, nil)
	desktop := &fakeDesktop{available: false}
	n := notify.New(feed, desktop, nil)

	n.DueSoon(task(domain.NotifyBoth))
	n.Overdue(task(domain.NotifyBoth))

	// denial suppresses only the desktop channel, and is never re-probed
	assert.Empty(t, desktop.sent)
	assert.Equal(t, 1, desktop.probes)
	assert.Equal(t, 2, feed.Len())
}

func Test_Notifier_NilDesktopSink(t *testing.T) {
	t.Parallel()

	feed := notify.NewFeed(10, nil)
	n := notify.New(feed, nil, nil)

	n.DueSoon(task(domain.NotifyBrowser)) // must not panic
	assert.Zero(t, feed.Len())
}

func Test_Feed_BoundedOldestFirstOut(t *testing.T) {
	t.Parallel()

	feed := notify.NewFeed(3, nil)
	for i := 0; i < 5; i++ {
		feed.Push(notify.Toast{Message: fmt.Sprintf("m%d", i), Severity: notify.SeverityWarning})
	}

	toasts := feed.Drain()
	require.Len(t, toasts, 3)
	assert.Equal(t, "m2", toasts[0].Message)
	assert.Equal(t, "m4", toasts[2].Message)
	assert.Zero(t, feed.Len())
}
