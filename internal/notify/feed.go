package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Feed is the production ToastSink: a bounded in-memory queue the UI drains
// over the API. When full, the oldest toasts are dropped first.
type Feed struct {
	mu     sync.Mutex
	items  []Toast
	limit  int
	logger *zap.Logger
}

// NewFeed builds a feed holding at most limit undelivered toasts.
func NewFeed(limit int, logger *zap.Logger) *Feed {
	if limit <= 0 {
		limit = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed{limit: limit, logger: logger}
}

// Push queues a toast for the next drain.
func (f *Feed) Push(t Toast) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, t)
	if over := len(f.items) - f.limit; over > 0 {
		f.items = f.items[over:]
	}
	f.logger.Info("toast queued",
		zap.String("severity", string(t.Severity)),
		zap.String("message", t.Message))
}

// Drain returns all queued toasts and empties the feed.
func (f *Feed) Drain() []Toast {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.items
	f.items = nil
	return out
}

// Len reports the number of queued toasts.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}
