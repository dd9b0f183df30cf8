// Package persist writes the durable slice of store state (tasks and
// categories, never filters) behind a trailing-edge debounce, and loads it
// back through versioned discard semantics. Nothing in here ever returns a
// failure to the store: every error degrades to "no persisted state".
package persist

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tasklight/backend/domain"
	"github.com/tasklight/backend/internal/store"
)

// Version identifies the envelope layout. A stored envelope with any other
// version is discarded on load; upgrades must bring their own migration.
const Version = 1

// DefaultDebounce is the quiescence window before a pending save is written.
const DefaultDebounce = time.Second

// Envelope is the durable storage record.
type Envelope struct {
	Version   int            `json:"version"`
	Timestamp int64          `json:"timestamp"`
	Data      store.Snapshot `json:"data"`
}

// Storage is a single-record blob store.
type Storage interface {
	Read() ([]byte, error)
	Write(payload []byte) error
	Delete() error
}

// Gateway debounces store snapshots into Storage. Safe for use as a store
// observer: Save never blocks on I/O and never propagates errors.
type Gateway struct {
	storage  Storage
	debounce time.Duration
	logger   *zap.Logger
	now      func() int64

	mu      sync.Mutex
	timer   *time.Timer
	pending *store.Snapshot
	closed  bool
}

// NewGateway builds a gateway over the given storage.
func NewGateway(storage Storage, debounce time.Duration, logger *zap.Logger) *Gateway {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		storage:  storage,
		debounce: debounce,
		logger:   logger,
		now:      domain.NowMillis,
	}
}

// SetClock overrides the envelope timestamp source. Intended for tests.
func (g *Gateway) SetClock(now func() int64) {
	if now != nil {
		g.now = now
	}
}

// Save records the snapshot as the pending state and (re)arms the debounce
// timer. Calls within the window collapse into one write carrying the most
// recent snapshot.
func (g *Gateway) Save(snap store.Snapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.pending = &snap
	if g.timer == nil {
		g.timer = time.AfterFunc(g.debounce, g.flushPending)
	} else {
		g.timer.Reset(g.debounce)
	}
}

// Flush writes any pending state immediately.
func (g *Gateway) Flush() {
	g.mu.Lock()
	if g.timer != nil {
		g.timer.Stop()
	}
	g.mu.Unlock()
	g.flushPending()
}

func (g *Gateway) flushPending() {
	g.mu.Lock()
	snap := g.pending
	g.pending = nil
	g.mu.Unlock()
	if snap == nil {
		return
	}
	g.write(*snap)
}

func (g *Gateway) write(snap store.Snapshot) {
	payload, err := json.Marshal(Envelope{
		Version:   Version,
		Timestamp: g.now(),
		Data:      snap,
	})
	if err != nil {
		g.logger.Error("failed to encode state", zap.Error(err))
		return
	}
	if err := g.storage.Write(payload); err != nil {
		g.logger.Error("failed to persist state", zap.Error(err))
		return
	}
	g.logger.Debug("state persisted",
		zap.Int("tasks", len(snap.Tasks.AllIDs)),
		zap.Int("categories", len(snap.Categories.AllIDs)))
}

// Load reads the persisted snapshot. The second return is false when nothing
// usable is stored: absent record, unreadable record, or a version mismatch
// (in which case the stored entry is deleted).
func (g *Gateway) Load() (store.Snapshot, bool) {
	var zero store.Snapshot

	raw, err := g.storage.Read()
	if err != nil {
		g.logger.Error("failed to read persisted state", zap.Error(err))
		return zero, false
	}
	if len(raw) == 0 {
		return zero, false
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		g.logger.Error("failed to decode persisted state", zap.Error(err))
		return zero, false
	}

	if env.Version != Version {
		g.logger.Warn("persisted state version mismatch, discarding",
			zap.Int("stored", env.Version),
			zap.Int("expected", Version))
		if err := g.storage.Delete(); err != nil {
			g.logger.Error("failed to discard stale state", zap.Error(err))
		}
		return zero, false
	}

	return env.Data, true
}

// Close cancels the debounce timer and flushes any pending state so the last
// edits survive a restart. Further Save calls are ignored.
func (g *Gateway) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	if g.timer != nil {
		g.timer.Stop()
	}
	g.mu.Unlock()

	g.flushPending()
	return nil
}
