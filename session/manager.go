package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/intellikit/intellikit/backend"
	"github.com/intellikit/intellikit/logging"
)

const (
	// DefaultIdleTimeout is how long a session may sit without activity
	// before the sweep evicts it.
	DefaultIdleTimeout = 120 * time.Second
	// DefaultSweepInterval is the granularity of the idle sweep.
	DefaultSweepInterval = 5 * time.Second
)

// Session is a live conversational context: an opaque id, the optional
// instructions it was seeded with, the backend handle, and an activity
// clock. Instances never escape the Manager except inside an
// Acquire/Release window on the single-threaded request path.
type Session struct {
	ID           string
	Instructions string
	Conversation backend.Conversation

	lastActivity time.Time
	busy         bool
}

// Options configures a Manager.
type Options struct {
	// IdleTimeout is the inactivity threshold for eviction.
	IdleTimeout time.Duration
	// SweepInterval is how often the idle sweep scans the table.
	SweepInterval time.Duration
	// Logger receives session lifecycle diagnostics.
	Logger logging.Logger
}

// Manager owns the session table and its synchronization. All reads and
// mutations of the table, from the request path and from the sweep, go
// through the Manager's mutex.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	backend  backend.Backend
	opts     Options
}

// NewManager constructs a Manager bound to a backend capability.
func NewManager(b backend.Backend, optFns ...func(o *Options)) *Manager {
	opts := Options{
		IdleTimeout:   DefaultIdleTimeout,
		SweepInterval: DefaultSweepInterval,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Manager{sessions: make(map[string]*Session), backend: b, opts: opts}
}

// Open allocates a fresh session seeded with the given instructions. The
// backend establishes conversational state first; on failure no partial
// session is left in the table.
func (m *Manager) Open(ctx context.Context, instructions string) (string, error) {
	conv, err := m.backend.Open(ctx, instructions)
	if err != nil {
		return "", fmt.Errorf("establish conversation: %w", err)
	}

	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = &Session{
		ID:           id,
		Instructions: instructions,
		Conversation: conv,
		lastActivity: time.Now(),
	}
	m.mu.Unlock()

	logging.LogSessionEvent(m.opts.Logger, "opened", id)
	return id, nil
}

// Acquire looks up a session, refreshes its activity clock and pins it
// against eviction until Release. The refresh and the pin happen under
// one lock acquisition so the sweep can never observe the session
// between "touched" and "in use". A false return means the id was never
// opened, already closed, or evicted.
func (m *Manager) Acquire(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	sess.lastActivity = time.Now()
	sess.busy = true
	return sess, true
}

// Release unpins a previously acquired session and refreshes its
// activity clock again, so a long generation does not count against the
// idle threshold. Releasing an id that is gone is a no-op.
func (m *Manager) Release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[id]; ok {
		sess.busy = false
		sess.lastActivity = time.Now()
	}
}

// Close removes a session and releases its backend handle. The second
// close of the same id reports false: a stale id never resolves again.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return false
	}

	if err := sess.Conversation.Close(); err != nil {
		m.opts.Logger.Warn("conversation close failed", "session_id", id, "error", err)
	}
	logging.LogSessionEvent(m.opts.Logger, "closed", id)
	return true
}

// CloseAll removes and releases every session regardless of activity.
// Used only on shutdown. Returns the number of sessions closed.
func (m *Manager) CloseAll() int {
	m.mu.Lock()
	removed := make([]*Session, 0, len(m.sessions))
	for id, sess := range m.sessions {
		removed = append(removed, sess)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, sess := range removed {
		if err := sess.Conversation.Close(); err != nil {
			m.opts.Logger.Warn("conversation close failed", "session_id", sess.ID, "error", err)
		}
	}
	return len(removed)
}

// Len reports the current number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Run drives the idle sweep until ctx is cancelled. The sweep runs on
// its own schedule, independent of command traffic, and synchronizes on
// the same mutex as the request path.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.opts.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(time.Now())
		}
	}
}

// sweep evicts every idle session whose inactivity exceeds the
// threshold. Sessions pinned by an in-flight message are skipped.
// Eviction is silent on the response stream; it is only logged.
func (m *Manager) sweep(now time.Time) {
	m.mu.Lock()
	expired := make([]*Session, 0)
	for id, sess := range m.sessions {
		if sess.busy {
			continue
		}
		if now.Sub(sess.lastActivity) > m.opts.IdleTimeout {
			expired = append(expired, sess)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, sess := range expired {
		if err := sess.Conversation.Close(); err != nil {
			m.opts.Logger.Warn("conversation close failed", "session_id", sess.ID, "error", err)
		}
		logging.LogSessionEvent(m.opts.Logger, "evicted", sess.ID)
	}
}
