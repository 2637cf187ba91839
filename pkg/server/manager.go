package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/sitekit/internal/errors"
	"github.com/vango-dev/sitekit/pkg/page"
	"github.com/vango-dev/sitekit/pkg/telemetry"
)

// SessionManager tracks the live page sessions.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl     time.Duration
	now     func() time.Time
	metrics *telemetry.Metrics
	logger  *slog.Logger

	done     chan struct{}
	stopOnce sync.Once
}

// NewSessionManager creates a manager whose unattached sessions expire
// after ttl.
func NewSessionManager(ttl time.Duration, metrics *telemetry.Metrics, logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		metrics:  metrics,
		logger:   logger.With("component", "sessions"),
		done:     make(chan struct{}),
	}
}

// Create registers a new session for p.
func (m *SessionManager) Create(p *page.Page) *Session {
	s := &Session{
		ID:      uuid.NewString(),
		Page:    p,
		created: m.now(),
		manager: m,
		send:    make(chan []page.Command, 32),
		done:    make(chan struct{}),
	}
	s.logger = m.logger.With("session", s.ID, "path", p.Path())

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Debug("session created", "session", s.ID, "path", p.Path())
	return s
}

// Get returns the session with id.
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Claim marks the session with id as attached. It fails with E400 for
// unknown sessions and E401 for sessions already attached.
func (m *SessionManager) Claim(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.New("E400").WithDetail("No session with ID " + id)
	}
	if s.attached {
		return nil, errors.New("E401")
	}
	s.attached = true
	return s, nil
}

// Remove closes the session's page and forgets it.
func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.Page.Close()
		m.logger.Debug("session removed", "session", id)
	}
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions that were never attached within the TTL and
// returns how many it removed.
func (m *SessionManager) Sweep() int {
	cutoff := m.now().Add(-m.ttl)
	var expired []string
	m.mu.RLock()
	for id, s := range m.sessions {
		if !s.attached && s.created.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range expired {
		m.Remove(id)
	}
	if len(expired) > 0 {
		m.logger.Debug("expired sessions swept", "count", len(expired))
	}
	return len(expired)
}

// StartCleanup sweeps expired sessions every interval until Shutdown.
func (m *SessionManager) StartCleanup(interval time.Duration) {
	if interval <= 0 {
		interval = m.ttl / 2
	}
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Sweep()
			case <-m.done:
				return
			}
		}
	}()
}

// Shutdown stops the cleanup loop and closes every session.
func (m *SessionManager) Shutdown() {
	m.stopOnce.Do(func() { close(m.done) })

	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
		s.Page.Close()
	}
}
