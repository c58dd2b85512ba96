// Package sessions owns one wizard per browser session and serialises the
// events sent to it.
package sessions

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"legaluplift/pkg/payloads"
	"legaluplift/pkg/services"
	"legaluplift/pkg/utils"
	"legaluplift/pkg/wizard"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many active sessions")
)

// View is the wizard view together with the session it belongs to.
type View struct {
	SessionID string `json:"sessionId"`
	wizard.View
}

type session struct {
	id        string
	mu        sync.Mutex
	machine   *wizard.Machine
	expiresAt time.Time
}

// Manager keeps wizard sessions in memory. Sessions expire after a period
// of inactivity and are never persisted.
type Manager struct {
	leads    services.LeadSubmissionService
	options  wizard.Options
	timeout  time.Duration
	max      int
	logger   *slog.Logger
	now      func() time.Time
	sessions map[string]*session
	mu       sync.RWMutex
	inflight sync.WaitGroup
}

// NewManager returns an empty manager. Sessions idle for timeout expire; at
// most maxSessions live at once, or any number when maxSessions is zero.
func NewManager(leads services.LeadSubmissionService, options wizard.Options, timeout time.Duration, maxSessions int, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		leads:    leads,
		options:  options,
		timeout:  timeout,
		max:      maxSessions,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Create starts a new wizard session. When the manager is full, expired
// sessions are swept first and ErrTooManySessions is returned if none were.
func (m *Manager) Create() (View, error) {
	now := m.now()
	s := &session{id: uuid.NewString(), expiresAt: now.Add(m.timeout)}
	opts := m.options
	opts.Submitter = &sessionSubmitter{manager: m, session: s}
	s.machine = wizard.New(opts)

	m.mu.Lock()
	if m.max > 0 && len(m.sessions) >= m.max {
		m.sweepLocked(now)
	}
	if m.max > 0 && len(m.sessions) >= m.max {
		m.mu.Unlock()
		m.logger.Warn("wizard session limit reached", "max", m.max)
		return View{}, ErrTooManySessions
	}
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.logger.Debug("wizard session created", "session", s.id)
	return View{SessionID: s.id, View: s.machine.Snapshot()}, nil
}

func (m *Manager) get(id string) (*session, error) {
	m.mu.RLock()
	s, exists := m.sessions[id]
	m.mu.RUnlock()
	if !exists {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// View returns the current state of a session.
func (m *Manager) View(id string) (View, error) {
	s, err := m.get(id)
	if err != nil {
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := m.touch(s); err != nil {
		return View{}, err
	}
	return View{SessionID: s.id, View: s.machine.Snapshot()}, nil
}

// Dispatch applies one event to a session. The returned view reflects the
// session after the event, including when the event was rejected.
func (m *Manager) Dispatch(ctx context.Context, id string, ev wizard.Event, meta payloads.RequestMeta) (View, error) {
	s, err := m.get(id)
	if err != nil {
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := m.touch(s); err != nil {
		return View{}, err
	}

	wasComplete := s.machine.State().IsComplete
	err = s.machine.Dispatch(ctx, ev, meta)
	state := s.machine.State()
	if err == nil && !wasComplete && state.IsComplete {
		m.logger.Info("wizard completed", "session", s.id, "reason", state.TerminalReason,
			"lead", utils.LeadRef(state.FormData.Phone))
	}
	return View{SessionID: s.id, View: s.machine.Snapshot()}, err
}

// touch extends the session lifetime. Expired sessions are reported as
// missing and left for Sweep to remove. The caller holds s.mu.
func (m *Manager) touch(s *session) error {
	now := m.now()
	if now.After(s.expiresAt) {
		return ErrSessionNotFound
	}
	s.expiresAt = now.Add(m.timeout)
	return nil
}

// Sweep removes expired sessions and returns how many were removed.
func (m *Manager) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked(now)
}

// sweepLocked removes sessions expired at now. The caller holds m.mu.
func (m *Manager) sweepLocked(now time.Time) int {
	removed := 0
	for id, s := range m.sessions {
		s.mu.Lock()
		expired := now.After(s.expiresAt)
		s.mu.Unlock()
		if expired {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// RunJanitor sweeps expired sessions every interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Debug("expired wizard sessions removed", "count", n)
			}
		}
	}
}

// Wait blocks until every submission started so far has finished.
func (m *Manager) Wait() {
	m.inflight.Wait()
}
