package sessions

import (
	"context"

	"legaluplift/pkg/wizard"
)

// sessionSubmitter sells a qualified lead in the background and records the
// outcome on the session it came from. The submission is detached from the
// request context: leaving the page does not cancel it.
type sessionSubmitter struct {
	manager *Manager
	session *session
}

func (s *sessionSubmitter) Submit(ctx context.Context, lead wizard.Lead) {
	m := s.manager
	ctx = context.WithoutCancel(ctx)

	m.inflight.Add(1)
	go func() {
		defer m.inflight.Done()

		outcome := m.leads.Submit(ctx, lead)

		s.session.mu.Lock()
		recorded := s.session.machine.RecordSubmission(lead.Generation, outcome.Status)
		s.session.mu.Unlock()

		if !recorded {
			m.logger.Info("submission outcome discarded after restart",
				"session", s.session.id, "status", outcome.Status)
		}
	}()
}
