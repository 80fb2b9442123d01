// Package controller holds the per-page state machines. A controller is
// created per request: mounted, driven by one or more intents, read through
// its State method and unmounted.
package controller

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"forumfront/internal/model"
	"forumfront/internal/session"
)

// State is a page's lifecycle state.
type State int

const (
	StateUnauthenticated State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return "unknown"
}

// mailbox queues session events from the hub goroutine until the
// controller's own goroutine drains them.
type mailbox struct {
	mu     sync.Mutex
	events []model.SessionEvent
}

func (m *mailbox) put(e model.SessionEvent) {
	m.mu.Lock()
	m.events = append(m.events, e)
	m.mu.Unlock()
}

func (m *mailbox) take() []model.SessionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := m.events
	m.events = nil
	return events
}

// page is the lifecycle and session handling shared by all controllers.
type page struct {
	sessions session.Provider
	logger   *zap.Logger

	token   string
	session *model.Session
	state   State
	notices []model.Notice

	inbox       mailbox
	unsubscribe func()
	mounted     bool
	generation  uint64
}

// attach resolves the session and subscribes to session changes.
func (p *page) attach(ctx context.Context, token string) {
	p.mounted = true
	p.generation++
	p.unsubscribe = p.sessions.Subscribe(p.inbox.put)
	p.resolve(ctx, token)
}

// detach ends the subscription. Results of loads started before detach are dropped.
func (p *page) detach() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	p.mounted = false
	p.generation++
}

func (p *page) resolve(ctx context.Context, token string) {
	p.token = token
	s, err := p.sessions.Resolve(ctx, token)
	if err != nil {
		if !errors.Is(err, model.ErrTokenExpired) && !errors.Is(err, model.ErrInvalidToken) && !errors.Is(err, model.ErrSessionRevoked) {
			p.logger.Warn("resolve session failed", zap.Error(err))
		}
		s = nil
	}
	p.session = s
}

// pump applies queued session events. It reports whether the session changed.
func (p *page) pump(ctx context.Context) bool {
	events := p.inbox.take()
	if len(events) == 0 || p.session == nil {
		return false
	}
	for _, e := range events {
		if e.SessionID != p.session.SessionID {
			continue
		}
		p.logger.Debug("session changed", zap.String("type", string(e.Type)))
		p.resolve(ctx, p.token)
		return true
	}
	return false
}

// begin starts a load and returns its generation.
func (p *page) begin() uint64 {
	p.generation++
	p.state = StateLoading
	return p.generation
}

// current reports whether results of load gen may still be applied.
func (p *page) current(gen uint64) bool {
	return p.mounted && gen == p.generation
}

func (p *page) notify(n model.Notice) {
	p.notices = append(p.notices, n)
}

// Notices returns and clears pending notices.
func (p *page) Notices() []model.Notice {
	n := p.notices
	p.notices = nil
	return n
}

// Session returns the resolved session or nil.
func (p *page) Session() *model.Session {
	return p.session
}

// State returns the lifecycle state.
func (p *page) State() State {
	return p.state
}
