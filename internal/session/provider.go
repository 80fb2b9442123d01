// Package session resolves hosted-auth sessions and announces their changes.
package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"forumfront/internal/cache"
	"forumfront/internal/model"
)

// Provider is the session collaborator page controllers depend on.
type Provider interface {
	// Resolve returns the session behind accessToken. An empty token
	// resolves to nil without error.
	Resolve(ctx context.Context, accessToken string) (*model.Session, error)

	// SignIn verifies a freshly issued token and announces the session.
	SignIn(ctx context.Context, accessToken string) (*model.Session, error)

	// SignOut revokes the session and announces it.
	SignOut(ctx context.Context, s *model.Session) error

	// Subscribe registers fn for session changes until unsubscribe is called.
	Subscribe(fn func(model.SessionEvent)) (unsubscribe func())
}

// EventPublisher carries session events to every instance.
type EventPublisher interface {
	PublishSessionEvent(ctx context.Context, event model.SessionEvent) error
}

// HostedProvider verifies tokens locally and tracks sign-outs in a
// RevocationStore shared by all instances.
type HostedProvider struct {
	verifier    *Verifier
	revocations cache.RevocationStore
	publisher   EventPublisher
	hub         *Hub
	logger      *zap.Logger
}

func NewHostedProvider(
	verifier *Verifier,
	revocations cache.RevocationStore,
	publisher EventPublisher,
	hub *Hub,
	logger *zap.Logger,
) *HostedProvider {
	return &HostedProvider{
		verifier:    verifier,
		revocations: revocations,
		publisher:   publisher,
		hub:         hub,
		logger:      logger.Named("session"),
	}
}

func (p *HostedProvider) Resolve(ctx context.Context, accessToken string) (*model.Session, error) {
	if accessToken == "" {
		return nil, nil
	}

	s, err := p.verifier.Verify(accessToken)
	if err != nil {
		return nil, err
	}

	revoked, err := p.revocations.IsRevoked(ctx, s.SessionID)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if revoked {
		return nil, model.ErrSessionRevoked
	}
	return s, nil
}

func (p *HostedProvider) SignIn(ctx context.Context, accessToken string) (*model.Session, error) {
	s, err := p.Resolve(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, model.ErrInvalidToken
	}

	p.announce(ctx, model.NewSessionEvent(model.SessionSignedIn, s))
	p.logger.Info("signed in", zap.String("user_id", s.UserID.String()), zap.String("session_id", s.SessionID))
	return s, nil
}

func (p *HostedProvider) SignOut(ctx context.Context, s *model.Session) error {
	if s == nil {
		return model.ErrAuthRequired
	}

	ttl := time.Until(s.ExpiresAt)
	if err := p.revocations.Revoke(ctx, s.SessionID, ttl); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}

	p.announce(ctx, model.NewSessionEvent(model.SessionSignedOut, s))
	p.logger.Info("signed out", zap.String("user_id", s.UserID.String()), zap.String("session_id", s.SessionID))
	return nil
}

func (p *HostedProvider) Subscribe(fn func(model.SessionEvent)) func() {
	return p.hub.Subscribe(fn)
}

// announce logs publish failures instead of returning them.
func (p *HostedProvider) announce(ctx context.Context, event model.SessionEvent) {
	if err := p.publisher.PublishSessionEvent(ctx, event); err != nil {
		p.logger.Warn("publish session event failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
