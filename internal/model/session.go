package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is a verified hosted-auth session.
type Session struct {
	UserID      uuid.UUID
	SessionID   string
	Email       string
	AccessToken string
	ExpiresAt   time.Time
}

// SessionEventType names a change in authentication state.
type SessionEventType string

const (
	SessionSignedIn  SessionEventType = "signed_in"
	SessionSignedOut SessionEventType = "signed_out"
)

// SessionEvent is delivered to session subscribers when a session starts or ends.
type SessionEvent struct {
	Type      SessionEventType `json:"type"`
	UserID    uuid.UUID        `json:"user_id"`
	SessionID string           `json:"session_id"`
	Timestamp int64            `json:"timestamp"`
}

// NewSessionEvent stamps an event with the current time.
func NewSessionEvent(t SessionEventType, s *Session) SessionEvent {
	return SessionEvent{
		Type:      t,
		UserID:    s.UserID,
		SessionID: s.SessionID,
		Timestamp: time.Now().Unix(),
	}
}
