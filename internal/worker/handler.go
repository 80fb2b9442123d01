package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"forumfront/internal/model"
)

// Dispatcher delivers a session event to local subscribers.
type Dispatcher interface {
	Dispatch(event model.SessionEvent)
}

// Handler checks relayed session events and hands them to the dispatcher.
type Handler struct {
	dispatcher Dispatcher
	logger     *zap.Logger
}

// NewHandler creates a new event handler.
func NewHandler(dispatcher Dispatcher, logger *zap.Logger) *Handler {
	return &Handler{dispatcher: dispatcher, logger: logger.Named("relay")}
}

// HandleEvent routes an event based on type.
func (h *Handler) HandleEvent(ctx context.Context, event model.SessionEvent) error {
	if event.SessionID == "" {
		return fmt.Errorf("session event %s without session id", event.Type)
	}

	switch event.Type {
	case model.SessionSignedIn, model.SessionSignedOut:
		h.dispatcher.Dispatch(event)
		h.logger.Debug("relayed session event",
			zap.String("type", string(event.Type)),
			zap.String("session_id", event.SessionID),
		)
		return nil
	default:
		return fmt.Errorf("unknown session event type %q", event.Type)
	}
}
