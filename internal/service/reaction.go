package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"forumfront/internal/model"
	"forumfront/internal/repository"
)

// Action is the single write a reaction request turns into.
type Action int

const (
	ActionInsert Action = iota + 1
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionInsert:
		return "insert"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	}
	return "unknown"
}

// Decision is the outcome of reconciling a request against the current reaction.
type Decision struct {
	Action     Action
	ReactionID uuid.UUID // existing row for update and delete
	Polarity   model.Polarity
}

// Reconcile decides the write for requested given the user's current reaction:
// none inserts, same polarity deletes, opposite polarity updates in place.
func Reconcile(current *model.Reaction, requested model.Polarity) Decision {
	if current == nil {
		return Decision{Action: ActionInsert, Polarity: requested}
	}
	if current.Polarity() == requested {
		return Decision{Action: ActionDelete, ReactionID: current.ID, Polarity: requested}
	}
	return Decision{Action: ActionUpdate, ReactionID: current.ID, Polarity: requested}
}

type ReactionService struct {
	reactions repository.ReactionRepository
	logger    *zap.Logger
}

func NewReactionService(reactions repository.ReactionRepository, logger *zap.Logger) *ReactionService {
	return &ReactionService{
		reactions: reactions,
		logger:    logger.Named("reaction"),
	}
}

// React applies exactly one write for the viewer, then re-reads the subject
// in one query. The snapshot is returned even when the write failed; the
// error then carries the write failure.
func (s *ReactionService) React(
	ctx context.Context,
	viewer *model.Session,
	kind model.SubjectKind,
	subjectID uuid.UUID,
	current *model.Reaction,
	requested model.Polarity,
) (*model.ReactionSnapshot, error) {
	if viewer == nil {
		return nil, model.ErrAuthRequired
	}

	d := Reconcile(current, requested)
	writeErr := s.apply(ctx, viewer.UserID, kind, subjectID, d)
	if writeErr != nil {
		s.logger.Warn("reaction write failed",
			zap.String("kind", string(kind)),
			zap.String("subject_id", subjectID.String()),
			zap.Stringer("action", d.Action),
			zap.Error(writeErr),
		)
	} else {
		s.logger.Debug("reaction written",
			zap.String("kind", string(kind)),
			zap.String("subject_id", subjectID.String()),
			zap.Stringer("action", d.Action),
			zap.Stringer("polarity", d.Polarity),
		)
	}

	snap, refreshErr := s.Snapshot(ctx, kind, subjectID, &viewer.UserID)
	return snap, errors.Join(writeErr, refreshErr)
}

func (s *ReactionService) apply(ctx context.Context, userID uuid.UUID, kind model.SubjectKind, subjectID uuid.UUID, d Decision) error {
	switch d.Action {
	case ActionInsert:
		_, err := s.reactions.Insert(ctx, kind, subjectID, userID, d.Polarity)
		return err
	case ActionUpdate:
		return s.reactions.UpdatePolarity(ctx, kind, d.ReactionID, userID, d.Polarity)
	case ActionDelete:
		return s.reactions.Delete(ctx, kind, d.ReactionID, userID)
	}
	return fmt.Errorf("unknown reaction action %d", d.Action)
}

// Snapshot reads every reaction on the subject and picks out the viewer's.
func (s *ReactionService) Snapshot(ctx context.Context, kind model.SubjectKind, subjectID uuid.UUID, viewerID *uuid.UUID) (*model.ReactionSnapshot, error) {
	list, err := s.reactions.ListBySubject(ctx, kind, subjectID)
	if err != nil {
		return nil, fmt.Errorf("refresh reactions: %w", err)
	}

	snap := &model.ReactionSnapshot{Kind: kind, SubjectID: subjectID, Reactions: list}
	if viewerID != nil {
		snap.Mine = s.pickMine(list, *viewerID, kind, subjectID)
	}
	return snap, nil
}

// pickMine takes the first of the viewer's rows; more than one means the
// store let a duplicate through.
func (s *ReactionService) pickMine(list []model.Reaction, viewerID uuid.UUID, kind model.SubjectKind, subjectID uuid.UUID) *model.Reaction {
	mine, n := model.FindMine(list, viewerID)
	if n > 1 {
		s.logger.Warn("duplicate reactions for user",
			zap.String("kind", string(kind)),
			zap.String("subject_id", subjectID.String()),
			zap.String("user_id", viewerID.String()),
			zap.Int("count", n),
		)
	}
	return mine
}
