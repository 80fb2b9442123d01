package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"forumfront/internal/model"
	"forumfront/internal/repository"
	"forumfront/internal/validation"
)

type CommentService struct {
	comments repository.CommentRepository
	logger   *zap.Logger
}

func NewCommentService(comments repository.CommentRepository, logger *zap.Logger) *CommentService {
	return &CommentService{comments: comments, logger: logger.Named("comment")}
}

// Create validates the body and inserts the comment.
func (s *CommentService) Create(ctx context.Context, viewer *model.Session, postID uuid.UUID, content string) (*model.Comment, error) {
	if viewer == nil {
		return nil, model.ErrAuthRequired
	}

	body, err := validation.Check(validation.Comment, content)
	if err != nil {
		return nil, err
	}

	comment, err := s.comments.Create(ctx, postID, viewer.UserID, body)
	if err != nil {
		s.logger.Error("create comment failed",
			zap.String("post_id", postID.String()),
			zap.String("user_id", viewer.UserID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("post_id", postID.String()),
	)
	return comment, nil
}
