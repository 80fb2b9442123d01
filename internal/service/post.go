package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"forumfront/internal/model"
	"forumfront/internal/repository"
	"forumfront/internal/validation"
)

// ErrCategoryRequired is returned when a post is submitted without a category.
var ErrCategoryRequired = errors.New("category is required")

type PostService struct {
	posts  repository.PostRepository
	logger *zap.Logger
}

func NewPostService(posts repository.PostRepository, logger *zap.Logger) *PostService {
	return &PostService{posts: posts, logger: logger.Named("post")}
}

// Create validates the form and inserts the post. Validation failures are
// returned as *validation.Error or ErrCategoryRequired and nothing is written.
func (s *PostService) Create(ctx context.Context, viewer *model.Session, title, content string, categoryID *uuid.UUID) (*model.Post, error) {
	if viewer == nil {
		return nil, model.ErrAuthRequired
	}

	t, err := validation.Check(validation.Title, title)
	if err != nil {
		return nil, err
	}
	c, err := validation.Check(validation.Content, content)
	if err != nil {
		return nil, err
	}
	if categoryID == nil {
		return nil, ErrCategoryRequired
	}

	post, err := s.posts.Create(ctx, viewer.UserID, model.CreatePostRequest{
		Title:      t,
		Content:    c,
		CategoryID: *categoryID,
	})
	if err != nil {
		s.logger.Error("create post failed", zap.String("user_id", viewer.UserID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("post created",
		zap.String("post_id", post.ID.String()),
		zap.String("user_id", viewer.UserID.String()),
	)
	return post, nil
}
