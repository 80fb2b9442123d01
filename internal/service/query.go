package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"forumfront/internal/model"
	"forumfront/internal/repository"
)

// Activity narrows the post list to the viewer's own or liked posts.
type Activity string

const (
	ActivityAll   Activity = "all"
	ActivityMine  Activity = "mine"
	ActivityLiked Activity = "liked"
)

// ParseActivity maps a query value to an Activity, defaulting to all.
func ParseActivity(s string) Activity {
	switch Activity(s) {
	case ActivityMine, ActivityLiked:
		return Activity(s)
	}
	return ActivityAll
}

// PostFilter holds the two independent list filters. Both may be set.
type PostFilter struct {
	CategoryID *uuid.UUID
	Activity   Activity
}

// QueryComposer builds the forum's read queries.
type QueryComposer struct {
	categories repository.CategoryRepository
	posts      repository.PostRepository
	comments   repository.CommentRepository
	reactions  repository.ReactionRepository
	logger     *zap.Logger
}

func NewQueryComposer(
	categories repository.CategoryRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	reactions repository.ReactionRepository,
	logger *zap.Logger,
) *QueryComposer {
	return &QueryComposer{
		categories: categories,
		posts:      posts,
		comments:   comments,
		reactions:  reactions,
		logger:     logger.Named("query"),
	}
}

func (c *QueryComposer) Categories(ctx context.Context) ([]model.Category, error) {
	return c.categories.List(ctx)
}

// ListPosts returns posts newest first. Activity filters apply only when
// viewer is set. With the liked filter and no liked posts the post query
// is skipped.
func (c *QueryComposer) ListPosts(ctx context.Context, viewer *uuid.UUID, f PostFilter) ([]model.Post, error) {
	q := repository.PostListQuery{CategoryID: f.CategoryID}

	if viewer != nil {
		switch f.Activity {
		case ActivityMine:
			id := *viewer
			q.AuthorID = &id
		case ActivityLiked:
			ids, err := c.reactions.LikedSubjectIDs(ctx, model.SubjectPost, *viewer)
			if err != nil {
				return nil, fmt.Errorf("resolve liked posts: %w", err)
			}
			if len(ids) == 0 {
				c.logger.Debug("no liked posts, skipping post query", zap.String("user_id", viewer.String()))
				return []model.Post{}, nil
			}
			q.IDs = ids
		}
	}

	posts, err := c.posts.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *QueryComposer) GetPost(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	return c.posts.GetByID(ctx, id)
}

func (c *QueryComposer) ListComments(ctx context.Context, postID uuid.UUID) ([]model.Comment, error) {
	return c.comments.ListByPost(ctx, postID)
}
