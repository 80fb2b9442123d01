package repository

import (
	"context"

	"github.com/google/uuid"

	"forumfront/internal/model"
)

// PostListQuery narrows a post list read. Nil fields do not filter.
// A non-nil IDs restricts the result to those posts.
type PostListQuery struct {
	CategoryID *uuid.UUID
	AuthorID   *uuid.UUID
	IDs        []uuid.UUID
}

type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
}

type PostRepository interface {
	// List returns posts newest first with author, primary category,
	// reactions and comment ids expanded.
	List(ctx context.Context, q PostListQuery) ([]model.Post, error)
	// GetByID returns one post with author, reactions and joined categories.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	Create(ctx context.Context, authorID uuid.UUID, req model.CreatePostRequest) (*model.Post, error)
}

type CommentRepository interface {
	// ListByPost returns a post's comments newest first with author and reactions.
	ListByPost(ctx context.Context, postID uuid.UUID) ([]model.Comment, error)
	Create(ctx context.Context, postID, authorID uuid.UUID, content string) (*model.Comment, error)
}

type ReactionRepository interface {
	// ListBySubject returns every reaction on one subject, including user ids.
	ListBySubject(ctx context.Context, kind model.SubjectKind, subjectID uuid.UUID) ([]model.Reaction, error)
	// LikedSubjectIDs returns the subjects the user marked like=true.
	LikedSubjectIDs(ctx context.Context, kind model.SubjectKind, userID uuid.UUID) ([]uuid.UUID, error)
	Insert(ctx context.Context, kind model.SubjectKind, subjectID, userID uuid.UUID, p model.Polarity) (*model.Reaction, error)
	UpdatePolarity(ctx context.Context, kind model.SubjectKind, id, userID uuid.UUID, p model.Polarity) error
	Delete(ctx context.Context, kind model.SubjectKind, id, userID uuid.UUID) error
}

type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.Profile, error)
}
