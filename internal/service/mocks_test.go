package service

import (
	"context"

	"github.com/google/uuid"

	"forumfront/internal/model"
	"forumfront/internal/repository"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================

type mockReactionRepository struct {
	listBySubjectFn func(ctx context.Context, kind model.SubjectKind, subjectID uuid.UUID) ([]model.Reaction, error)
	likedFn         func(ctx context.Context, kind model.SubjectKind, userID uuid.UUID) ([]uuid.UUID, error)
	insertFn        func(ctx context.Context, kind model.SubjectKind, subjectID, userID uuid.UUID, p model.Polarity) (*model.Reaction, error)
	updateFn        func(ctx context.Context, kind model.SubjectKind, id, userID uuid.UUID, p model.Polarity) error
	deleteFn        func(ctx context.Context, kind model.SubjectKind, id, userID uuid.UUID) error

	// Track calls for assertions
	insertCalls []reactionWrite
	updateCalls []reactionWrite
	deleteCalls []reactionWrite
}

type reactionWrite struct {
	ID       uuid.UUID
	Subject  uuid.UUID
	Polarity model.Polarity
}

func (m *mockReactionRepository) writes() int {
	return len(m.insertCalls) + len(m.updateCalls) + len(m.deleteCalls)
}

func (m *mockReactionRepository) ListBySubject(ctx context.Context, kind model.SubjectKind, subjectID uuid.UUID) ([]model.Reaction, error) {
	if m.listBySubjectFn != nil {
		return m.listBySubjectFn(ctx, kind, subjectID)
	}
	return nil, nil
}

func (m *mockReactionRepository) LikedSubjectIDs(ctx context.Context, kind model.SubjectKind, userID uuid.UUID) ([]uuid.UUID, error) {
	if m.likedFn != nil {
		return m.likedFn(ctx, kind, userID)
	}
	return nil, nil
}

func (m *mockReactionRepository) Insert(ctx context.Context, kind model.SubjectKind, subjectID, userID uuid.UUID, p model.Polarity) (*model.Reaction, error) {
	m.insertCalls = append(m.insertCalls, reactionWrite{Subject: subjectID, Polarity: p})
	if m.insertFn != nil {
		return m.insertFn(ctx, kind, subjectID, userID, p)
	}
	return &model.Reaction{ID: uuid.New(), SubjectID: subjectID, UserID: userID, IsLike: p.IsLike()}, nil
}

func (m *mockReactionRepository) UpdatePolarity(ctx context.Context, kind model.SubjectKind, id, userID uuid.UUID, p model.Polarity) error {
	m.updateCalls = append(m.updateCalls, reactionWrite{ID: id, Polarity: p})
	if m.updateFn != nil {
		return m.updateFn(ctx, kind, id, userID, p)
	}
	return nil
}

func (m *mockReactionRepository) Delete(ctx context.Context, kind model.SubjectKind, id, userID uuid.UUID) error {
	m.deleteCalls = append(m.deleteCalls, reactionWrite{ID: id})
	if m.deleteFn != nil {
		return m.deleteFn(ctx, kind, id, userID)
	}
	return nil
}

type mockPostRepository struct {
	listFn   func(ctx context.Context, q repository.PostListQuery) ([]model.Post, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*model.Post, error)
	createFn func(ctx context.Context, authorID uuid.UUID, req model.CreatePostRequest) (*model.Post, error)

	listCalls   []repository.PostListQuery
	createCalls []model.CreatePostRequest
}

func (m *mockPostRepository) List(ctx context.Context, q repository.PostListQuery) ([]model.Post, error) {
	m.listCalls = append(m.listCalls, q)
	if m.listFn != nil {
		return m.listFn(ctx, q)
	}
	return []model.Post{}, nil
}

func (m *mockPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) Create(ctx context.Context, authorID uuid.UUID, req model.CreatePostRequest) (*model.Post, error) {
	m.createCalls = append(m.createCalls, req)
	if m.createFn != nil {
		return m.createFn(ctx, authorID, req)
	}
	return &model.Post{ID: uuid.New(), Title: req.Title, Content: req.Content, AuthorID: authorID}, nil
}

type mockCommentRepository struct {
	createCalls []string
}

func (m *mockCommentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]model.Comment, error) {
	return nil, nil
}

func (m *mockCommentRepository) Create(ctx context.Context, postID, authorID uuid.UUID, content string) (*model.Comment, error) {
	m.createCalls = append(m.createCalls, content)
	return &model.Comment{ID: uuid.New(), PostID: postID, AuthorID: authorID, Content: content}, nil
}

type mockCategoryRepository struct{}

func (mockCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	return nil, nil
}

type mockProfileRepository struct {
	updateFn    func(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.Profile, error)
	updateCalls []model.UpdateProfileRequest
}

func (m *mockProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	return &model.Profile{ID: id, Username: "someone"}, nil
}

func (m *mockProfileRepository) Update(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.Profile, error) {
	m.updateCalls = append(m.updateCalls, req)
	if m.updateFn != nil {
		return m.updateFn(ctx, id, req)
	}
	return &model.Profile{ID: id, Username: req.Username}, nil
}

func testSession() *model.Session {
	return &model.Session{UserID: uuid.New(), SessionID: "sess-1"}
}
