package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"forumfront/internal/model"
)

// =============================================================================
// RECONCILE TESTS
// =============================================================================

func TestReconcile_DecisionTable(t *testing.T) {
	likeID := uuid.New()
	dislikeID := uuid.New()
	liked := &model.Reaction{ID: likeID, IsLike: true}
	disliked := &model.Reaction{ID: dislikeID, IsLike: false}

	tests := []struct {
		name      string
		current   *model.Reaction
		requested model.Polarity
		want      Decision
	}{
		{"none + like", nil, model.Like, Decision{Action: ActionInsert, Polarity: model.Like}},
		{"none + dislike", nil, model.Dislike, Decision{Action: ActionInsert, Polarity: model.Dislike}},
		{"like + like", liked, model.Like, Decision{Action: ActionDelete, ReactionID: likeID, Polarity: model.Like}},
		{"like + dislike", liked, model.Dislike, Decision{Action: ActionUpdate, ReactionID: likeID, Polarity: model.Dislike}},
		{"dislike + dislike", disliked, model.Dislike, Decision{Action: ActionDelete, ReactionID: dislikeID, Polarity: model.Dislike}},
		{"dislike + like", disliked, model.Like, Decision{Action: ActionUpdate, ReactionID: dislikeID, Polarity: model.Like}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reconcile(tt.current, tt.requested))
		})
	}
}

// =============================================================================
// REACT TESTS
// =============================================================================

// statefulReactions backs the mock with a slice so refreshes see prior writes.
func statefulReactions() (*mockReactionRepository, *[]model.Reaction) {
	rows := &[]model.Reaction{}
	m := &mockReactionRepository{}
	m.listBySubjectFn = func(ctx context.Context, kind model.SubjectKind, subjectID uuid.UUID) ([]model.Reaction, error) {
		var out []model.Reaction
		for _, r := range *rows {
			if r.SubjectID == subjectID {
				out = append(out, r)
			}
		}
		return out, nil
	}
	m.insertFn = func(ctx context.Context, kind model.SubjectKind, subjectID, userID uuid.UUID, p model.Polarity) (*model.Reaction, error) {
		r := model.Reaction{ID: uuid.New(), SubjectID: subjectID, UserID: userID, IsLike: p.IsLike()}
		*rows = append(*rows, r)
		return &r, nil
	}
	m.updateFn = func(ctx context.Context, kind model.SubjectKind, id, userID uuid.UUID, p model.Polarity) error {
		for i := range *rows {
			if (*rows)[i].ID == id {
				(*rows)[i].IsLike = p.IsLike()
				return nil
			}
		}
		return model.ErrReactionNotFound
	}
	m.deleteFn = func(ctx context.Context, kind model.SubjectKind, id, userID uuid.UUID) error {
		for i := range *rows {
			if (*rows)[i].ID == id {
				*rows = append((*rows)[:i], (*rows)[i+1:]...)
				return nil
			}
		}
		return model.ErrReactionNotFound
	}
	return m, rows
}

func TestReactionService_DoubleToggleReturnsToNone(t *testing.T) {
	// ARRANGE
	repo, _ := statefulReactions()
	svc := NewReactionService(repo, zap.NewNop())
	viewer := testSession()
	postID := uuid.New()

	// ACT: like from none, then like again
	snap, err := svc.React(context.Background(), viewer, model.SubjectPost, postID, nil, model.Like)
	require.NoError(t, err)
	require.NotNil(t, snap.Mine)
	assert.Equal(t, model.Tally{Likes: 1}, snap.Tally())

	snap, err = svc.React(context.Background(), viewer, model.SubjectPost, postID, snap.Mine, model.Like)

	// ASSERT
	require.NoError(t, err)
	assert.Nil(t, snap.Mine)
	assert.Equal(t, model.Tally{}, snap.Tally())
	assert.Len(t, repo.insertCalls, 1)
	assert.Len(t, repo.deleteCalls, 1)
	assert.Empty(t, repo.updateCalls)
}

func TestReactionService_FlipIssuesExactlyOneUpdate(t *testing.T) {
	repo, rows := statefulReactions()
	svc := NewReactionService(repo, zap.NewNop())
	viewer := testSession()
	postID := uuid.New()
	existing := model.Reaction{ID: uuid.New(), SubjectID: postID, UserID: viewer.UserID, IsLike: true}
	*rows = append(*rows, existing)

	snap, err := svc.React(context.Background(), viewer, model.SubjectPost, postID, &existing, model.Dislike)

	require.NoError(t, err)
	require.Len(t, repo.updateCalls, 1)
	assert.Equal(t, existing.ID, repo.updateCalls[0].ID)
	assert.Equal(t, model.Dislike, repo.updateCalls[0].Polarity)
	assert.Empty(t, repo.insertCalls)
	assert.Empty(t, repo.deleteCalls)
	require.NotNil(t, snap.Mine)
	assert.False(t, snap.Mine.IsLike)
	assert.Equal(t, model.Tally{Dislikes: 1}, snap.Tally())
}

func TestReactionService_UnauthenticatedIsRefused(t *testing.T) {
	repo, _ := statefulReactions()
	svc := NewReactionService(repo, zap.NewNop())

	snap, err := svc.React(context.Background(), nil, model.SubjectComment, uuid.New(), nil, model.Like)

	assert.ErrorIs(t, err, model.ErrAuthRequired)
	assert.Nil(t, snap)
	assert.Zero(t, repo.writes())
}

func TestReactionService_RefreshesEvenWhenWriteFails(t *testing.T) {
	repo, rows := statefulReactions()
	other := model.Reaction{ID: uuid.New(), UserID: uuid.New(), IsLike: true}
	postID := uuid.New()
	other.SubjectID = postID
	*rows = append(*rows, other)

	writeErr := errors.New("connection reset")
	repo.insertFn = func(ctx context.Context, kind model.SubjectKind, subjectID, userID uuid.UUID, p model.Polarity) (*model.Reaction, error) {
		return nil, writeErr
	}
	svc := NewReactionService(repo, zap.NewNop())

	snap, err := svc.React(context.Background(), testSession(), model.SubjectPost, postID, nil, model.Like)

	assert.ErrorIs(t, err, writeErr)
	require.NotNil(t, snap)
	assert.Equal(t, model.Tally{Likes: 1}, snap.Tally())
	assert.Nil(t, snap.Mine)
}

func TestReactionService_SnapshotPicksFirstOfDuplicates(t *testing.T) {
	viewer := testSession()
	postID := uuid.New()
	first := model.Reaction{ID: uuid.New(), SubjectID: postID, UserID: viewer.UserID, IsLike: true}
	second := model.Reaction{ID: uuid.New(), SubjectID: postID, UserID: viewer.UserID, IsLike: false}

	repo := &mockReactionRepository{
		listBySubjectFn: func(ctx context.Context, kind model.SubjectKind, subjectID uuid.UUID) ([]model.Reaction, error) {
			return []model.Reaction{first, second}, nil
		},
	}
	svc := NewReactionService(repo, zap.NewNop())

	snap, err := svc.Snapshot(context.Background(), model.SubjectPost, postID, &viewer.UserID)

	require.NoError(t, err)
	require.NotNil(t, snap.Mine)
	assert.Equal(t, first.ID, snap.Mine.ID)
}
