package service

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"forumfront/internal/model"
	"forumfront/internal/repository"
)

func newComposer(posts *mockPostRepository, reactions *mockReactionRepository) *QueryComposer {
	return NewQueryComposer(mockCategoryRepository{}, posts, &mockCommentRepository{}, reactions, zap.NewNop())
}

func TestQueryComposer_LikedWithNoLikesSkipsPostQuery(t *testing.T) {
	posts := &mockPostRepository{}
	reactions := &mockReactionRepository{
		likedFn: func(ctx context.Context, kind model.SubjectKind, userID uuid.UUID) ([]uuid.UUID, error) {
			return nil, nil
		},
	}
	viewer := uuid.New()

	got, err := newComposer(posts, reactions).ListPosts(context.Background(), &viewer, PostFilter{Activity: ActivityLiked})

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, posts.listCalls, "post query must not be issued")
}

func TestQueryComposer_FilterComposition(t *testing.T) {
	viewer := uuid.New()
	category := uuid.New()
	liked := []uuid.UUID{uuid.New()}

	tests := []struct {
		name   string
		viewer *uuid.UUID
		filter PostFilter
		want   repository.PostListQuery
	}{
		{
			name: "no filters",
			want: repository.PostListQuery{},
		},
		{
			name:   "category only",
			filter: PostFilter{CategoryID: &category},
			want:   repository.PostListQuery{CategoryID: &category},
		},
		{
			name:   "mine",
			viewer: &viewer,
			filter: PostFilter{Activity: ActivityMine},
			want:   repository.PostListQuery{AuthorID: &viewer},
		},
		{
			name:   "liked within category",
			viewer: &viewer,
			filter: PostFilter{CategoryID: &category, Activity: ActivityLiked},
			want:   repository.PostListQuery{CategoryID: &category, IDs: liked},
		},
		{
			name:   "activity ignored when anonymous",
			filter: PostFilter{Activity: ActivityMine},
			want:   repository.PostListQuery{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := &mockPostRepository{}
			reactions := &mockReactionRepository{
				likedFn: func(ctx context.Context, kind model.SubjectKind, userID uuid.UUID) ([]uuid.UUID, error) {
					return liked, nil
				},
			}

			_, err := newComposer(posts, reactions).ListPosts(context.Background(), tt.viewer, tt.filter)

			require.NoError(t, err)
			require.Len(t, posts.listCalls, 1)
			if diff := cmp.Diff(tt.want, posts.listCalls[0]); diff != "" {
				t.Errorf("query mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseActivity(t *testing.T) {
	assert.Equal(t, ActivityMine, ParseActivity("mine"))
	assert.Equal(t, ActivityLiked, ParseActivity("liked"))
	assert.Equal(t, ActivityAll, ParseActivity(""))
	assert.Equal(t, ActivityAll, ParseActivity("my-posts"))
}
