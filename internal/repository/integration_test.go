package repository

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forumfront/internal/model"
)

const testSchemaDDL = `
CREATE TABLE profiles (
	id uuid PRIMARY KEY,
	username text NOT NULL UNIQUE,
	bio text,
	created_at timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE categories (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	name text NOT NULL,
	color text NOT NULL
);
CREATE TABLE posts (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	title text NOT NULL,
	content text NOT NULL,
	author_id uuid NOT NULL REFERENCES profiles(id),
	category_id uuid REFERENCES categories(id),
	created_at timestamptz NOT NULL DEFAULT clock_timestamp()
);
CREATE TABLE post_categories (
	post_id uuid NOT NULL REFERENCES posts(id),
	category_id uuid NOT NULL REFERENCES categories(id),
	PRIMARY KEY (post_id, category_id)
);
CREATE TABLE comments (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	content text NOT NULL,
	post_id uuid NOT NULL REFERENCES posts(id),
	author_id uuid NOT NULL REFERENCES profiles(id),
	created_at timestamptz NOT NULL DEFAULT clock_timestamp()
);
CREATE TABLE post_likes (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	post_id uuid NOT NULL REFERENCES posts(id),
	user_id uuid NOT NULL REFERENCES profiles(id),
	is_like boolean NOT NULL,
	UNIQUE (post_id, user_id)
);
CREATE TABLE comment_likes (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	comment_id uuid NOT NULL REFERENCES comments(id),
	user_id uuid NOT NULL REFERENCES profiles(id),
	is_like boolean NOT NULL,
	UNIQUE (comment_id, user_id)
);
`

// setupTestDB creates the forum tables in a throwaway schema.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	admin, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("Postgres not available, skipping test: %v", err)
	}

	schema := "forumfront_test_" + strings.ReplaceAll(uuid.NewString()[:8], "-", "")
	_, err = admin.Exec(fmt.Sprintf("CREATE SCHEMA %s", schema))
	require.NoError(t, err)

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()

	db, err := sqlx.Connect("postgres", u.String())
	require.NoError(t, err)
	_, err = db.Exec(testSchemaDDL)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
		admin.Exec(fmt.Sprintf("DROP SCHEMA %s CASCADE", schema))
		admin.Close()
	})
	return db
}

func seedProfile(t *testing.T, db *sqlx.DB, username string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(`INSERT INTO profiles (id, username) VALUES ($1, $2)`, id, username)
	require.NoError(t, err)
	return id
}

func seedCategory(t *testing.T, db *sqlx.DB, name, color string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	require.NoError(t, db.Get(&id, `INSERT INTO categories (name, color) VALUES ($1, $2) RETURNING id`, name, color))
	return id
}

func TestIntegration_PostListFiltersAndExpansion(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	posts := NewPostRepository(db)
	comments := NewCommentRepository(db)
	reactions := NewReactionRepository(db)

	alice := seedProfile(t, db, "alice")
	bob := seedProfile(t, db, "bob")
	general := seedCategory(t, db, "General", "blue")
	help := seedCategory(t, db, "Help", "green")

	first, err := posts.Create(ctx, alice, model.CreatePostRequest{
		Title: "First post", Content: "This is the very first post here", CategoryID: general,
	})
	require.NoError(t, err)
	second, err := posts.Create(ctx, bob, model.CreatePostRequest{
		Title: "Second post", Content: "Another post, in the help category", CategoryID: help,
	})
	require.NoError(t, err)

	_, err = reactions.Insert(ctx, model.SubjectPost, first.ID, bob, model.Like)
	require.NoError(t, err)
	_, err = reactions.Insert(ctx, model.SubjectPost, first.ID, alice, model.Dislike)
	require.NoError(t, err)
	_, err = comments.Create(ctx, first.ID, bob, "Welcome aboard")
	require.NoError(t, err)

	all, err := posts.List(ctx, PostListQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")
	assert.Equal(t, "bob", all[0].AuthorUsername)
	assert.Equal(t, "Help", all[0].Category.Name)
	assert.Equal(t, model.Tally{Likes: 1, Dislikes: 1}, all[1].Tally())
	assert.Equal(t, 1, all[1].CommentCount())

	byCategory, err := posts.List(ctx, PostListQuery{CategoryID: &general})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, first.ID, byCategory[0].ID)

	liked, err := reactions.LikedSubjectIDs(ctx, model.SubjectPost, bob)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID}, liked)

	mineAndLiked, err := posts.List(ctx, PostListQuery{AuthorID: &bob, IDs: liked})
	require.NoError(t, err)
	assert.Empty(t, mineAndLiked)
}

func TestIntegration_ReactionWrites(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	posts := NewPostRepository(db)
	reactions := NewReactionRepository(db)

	alice := seedProfile(t, db, "alice")
	general := seedCategory(t, db, "General", "blue")
	post, err := posts.Create(ctx, alice, model.CreatePostRequest{
		Title: "Reactions", Content: "Testing reaction writes end to end", CategoryID: general,
	})
	require.NoError(t, err)

	r, err := reactions.Insert(ctx, model.SubjectPost, post.ID, alice, model.Like)
	require.NoError(t, err)

	_, err = reactions.Insert(ctx, model.SubjectPost, post.ID, alice, model.Like)
	assert.ErrorIs(t, err, model.ErrDuplicateReaction)

	require.NoError(t, reactions.UpdatePolarity(ctx, model.SubjectPost, r.ID, alice, model.Dislike))
	list, err := reactions.ListBySubject(ctx, model.SubjectPost, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsLike)

	require.NoError(t, reactions.Delete(ctx, model.SubjectPost, r.ID, alice))
	assert.ErrorIs(t, reactions.Delete(ctx, model.SubjectPost, r.ID, alice), model.ErrReactionNotFound)
}

func TestIntegration_ProfileUpdate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	profiles := NewProfileRepository(db)
	alice := seedProfile(t, db, "alice")
	seedProfile(t, db, "bob")

	p, err := profiles.Update(ctx, alice, model.UpdateProfileRequest{Username: "alice_2", Bio: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "alice_2", p.Username)
	assert.Equal(t, "hi", p.BioText())

	_, err = profiles.Update(ctx, alice, model.UpdateProfileRequest{Username: "bob"})
	assert.ErrorIs(t, err, model.ErrUsernameExists)

	_, err = profiles.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrProfileNotFound)
}
