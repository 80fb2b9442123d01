package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"forumfront/internal/model"
	"forumfront/internal/service"
)

func samplePost(reactions ...model.Reaction) model.Post {
	return model.Post{
		ID:             uuid.New(),
		Title:          "Welcome to the forum",
		Content:        "Say hello to everyone in here",
		AuthorUsername: "alice",
		CreatedAt:      time.Now().Add(-3 * time.Minute),
		Category:       &model.CategoryBadge{Name: "General", Color: "blue"},
		Reactions:      reactions,
	}
}

func renderHome(t *testing.T, page HomePage) string {
	t.Helper()
	r, err := NewRenderer(zap.NewNop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusOK, PageHome, page)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	return rec.Body.String()
}

func TestNewPostCard(t *testing.T) {
	viewer := &model.Session{UserID: uuid.New()}
	other := uuid.New()
	p := samplePost(
		model.Reaction{ID: uuid.New(), UserID: other, IsLike: true},
		model.Reaction{ID: uuid.New(), UserID: viewer.UserID, IsLike: false},
	)

	anon := NewPostCard(p, nil)
	assert.False(t, anon.CanReact)
	assert.Empty(t, anon.MyPolarity)
	assert.Equal(t, 1, anon.Likes)
	assert.Equal(t, 1, anon.Dislikes)

	mine := NewPostCard(p, viewer)
	assert.True(t, mine.CanReact)
	assert.Equal(t, "dislike", mine.MyPolarity)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt("short"))
	long := strings.Repeat("é", excerptRunes+10)
	assert.Equal(t, strings.Repeat("é", excerptRunes)+"...", excerpt(long))
}

func TestHomeHref(t *testing.T) {
	id := uuid.MustParse("7f1c2f4e-8f5a-4c1a-9b3e-2d4f6a8b0c1d")
	assert.Equal(t, "/", HomeHref("", service.ActivityAll))
	assert.Equal(t, "/?filter=liked", HomeHref("", service.ActivityLiked))
	assert.Equal(t, "/?category="+id.String()+"&filter=mine", HomeHref(id.String(), service.ActivityMine))
}

func TestRender_AnonymousHidesControls(t *testing.T) {
	body := renderHome(t, HomePage{
		Base:  Base{SignInURL: "https://auth.example.com/sign-in", Path: "/"},
		Posts: []PostCard{NewPostCard(samplePost(), nil)},
	})

	assert.Contains(t, body, "Welcome to the forum")
	assert.Contains(t, body, "3 minutes ago")
	assert.Contains(t, body, `href="https://auth.example.com/sign-in"`)
	assert.NotContains(t, body, "/reactions")
	assert.NotContains(t, body, "/posts/new")
}

func TestRender_ActiveReactionReflectsMine(t *testing.T) {
	viewer := &model.Session{UserID: uuid.New()}
	p := samplePost(model.Reaction{ID: uuid.New(), UserID: viewer.UserID, IsLike: true})

	body := renderHome(t, HomePage{
		Base:  Base{Viewer: viewer, Path: "/?filter=liked"},
		Posts: []PostCard{NewPostCard(p, viewer)},
	})

	assert.Contains(t, body, `action="/posts/`+p.ID.String()+`/reactions"`)
	assert.Contains(t, body, `btn-outline-success active" data-reaction="like"`)
	assert.Contains(t, body, `btn-outline-danger " data-reaction="dislike"`)
	assert.Contains(t, body, `name="return_to" value="/?filter=liked"`)
}

func TestRender_Notices(t *testing.T) {
	body := renderHome(t, HomePage{
		Base: Base{Notices: []model.Notice{model.Failure("Error loading posts")}},
	})

	assert.Contains(t, body, `alert-danger`)
	assert.Contains(t, body, "Error loading posts")
	assert.Contains(t, body, "No posts yet.")
}

func TestRender_UnknownPage(t *testing.T) {
	r, err := NewRenderer(zap.NewNop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusOK, "missing", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
