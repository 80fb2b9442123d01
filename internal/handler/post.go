package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"forumfront/internal/controller"
	"forumfront/internal/httputil"
	"forumfront/internal/model"
	"forumfront/internal/service"
	"forumfront/internal/session"
	"forumfront/internal/transport/http/middleware"
	"forumfront/internal/view"
)

type PostHandler struct {
	pages
	composer  *service.QueryComposer
	reactions *service.ReactionService
	comments  *service.CommentService
	posts     *service.PostService
}

func NewPostHandler(
	sessions session.Provider,
	composer *service.QueryComposer,
	reactions *service.ReactionService,
	comments *service.CommentService,
	posts *service.PostService,
	renderer *view.Renderer,
	cfg PageConfig,
	logger *zap.Logger,
) *PostHandler {
	return &PostHandler{
		pages:     newPages(sessions, renderer, cfg, logger.Named("post_handler")),
		composer:  composer,
		reactions: reactions,
		comments:  comments,
		posts:     posts,
	}
}

func (h *PostHandler) detail() *controller.PostDetail {
	return controller.NewPostDetail(h.sessions, h.composer, h.reactions, h.comments, h.logger)
}

func postPath(id uuid.UUID) string {
	return "/posts/" + id.String()
}

// Show handles GET /posts/{id}
func (h *PostHandler) Show(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.notFound(w, r, nil, "Post not found")
		return
	}

	c := h.detail()
	c.Mount(r.Context(), middleware.TokenFromContext(r.Context()), postID)
	defer c.Unmount()

	if c.Post() == nil {
		h.redirect(w, r, "/", c.Notices())
		return
	}
	h.view.Render(w, http.StatusOK, view.PagePost, view.NewPostPage(h.base(w, r, c.Session(), c.Notices()), c))
}

// React handles POST /posts/{id}/reactions
// Form: polarity=like|dislike, return_to
// The page named by return_to is replayed: the post page for /posts/...,
// otherwise the home list with its filters.
func (h *PostHandler) React(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.notFound(w, r, nil, "Post not found")
		return
	}
	if err := r.ParseForm(); err != nil {
		httputil.WriteBadRequest(w, "Invalid form")
		return
	}
	polarity, err := model.ParsePolarity(r.PostForm.Get("polarity"))
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid polarity")
		return
	}

	ctx := r.Context()
	token := middleware.TokenFromContext(ctx)
	returnTo := httputil.SafeReturnPath(r.PostForm.Get("return_to"), postPath(postID))

	var notices []model.Notice
	if strings.HasPrefix(returnTo, "/posts/") {
		c := h.detail()
		c.Mount(ctx, token, postID)
		c.ReactPost(ctx, polarity)
		notices = c.Notices()
		c.Unmount()
	} else {
		c := controller.NewHome(h.sessions, h.composer, h.reactions, h.logger)
		c.Mount(ctx, token, filterFromPath(returnTo))
		c.React(ctx, postID, polarity)
		notices = c.Notices()
		c.Unmount()
	}
	h.redirect(w, r, returnTo, notices)
}

func filterFromPath(path string) service.PostFilter {
	u, err := url.Parse(path)
	if err != nil {
		return service.PostFilter{}
	}
	return parseFilter(u.Query())
}

// Comment handles POST /posts/{id}/comments
// Form: content
func (h *PostHandler) Comment(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.notFound(w, r, nil, "Post not found")
		return
	}
	if err := r.ParseForm(); err != nil {
		httputil.WriteBadRequest(w, "Invalid form")
		return
	}

	ctx := r.Context()
	c := h.detail()
	c.Mount(ctx, middleware.TokenFromContext(ctx), postID)
	defer c.Unmount()

	if c.Post() == nil {
		h.redirect(w, r, "/", c.Notices())
		return
	}
	if c.Session() == nil {
		c.SubmitComment(ctx, r.PostForm.Get("content"))
		h.redirect(w, r, postPath(postID), c.Notices())
		return
	}

	if c.SubmitComment(ctx, r.PostForm.Get("content")) {
		h.redirect(w, r, postPath(postID)+"#comments", c.Notices())
		return
	}
	base := h.base(w, r, c.Session(), c.Notices())
	base.Path = postPath(postID)
	h.view.Render(w, http.StatusUnprocessableEntity, view.PagePost, view.NewPostPage(base, c))
}

func (h *PostHandler) createController() *controller.CreatePost {
	return controller.NewCreatePost(h.sessions, h.composer, h.posts, h.logger)
}

// New handles GET /posts/new
func (h *PostHandler) New(w http.ResponseWriter, r *http.Request) {
	c := h.createController()
	c.Mount(r.Context(), middleware.TokenFromContext(r.Context()))
	defer c.Unmount()

	if c.State() == controller.StateUnauthenticated {
		h.signIn(w, r)
		return
	}
	h.view.Render(w, http.StatusOK, view.PageCreatePost, view.NewCreatePostPage(h.base(w, r, c.Session(), c.Notices()), c))
}

// Create handles POST /posts/new
// Form: title, content, category_id
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.WriteBadRequest(w, "Invalid form")
		return
	}

	ctx := r.Context()
	c := h.createController()
	c.Mount(ctx, middleware.TokenFromContext(ctx))
	defer c.Unmount()

	if c.State() == controller.StateUnauthenticated {
		h.signIn(w, r)
		return
	}

	form := controller.PostForm{
		Title:   r.PostForm.Get("title"),
		Content: r.PostForm.Get("content"),
	}
	if id, err := uuid.Parse(r.PostForm.Get("category_id")); err == nil {
		form.CategoryID = &id
	}

	if c.Submit(ctx, form) {
		h.redirect(w, r, "/", c.Notices())
		return
	}
	if c.State() == controller.StateUnauthenticated {
		h.signIn(w, r)
		return
	}
	h.view.Render(w, http.StatusUnprocessableEntity, view.PageCreatePost, view.NewCreatePostPage(h.base(w, r, c.Session(), c.Notices()), c))
}
