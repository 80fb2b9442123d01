package handler

import (
	"net/http"

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

type CommentHandler struct {
	pages
	composer  *service.QueryComposer
	reactions *service.ReactionService
	comments  *service.CommentService
}

func NewCommentHandler(
	sessions session.Provider,
	composer *service.QueryComposer,
	reactions *service.ReactionService,
	comments *service.CommentService,
	renderer *view.Renderer,
	cfg PageConfig,
	logger *zap.Logger,
) *CommentHandler {
	return &CommentHandler{
		pages:     newPages(sessions, renderer, cfg, logger.Named("comment_handler")),
		composer:  composer,
		reactions: reactions,
		comments:  comments,
	}
}

// React handles POST /comments/{id}/reactions
// Form: polarity=like|dislike, post_id
func (h *CommentHandler) React(w http.ResponseWriter, r *http.Request) {
	commentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.notFound(w, r, nil, "Comment not found")
		return
	}
	if err := r.ParseForm(); err != nil {
		httputil.WriteBadRequest(w, "Invalid form")
		return
	}
	postID, err := uuid.Parse(r.PostForm.Get("post_id"))
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}
	polarity, err := model.ParsePolarity(r.PostForm.Get("polarity"))
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid polarity")
		return
	}

	ctx := r.Context()
	c := controller.NewPostDetail(h.sessions, h.composer, h.reactions, h.comments, h.logger)
	c.Mount(ctx, middleware.TokenFromContext(ctx), postID)
	defer c.Unmount()

	if c.Post() == nil {
		h.redirect(w, r, "/", c.Notices())
		return
	}
	c.ReactComment(ctx, commentID, polarity)
	h.redirect(w, r, postPath(postID)+"#comment-"+commentID.String(), c.Notices())
}
