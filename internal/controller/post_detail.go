package controller

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"forumfront/internal/model"
	"forumfront/internal/service"
	"forumfront/internal/session"
	"forumfront/internal/validation"
)

// PostDetail is one post with its comments and the comment form.
type PostDetail struct {
	page
	composer  *service.QueryComposer
	reactions *service.ReactionService
	commenter *service.CommentService

	postID   uuid.UUID
	post     *model.Post
	comments []model.Comment
	draft    string
}

func NewPostDetail(
	sessions session.Provider,
	composer *service.QueryComposer,
	reactions *service.ReactionService,
	commenter *service.CommentService,
	logger *zap.Logger,
) *PostDetail {
	return &PostDetail{
		page:      page{sessions: sessions, logger: logger.Named("post_detail")},
		composer:  composer,
		reactions: reactions,
		commenter: commenter,
	}
}

// Mount resolves the session and loads the post and its comments concurrently.
func (c *PostDetail) Mount(ctx context.Context, token string, postID uuid.UUID) {
	c.attach(ctx, token)
	c.postID = postID
	c.load(ctx)
}

func (c *PostDetail) Unmount() {
	c.detach()
}

// SessionChanged re-resolves with token and reloads the post and comments.
func (c *PostDetail) SessionChanged(ctx context.Context, token string) {
	c.resolve(ctx, token)
	c.load(ctx)
}

func (c *PostDetail) load(ctx context.Context) {
	gen := c.begin()
	postID := c.postID

	var (
		post       *model.Post
		comments   []model.Comment
		commentErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		post, err = c.composer.GetPost(gctx, postID)
		return err
	})
	g.Go(func() error {
		comments, commentErr = c.composer.ListComments(gctx, postID)
		return nil
	})
	postErr := g.Wait()

	if !c.current(gen) {
		return
	}

	if postErr != nil {
		if !errors.Is(postErr, model.ErrPostNotFound) {
			c.logger.Error("load post failed", zap.String("post_id", postID.String()), zap.Error(postErr))
		}
		c.notify(model.Failure("Error loading post"))
		c.state = StateError
		return
	}
	c.post = post

	if commentErr != nil {
		c.logger.Error("load comments failed", zap.String("post_id", postID.String()), zap.Error(commentErr))
		c.notify(model.Failure("Error loading comments"))
	} else {
		c.comments = comments
	}
	c.state = StateReady
}

func (c *PostDetail) reloadComments(ctx context.Context) {
	gen := c.generation
	comments, err := c.composer.ListComments(ctx, c.postID)
	if !c.current(gen) {
		return
	}
	if err != nil {
		c.logger.Error("reload comments failed", zap.Error(err))
		c.notify(model.Failure("Error loading comments"))
		return
	}
	c.comments = comments
}

// ReactPost likes or dislikes the post and refreshes its reactions.
func (c *PostDetail) ReactPost(ctx context.Context, p model.Polarity) {
	c.pump(ctx)
	if c.session == nil {
		c.notify(model.Failure("Please login to like posts"))
		return
	}
	if c.post == nil {
		return
	}

	current, _ := model.FindMine(c.post.Reactions, c.session.UserID)
	gen := c.generation
	snap, err := c.reactions.React(ctx, c.session, model.SubjectPost, c.post.ID, current, p)
	if !c.current(gen) {
		return
	}
	if err != nil {
		c.notify(model.Failure("Could not update your reaction"))
	}
	if snap != nil {
		c.post.Reactions = snap.Reactions
	}
}

// ReactComment likes or dislikes a comment and refreshes its reactions.
func (c *PostDetail) ReactComment(ctx context.Context, commentID uuid.UUID, p model.Polarity) {
	c.pump(ctx)
	if c.session == nil {
		c.notify(model.Failure("Please login to like comments"))
		return
	}

	idx := -1
	for i := range c.comments {
		if c.comments[i].ID == commentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.notify(model.Failure("Comment not found"))
		return
	}

	current, _ := model.FindMine(c.comments[idx].Reactions, c.session.UserID)
	gen := c.generation
	snap, err := c.reactions.React(ctx, c.session, model.SubjectComment, commentID, current, p)
	if !c.current(gen) {
		return
	}
	if err != nil {
		c.notify(model.Failure("Could not update your reaction"))
	}
	if snap != nil {
		c.comments[idx].Reactions = snap.Reactions
	}
}

// SubmitComment validates and posts a comment, then re-fetches the comments.
// On failure the draft is kept for the form.
func (c *PostDetail) SubmitComment(ctx context.Context, raw string) bool {
	c.pump(ctx)
	c.draft = raw
	if c.session == nil {
		c.notify(model.Failure("Please login to comment"))
		return false
	}

	_, err := c.commenter.Create(ctx, c.session, c.postID, raw)
	var ve *validation.Error
	if errors.As(err, &ve) {
		c.notify(model.Failure(ve.Message))
		return false
	}

	ok := err == nil
	if ok {
		c.draft = ""
		c.notify(model.Success("Comment posted!"))
	} else {
		c.notify(model.Failure("Error posting comment"))
	}
	c.reloadComments(ctx)
	return ok
}

func (c *PostDetail) Post() *model.Post {
	return c.post
}

func (c *PostDetail) Comments() []model.Comment {
	return c.comments
}

// Draft is the comment text to put back in the form.
func (c *PostDetail) Draft() string {
	return c.draft
}
