package controller

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"forumfront/internal/model"
	"forumfront/internal/service"
	"forumfront/internal/session"
)

// Home is the post list with category and activity filters.
type Home struct {
	page
	composer  *service.QueryComposer
	reactions *service.ReactionService

	filter     service.PostFilter
	categories []model.Category
	posts      []model.Post
}

func NewHome(sessions session.Provider, composer *service.QueryComposer, reactions *service.ReactionService, logger *zap.Logger) *Home {
	return &Home{
		page:      page{sessions: sessions, logger: logger.Named("home")},
		composer:  composer,
		reactions: reactions,
	}
}

// Mount resolves the session and loads categories and posts for filter.
func (c *Home) Mount(ctx context.Context, token string, filter service.PostFilter) {
	c.attach(ctx, token)
	c.filter = filter
	c.load(ctx)
}

func (c *Home) Unmount() {
	c.detach()
}

// SessionChanged re-resolves with token and reloads.
func (c *Home) SessionChanged(ctx context.Context, token string) {
	c.resolve(ctx, token)
	c.load(ctx)
}

// SelectCategory sets or clears the category filter. The activity filter is kept.
func (c *Home) SelectCategory(ctx context.Context, id *uuid.UUID) {
	c.pump(ctx)
	c.filter.CategoryID = id
	c.loadPosts(ctx)
}

// SelectActivity sets the activity filter. The category filter is kept.
func (c *Home) SelectActivity(ctx context.Context, a service.Activity) {
	c.pump(ctx)
	c.filter.Activity = a
	c.loadPosts(ctx)
}

// React likes or dislikes a post and refreshes its reactions.
func (c *Home) React(ctx context.Context, postID uuid.UUID, p model.Polarity) {
	if c.pump(ctx) {
		c.load(ctx)
	}
	if c.session == nil {
		c.notify(model.Failure("Please login to like posts"))
		return
	}

	current, err := c.currentReaction(ctx, postID)
	if err != nil {
		c.logger.Warn("read current reaction failed", zap.Error(err))
		c.notify(model.Failure("Could not update your reaction"))
		return
	}

	gen := c.generation
	snap, err := c.reactions.React(ctx, c.session, model.SubjectPost, postID, current, p)
	if !c.current(gen) {
		return
	}
	if err != nil {
		c.notify(model.Failure("Could not update your reaction"))
	}
	if snap != nil {
		c.applySnapshot(snap)
	}
	if c.filter.Activity == service.ActivityLiked {
		c.loadPosts(ctx)
	}
}

func (c *Home) currentReaction(ctx context.Context, postID uuid.UUID) (*model.Reaction, error) {
	for i := range c.posts {
		if c.posts[i].ID == postID {
			mine, _ := model.FindMine(c.posts[i].Reactions, c.session.UserID)
			return mine, nil
		}
	}
	snap, err := c.reactions.Snapshot(ctx, model.SubjectPost, postID, &c.session.UserID)
	if err != nil {
		return nil, err
	}
	return snap.Mine, nil
}

func (c *Home) applySnapshot(snap *model.ReactionSnapshot) {
	for i := range c.posts {
		if c.posts[i].ID == snap.SubjectID {
			c.posts[i].Reactions = snap.Reactions
			return
		}
	}
}

// load fetches categories and posts in parallel.
func (c *Home) load(ctx context.Context) {
	gen := c.begin()
	viewer, filter := c.viewer(), c.filter

	var (
		categories []model.Category
		posts      []model.Post
		catErr     error
		postErr    error
	)
	var g errgroup.Group
	g.Go(func() error {
		categories, catErr = c.composer.Categories(ctx)
		return nil
	})
	g.Go(func() error {
		posts, postErr = c.composer.ListPosts(ctx, viewer, filter)
		return nil
	})
	_ = g.Wait()

	if !c.current(gen) {
		return
	}

	if catErr != nil {
		c.logger.Error("load categories failed", zap.Error(catErr))
		c.notify(model.Failure("Error loading categories"))
	} else {
		c.categories = categories
	}
	c.finishPosts(posts, postErr)
}

func (c *Home) loadPosts(ctx context.Context) {
	gen := c.begin()
	posts, err := c.composer.ListPosts(ctx, c.viewer(), c.filter)
	if !c.current(gen) {
		return
	}
	c.finishPosts(posts, err)
}

func (c *Home) finishPosts(posts []model.Post, err error) {
	if err != nil {
		c.logger.Error("load posts failed", zap.Error(err))
		c.notify(model.Failure("Error loading posts"))
		c.posts = nil
		c.state = StateError
		return
	}
	c.posts = posts
	c.state = StateReady
}

func (c *Home) viewer() *uuid.UUID {
	if c.session == nil {
		return nil
	}
	id := c.session.UserID
	return &id
}

// Filter returns the active filters.
func (c *Home) Filter() service.PostFilter {
	return c.filter
}

func (c *Home) Categories() []model.Category {
	return c.categories
}

func (c *Home) Posts() []model.Post {
	return c.posts
}
