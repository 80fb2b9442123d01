package controller

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"forumfront/internal/model"
	"forumfront/internal/service"
	"forumfront/internal/session"
	"forumfront/internal/validation"
)

// PostForm holds the create-post form fields as typed.
type PostForm struct {
	Title      string
	Content    string
	CategoryID *uuid.UUID
}

// CreatePost is the new-post form. It requires a session.
type CreatePost struct {
	page
	composer *service.QueryComposer
	posts    *service.PostService

	categories []model.Category
	form       PostForm
	created    *model.Post
}

func NewCreatePost(sessions session.Provider, composer *service.QueryComposer, posts *service.PostService, logger *zap.Logger) *CreatePost {
	return &CreatePost{
		page:     page{sessions: sessions, logger: logger.Named("create_post")},
		composer: composer,
		posts:    posts,
	}
}

func (c *CreatePost) Mount(ctx context.Context, token string) {
	c.attach(ctx, token)
	c.load(ctx)
}

func (c *CreatePost) Unmount() {
	c.detach()
}

func (c *CreatePost) SessionChanged(ctx context.Context, token string) {
	c.resolve(ctx, token)
	c.load(ctx)
}

func (c *CreatePost) load(ctx context.Context) {
	if c.session == nil {
		c.state = StateUnauthenticated
		return
	}

	gen := c.begin()
	categories, err := c.composer.Categories(ctx)
	if !c.current(gen) {
		return
	}
	if err != nil {
		c.logger.Error("load categories failed", zap.Error(err))
		c.notify(model.Failure("Error loading categories"))
		c.state = StateError
		return
	}
	c.categories = categories
	c.state = StateReady
}

// Submit validates and creates the post. It reports whether the post was created.
func (c *CreatePost) Submit(ctx context.Context, form PostForm) bool {
	c.pump(ctx)
	c.form = form
	if c.session == nil {
		c.state = StateUnauthenticated
		return false
	}

	post, err := c.posts.Create(ctx, c.session, form.Title, form.Content, form.CategoryID)
	var ve *validation.Error
	switch {
	case err == nil:
		c.created = post
		c.form = PostForm{}
		c.notify(model.Success("Post created successfully!"))
		return true
	case errors.As(err, &ve):
		c.notify(model.Failure(ve.Message))
	case errors.Is(err, service.ErrCategoryRequired):
		c.notify(model.Failure("Please select a category"))
	default:
		c.notify(model.Failure("Error creating post"))
	}
	return false
}

func (c *CreatePost) Categories() []model.Category {
	return c.categories
}

func (c *CreatePost) Form() PostForm {
	return c.form
}

// Created returns the post made by the last successful Submit.
func (c *CreatePost) Created() *model.Post {
	return c.created
}
