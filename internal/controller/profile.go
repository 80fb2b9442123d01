package controller

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"forumfront/internal/model"
	"forumfront/internal/service"
	"forumfront/internal/session"
	"forumfront/internal/validation"
)

// ProfileForm holds the editable profile fields.
type ProfileForm struct {
	Username string
	Bio      string
}

// Profile edits the viewer's own profile. It requires a session.
type Profile struct {
	page
	profiles *service.ProfileService

	profile *model.Profile
	form    ProfileForm
}

func NewProfile(sessions session.Provider, profiles *service.ProfileService, logger *zap.Logger) *Profile {
	return &Profile{
		page:     page{sessions: sessions, logger: logger.Named("profile")},
		profiles: profiles,
	}
}

func (c *Profile) Mount(ctx context.Context, token string) {
	c.attach(ctx, token)
	c.load(ctx)
}

func (c *Profile) Unmount() {
	c.detach()
}

func (c *Profile) SessionChanged(ctx context.Context, token string) {
	c.resolve(ctx, token)
	c.load(ctx)
}

func (c *Profile) load(ctx context.Context) {
	if c.session == nil {
		c.state = StateUnauthenticated
		return
	}

	gen := c.begin()
	p, err := c.profiles.Get(ctx, c.session)
	if !c.current(gen) {
		return
	}
	if err != nil {
		c.logger.Error("load profile failed", zap.Error(err))
		c.notify(model.Failure("Error loading profile"))
		c.state = StateError
		return
	}
	c.setProfile(p)
	c.state = StateReady
}

func (c *Profile) setProfile(p *model.Profile) {
	c.profile = p
	c.form = ProfileForm{Username: p.Username, Bio: p.BioText()}
}

// Submit validates and saves the profile form.
func (c *Profile) Submit(ctx context.Context, form ProfileForm) bool {
	c.pump(ctx)
	c.form = form
	if c.session == nil {
		c.state = StateUnauthenticated
		return false
	}

	p, err := c.profiles.Update(ctx, c.session, form.Username, form.Bio)
	var verrs validation.Errors
	switch {
	case err == nil:
		c.setProfile(p)
		c.notify(model.Success("Profile updated successfully!"))
		return true
	case errors.As(err, &verrs):
		c.notify(model.Failure(verrs.Error()))
	case errors.Is(err, model.ErrUsernameExists):
		c.notify(model.Failure("Username is already taken"))
	default:
		c.notify(model.Failure("Error updating profile"))
	}
	return false
}

func (c *Profile) Profile() *model.Profile {
	return c.profile
}

func (c *Profile) Form() ProfileForm {
	return c.form
}
