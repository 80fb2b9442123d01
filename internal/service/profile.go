package service

import (
	"context"

	"go.uber.org/zap"

	"forumfront/internal/model"
	"forumfront/internal/repository"
	"forumfront/internal/validation"
)

type ProfileService struct {
	profiles repository.ProfileRepository
	logger   *zap.Logger
}

func NewProfileService(profiles repository.ProfileRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, logger: logger.Named("profile")}
}

// Get loads the viewer's own profile.
func (s *ProfileService) Get(ctx context.Context, viewer *model.Session) (*model.Profile, error) {
	if viewer == nil {
		return nil, model.ErrAuthRequired
	}
	return s.profiles.GetByID(ctx, viewer.UserID)
}

// Update validates both fields and writes them. Validation failures come
// back as validation.Errors with every failed field.
func (s *ProfileService) Update(ctx context.Context, viewer *model.Session, username, bio string) (*model.Profile, error) {
	if viewer == nil {
		return nil, model.ErrAuthRequired
	}

	in, err := validation.CheckProfile(username, bio)
	if err != nil {
		return nil, err
	}

	p, err := s.profiles.Update(ctx, viewer.UserID, model.UpdateProfileRequest{
		Username: in.Username,
		Bio:      in.Bio,
	})
	if err != nil {
		s.logger.Error("update profile failed", zap.String("user_id", viewer.UserID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("profile updated", zap.String("user_id", viewer.UserID.String()))
	return p, nil
}
