package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"forumfront/internal/model"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	query := `SELECT id, username, bio, created_at FROM profiles WHERE id = $1`

	var p model.Profile
	err := r.db.GetContext(ctx, &p, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// Update overwrites username and bio. An empty bio is stored as NULL.
func (r *profileRepository) Update(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.Profile, error) {
	query := `
		UPDATE profiles SET username = $2, bio = $3
		WHERE id = $1
		RETURNING id, username, bio, created_at
	`
	var bio *string
	if req.Bio != "" {
		bio = &req.Bio
	}

	var p model.Profile
	err := r.db.GetContext(ctx, &p, query, id, req.Username, bio)
	if err == sql.ErrNoRows {
		return nil, model.ErrProfileNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrUsernameExists
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &p, nil
}
