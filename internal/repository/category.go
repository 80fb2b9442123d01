package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"forumfront/internal/model"
)

type categoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// List returns all categories ordered by name.
func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.SelectContext(ctx, &categories, `SELECT id, name, color FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
