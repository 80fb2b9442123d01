package model

import "github.com/google/uuid"

// Category groups posts. Color is a display token such as "blue" or "#3b82f6".
type Category struct {
	ID    uuid.UUID `db:"id"`
	Name  string    `db:"name"`
	Color string    `db:"color"`
}

// CategoryBadge is the part of a category rendered next to a post.
type CategoryBadge struct {
	Name  string `db:"name"`
	Color string `db:"color"`
}
