package model

import (
	"time"

	"github.com/google/uuid"
)

// Post is a forum post with its expanded relations.
type Post struct {
	ID         uuid.UUID
	Title      string
	Content    string
	AuthorID   uuid.UUID
	CategoryID *uuid.UUID
	CreatedAt  time.Time

	// Expanded fields (not in posts table)
	AuthorUsername string
	Category       *CategoryBadge
	Categories     []CategoryBadge
	Reactions      []Reaction
	CommentIDs     []uuid.UUID
}

// Tally counts likes and dislikes from the post's reaction list.
func (p *Post) Tally() Tally {
	return TallyOf(p.Reactions)
}

// CommentCount returns the number of comments on the post.
func (p *Post) CommentCount() int {
	return len(p.CommentIDs)
}

// CreatePostRequest carries already-validated post fields.
type CreatePostRequest struct {
	Title      string
	Content    string
	CategoryID uuid.UUID
}
