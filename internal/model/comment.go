package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a reply attached to a post.
type Comment struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	AuthorID  uuid.UUID
	Content   string
	CreatedAt time.Time

	AuthorUsername string
	Reactions      []Reaction
}

// Tally counts likes and dislikes from the comment's reaction list.
func (c *Comment) Tally() Tally {
	return TallyOf(c.Reactions)
}
