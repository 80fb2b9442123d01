package model

import (
	"fmt"

	"github.com/google/uuid"
)

// SubjectKind identifies what a reaction is attached to.
type SubjectKind string

const (
	SubjectPost    SubjectKind = "post"
	SubjectComment SubjectKind = "comment"
)

// Polarity is the direction of a reaction.
type Polarity int

const (
	Like Polarity = iota + 1
	Dislike
)

// PolarityOf converts the stored is_like flag into a Polarity.
func PolarityOf(isLike bool) Polarity {
	if isLike {
		return Like
	}
	return Dislike
}

// ParsePolarity parses a form value: "like" or "dislike".
func ParsePolarity(s string) (Polarity, error) {
	switch s {
	case "like":
		return Like, nil
	case "dislike":
		return Dislike, nil
	}
	return 0, fmt.Errorf("unknown polarity %q", s)
}

// IsLike reports whether p is stored as is_like=true.
func (p Polarity) IsLike() bool {
	return p == Like
}

// Opposite returns the other polarity.
func (p Polarity) Opposite() Polarity {
	if p == Like {
		return Dislike
	}
	return Like
}

func (p Polarity) String() string {
	switch p {
	case Like:
		return "like"
	case Dislike:
		return "dislike"
	}
	return "none"
}

// Reaction is a row of post_likes or comment_likes.
type Reaction struct {
	ID        uuid.UUID `db:"id"`
	SubjectID uuid.UUID `db:"subject_id"`
	UserID    uuid.UUID `db:"user_id"`
	IsLike    bool      `db:"is_like"`
}

// Polarity returns the reaction's direction.
func (r Reaction) Polarity() Polarity {
	return PolarityOf(r.IsLike)
}

// Tally is the like/dislike count of a subject.
type Tally struct {
	Likes    int
	Dislikes int
}

// TallyOf counts likes (is_like=true) and dislikes (is_like=false).
func TallyOf(reactions []Reaction) Tally {
	var t Tally
	for _, r := range reactions {
		if r.IsLike {
			t.Likes++
		} else {
			t.Dislikes++
		}
	}
	return t
}

// ReactionSnapshot is the state of one subject read in a single query:
// every reaction on it plus the viewer's own, if any.
type ReactionSnapshot struct {
	Kind      SubjectKind
	SubjectID uuid.UUID
	Reactions []Reaction
	Mine      *Reaction
}

// Tally counts the snapshot's reactions.
func (s *ReactionSnapshot) Tally() Tally {
	return TallyOf(s.Reactions)
}

// FindMine returns the first reaction by userID and how many such reactions exist.
func FindMine(reactions []Reaction, userID uuid.UUID) (*Reaction, int) {
	var mine *Reaction
	n := 0
	for i := range reactions {
		if reactions[i].UserID != userID {
			continue
		}
		if mine == nil {
			r := reactions[i]
			mine = &r
		}
		n++
	}
	return mine, n
}
