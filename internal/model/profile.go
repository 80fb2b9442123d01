package model

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the public identity of a user. Its id equals the auth user id.
type Profile struct {
	ID        uuid.UUID `db:"id"`
	Username  string    `db:"username"`
	Bio       *string   `db:"bio"`
	CreatedAt time.Time `db:"created_at"`
}

// BioText returns the bio or an empty string.
func (p *Profile) BioText() string {
	if p.Bio == nil {
		return ""
	}
	return *p.Bio
}

// UpdateProfileRequest carries already-validated profile fields.
type UpdateProfileRequest struct {
	Username string
	Bio      string
}
