package model

import "errors"

var (
	// ErrPostNotFound is returned when a post cannot be found
	ErrPostNotFound = errors.New("post not found")

	// ErrProfileNotFound is returned when a profile cannot be found
	ErrProfileNotFound = errors.New("profile not found")

	// ErrCommentNotFound is returned when a comment cannot be found
	ErrCommentNotFound = errors.New("comment not found")

	// ErrReactionNotFound is returned when updating or deleting a reaction that no longer exists
	ErrReactionNotFound = errors.New("reaction not found")

	// ErrDuplicateReaction is returned when the store rejects a second reaction by the same user
	ErrDuplicateReaction = errors.New("reaction already exists")

	// ErrUsernameExists is returned when another profile already owns the username
	ErrUsernameExists = errors.New("username already exists")

	// ErrAuthRequired is returned when an operation needs a signed-in user
	ErrAuthRequired = errors.New("must be logged in")

	// ErrMalformedRecord is returned when a row from the store does not match the expected shape
	ErrMalformedRecord = errors.New("malformed record")

	// ErrInvalidToken is returned when an access token cannot be verified
	ErrInvalidToken = errors.New("invalid access token")

	// ErrTokenExpired is returned when an access token is past its expiry
	ErrTokenExpired = errors.New("access token expired")

	// ErrSessionRevoked is returned when the session behind a token was signed out
	ErrSessionRevoked = errors.New("session revoked")
)
