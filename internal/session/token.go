package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"forumfront/internal/model"
)

// AccessClaims are the claims the hosted auth provider puts in access tokens.
type AccessClaims struct {
	Email     string `json:"email,omitempty"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 access tokens signed with the project's JWT secret.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret), now: time.Now}
}

// Verify parses token and returns the session it describes.
func (v *Verifier) Verify(token string) (*model.Session, error) {
	var claims AccessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, model.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", model.ErrInvalidToken)
	}
	if claims.SessionID == "" {
		return nil, fmt.Errorf("%w: missing session_id", model.ErrInvalidToken)
	}

	return &model.Session{
		UserID:      userID,
		SessionID:   claims.SessionID,
		Email:       claims.Email,
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// Sign issues a token for claims. Used by tests and local development.
func (v *Verifier) Sign(claims AccessClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
