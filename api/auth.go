package api

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"taskboard-api/domain"
)

var (
	errMissingToken = errors.New("no token, authorization denied")
	errInvalidToken = errors.New("token is not valid")
)

// tokenUser mirrors the user object embedded in session token claims.
type tokenUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// sessionClaims is the signed payload of a session token.
type sessionClaims struct {
	User tokenUser `json:"user"`
	jwt.RegisteredClaims
}

// Auth signs and verifies HS256 session tokens.
type Auth struct {
	secret []byte
	expiry time.Duration
	parser *jwt.Parser
}

// NewAuth creates an Auth signing tokens with secret that expire after
// the given duration.
func NewAuth(secret []byte, expiry time.Duration) *Auth {
	return &Auth{
		secret: secret,
		expiry: expiry,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})),
	}
}

// Issue signs a session token carrying the user's id and email.
func (a *Auth) Issue(id, email string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		User: tokenUser{ID: id, Email: email},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify checks the signature and expiry of token and returns the
// identity it carries. Every failure maps to errInvalidToken; callers
// distinguish a bad token from an absent one.
func (a *Auth) Verify(token string) (domain.Identity, error) {
	var claims sessionClaims
	parsed, err := a.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.Identity{}, errInvalidToken
	}
	if claims.User.ID == "" {
		return domain.Identity{}, errInvalidToken
	}
	return domain.Identity{ID: claims.User.ID, Email: claims.User.Email}, nil
}
