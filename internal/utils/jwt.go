package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidToken is returned for any token that fails verification. A bad
// signature and an expired token are deliberately indistinguishable to
// callers; both surface as the same generic "invalid or expired" condition.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenClaims is the claim set carried by the application's tokens.
// Activation, reset and refresh tokens carry only the user id; access tokens
// additionally carry the user's display name and role so the authorization
// gate can admit requests without a store lookup. Each token kind is signed
// with its own secret, so a token issued for one purpose never verifies
// under another kind's check.
type TokenClaims struct {
	UserID   string // hex object id of the user
	FullName string // display name (access tokens only)
	Role     string // role tag (access tokens only)
}

// IssueToken builds and signs an HS256 JWT carrying the given claims with
// the provided TTL. Empty FullName/Role are omitted from the claim set.
func IssueToken(secret string, claims TokenClaims, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	mc := jwt.MapClaims{
		"userId": claims.UserID,
		"exp":    now.Add(ttl).Unix(),
		"iat":    now.Unix(),
	}
	if claims.FullName != "" {
		mc["fullName"] = claims.FullName
	}
	if claims.Role != "" {
		mc["role"] = claims.Role
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	return t.SignedString([]byte(secret))
}

// VerifyToken checks the signature and expiry of a token against the given
// secret and returns its claims. Any failure, including an expired token or
// a token signed for a different purpose, yields ErrInvalidToken.
func VerifyToken(secret, token string) (TokenClaims, error) {
	tok, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return TokenClaims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}
	var claims TokenClaims
	if v, ok := mc["userId"].(string); ok {
		claims.UserID = v
	}
	if claims.UserID == "" {
		return TokenClaims{}, ErrInvalidToken
	}
	if v, ok := mc["fullName"].(string); ok {
		claims.FullName = v
	}
	if v, ok := mc["role"].(string); ok {
		claims.Role = v
	}
	return claims, nil
}
