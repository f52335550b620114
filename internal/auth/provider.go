// Package auth owns the session contract shared by the HTTP layer and the
// websocket handshake: both resolve a bearer token through the same
// SessionProvider instead of reaching into an ambient session object.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is a resolved user session.
type Identity struct {
	UserID   int
	Username string
}

// SessionProvider turns a handshake token into an identity.
// A false return means the connection stays anonymous.
type SessionProvider interface {
	Resolve(token string) (Identity, bool)
}

type sessionClaims struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTProvider issues and resolves HS256 session tokens.
type JWTProvider struct {
	secret string
	ttl    time.Duration
}

func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: secret, ttl: 24 * time.Hour}
}

func (p *JWTProvider) Issue(id Identity) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		ID:       id.UserID,
		Username: id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "go-matchchat",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(p.ttl)),
		},
	})
	return token.SignedString([]byte(p.secret))
}

func (p *JWTProvider) Resolve(tokenString string) (Identity, bool) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(p.secret), nil
	})
	if err != nil || !token.Valid {
		return Identity{}, false
	}
	return Identity{UserID: claims.ID, Username: claims.Username}, true
}
