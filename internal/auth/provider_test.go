package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJWTProvider_RoundTrip(t *testing.T) {
	req := require.New(t)
	p := NewJWTProvider("test-secret")

	token, err := p.Issue(Identity{UserID: 7, Username: "alice"})
	req.NoError(err)
	req.NotEmpty(token)

	id, ok := p.Resolve(token)
	req.True(ok)
	req.Equal(Identity{UserID: 7, Username: "alice"}, id)
}

func TestJWTProvider_RejectsBadTokens(t *testing.T) {
	req := require.New(t)
	p := NewJWTProvider("test-secret")

	_, ok := p.Resolve("not-a-token")
	req.False(ok)

	// Token signed with a different secret.
	other := NewJWTProvider("other-secret")
	token, err := other.Issue(Identity{UserID: 7, Username: "alice"})
	req.NoError(err)
	_, ok = p.Resolve(token)
	req.False(ok)
}

func TestMiddleware_Require(t *testing.T) {
	req := require.New(t)
	p := NewJWTProvider("test-secret")
	mw := NewMiddleware(p)

	var seen Identity
	handler := mw.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
	}))

	// No token.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	req.Equal(http.StatusUnauthorized, rec.Code)

	// Invalid token.
	rec = httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer garbage")
	handler.ServeHTTP(rec, r)
	req.Equal(http.StatusUnauthorized, rec.Code)

	// Valid token via header.
	token, err := p.Issue(Identity{UserID: 3, Username: "bob"})
	req.NoError(err)
	rec = httptest.NewRecorder()
	r = httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, r)
	req.Equal(http.StatusOK, rec.Code)
	req.Equal(Identity{UserID: 3, Username: "bob"}, seen)

	// Valid token via query param, the websocket client path.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/?token="+token, nil))
	req.Equal(http.StatusOK, rec.Code)
}

func TestMiddleware_Optional(t *testing.T) {
	req := require.New(t)
	p := NewJWTProvider("test-secret")
	mw := NewMiddleware(p)

	var seen Identity
	var resolved bool
	handler := mw.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, resolved = FromContext(r.Context())
	}))

	// Anonymous requests pass through without an identity.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	req.Equal(http.StatusOK, rec.Code)
	req.False(resolved)

	token, err := p.Issue(Identity{UserID: 3, Username: "bob"})
	req.NoError(err)
	rec = httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, r)
	req.True(resolved)
	req.Equal(Identity{UserID: 3, Username: "bob"}, seen)
}
