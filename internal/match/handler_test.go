package match

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"go-matchchat/internal/auth"
)

type fakeSessions struct {
	tokens map[string]auth.Identity
}

func (f *fakeSessions) Resolve(token string) (auth.Identity, bool) {
	id, ok := f.tokens[token]
	return id, ok
}

func newTestRouter(store Store) http.Handler {
	handler := NewHandler(NewService(store))
	mw := auth.NewMiddleware(&fakeSessions{tokens: map[string]auth.Identity{
		"token-1": {UserID: 1, Username: "alice"},
	}})

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(mw.Require)
		r.Get("/api/users", handler.Candidates)
		r.Post("/api/match", handler.Create)
		r.Get("/api/matches", handler.List)
	})
	return r
}

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_RequiresAuth(t *testing.T) {
	req := require.New(t)
	r := newTestRouter(threeUsers())

	req.Equal(http.StatusUnauthorized, do(t, r, "GET", "/api/users", "", "").Code)
	req.Equal(http.StatusUnauthorized, do(t, r, "POST", "/api/match", "", `{"targetUserId":2}`).Code)
	req.Equal(http.StatusUnauthorized, do(t, r, "GET", "/api/matches", "bogus", "").Code)
}

func TestHandler_CreateMatch(t *testing.T) {
	req := require.New(t)
	r := newTestRouter(threeUsers())

	rec := do(t, r, "POST", "/api/match", "token-1", `{"targetUserId":2}`)
	req.Equal(http.StatusOK, rec.Code)

	var res struct {
		MatchID int `json:"matchId"`
	}
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	req.NotZero(res.MatchID)

	// Missing field and duplicate both surface as 400.
	req.Equal(http.StatusBadRequest, do(t, r, "POST", "/api/match", "token-1", `{}`).Code)
	req.Equal(http.StatusBadRequest, do(t, r, "POST", "/api/match", "token-1", `{"targetUserId":2}`).Code)
}

func TestHandler_CandidatesShrinkAfterMatch(t *testing.T) {
	req := require.New(t)
	r := newTestRouter(threeUsers())

	rec := do(t, r, "GET", "/api/users", "token-1", "")
	req.Equal(http.StatusOK, rec.Code)
	var candidates []Candidate
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &candidates))
	req.Len(candidates, 2)

	req.Equal(http.StatusOK, do(t, r, "POST", "/api/match", "token-1", `{"targetUserId":2}`).Code)

	rec = do(t, r, "GET", "/api/users", "token-1", "")
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &candidates))
	req.Equal([]Candidate{{ID: 3, Username: "carol"}}, candidates)
}

func TestHandler_ListMatches(t *testing.T) {
	req := require.New(t)
	r := newTestRouter(threeUsers())

	req.Equal(http.StatusOK, do(t, r, "POST", "/api/match", "token-1", `{"targetUserId":3}`).Code)

	rec := do(t, r, "GET", "/api/matches", "token-1", "")
	req.Equal(http.StatusOK, rec.Code)

	var partners []Partner
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &partners))
	req.Len(partners, 1)
	req.Equal(3, partners[0].UserID)
	req.Equal("carol", partners[0].Username)
}
