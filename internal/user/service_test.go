package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-matchchat/internal/apperr"
	"go-matchchat/internal/auth"
)

type memStore struct {
	nextID int
	byName map[string]*User
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, byName: map[string]*User{}}
}

func (s *memStore) CreateUser(ctx context.Context, u *User) (*User, error) {
	if _, ok := s.byName[u.Username]; ok {
		return nil, fmt.Errorf("username or email %w", apperr.ErrConflict)
	}
	u.ID = s.nextID
	s.nextID++
	s.byName[u.Username] = u
	return u, nil
}

func (s *memStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	u, ok := s.byName[username]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", apperr.ErrUnauthorized)
	}
	return u, nil
}

func newTestService() (*Service, *memStore, *auth.JWTProvider) {
	store := newMemStore()
	provider := auth.NewJWTProvider("test-secret")
	return NewService(store, provider), store, provider
}

func TestRegister_HashesPassword(t *testing.T) {
	req := require.New(t)
	svc, store, _ := newTestService()

	u, err := svc.Register(context.Background(), &RegisterRequest{Username: "alice", Password: "s3cret"})
	req.NoError(err)
	req.NotZero(u.ID)

	stored := store.byName["alice"]
	req.NotEqual("s3cret", stored.PasswordHash)
	req.NoError(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret")))
}

func TestRegister_Validation(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), &RegisterRequest{Username: "", Password: "x"})
	req.ErrorIs(err, apperr.ErrValidation)

	_, err = svc.Register(context.Background(), &RegisterRequest{Username: "alice", Password: ""})
	req.ErrorIs(err, apperr.ErrValidation)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), &RegisterRequest{Username: "alice", Password: "x"})
	req.NoError(err)

	_, err = svc.Register(context.Background(), &RegisterRequest{Username: "alice", Password: "y"})
	req.ErrorIs(err, apperr.ErrConflict)
}

func TestLogin_IssuesResolvableToken(t *testing.T) {
	req := require.New(t)
	svc, _, provider := newTestService()

	_, err := svc.Register(context.Background(), &RegisterRequest{Username: "alice", Password: "s3cret"})
	req.NoError(err)

	res, err := svc.Login(context.Background(), &LoginRequest{Username: "alice", Password: "s3cret"})
	req.NoError(err)
	req.Equal("alice", res.Username)

	// The token is the session: both layers resolve it via the provider.
	id, ok := provider.Resolve(res.AccessToken)
	req.True(ok)
	req.Equal(auth.Identity{UserID: res.ID, Username: "alice"}, id)
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), &RegisterRequest{Username: "alice", Password: "s3cret"})
	req.NoError(err)

	_, err = svc.Login(context.Background(), &LoginRequest{Username: "alice", Password: "wrong"})
	req.ErrorIs(err, apperr.ErrUnauthorized)

	_, err = svc.Login(context.Background(), &LoginRequest{Username: "nobody", Password: "x"})
	req.ErrorIs(err, apperr.ErrUnauthorized)
}
