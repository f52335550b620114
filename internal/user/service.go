package user

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"go-matchchat/internal/apperr"
	"go-matchchat/internal/auth"
)

// Store is the persistence surface the service needs; tests swap in fakes.
type Store interface {
	CreateUser(ctx context.Context, u *User) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// TokenIssuer mints session tokens for a resolved identity.
type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

type Service struct {
	repo   Store
	tokens TokenIssuer
}

func NewService(repo Store, tokens TokenIssuer) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
	}
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("username and password are required: %w", apperr.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Username:     req.Username,
		PasswordHash: string(hashed),
		Email:        req.Email,
		Phone:        req.Phone,
	}

	return s.repo.CreateUser(ctx, u)
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("username and password are required: %w", apperr.ErrValidation)
	}

	u, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	}

	token, err := s.tokens.Issue(auth.Identity{UserID: u.ID, Username: u.Username})
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken: token,
		ID:          u.ID,
		Username:    u.Username,
	}, nil
}
