package match

import (
	"context"
	"fmt"

	"go-matchchat/internal/apperr"
)

// Store is implemented by Repository; tests swap in fakes.
type Store interface {
	CreateMatch(ctx context.Context, a, b int) (int, error)
	Exists(ctx context.Context, a, b int) (bool, error)
	ListCandidates(ctx context.Context, userID int) ([]Candidate, error)
	ListMatches(ctx context.Context, userID int) ([]Partner, error)
}

type Service struct {
	repo Store
}

func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, userID, targetID int) (int, error) {
	if targetID <= 0 {
		return 0, fmt.Errorf("target user id required: %w", apperr.ErrValidation)
	}
	if targetID == userID {
		return 0, fmt.Errorf("cannot match with yourself: %w", apperr.ErrValidation)
	}
	return s.repo.CreateMatch(ctx, userID, targetID)
}

func (s *Service) Candidates(ctx context.Context, userID int) ([]Candidate, error) {
	return s.repo.ListCandidates(ctx, userID)
}

func (s *Service) Matches(ctx context.Context, userID int) ([]Partner, error) {
	return s.repo.ListMatches(ctx, userID)
}

// Matched reports whether the two users share a match. Both the join path
// and the send path gate on this.
func (s *Service) Matched(ctx context.Context, a, b int) (bool, error) {
	return s.repo.Exists(ctx, a, b)
}
