package match

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"go-matchchat/internal/apperr"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// canonical orders a pair to match the storage invariant user1_id < user2_id.
func canonical(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

// CreateMatch inserts the pair in a single conditional statement. The unique
// constraint on (user1_id, user2_id) is the correctness guarantee under
// concurrent callers; ON CONFLICT DO NOTHING turns the loser's insert into
// zero rows, which surfaces here as ErrNoRows.
func (r *Repository) CreateMatch(ctx context.Context, a, b int) (int, error) {
	lo, hi := canonical(a, b)

	var id int
	query := `INSERT INTO matches (user1_id, user2_id) VALUES ($1, $2)
	          ON CONFLICT (user1_id, user2_id) DO NOTHING RETURNING id`
	err := r.db.QueryRowContext(ctx, query, lo, hi).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("match %w", apperr.ErrConflict)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return 0, fmt.Errorf("no such user: %w", apperr.ErrValidation)
		}
		return 0, err
	}
	return id, nil
}

// Exists reports whether the unordered pair is matched.
func (r *Repository) Exists(ctx context.Context, a, b int) (bool, error) {
	lo, hi := canonical(a, b)

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM matches WHERE user1_id = $1 AND user2_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, lo, hi).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListCandidates returns every user except userID and anyone already
// matched with userID in either column.
func (r *Repository) ListCandidates(ctx context.Context, userID int) ([]Candidate, error) {
	query := `
		SELECT id, username FROM users
		WHERE id != $1
		AND id NOT IN (
			SELECT user2_id FROM matches WHERE user1_id = $1
			UNION
			SELECT user1_id FROM matches WHERE user2_id = $1
		)
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []Candidate{}
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.Username); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// ListMatches returns the partner side of every match touching userID,
// whichever stored column holds them.
func (r *Repository) ListMatches(ctx context.Context, userID int) ([]Partner, error) {
	query := `
		SELECT
			m.id,
			CASE WHEN m.user1_id = $1 THEN u2.id ELSE u1.id END,
			CASE WHEN m.user1_id = $1 THEN u2.username ELSE u1.username END
		FROM matches m
		JOIN users u1 ON m.user1_id = u1.id
		JOIN users u2 ON m.user2_id = u2.id
		WHERE m.user1_id = $1 OR m.user2_id = $1
		ORDER BY m.id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	partners := []Partner{}
	for rows.Next() {
		var p Partner
		if err := rows.Scan(&p.MatchID, &p.UserID, &p.Username); err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}
