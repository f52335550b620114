package user

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

func (r *Repository) CreateUser(ctx context.Context, u *User) (*User, error) {
	var id int
	query := `INSERT INTO users (username, password_hash, email, phone)
	          VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, '')) RETURNING id`

	err := r.db.QueryRowContext(ctx, query, u.Username, u.PasswordHash, u.Email, u.Phone).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("username or email %w", apperr.ErrConflict)
		}
		return nil, err
	}

	u.ID = id
	return u, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	u := &User{}
	query := `SELECT id, username, password_hash, COALESCE(email, ''), COALESCE(phone, '')
	          FROM users WHERE username = $1`

	err := r.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", apperr.ErrUnauthorized)
		}
		return nil, err
	}

	return u, nil
}
