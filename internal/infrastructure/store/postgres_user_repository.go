package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/inventory-api/internal/domain/user"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// PostgresUserRepository stores users in PostgreSQL
type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, name, email, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID,
		u.Username,
		u.PasswordHash,
		u.Name,
		u.Email,
		u.CreatedAt,
	)
	if err != nil {
		return userConflict(err)
	}
	return nil
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, name, email, created_at
		 FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.Email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

// userConflict maps unique violations to the matching domain error.
func userConflict(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return fmt.Errorf("insert user: %w", err)
	}
	switch pqErr.Constraint {
	case "users_username_key":
		return user.ErrUsernameTaken
	case "users_email_key":
		return user.ErrEmailTaken
	case "users_pkey":
		return user.ErrUserIDTaken
	}
	return fmt.Errorf("insert user: %w", err)
}
