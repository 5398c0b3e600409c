package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campus-events/server/internal/domain/users"
)

var _ users.Repository = (*UserRepository)(nil)

const uniqueViolation = "23505"

func (r *UserRepository) Create(ctx context.Context, params users.CreateParams) (*users.User, error) {
	user := users.User{
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
	}

	err := r.queryer().QueryRow(ctx, `
INSERT INTO users (name, email, password_hash, role)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`,
		params.Name, params.Email, params.PasswordHash, params.Role,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, users.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.getOne(ctx, "email = $1", email)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*users.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*users.User, error) {
	var user users.User
	err := r.queryer().QueryRow(ctx, `
SELECT id, name, email, password_hash, role, created_at
  FROM users
 WHERE `+where, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, users.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}
