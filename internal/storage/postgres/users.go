package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sarmini1/messagely/internal/models"
	"github.com/sarmini1/messagely/internal/storage"
)

// CreateUser inserts a new user row. The username uniqueness is
// enforced by the primary key, so concurrent registrations of the
// same name resolve to exactly one winner.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (username, password_hash, first_name, last_name, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING username, password_hash, first_name, last_name, phone, joined_at, last_login_at;
	`
	row := s.db.QueryRow(ctx, query,
		user.Username, user.PasswordHash, user.FirstName, user.LastName, user.Phone)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

// GetUser fetches a user by username.
func (s *Store) GetUser(ctx context.Context, username string) (models.User, error) {
	const query = `
		SELECT username, password_hash, first_name, last_name, phone, joined_at, last_login_at
		FROM users
		WHERE username = $1;
	`
	return scanUser(s.db.QueryRow(ctx, query, username))
}

// ListUsers returns the public projection of every user. The store
// does not guarantee a stable row order, so one is imposed here.
func (s *Store) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	const query = `
		SELECT username, first_name, last_name
		FROM users
		ORDER BY username ASC;
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.UserSummary{}
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.Username, &u.FirstName, &u.LastName); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// TouchLastLogin stamps last_login_at for the user. Updating an
// unknown username surfaces as ErrNotFound rather than a silent
// no-op.
func (s *Store) TouchLastLogin(ctx context.Context, username string) error {
	const query = `
		UPDATE users
		SET last_login_at = NOW()
		WHERE username = $1;
	`
	tag, err := s.db.Exec(ctx, query, username)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.Username, &user.PasswordHash, &user.FirstName,
		&user.LastName, &user.Phone, &user.JoinedAt, &user.LastLoginAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
